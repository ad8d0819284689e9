// Package wrappergen renders typed Go bindings for the tools an MCP server
// exposes. Each tool becomes one generated file under servers/{server}/, plus
// one aggregate index per server. Generation goes schema -> type model -> Go
// renderer; untranslatable schema nodes degrade to untyped values instead of
// failing the run, and regeneration against an unchanged catalog is
// byte-identical.
package wrappergen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/vikashloomba/mcp-code-execution-go/pkg/mcpexec"
	"github.com/vikashloomba/mcp-code-execution-go/pkg/typemodel"
)

// generatedMarker distinguishes synthesizer output from hand-authored files.
// Files without it are never overwritten.
const generatedMarker = "Code generated by mcpexec; DO NOT EDIT."

// Import paths compiled into generated files.
const (
	runtimeImport = "github.com/vikashloomba/mcp-code-execution-go/pkg/mcpexec"
	jsonvalImport = "github.com/vikashloomba/mcp-code-execution-go/pkg/jsonval"
)

// synthesizeParallelism bounds concurrent server connections during Synthesize.
const synthesizeParallelism = 4

// WrapperSpec describes one generated wrapper.
type WrapperSpec struct {
	ToolID   string
	Server   string
	Tool     string
	FuncName string
	FileName string
	// ParamType and ResultType are the translated models; ResultType is nil
	// when the tool declares no output schema.
	ParamType  *typemodel.Type
	ResultType *typemodel.Type
	// Strategy is the normalization strategy the server was bound to when the
	// wrapper was generated. Informational; the wrapper resolves the binding
	// at call time.
	Strategy string
	Safety   Safety
	// Diagnostics lists schema nodes that fell back to untyped values.
	Diagnostics []typemodel.Diagnostic
	// Skipped is set when an existing hand-authored file blocked the write.
	Skipped bool
}

var toolFileTmpl = template.Must(template.New("tool").Parse(`// {{.Marker}}
// Tool "{{.Tool}}" on server "{{.Server}}".

package {{.Package}}

import (
{{- range .Imports}}
	{{printf "%q" .}}
{{- end}}
)

{{range .Decls}}{{.}}
{{end -}}
{{.Arguments}}
{{- if .Validate}}
{{.Validate}}
{{- end}}
{{.Func}}`))

var indexFileTmpl = template.Must(template.New("index").Parse(`// {{.Marker}}

package {{.Package}}

// ToolInfo describes one generated wrapper in this package.
type ToolInfo struct {
	ID          string
	Func        string
	Description string
	Safety      string
}

// Tools indexes every wrapper generated for this server.
var Tools = []ToolInfo{
{{- range .Tools}}
	{ID: {{printf "%q" .ToolID}}, Func: {{printf "%q" .FuncName}}, Description: {{printf "%q" .Description}}, Safety: {{printf "%q" .Safety}}},
{{- end}}
}
`))

// GenerateServer renders wrappers for one server's catalog into
// outDir/{package}/. It is pure given the catalog: the same tools produce the
// same bytes. Existing files without the generated marker are left alone and
// reported via WrapperSpec.Skipped.
func GenerateServer(server string, tools []*mcp.Tool, outDir string) ([]WrapperSpec, error) {
	pkg := packageName(server)
	dir := filepath.Join(outDir, pkg)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("wrappergen: create %s: %w", dir, err)
	}

	sorted := make([]*mcp.Tool, 0, len(tools))
	for _, t := range tools {
		if t != nil {
			sorted = append(sorted, t)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	specs := make([]WrapperSpec, 0, len(sorted))
	descriptions := make(map[string]string, len(sorted))
	for _, tool := range sorted {
		content, spec, err := renderTool(server, pkg, tool)
		if err != nil {
			return nil, err
		}
		spec.Skipped, err = writeGenerated(filepath.Join(dir, spec.FileName), content)
		if err != nil {
			return nil, err
		}
		descriptions[tool.Name] = tool.Description
		specs = append(specs, spec)
	}

	index, err := renderIndex(pkg, specs, descriptions)
	if err != nil {
		return nil, err
	}
	if _, err := writeGenerated(filepath.Join(dir, "tools.go"), index); err != nil {
		return nil, err
	}
	return specs, nil
}

// Synthesize connects to the named servers (all enabled servers when the list
// is empty) and generates wrappers for each. Servers are processed
// concurrently; one server's failure does not stop the others, and all
// failures come back joined.
func Synthesize(ctx context.Context, rt *mcpexec.Runtime, servers []string, outDir string) (map[string][]WrapperSpec, error) {
	if len(servers) == 0 {
		servers = rt.Config().EnabledServerNames()
	}

	var (
		mu   sync.Mutex
		all  = make(map[string][]WrapperSpec, len(servers))
		errs []error
	)
	g := &errgroup.Group{}
	g.SetLimit(synthesizeParallelism)
	for _, server := range servers {
		g.Go(func() error {
			catalog, err := rt.Manager().EnsureConnected(ctx, server)
			if err == nil {
				var specs []WrapperSpec
				specs, err = GenerateServer(server, catalog, outDir)
				if err == nil {
					strategy := rt.Normalizers().StrategyFor(server)
					for i := range specs {
						specs[i].Strategy = strategy
					}
					mu.Lock()
					all[server] = specs
					mu.Unlock()
					return nil
				}
			}
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return all, errors.Join(errs...)
}

// writeGenerated writes content to path unless an existing file lacks the
// generated marker. It reports whether the write was skipped.
func writeGenerated(path string, content []byte) (skipped bool, err error) {
	existing, err := os.ReadFile(path)
	if err == nil {
		if !bytes.Contains(existing, []byte(generatedMarker)) {
			return true, nil
		}
		if bytes.Equal(existing, content) {
			return false, nil
		}
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("wrappergen: read %s: %w", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, fmt.Errorf("wrappergen: write %s: %w", path, err)
	}
	return false, nil
}

func renderTool(server, pkg string, tool *mcp.Tool) ([]byte, WrapperSpec, error) {
	funcName := exportIdent(tool.Name)
	spec := WrapperSpec{
		ToolID:   mcpexec.ToolID(server, tool.Name),
		Server:   server,
		Tool:     tool.Name,
		FuncName: funcName,
		FileName: toolFileName(tool.Name),
		Safety:   Classify(tool),
		Strategy: "identity",
	}

	inputSchema, _ := tool.InputSchema.(*jsonschema.Schema)
	paramType, paramDiags := typemodel.Translate(tool.Name+".params", inputSchema)
	spec.ParamType = paramType
	spec.Diagnostics = append(spec.Diagnostics, paramDiags...)

	if outputSchema, ok := tool.OutputSchema.(*jsonschema.Schema); ok && outputSchema != nil {
		resultType, resultDiags := typemodel.Translate(tool.Name+".result", outputSchema)
		spec.ResultType = resultType
		spec.Diagnostics = append(spec.Diagnostics, resultDiags...)
	}

	r := newGoRenderer()
	var (
		paramsName  string
		structParam bool
	)
	if paramType.Kind == typemodel.KindRecord {
		structParam = true
		paramsName = r.recordDecl(paramType)
	}

	resultExpr, resultZero, typedResult := resultShape(r, spec.ResultType)

	enums := collectEnumFields(paramType)
	var validate string
	if structParam && len(enums) > 0 {
		validate = renderValidate(paramsName, enums)
	}

	var arguments string
	if structParam {
		arguments = renderArguments(r, paramsName, paramType)
	}

	fn := renderFunc(funcBody{
		server:      server,
		toolID:      spec.ToolID,
		funcName:    funcName,
		description: tool.Description,
		paramsName:  paramsName,
		structParam: structParam,
		hasValidate: validate != "",
		resultExpr:  resultExpr,
		resultZero:  resultZero,
		typedResult: typedResult,
	})

	imports := []string{"context"}
	if validate != "" {
		imports = append(imports, "fmt")
	}
	imports = append(imports, runtimeImport)
	if !typedResult {
		imports = append(imports, jsonvalImport)
	}

	var buf bytes.Buffer
	err := toolFileTmpl.Execute(&buf, map[string]any{
		"Marker":    generatedMarker,
		"Tool":      tool.Name,
		"Server":    server,
		"Package":   pkg,
		"Imports":   imports,
		"Decls":     r.decls,
		"Arguments": arguments,
		"Validate":  validate,
		"Func":      fn,
	})
	if err != nil {
		return nil, spec, fmt.Errorf("wrappergen: render %s: %w", spec.ToolID, err)
	}
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, spec, fmt.Errorf("wrappergen: format %s: %w", spec.ToolID, err)
	}
	return formatted, spec, nil
}

// resultShape decides the wrapper's return type: a typed value when the tool
// declared a translatable output schema, otherwise jsonval.Value.
func resultShape(r *goRenderer, resultType *typemodel.Type) (expr, zero string, typed bool) {
	if resultType == nil || resultType.IsUnknown() {
		return "jsonval.Value", "jsonval.Value{}", false
	}
	expr = r.typeExpr(resultType, false)
	return expr, "out", true
}

func renderArguments(r *goRenderer, paramsName string, record *typemodel.Type) string {
	var b strings.Builder
	fmt.Fprintf(&b, "func (p %s) arguments() map[string]any {\n", paramsName)
	b.WriteString("\targs := make(map[string]any)\n")
	for _, f := range record.Fields {
		resolved, optional := resolveOptional(f.Type, !f.Required)
		goName := fieldName(f.JSONName)
		value := "p." + goName
		isEnum := resolved != nil && resolved.Kind == typemodel.KindEnum
		switch {
		case optional && pointerWhenOptional(resolved):
			deref := "*" + value
			if isEnum {
				deref = "string(" + deref + ")"
			}
			fmt.Fprintf(&b, "\tif %s != nil {\n\t\targs[%q] = %s\n\t}\n", value, f.JSONName, deref)
		case optional:
			fmt.Fprintf(&b, "\tif %s != nil {\n\t\targs[%q] = %s\n\t}\n", value, f.JSONName, value)
		default:
			if isEnum {
				value = "string(" + value + ")"
			}
			fmt.Fprintf(&b, "\targs[%q] = %s\n", f.JSONName, value)
		}
	}
	b.WriteString("\treturn args\n}\n")
	return b.String()
}

func renderValidate(paramsName string, enums []enumField) string {
	var b strings.Builder
	fmt.Fprintf(&b, "func (p %s) validate() error {\n", paramsName)
	for _, e := range enums {
		if e.optional {
			fmt.Fprintf(&b, "\tif p.%s != nil && !p.%s.valid() {\n\t\treturn fmt.Errorf(\"invalid value %%q for %s\", *p.%s)\n\t}\n",
				e.goName, e.goName, e.goName, e.goName)
			continue
		}
		fmt.Fprintf(&b, "\tif !p.%s.valid() {\n\t\treturn fmt.Errorf(\"invalid value %%q for %s\", p.%s)\n\t}\n",
			e.goName, e.goName, e.goName)
	}
	b.WriteString("\treturn nil\n}\n")
	return b.String()
}

type funcBody struct {
	server      string
	toolID      string
	funcName    string
	description string
	paramsName  string
	structParam bool
	hasValidate bool
	resultExpr  string
	resultZero  string
	typedResult bool
}

func renderFunc(fb funcBody) string {
	var b strings.Builder
	doc := strings.TrimSpace(fb.description)
	if doc != "" {
		fmt.Fprintf(&b, "// %s calls the %q tool. %s\n", fb.funcName, fb.toolID, strings.ReplaceAll(doc, "\n", " "))
	} else {
		fmt.Fprintf(&b, "// %s calls the %q tool.\n", fb.funcName, fb.toolID)
	}

	paramSig := "args map[string]any"
	argsExpr := "args"
	if fb.structParam {
		paramSig = "params " + fb.paramsName
		argsExpr = "params.arguments()"
	}
	fmt.Fprintf(&b, "func %s(ctx context.Context, rt *mcpexec.Runtime, %s) (%s, error) {\n",
		fb.funcName, paramSig, fb.resultExpr)

	if fb.typedResult {
		fmt.Fprintf(&b, "\tvar out %s\n", fb.resultExpr)
	}
	if fb.hasValidate {
		fmt.Fprintf(&b, "\tif err := params.validate(); err != nil {\n\t\treturn %s, err\n\t}\n", fb.resultZero)
	}
	fmt.Fprintf(&b, "\traw, err := rt.Invoke(ctx, %q, %s)\n", fb.toolID, argsExpr)
	fmt.Fprintf(&b, "\tif err != nil {\n\t\treturn %s, err\n\t}\n", fb.resultZero)
	if fb.typedResult {
		fmt.Fprintf(&b, "\tif err := mcpexec.DecodeResult(rt.Normalize(%q, raw), &out); err != nil {\n\t\treturn %s, err\n\t}\n",
			fb.server, fb.resultZero)
		b.WriteString("\treturn out, nil\n}\n")
	} else {
		fmt.Fprintf(&b, "\treturn jsonval.Of(rt.Normalize(%q, raw)), nil\n}\n", fb.server)
	}
	return b.String()
}

func renderIndex(pkg string, specs []WrapperSpec, descriptions map[string]string) ([]byte, error) {
	type row struct {
		ToolID, FuncName, Description, Safety string
	}
	rows := make([]row, 0, len(specs))
	for _, s := range specs {
		rows = append(rows, row{
			ToolID:      s.ToolID,
			FuncName:    s.FuncName,
			Description: strings.ReplaceAll(descriptions[s.Tool], "\n", " "),
			Safety:      s.Safety.String(),
		})
	}
	var buf bytes.Buffer
	err := indexFileTmpl.Execute(&buf, map[string]any{
		"Marker":  generatedMarker,
		"Package": pkg,
		"Tools":   rows,
	})
	if err != nil {
		return nil, fmt.Errorf("wrappergen: render index for %s: %w", pkg, err)
	}
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("wrappergen: format index for %s: %w", pkg, err)
	}
	return formatted, nil
}

// toolFileName avoids colliding with the per-server index file.
func toolFileName(tool string) string {
	name := fileNameFor(tool)
	if name == "tools.go" {
		return "tools_tool.go"
	}
	return name
}
