package mcpexec

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vikashloomba/mcp-code-execution-go/pkg/fieldnorm"
)

// Options configure a Runtime and the harness built on top of it.
type Options struct {
	// ClientName and ClientVersion are advertised during the MCP handshake.
	ClientName    string
	ClientVersion string
	// ConnectTimeout bounds launch, handshake, and initial tool listing per
	// server.
	ConnectTimeout time.Duration
	// GracePeriod is how long the harness waits for in-flight work after an
	// interrupt before forcing shutdown. Defaults to 5s.
	GracePeriod time.Duration
	// Logger receives structured diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
	// Normalizers supplies the field-name normalization registry. Defaults
	// to a fresh registry with only the built-in strategies.
	Normalizers *fieldnorm.Registry
	// Dial overrides transport construction (tests).
	Dial DialFunc
}

func (o *Options) normalized() Options {
	opts := Options{}
	if o != nil {
		opts = *o
	}
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Normalizers == nil {
		opts.Normalizers = fieldnorm.NewRegistry()
	}
	return opts
}

// Runtime bundles the connection manager, tool invoker, and normalization
// registry behind one explicit handle. It is created once (typically by Run)
// and passed to every call site; there is no package-level singleton.
type Runtime struct {
	cfg     *Config
	manager *Manager
	invoker *Invoker
	norms   *fieldnorm.Registry
	logger  *slog.Logger
}

// NewRuntime wires a Runtime from a loaded configuration. No server
// connections are made until the first invocation.
func NewRuntime(cfg *Config, opts *Options) *Runtime {
	o := opts.normalized()
	manager := NewManager(cfg, &ManagerOptions{
		ClientName:     o.ClientName,
		ClientVersion:  o.ClientVersion,
		ConnectTimeout: o.ConnectTimeout,
		Logger:         o.Logger,
		Dial:           o.Dial,
	})
	return &Runtime{
		cfg:     cfg,
		manager: manager,
		invoker: NewInvoker(cfg, manager),
		norms:   o.Normalizers,
		logger:  o.Logger,
	}
}

// Config returns the loaded server configuration.
func (rt *Runtime) Config() *Config { return rt.cfg }

// Manager exposes the connection manager for callers that need lifecycle
// control beyond Invoke.
func (rt *Runtime) Manager() *Manager { return rt.manager }

// Normalizers exposes the normalization registry so callers can register
// strategies or bindings before invoking tools.
func (rt *Runtime) Normalizers() *fieldnorm.Registry { return rt.norms }

// Invoke calls a tool by qualified identifier and returns the unwrapped
// result.
func (rt *Runtime) Invoke(ctx context.Context, toolID string, args map[string]any) (any, error) {
	rt.logger.Debug("invoking tool", "tool", toolID)
	return rt.invoker.Invoke(ctx, toolID, args)
}

// Normalize applies the server's bound normalization strategy to a result.
func (rt *Runtime) Normalize(serverName string, v any) any {
	return rt.norms.NormalizeFor(serverName, v)
}

// ListAllTools aggregates the catalogs of every enabled server, connecting on
// demand. Servers that fail to connect are logged and skipped so one broken
// server does not hide the others.
func (rt *Runtime) ListAllTools(ctx context.Context) map[string][]*mcp.Tool {
	all := make(map[string][]*mcp.Tool)
	for _, name := range rt.cfg.EnabledServerNames() {
		catalog, err := rt.manager.EnsureConnected(ctx, name)
		if err != nil {
			rt.logger.Warn("skipping server", "server", name, "error", err)
			continue
		}
		all[name] = catalog
	}
	return all
}

// Close tears down every live session.
func (rt *Runtime) Close(ctx context.Context) {
	rt.manager.CloseAll(ctx)
}

// DecodeResult converts an unwrapped, normalized tool result into a typed
// destination via a JSON round trip. Generated wrappers use it to populate
// their result structs.
func DecodeResult(v any, dst any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("mcpexec: encode result: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("mcpexec: decode result: %w", err)
	}
	return nil
}
