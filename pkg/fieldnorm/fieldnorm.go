// Package fieldnorm canonicalizes field names in tool results. Servers are
// bound to named strategies; a strategy is a pure key rewrite applied
// recursively through nested maps and slices. The zero binding is identity,
// so servers without a configured strategy pass results through untouched.
package fieldnorm

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Strategy names built into every registry.
const (
	StrategyIdentity     = "identity"
	StrategyDottedPrefix = "dotted-prefix"
)

// KeyFunc rewrites a single map key. Implementations must be pure.
type KeyFunc func(key string) string

// Registry maps strategy names to key rewrites and server names to strategy
// names. All lookups fall back to identity.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]KeyFunc
	servers    map[string]string
}

// NewRegistry returns a registry with the identity and dotted-prefix
// strategies pre-registered and no server bindings.
func NewRegistry() *Registry {
	return &Registry{
		strategies: map[string]KeyFunc{
			StrategyIdentity:     func(key string) string { return key },
			StrategyDottedPrefix: dottedPrefixKey,
		},
		servers: make(map[string]string),
	}
}

// Register adds or replaces a named strategy.
func (r *Registry) Register(name string, fn KeyFunc) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.strategies[name] = fn
	r.mu.Unlock()
}

// Bind associates a server name with a strategy name.
func (r *Registry) Bind(server, strategy string) {
	r.mu.Lock()
	r.servers[server] = strategy
	r.mu.Unlock()
}

// StrategyFor returns the strategy name bound to server, defaulting to
// identity.
func (r *Registry) StrategyFor(server string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name, ok := r.servers[server]; ok {
		return name
	}
	return StrategyIdentity
}

// NormalizeFor applies the strategy bound to server. Unknown servers are
// normalized with identity.
func (r *Registry) NormalizeFor(server string, v any) any {
	return r.Normalize(v, r.StrategyFor(server))
}

// Normalize applies the named strategy recursively and returns a new
// structure; the input is never mutated. Unknown strategy names behave as
// identity.
func (r *Registry) Normalize(v any, strategy string) any {
	r.mu.RLock()
	fn, ok := r.strategies[strategy]
	r.mu.RUnlock()
	if !ok {
		fn = func(key string) string { return key }
	}
	return rewrite(v, fn)
}

func rewrite(v any, fn KeyFunc) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, member := range val {
			out[fn(k)] = rewrite(member, fn)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, member := range val {
			out[i] = rewrite(member, fn)
		}
		return out
	default:
		return v
	}
}

// knownPrefixes are the dotted prefixes recognized by the dotted-prefix
// strategy, keyed by lower-case form.
var knownPrefixes = map[string]string{
	"system":  "System",
	"process": "Process",
	"user":    "User",
	"network": "Network",
}

// dottedPrefixKey rewrites "system.cpuLoad" to "System.CpuLoad". Keys without
// a dot or with an unrecognized prefix pass through unchanged. Applying the
// rewrite twice yields the same key as applying it once.
func dottedPrefixKey(key string) string {
	dot := strings.Index(key, ".")
	if dot <= 0 || dot == len(key)-1 {
		return key
	}
	canonical, ok := knownPrefixes[strings.ToLower(key[:dot])]
	if !ok {
		return key
	}
	return canonical + "." + upperFirst(key[dot+1:])
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
