package mcpexec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ConnectionState tracks the lifecycle of one managed server connection.
// Transitions are monotonic except that Failed may return to Connecting on an
// explicit retry.
type ConnectionState string

const (
	StateUnconnected ConnectionState = "unconnected"
	StateConnecting  ConnectionState = "connecting"
	StateConnected   ConnectionState = "connected"
	StateFailed      ConnectionState = "failed"
)

// DialFunc builds the transport for a named server. The default spawns the
// configured command over stdio; tests substitute in-memory transports.
type DialFunc func(serverName string, cfg ServerConfig) (mcp.Transport, error)

// ManagerOptions configure a Manager.
type ManagerOptions struct {
	// ClientName is advertised to servers during the handshake. Defaults to
	// "mcpexec".
	ClientName string
	// ClientVersion is the semantic version reported to servers.
	ClientVersion string
	// ConnectTimeout bounds launch, handshake, and the initial tool listing.
	ConnectTimeout time.Duration
	// Logger receives structured diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
	// Dial overrides transport construction.
	Dial DialFunc
}

func (o *ManagerOptions) normalized() ManagerOptions {
	opts := ManagerOptions{}
	if o != nil {
		opts = *o
	}
	if opts.ClientName == "" {
		opts.ClientName = "mcpexec"
	}
	if opts.ClientVersion == "" {
		opts.ClientVersion = "1.0.0"
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Dial == nil {
		opts.Dial = commandDial
	}
	return opts
}

// Manager owns at most one live session per configured server. Sessions are
// established lazily on the first EnsureConnected call and cached, together
// with the server's tool catalog, until CloseAll or session loss.
type Manager struct {
	mu     sync.Mutex
	opts   ManagerOptions
	states map[string]*serverState
}

type serverState struct {
	config  ServerConfig
	state   ConnectionState
	client  *mcp.Client
	session *mcp.ClientSession
	catalog []*mcp.Tool

	connecting bool
	connectCh  chan struct{}
}

// NewManager registers every server in cfg without connecting to any of them.
func NewManager(cfg *Config, opts *ManagerOptions) *Manager {
	m := &Manager{
		opts:   opts.normalized(),
		states: make(map[string]*serverState),
	}
	if cfg != nil {
		for name, sc := range cfg.McpServers {
			m.states[name] = &serverState{config: sc, state: StateUnconnected}
		}
	}
	return m
}

// ListServers returns known server names, sorted.
func (m *Manager) ListServers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.states))
	for name := range m.states {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// State reports the connection state for a server; unknown servers are
// Unconnected.
func (m *Manager) State(serverName string) ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.states[serverName]; ok {
		return st.state
	}
	return StateUnconnected
}

// EnsureConnected returns the cached tool catalog for the server, connecting
// first when necessary. It is idempotent: an already-connected server returns
// its catalog without touching the transport. Concurrent calls for the same
// server are serialized so the process is spawned at most once; calls for
// different servers proceed independently.
func (m *Manager) EnsureConnected(ctx context.Context, serverName string) ([]*mcp.Tool, error) {
	for {
		m.mu.Lock()
		state, ok := m.states[serverName]
		if !ok {
			m.mu.Unlock()
			return nil, &ServerConnectionError{Server: serverName, Err: errors.New("unknown server")}
		}
		if state.config.Disabled {
			m.mu.Unlock()
			return nil, &ServerConnectionError{Server: serverName, Err: errors.New("server is disabled")}
		}
		if state.state == StateConnected && state.session != nil {
			catalog := state.catalog
			m.mu.Unlock()
			return catalog, nil
		}
		if state.connecting {
			ch := state.connectCh
			m.mu.Unlock()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-ch:
				continue
			}
		}
		state.connecting = true
		state.state = StateConnecting
		state.connectCh = make(chan struct{})
		cfg := state.config
		m.mu.Unlock()

		session, client, catalog, err := m.connect(ctx, serverName, cfg)

		m.mu.Lock()
		state.connecting = false
		close(state.connectCh)
		if err != nil {
			state.state = StateFailed
			m.mu.Unlock()
			return nil, &ServerConnectionError{Server: serverName, Err: err}
		}
		state.session = session
		state.client = client
		state.catalog = catalog
		state.state = StateConnected
		m.mu.Unlock()
		m.opts.Logger.Info("connected to MCP server", "server", serverName, "tools", len(catalog))
		return catalog, nil
	}
}

func (m *Manager) connect(ctx context.Context, serverName string, cfg ServerConfig) (*mcp.ClientSession, *mcp.Client, []*mcp.Tool, error) {
	transport, err := m.opts.Dial(serverName, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, m.opts.ConnectTimeout)
	defer cancel()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    m.opts.ClientName,
		Version: m.opts.ClientVersion,
	}, nil)
	session, err := client.Connect(connectCtx, transport, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	res, err := session.ListTools(connectCtx, nil)
	if err != nil {
		_ = session.Close()
		return nil, nil, nil, fmt.Errorf("list tools: %w", err)
	}
	go m.monitorSession(serverName, session)
	return session, client, res.Tools, nil
}

// monitorSession clears the cached session once it terminates so that a later
// EnsureConnected can dial again.
func (m *Manager) monitorSession(serverName string, session *mcp.ClientSession) {
	if err := session.Wait(); err != nil {
		m.opts.Logger.Warn("session ended", "server", serverName, "error", err)
	}
	m.mu.Lock()
	if st, ok := m.states[serverName]; ok && st.session == session {
		st.session = nil
		st.client = nil
		st.catalog = nil
		st.state = StateUnconnected
	}
	m.mu.Unlock()
}

// CallTool invokes a tool on an already-connected server.
func (m *Manager) CallTool(ctx context.Context, serverName, toolName string, args map[string]any) (*mcp.CallToolResult, error) {
	m.mu.Lock()
	state, ok := m.states[serverName]
	var session *mcp.ClientSession
	if ok {
		session = state.session
	}
	m.mu.Unlock()
	if session == nil {
		return nil, &ServerConnectionError{Server: serverName, Err: errors.New("not connected")}
	}
	return session.CallTool(ctx, &mcp.CallToolParams{Name: toolName, Arguments: args})
}

// CloseAll closes every live session. Per-session close failures are logged,
// never returned, so one failing teardown cannot block the others. All
// servers end Unconnected with their catalogs dropped.
func (m *Manager) CloseAll(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	for _, name := range m.ListServers() {
		m.mu.Lock()
		state := m.states[name]
		session := state.session
		state.session = nil
		state.client = nil
		state.catalog = nil
		state.state = StateUnconnected
		m.mu.Unlock()
		if session == nil {
			continue
		}
		if err := closeSession(ctx, session); err != nil {
			m.opts.Logger.Warn("failed to close session", "server", name, "error", err)
		}
	}
}

func closeSession(ctx context.Context, session *mcp.ClientSession) error {
	done := make(chan error, 1)
	go func() { done <- session.Close() }()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func commandDial(serverName string, cfg ServerConfig) (mcp.Transport, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("mcpexec: command missing for %q", serverName)
	}
	cmd := exec.Command(cfg.Command, cfg.Args...)
	if len(cfg.Env) > 0 {
		env := os.Environ()
		for k, v := range cfg.Env {
			env = append(env, fmt.Sprintf("%s=%s", k, v))
		}
		cmd.Env = env
	}
	return &mcp.CommandTransport{Command: cmd}, nil
}
