package fieldnorm

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDottedPrefixKey(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"system.cpuLoad", "System.CpuLoad"},
		{"SYSTEM.cpuLoad", "System.CpuLoad"},
		{"process.pid", "Process.Pid"},
		{"user.name", "User.Name"},
		{"network.bytesIn", "Network.BytesIn"},
		{"disk.free", "disk.free"},
		{"cpuLoad", "cpuLoad"},
		{".leading", ".leading"},
		{"system.", "system."},
		{"", ""},
		// Already-canonical keys survive a second pass unchanged.
		{"System.CpuLoad", "System.CpuLoad"},
	}
	for _, tc := range cases {
		if got := dottedPrefixKey(tc.in); got != tc.want {
			t.Fatalf("dottedPrefixKey(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeRecursesAndDoesNotMutate(t *testing.T) {
	t.Parallel()

	in := map[string]any{
		"system.cpuLoad": 0.5,
		"samples": []any{
			map[string]any{"process.pid": 42},
			"plain",
		},
	}
	r := NewRegistry()
	out := r.Normalize(in, StrategyDottedPrefix)

	want := map[string]any{
		"System.CpuLoad": 0.5,
		"samples": []any{
			map[string]any{"Process.Pid": 42},
			"plain",
		},
	}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("Normalize = %#v, expected %#v", out, want)
	}
	if _, ok := in["system.cpuLoad"]; !ok {
		t.Fatalf("input map was mutated: %#v", in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	in := map[string]any{"system.cpuLoad": 0.5, "network.bytesIn": 7}
	r := NewRegistry()
	once := r.Normalize(in, StrategyDottedPrefix)
	twice := r.Normalize(once, StrategyDottedPrefix)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second pass changed the result: %#v != %#v", once, twice)
	}
}

func TestNormalizeScalarsPassThrough(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	for _, v := range []any{nil, "text", 1.5, true} {
		if got := r.Normalize(v, StrategyDottedPrefix); !reflect.DeepEqual(got, v) {
			t.Fatalf("Normalize(%#v) = %#v", v, got)
		}
	}
}

func TestNormalizeForDefaultsToIdentity(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	in := map[string]any{"system.cpuLoad": 0.5}
	if got := r.NormalizeFor("unbound", in); !reflect.DeepEqual(got, in) {
		t.Fatalf("unbound server was rewritten: %#v", got)
	}

	r.Bind("windows-cli", StrategyDottedPrefix)
	if got := r.StrategyFor("windows-cli"); got != StrategyDottedPrefix {
		t.Fatalf("StrategyFor = %q", got)
	}
	out := r.NormalizeFor("windows-cli", in).(map[string]any)
	if _, ok := out["System.CpuLoad"]; !ok {
		t.Fatalf("bound strategy not applied: %#v", out)
	}
}

func TestNormalizeUnknownStrategyIsIdentity(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	in := map[string]any{"system.cpuLoad": 0.5}
	if got := r.Normalize(in, "no-such-strategy"); !reflect.DeepEqual(got, in) {
		t.Fatalf("unknown strategy rewrote keys: %#v", got)
	}
}

func TestRegisterCustomStrategy(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register("upper", strings.ToUpper)
	r.Bind("shouty", "upper")

	out := r.NormalizeFor("shouty", map[string]any{"key": 1}).(map[string]any)
	if _, ok := out["KEY"]; !ok {
		t.Fatalf("custom strategy not applied: %#v", out)
	}
}

func TestLoadBindings(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "normalization.yaml")
	data := "normalization:\n  windows-cli: dotted-prefix\n  git: identity\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r := NewRegistry()
	if err := r.LoadBindings(path); err != nil {
		t.Fatalf("LoadBindings: %v", err)
	}
	if got := r.StrategyFor("windows-cli"); got != StrategyDottedPrefix {
		t.Fatalf("StrategyFor(windows-cli) = %q", got)
	}
	if got := r.StrategyFor("git"); got != StrategyIdentity {
		t.Fatalf("StrategyFor(git) = %q", got)
	}
}

func TestLoadBindingsMissingFile(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if err := r.LoadBindings(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("LoadBindings on missing file: %v", err)
	}
}

func TestLoadBindingsRejectsBadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("normalization: [unclosed"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	r := NewRegistry()
	if err := r.LoadBindings(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
