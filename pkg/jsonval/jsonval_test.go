package jsonval

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestAccessors(t *testing.T) {
	t.Parallel()

	v := Of(map[string]any{
		"name":  "cpu",
		"load":  0.75,
		"ok":    true,
		"tags":  []any{"a", "b"},
		"inner": map[string]any{"x": float64(1)},
	})

	if v.IsNull() {
		t.Fatalf("IsNull on object")
	}
	if !v.Has("name") || v.Has("missing") {
		t.Fatalf("Has broken")
	}

	name, ok := v.Get("name")
	if !ok {
		t.Fatalf("Get(name) missing")
	}
	if s, ok := name.String(); !ok || s != "cpu" {
		t.Fatalf("String = %q, %v", s, ok)
	}

	load, _ := v.Get("load")
	if f, ok := load.Float(); !ok || f != 0.75 {
		t.Fatalf("Float = %v, %v", f, ok)
	}

	flag, _ := v.Get("ok")
	if b, ok := flag.Bool(); !ok || !b {
		t.Fatalf("Bool = %v, %v", b, ok)
	}

	tags, _ := v.Get("tags")
	if s, ok := tags.Slice(); !ok || len(s) != 2 {
		t.Fatalf("Slice = %v, %v", s, ok)
	}

	inner, _ := v.Get("inner")
	if x, ok := inner.Get("x"); !ok {
		t.Fatalf("nested Get failed")
	} else if f, _ := x.Float(); f != 1 {
		t.Fatalf("nested Float = %v", f)
	}
}

func TestGetOnNonObject(t *testing.T) {
	t.Parallel()

	v := Of("just a string")
	if _, ok := v.Get("key"); ok {
		t.Fatalf("Get on string succeeded")
	}
	if v.Has("key") {
		t.Fatalf("Has on string succeeded")
	}
	if got := v.GetDefault("key", 42); got != 42 {
		t.Fatalf("GetDefault = %v", got)
	}
}

func TestRequire(t *testing.T) {
	t.Parallel()

	v := Of(map[string]any{"present": 1})
	if _, err := v.Require("present"); err != nil {
		t.Fatalf("Require(present): %v", err)
	}
	if _, err := v.Require("absent"); err == nil {
		t.Fatalf("Require(absent) succeeded")
	}
}

func TestNull(t *testing.T) {
	t.Parallel()

	var zero Value
	if !zero.IsNull() {
		t.Fatalf("zero Value not null")
	}
	if !Of(nil).IsNull() {
		t.Fatalf("Of(nil) not null")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	original := map[string]any{"a": float64(1), "b": []any{"x"}}
	data, err := json.Marshal(Of(original))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var back Value
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back.Raw(), original) {
		t.Fatalf("round trip = %#v, expected %#v", back.Raw(), original)
	}
}
