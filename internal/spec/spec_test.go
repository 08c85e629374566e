package spec

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/typesafe/internal/config"
	"github.com/funvibe/typesafe/internal/errs"
	"github.com/funvibe/typesafe/internal/fixtures/geometry"
	"github.com/funvibe/typesafe/internal/typeref"
)

func newResolver() typeref.Resolver {
	reg := typeref.NewRegistry()
	reg.Register(geometry.PkgPath, geometry.Members())
	return reg
}

func TestFromMapping(t *testing.T) {
	raw, err := FromMapping(map[string]string{"return": "int", "b": "int", "a": "string"})
	if err != nil {
		t.Fatal(err)
	}
	want := Raw{{"a", "string"}, {"b", "int"}, {"return", "int"}}
	if diff := cmp.Diff(want, raw); diff != "" {
		t.Errorf("FromMapping mismatch (-want +got):\n%s", diff)
	}

	ordered, err := FromMapping(config.Pairs("z", "int", "return", "None", "a", "int"))
	if err != nil {
		t.Fatal(err)
	}
	want = Raw{{"z", "int"}, {"return", "None"}, {"a", "int"}}
	if diff := cmp.Diff(want, ordered); diff != "" {
		t.Errorf("ordered mapping mismatch (-want +got):\n%s", diff)
	}

	raw, err = FromMapping(map[string]string{"x": "int"})
	if err != nil {
		t.Fatal(err)
	}
	s, err := Build(raw, newResolver())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Return(); ok {
		t.Error("an explicit mapping must not get a synthesized return entry")
	}
}

func TestFromMapping_NotAMapping(t *testing.T) {
	for _, m := range []any{nil, "a: int", []string{"a", "int"}, 42, map[string]int(nil)} {
		if _, err := FromMapping(m); !errors.Is(err, errs.ErrConfig) {
			t.Errorf("FromMapping(%#v) error = %v, want ConfigError", m, err)
		}
	}
}

func TestFromDoc(t *testing.T) {
	raw, err := FromDoc("touch", ":type name: string")
	if err != nil {
		t.Fatal(err)
	}
	want := Raw{{"name", "string"}, {"return", "None"}}
	if diff := cmp.Diff(want, raw); diff != "" {
		t.Errorf("FromDoc mismatch (-want +got):\n%s", diff)
	}

	_, err = FromDoc("reset", "  \n")
	var missing *errs.MissingSpecError
	if !errors.As(err, &missing) || missing.Func != "reset" {
		t.Errorf("error = %v, want MissingSpecError for reset", err)
	}
}

func TestBuild(t *testing.T) {
	raw := Raw{{"p", "*geometry.Point"}, {"k", "geometry.ShapeKind"}, {"return", "float64"}}
	s, err := Build(raw, newResolver())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"p", "k"}, s.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	p, ok := s.Lookup("p")
	if !ok || p.Descriptor.Type != reflect.TypeFor[*geometry.Point]() {
		t.Errorf("Lookup(p) = %+v, %v", p, ok)
	}
	k, _ := s.Lookup("k")
	if k.Descriptor.Kind != typeref.KindClass {
		t.Errorf("k kind = %s, want class", k.Descriptor.Kind)
	}
	ret, ok := s.Return()
	if !ok || ret.Descriptor.Type != reflect.TypeFor[float64]() {
		t.Errorf("Return() = %+v, %v", ret, ok)
	}
	if n := len(s.Params()); n != 2 {
		t.Errorf("Params() has %d entries, want 2", n)
	}
}

func TestBuild_Duplicates(t *testing.T) {
	s, err := Build(Raw{{"a", "int"}, {"b", "int"}, {"a", "string"}}, newResolver())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, s.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	a, _ := s.Lookup("a")
	if a.Ref != "string" {
		t.Errorf("a = %s, want the later entry", a.Ref)
	}
}

func TestBuild_ResolutionErrors(t *testing.T) {
	tests := []struct {
		name  string
		raw   Raw
		param string
		cause error
	}{
		{"unknown module", Raw{{"a", "nowhere.Thing"}}, "a", typeref.ErrModuleNotFound},
		{"unknown member", Raw{{"b", "geometry.Hexagon"}}, "b", typeref.ErrNameNotFound},
		{"unknown builtin", Raw{{"c", "str"}}, "c", typeref.ErrNameNotFound},
		{"non-text reference", Raw{{"d", 42}}, "d", typeref.ErrMalformed},
		{"non-text name", Raw{{7, "int"}}, "7", typeref.ErrMalformed},
		{"bad return", Raw{{"return", "geometry.Nope"}}, "return", typeref.ErrNameNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.raw, newResolver())
			var re *errs.ResolutionError
			if !errors.As(err, &re) {
				t.Fatalf("error = %v, want ResolutionError", err)
			}
			if re.Param != tt.param {
				t.Errorf("param = %q, want %q", re.Param, tt.param)
			}
			if !errors.Is(err, tt.cause) {
				t.Errorf("error %v does not wrap %v", err, tt.cause)
			}
		})
	}
}

func TestIdempotentResolution(t *testing.T) {
	r := newResolver()
	raw := Raw{{"p", "geometry.Point"}, {"return", "None"}}
	first, err := Build(raw, r)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Build(raw, r)
	if err != nil {
		t.Fatal(err)
	}
	for i, e := range first.Params() {
		if e != second.Params()[i] {
			t.Errorf("entry %d differs: %+v vs %+v", i, e, second.Params()[i])
		}
	}
	r1, _ := first.Return()
	r2, _ := second.Return()
	if r1 != r2 {
		t.Errorf("return differs: %+v vs %+v", r1, r2)
	}
}

func TestFormat(t *testing.T) {
	r := newResolver()
	tests := []struct {
		raw  Raw
		want string
	}{
		{Raw{{"a", "int"}, {"b", "int"}, {"return", "int"}}, "add(a int, b int) int"},
		{Raw{{"name", "string"}, {"return", "None"}}, "add(name string)"},
		{Raw{{"p", "*geometry.Point"}}, "add(p *geometry.Point)"},
		{nil, "add()"},
	}
	for _, tt := range tests {
		s, err := Build(tt.raw, r)
		if err != nil {
			t.Fatal(err)
		}
		if got := s.Format("add"); got != tt.want {
			t.Errorf("Format = %q, want %q", got, tt.want)
		}
	}
}
