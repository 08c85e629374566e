package introspect

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/typesafe/internal/fixtures/geometry"
)

func TestParseFuncName(t *testing.T) {
	tests := []struct {
		in   string
		want Name
	}{
		{"example.com/geo.Add", Name{PkgPath: "example.com/geo", Name: "Add"}},
		{"example.com/geo.(*Point).Distance", Name{PkgPath: "example.com/geo", Recv: "Point", Name: "Distance", PointerRecv: true}},
		{"example.com/geo.(*Point).Distance-fm", Name{PkgPath: "example.com/geo", Recv: "Point", Name: "Distance", PointerRecv: true, MethodValue: true}},
		{"example.com/geo.Circle.Area", Name{PkgPath: "example.com/geo", Recv: "Circle", Name: "Area"}},
		{"gopkg.in/yaml%2ev3.Marshal", Name{PkgPath: "gopkg.in/yaml.v3", Name: "Marshal"}},
		{"example.com/geo.Map[...]", Name{PkgPath: "example.com/geo", Name: "Map"}},
		{"example.com/geo.(*List[...]).Push", Name{PkgPath: "example.com/geo", Recv: "List", Name: "Push", PointerRecv: true}},
		{"main.main", Name{PkgPath: "main", Name: "main"}},
	}
	for _, tt := range tests {
		got, err := ParseFuncName(tt.in)
		if err != nil {
			t.Errorf("ParseFuncName(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFuncName(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseFuncName_Closures(t *testing.T) {
	for _, in := range []string{
		"example.com/geo.Add.func1",
		"example.com/geo.glob..func1",
		"example.com/geo.(*Point).Distance.func2",
		"example.com/geo.Run.gowrap1",
		"nodot",
	} {
		if _, err := ParseFuncName(in); !errors.Is(err, ErrNotIntrospectable) {
			t.Errorf("ParseFuncName(%q) error = %v, want ErrNotIntrospectable", in, err)
		}
	}
}

func TestFuncName(t *testing.T) {
	n, err := FuncName(geometry.Add)
	if err != nil {
		t.Fatal(err)
	}
	if n.PkgPath != geometry.PkgPath || n.Name != "Add" || n.IsMethod() {
		t.Errorf("FuncName(Add) = %+v", n)
	}

	n, err = FuncName((*geometry.Point).Distance)
	if err != nil {
		t.Fatal(err)
	}
	if n.Recv != "Point" || !n.PointerRecv || n.MethodValue {
		t.Errorf("FuncName((*Point).Distance) = %+v", n)
	}
	if n.String() != geometry.PkgPath+".(*Point).Distance" {
		t.Errorf("String() = %q", n.String())
	}

	p := &geometry.Point{}
	n, err = FuncName(p.Distance)
	if err != nil {
		t.Fatal(err)
	}
	if !n.MethodValue {
		t.Errorf("FuncName(p.Distance) = %+v, want a method value", n)
	}

	if _, err := FuncName(func() {}); !errors.Is(err, ErrNotIntrospectable) {
		t.Errorf("closure: error = %v", err)
	}
	if _, err := FuncName(42); !errors.Is(err, ErrNotIntrospectable) {
		t.Errorf("non-func: error = %v", err)
	}
}

func TestInspector(t *testing.T) {
	ins := NewInspector("")

	tests := []struct {
		name       string
		fn         any
		wantParams []string
		wantDoc    string
	}{
		{"func", geometry.Add, []string{"a", "b"}, "Add returns a + b.\n\n:type a: int\n:type b: int\n:rtype: int\n"},
		{"method expression", (*geometry.Point).Distance, []string{"p", "q"}, ""},
		{"method value", (&geometry.Point{}).Distance, []string{"q"}, ""},
		{"value receiver", geometry.Circle.Area, []string{"c"}, ""},
		{"no params", geometry.Reset, nil, "Reset declares no parameters and no return type.\n"},
		{"no doc", geometry.Undocumented, []string{"a"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ins.Inspect(tt.fn)
			if err != nil {
				t.Fatalf("Inspect: %v", err)
			}
			if diff := cmp.Diff(tt.wantParams, info.Params); diff != "" {
				t.Errorf("params mismatch (-want +got):\n%s", diff)
			}
			if tt.wantDoc != "" && info.Doc != tt.wantDoc {
				t.Errorf("doc = %q, want %q", info.Doc, tt.wantDoc)
			}
		})
	}

	if len(ins.loadedPkgs) != 1 {
		t.Errorf("expected one cached package, got %d", len(ins.loadedPkgs))
	}
}

func TestInspector_NotFound(t *testing.T) {
	ins := NewInspector("")
	if _, err := ins.Lookup(geometry.PkgPath, "", "Missing"); err == nil {
		t.Error("expected an error for a missing function")
	}
	if _, err := ins.Lookup(geometry.PkgPath, "Square", "Add"); err == nil {
		t.Error("a function must not match a method lookup")
	}
}

const commandSource = `package main

// Add returns a + b.
//
// :type a: int
// :type b: int
// :rtype: int
func Add(a, b int) int { return a + b }

func main() {}
`

func writeCommand(t *testing.T) (dir, file string) {
	t.Helper()
	dir = t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/cmd\n\ngo 1.22\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	file = filepath.Join(dir, "main.go")
	if err := os.WriteFile(file, []byte(commandSource), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, file
}

func TestInspector_MainPackage(t *testing.T) {
	dir, file := writeCommand(t)

	for _, pattern := range []string{"file=" + file, "."} {
		ins := NewInspector(dir)
		info, err := ins.lookupIn(mainPkg, pattern, "", "Add")
		if err != nil {
			t.Fatalf("%s: %v", pattern, err)
		}
		if diff := cmp.Diff([]string{"a", "b"}, info.Params); diff != "" {
			t.Errorf("%s: params mismatch (-want +got):\n%s", pattern, diff)
		}
		if info.PkgPath != mainPkg || info.Doc != "Add returns a + b.\n\n:type a: int\n:type b: int\n:rtype: int\n" {
			t.Errorf("%s: unexpected info %+v", pattern, info)
		}
	}
}

func TestInspector_MainPackageMismatch(t *testing.T) {
	ins := NewInspector("")
	if _, err := ins.lookupIn(mainPkg, "file="+geometryFile(t), "", "Add"); err == nil {
		t.Error("a library package must not be accepted as main")
	}
}

func geometryFile(t *testing.T) string {
	t.Helper()
	file, _ := runtimeFile(reflect.ValueOf(geometry.Add).Pointer())
	if !filepath.IsAbs(file) {
		t.Skipf("source file of geometry.Add is %q", file)
	}
	return file
}

func TestMainPattern(t *testing.T) {
	pc := reflect.ValueOf(geometry.Add).Pointer()
	file := geometryFile(t)
	if got := mainPattern(pc); got != "file="+file {
		t.Errorf("mainPattern = %q, want file=%s", got, file)
	}
	if got := mainPattern(0); got != "." {
		t.Errorf("mainPattern(0) = %q, want \".\"", got)
	}
}

func TestParamNames_Unnamed(t *testing.T) {
	src := `package p
func (Server) Handle(_ int, name string, _, _ bool) {}
func Plain(int, string) {}
`
	file, err := parser.ParseFile(token.NewFileSet(), "p.go", src, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"arg0", "arg1", "name", "arg3", "arg4"},
		{"arg0", "arg1"},
	}
	for i, decl := range file.Decls {
		if diff := cmp.Diff(want[i], paramNames(decl.(*ast.FuncDecl))); diff != "" {
			t.Errorf("decl %d params mismatch (-want +got):\n%s", i, diff)
		}
	}
}
