package introspect

import (
	"fmt"
	"go/ast"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/tools/go/packages"
)

// FuncInfo describes a function declaration found in source.
type FuncInfo struct {
	// PkgPath is the import path of the declaring package.
	PkgPath string

	// Recv is the receiver type name for methods.
	Recv string

	// Name is the declared name.
	Name string

	// Params are the formal parameter names in declaration order. For methods
	// the receiver comes first, except for method values, whose receiver is
	// already bound.
	Params []string

	// Doc is the text of the doc comment, without comment markers.
	Doc string
}

// Inspector loads package syntax with go/packages and looks up function
// declarations. Loaded packages are cached by import path.
type Inspector struct {
	// dir is the directory packages are loaded from; empty means the current one.
	dir string

	mu         sync.Mutex
	loadedPkgs map[string]*packages.Package
}

// NewInspector creates an Inspector loading packages relative to dir.
func NewInspector(dir string) *Inspector {
	return &Inspector{
		dir:        dir,
		loadedPkgs: make(map[string]*packages.Package),
	}
}

var (
	defaultOnce      sync.Once
	defaultInspector *Inspector
)

// Default returns the process-wide inspector rooted at the working directory.
func Default() *Inspector {
	defaultOnce.Do(func() {
		defaultInspector = NewInspector("")
	})
	return defaultInspector
}

// mainPkg is the import path the runtime reports for a command's package.
const mainPkg = "main"

// Inspect finds the source declaration of fn.
func (ins *Inspector) Inspect(fn any) (FuncInfo, error) {
	name, err := FuncName(fn)
	if err != nil {
		return FuncInfo{}, err
	}
	pattern := name.PkgPath
	if name.PkgPath == mainPkg {
		pattern = mainPattern(reflect.ValueOf(fn).Pointer())
	}
	info, err := ins.lookupIn(name.PkgPath, pattern, name.Recv, name.Name)
	if err != nil {
		return FuncInfo{}, err
	}
	if name.MethodValue && len(info.Params) > 0 {
		info.Params = info.Params[1:]
	}
	return info, nil
}

// mainPattern returns the go/packages query for the main package holding
// the function at pc. "main" is not an importable path, so the package is
// loaded through the file declaring the function, or from the inspector's
// directory when that file is unknown (wrappers, -trimpath builds).
func mainPattern(pc uintptr) string {
	file, _ := runtimeFile(pc)
	if filepath.IsAbs(file) && strings.HasSuffix(file, ".go") {
		if _, err := os.Stat(file); err == nil {
			return "file=" + file
		}
	}
	return "."
}

func runtimeFile(pc uintptr) (string, int) {
	rf := runtime.FuncForPC(pc)
	if rf == nil {
		return "", 0
	}
	return rf.FileLine(pc)
}

// Lookup finds the declaration of pkgPath.name, or of the method recv.name
// when recv is not empty.
func (ins *Inspector) Lookup(pkgPath, recv, name string) (FuncInfo, error) {
	return ins.lookupIn(pkgPath, pkgPath, recv, name)
}

// lookupIn is Lookup for a package loaded by the go/packages query pattern.
func (ins *Inspector) lookupIn(pkgPath, pattern, recv, name string) (FuncInfo, error) {
	pkg, err := ins.loadPackage(pkgPath, pattern)
	if err != nil {
		return FuncInfo{}, err
	}

	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Name.Name != name || receiverName(fd) != recv {
				continue
			}
			info := FuncInfo{
				PkgPath: pkgPath,
				Recv:    recv,
				Name:    name,
				Params:  paramNames(fd),
			}
			if fd.Doc != nil {
				info.Doc = fd.Doc.Text()
			}
			return info, nil
		}
	}

	target := name
	if recv != "" {
		target = recv + "." + name
	}
	return FuncInfo{}, fmt.Errorf("function %s not found in package %s", target, pkgPath)
}

// loadPackage loads the syntax of a single package using go/packages.
// Packages are cached by pkgPath; a process has one main package.
func (ins *Inspector) loadPackage(pkgPath, pattern string) (*packages.Package, error) {
	ins.mu.Lock()
	defer ins.mu.Unlock()

	if pkg, ok := ins.loadedPkgs[pkgPath]; ok {
		return pkg, nil
	}

	cfg := &packages.Config{
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles |
			packages.NeedSyntax,
		Dir: ins.dir,
		Env: append(os.Environ(), "GOWORK=off"),
	}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("loading package %s: %w", pkgPath, err)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("loading package %s: got %d packages", pkgPath, len(pkgs))
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		var errs []string
		for _, e := range pkg.Errors {
			errs = append(errs, e.Msg)
		}
		return nil, fmt.Errorf("package errors in %s:\n  %s", pkgPath, strings.Join(errs, "\n  "))
	}
	if pkgPath == mainPkg && pkg.Name != mainPkg {
		return nil, fmt.Errorf("loading package %s: %s holds package %s", pkgPath, pattern, pkg.Name)
	}

	ins.loadedPkgs[pkgPath] = pkg
	return pkg, nil
}

// receiverName returns the receiver's base type name, or "" for functions.
func receiverName(fd *ast.FuncDecl) string {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return ""
	}
	t := fd.Recv.List[0].Type
	for {
		switch x := t.(type) {
		case *ast.StarExpr:
			t = x.X
		case *ast.IndexExpr:
			t = x.X
		case *ast.IndexListExpr:
			t = x.X
		case *ast.ParenExpr:
			t = x.X
		case *ast.Ident:
			return x.Name
		default:
			return ""
		}
	}
}

// paramNames lists the receiver (if any) and parameters of fd.
// Unnamed and blank parameters are called argN after their position.
func paramNames(fd *ast.FuncDecl) []string {
	var names []string
	add := func(fields *ast.FieldList) {
		if fields == nil {
			return
		}
		for _, f := range fields.List {
			if len(f.Names) == 0 {
				names = append(names, fmt.Sprintf("arg%d", len(names)))
				continue
			}
			for _, id := range f.Names {
				if id.Name == "_" {
					names = append(names, fmt.Sprintf("arg%d", len(names)))
					continue
				}
				names = append(names, id.Name)
			}
		}
	}
	add(fd.Recv)
	add(fd.Type.Params)
	return names
}
