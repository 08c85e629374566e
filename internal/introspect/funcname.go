// Package introspect recovers formal parameter names and doc comments of Go
// functions from their source.
package introspect

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"runtime"
	"strings"
)

// ErrNotIntrospectable is returned for functions without a source declaration
// of their own, such as closures and runtime-generated wrappers.
var ErrNotIntrospectable = errors.New("function is not introspectable")

var closureRe = regexp.MustCompile(`^(func|gowrap|deferwrap)\d+$`)

// Name is a decoded runtime function name.
type Name struct {
	// PkgPath is the import path of the declaring package.
	PkgPath string

	// Recv is the receiver type name for methods, without '*' or type arguments.
	Recv string

	// Name is the function or method name.
	Name string

	// PointerRecv is true for methods declared on *Recv.
	PointerRecv bool

	// MethodValue is true when the value is a method bound to a receiver
	// (x.M rather than T.M); its signature excludes the receiver.
	MethodValue bool
}

// IsMethod reports whether the name denotes a method.
func (n Name) IsMethod() bool { return n.Recv != "" }

func (n Name) String() string {
	switch {
	case n.PointerRecv:
		return fmt.Sprintf("%s.(*%s).%s", n.PkgPath, n.Recv, n.Name)
	case n.Recv != "":
		return fmt.Sprintf("%s.%s.%s", n.PkgPath, n.Recv, n.Name)
	}
	return n.PkgPath + "." + n.Name
}

// FuncName decodes the runtime name of fn.
func FuncName(fn any) (Name, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return Name{}, fmt.Errorf("%w: %T is not a function", ErrNotIntrospectable, fn)
	}
	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return Name{}, fmt.Errorf("%w: no runtime information", ErrNotIntrospectable)
	}
	return ParseFuncName(rf.Name())
}

// ParseFuncName decodes a symbol name as reported by runtime.FuncForPC,
// e.g. "example.com/geo.(*Point).Distance-fm".
func ParseFuncName(full string) (Name, error) {
	var n Name
	s := strings.ReplaceAll(full, "[...]", "")
	if rest, ok := strings.CutSuffix(s, "-fm"); ok {
		n.MethodValue = true
		s = rest
	}

	// The package path ends at the first '.' after the last '/'.
	// Dots inside the last path element are escaped as %2e.
	slash := strings.LastIndex(s, "/")
	dot := strings.Index(s[slash+1:], ".")
	if dot < 0 {
		return Name{}, fmt.Errorf("%w: malformed symbol %q", ErrNotIntrospectable, full)
	}
	dot += slash + 1
	n.PkgPath = strings.ReplaceAll(s[:dot], "%2e", ".")
	s = s[dot+1:]

	if strings.HasPrefix(s, "(*") {
		end := strings.Index(s, ").")
		if end < 0 {
			return Name{}, fmt.Errorf("%w: malformed symbol %q", ErrNotIntrospectable, full)
		}
		n.Recv, n.PointerRecv = s[2:end], true
		s = s[end+2:]
	} else if parts := strings.Split(s, "."); len(parts) == 2 && !closureRe.MatchString(parts[1]) {
		n.Recv, s = parts[0], parts[1]
	}

	if s == "" || strings.Contains(s, ".") || closureRe.MatchString(s) {
		return Name{}, fmt.Errorf("%w: %s is a closure", ErrNotIntrospectable, full)
	}
	n.Name = s
	return n, nil
}
