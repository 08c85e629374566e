// Package geometry provides documented sample types and functions for the
// typesafe tests. The :type and :rtype lines below are read from source at
// test time, so keep them in sync with the signatures.
package geometry

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"sync/atomic"

	"github.com/funvibe/typesafe/internal/typeref"
)

// PkgPath is the import path of this package.
const PkgPath = "github.com/funvibe/typesafe/internal/fixtures/geometry"

// Probe counts executed bodies of the probing functions.
var Probe atomic.Int64

// Shape is implemented by anything with an area.
type Shape interface {
	Area() float64
}

// Point is a location in the plane.
type Point struct {
	X, Y float64
}

// Circle embeds Point as its center.
type Circle struct {
	Point
	R float64
}

// Square implements Shape only through its pointer.
type Square struct {
	Side float64
}

// Polygon has no area method.
type Polygon struct {
	Sides int
}

// Distance calculates the distance to another point q.
//
// :type q: *geometry.Point
// :rtype: float64
func (p *Point) Distance(q any) any {
	Probe.Add(1)
	o := q.(*Point)
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Area returns the area of the circle.
//
// :rtype: float64
func (c Circle) Area() float64 {
	return math.Pi * c.R * c.R
}

func (s *Square) Area() float64 {
	return s.Side * s.Side
}

// Add returns a + b.
//
// :type a: int
// :type b: int
// :rtype: int
func Add(a, b int) int {
	Probe.Add(1)
	return a + b
}

// Format renders x.
//
//	:TYPE x:   int
//	:RType:    string
func Format(x any) any {
	Probe.Add(1)
	return fmt.Sprint(x)
}

// Join concatenates three strings.
//
// :type a: string
// :type b: string
// :type c: string
// :rtype: string
func Join(a, b, c any) any {
	Probe.Add(1)
	return fmt.Sprintf("%v+%v+%v", a, b, c)
}

// Touch records a call and declares no return type, so it must not return a value.
//
// :type name: string
func Touch(name any) any {
	Probe.Add(1)
	return name
}

// Reset declares no parameters and no return type.
func Reset() {
	Probe.Store(0)
}

// Parse converts s to an int.
//
// :type s: string
// :rtype: int
func Parse(s any) (any, error) {
	n, err := strconv.Atoi(s.(string))
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Measure names a shape kind.
//
// :type kind: geometry.ShapeKind
// :rtype: string
func Measure(kind any) any {
	Probe.Add(1)
	return fmt.Sprint(kind)
}

// Apply calls fn with v.
//
// :type fn: geometry.Transform
// :type v: float64
// :rtype: float64
func Apply(fn, v any) any {
	return fn.(func(float64) float64)(v.(float64))
}

// Double is the sample Transform.
func Double(v float64) float64 { return v * 2 }

func Undocumented(a int) int {
	return a
}

// Members returns the package members resolvable by reference.
// ShapeKind asks for a Shape type rather than a Shape value, and Transform
// asks for any func shaped like Double.
func Members() map[string]any {
	return map[string]any{
		"Point":     reflect.TypeFor[Point](),
		"Circle":    reflect.TypeFor[Circle](),
		"Square":    reflect.TypeFor[Square](),
		"Polygon":   reflect.TypeFor[Polygon](),
		"Shape":     reflect.TypeFor[Shape](),
		"ShapeKind": typeref.ClassOf[Shape](),
		"Transform": Double,
	}
}
