// Package visual defines the drawable elements the layout engine creates and
// the capabilities it relies on.
//
// The engine never depends on a concrete element type: bars are created
// through a factory returning [Sized] and labels through one returning
// [TextElement]. [Rect] and [Label] are the stock implementations. Every
// geometric property is animated through an embedded [anim.Animatable], so
// assigning a new target queues a transition instead of moving the element.
package visual

import (
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/stackchart/pkg/anim"
	"github.com/matzehuels/stackchart/pkg/geom"
)

// Property names shared by all elements.
const (
	PropX      = "x"
	PropY      = "y"
	PropWidth  = "width"
	PropHeight = "height"
)

// Kind tells sinks how to paint an element.
type Kind string

const (
	KindShape Kind = "shape"
	KindLabel Kind = "label"
)

// Element is anything a paint task can hold.
type Element interface {
	ID() string
	Kind() Kind

	// Transitionate selects properties for animated assignment.
	Transitionate(names ...string) *anim.Transition
	// CompleteAllTransitions snaps every property to its target.
	CompleteAllTransitions()
	// Advance moves running transitions to now; true when at rest.
	Advance(now time.Time) bool
	IsCompleted() bool

	// RemoveOnCompleted marks the element for removal once at rest.
	RemoveOnCompleted() bool
	SetRemoveOnCompleted(bool)
}

// Positioned elements have an animated location.
type Positioned interface {
	Element
	X() float64
	Y() float64
	SetX(float64)
	SetY(float64)
}

// Sized elements have an animated location and size.
type Sized interface {
	Positioned
	Width() float64
	Height() float64
	SetWidth(float64)
	SetHeight(float64)
	// Current returns the displayed geometry; Target the geometry it is
	// heading to.
	Current() geom.Rect
	Target() geom.Rect
}

// base carries what every stock element shares.
type base struct {
	anim.Animatable
	id     string
	remove bool
}

func newBase() base { return base{id: uuid.NewString()} }

func (b *base) ID() string                  { return b.id }
func (b *base) RemoveOnCompleted() bool     { return b.remove }
func (b *base) SetRemoveOnCompleted(v bool) { b.remove = v }

// X returns the displayed X coordinate.
func (b *base) X() float64 { return b.Get(PropX) }

// Y returns the displayed Y coordinate.
func (b *base) Y() float64 { return b.Get(PropY) }

// SetX assigns the X target.
func (b *base) SetX(v float64) { b.Set(PropX, v) }

// SetY assigns the Y target.
func (b *base) SetY(v float64) { b.Set(PropY, v) }

// Rect is a filled and/or stroked rectangle: the bar of a column series.
type Rect struct {
	base
}

// NewRect creates a rectangle at the origin with zero size.
func NewRect() *Rect { return &Rect{base: newBase()} }

// NewSized is a factory adapter returning a *Rect as Sized.
func NewSized() Sized { return NewRect() }

func (r *Rect) Kind() Kind { return KindShape }

func (r *Rect) Width() float64  { return r.Get(PropWidth) }
func (r *Rect) Height() float64 { return r.Get(PropHeight) }

// SetWidth assigns the width target. Negative widths are clamped to zero.
func (r *Rect) SetWidth(v float64) {
	if v < 0 {
		v = 0
	}
	r.Set(PropWidth, v)
}

// SetHeight assigns the height target. Negative heights are clamped to zero.
func (r *Rect) SetHeight(v float64) {
	if v < 0 {
		v = 0
	}
	r.Set(PropHeight, v)
}

func (r *Rect) Current() geom.Rect {
	return geom.Rect{X: r.Get(PropX), Y: r.Get(PropY), Width: r.Get(PropWidth), Height: r.Get(PropHeight)}
}

func (r *Rect) Target() geom.Rect {
	a := &r.Animatable
	return geom.Rect{X: a.Target(PropX), Y: a.Target(PropY), Width: a.Target(PropWidth), Height: a.Target(PropHeight)}
}

var _ Sized = (*Rect)(nil)
