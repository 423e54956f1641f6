// Package anim is the property-transition engine that drives chart elements.
//
// Elements embed an [Animatable]. Assigning a property whose name has a
// registered [Profile] does not move the property: it queues a transition
// from the currently displayed value to the new target. The animator (the
// canvas) starts queued transitions on its next frame and interpolates them
// on every [Animatable.Advance]. Properties without a profile snap.
//
//	r.Transitionate("x", "width").WithAnimation(anim.Profile{Duration: d, Easing: anim.CubicOut})
//	r.Set("x", 120)        // queued
//	r.Advance(now)         // starts at now
//	r.Advance(now.Add(d))  // reaches 120
package anim

import (
	"time"
)

// Profile is how a group of properties animates.
type Profile struct {
	Duration time.Duration
	Easing   Easing
}

// Scaled returns p with its duration multiplied by f.
func (p Profile) Scaled(f float64) Profile {
	return Profile{Duration: time.Duration(float64(p.Duration) * f), Easing: p.Easing}
}

type property struct {
	from, to, current float64
	profile           *Profile
	pending           bool
	running           bool
	start             time.Time
}

// Animatable stores animated float properties by name.
// The zero value is ready to use. It is not safe for concurrent use.
type Animatable struct {
	props map[string]*property
}

func (a *Animatable) prop(name string) *property {
	if a.props == nil {
		a.props = make(map[string]*property)
	}
	p, ok := a.props[name]
	if !ok {
		p = &property{}
		a.props[name] = p
	}
	return p
}

// Transition binds a set of property names to a profile.
type Transition struct {
	target *Animatable
	names  []string
}

// Transitionate selects properties whose later assignments should animate.
func (a *Animatable) Transitionate(names ...string) *Transition {
	return &Transition{target: a, names: names}
}

// WithAnimation registers p for the selected properties.
func (t *Transition) WithAnimation(p Profile) *Animatable {
	for _, n := range t.names {
		prof := p
		t.target.prop(n).profile = &prof
	}
	return t.target
}

// Set assigns a new target to name. With a registered profile the change is
// queued as a transition from the displayed value; otherwise it snaps.
func (a *Animatable) Set(name string, v float64) {
	p := a.prop(name)
	if p.profile == nil {
		p.from, p.to, p.current = v, v, v
		p.pending, p.running = false, false
		return
	}
	if v == p.to {
		return
	}
	p.from = p.current
	p.to = v
	p.pending = true
	p.running = false
}

// Get returns the displayed value of name.
func (a *Animatable) Get(name string) float64 {
	if p, ok := a.props[name]; ok {
		return p.current
	}
	return 0
}

// Target returns the value name is heading to.
func (a *Animatable) Target(name string) float64 {
	if p, ok := a.props[name]; ok {
		return p.to
	}
	return 0
}

// CompleteAllTransitions snaps every property to its target.
func (a *Animatable) CompleteAllTransitions() {
	for _, p := range a.props {
		p.current, p.from = p.to, p.to
		p.pending, p.running = false, false
	}
}

// IsCompleted reports whether no transition is queued or running.
func (a *Animatable) IsCompleted() bool {
	for _, p := range a.props {
		if p.pending || p.running {
			return false
		}
	}
	return true
}

// Advance starts queued transitions at now and moves running ones to their
// value at now. It reports whether all properties are at rest.
func (a *Animatable) Advance(now time.Time) bool {
	done := true
	for _, p := range a.props {
		if p.pending {
			p.pending, p.running = false, true
			p.start = now
		}
		if !p.running {
			continue
		}
		t := 1.0
		if d := p.profile.Duration; d > 0 {
			t = float64(now.Sub(p.start)) / float64(d)
		}
		if t >= 1 {
			p.current, p.from = p.to, p.to
			p.running = false
			continue
		}
		if t < 0 {
			t = 0
		}
		ease := p.profile.Easing
		if ease == nil {
			ease = Linear
		}
		p.current = p.from + (p.to-p.from)*ease(t)
		done = false
	}
	return done
}
