package css

import (
	"strconv"
	"strings"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64-backed computed-style fields
// simultaneously (count + fixed-size tween arrays, no per-frame
// allocation), with an apply-callback per tween so a single group can
// drive a [Color]'s four channels or a single scalar style field alike.
type TweenGroup struct {
	tweens [4]*gween.Tween
	apply  [4]func(float64)
	count  int
	Done   bool
}

// Update advances every tween in the group by dt seconds and writes the
// results back through each field's apply callback. Done is set once every
// tween reports finished.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.apply[i](float64(val))
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

func newGroup(n int) *TweenGroup { return &TweenGroup{count: n} }

// TweenFloat animates a single scalar style field (opacity, a Length's
// pixel value, a flex-grow factor, ...) to a target value.
func TweenFloat(from, to float64, duration float32, fn ease.TweenFunc, set func(float64)) *TweenGroup {
	g := newGroup(1)
	g.tweens[0] = gween.New(float32(from), float32(to), duration, fn)
	g.apply[0] = set
	return g
}

// TweenColor animates all four channels of a color field to a target
// color.
func TweenColor(from, to Color, duration float32, fn ease.TweenFunc, set func(Color)) *TweenGroup {
	g := newGroup(4)
	cur := from
	g.tweens[0] = gween.New(float32(from.R), float32(to.R), duration, fn)
	g.tweens[1] = gween.New(float32(from.G), float32(to.G), duration, fn)
	g.tweens[2] = gween.New(float32(from.B), float32(to.B), duration, fn)
	g.tweens[3] = gween.New(float32(from.A), float32(to.A), duration, fn)
	g.apply[0] = func(v float64) { cur.R = clampByte(v); set(cur) }
	g.apply[1] = func(v float64) { cur.G = clampByte(v); set(cur) }
	g.apply[2] = func(v float64) { cur.B = clampByte(v); set(cur) }
	g.apply[3] = func(v float64) { cur.A = clampByte(v); set(cur) }
	return g
}

// TransitionSpec is one entry of a parsed `transition` shorthand.
type TransitionSpec struct {
	Property   string
	DurationMS float64
	DelayMS    float64
	Timing     ease.TweenFunc
}

var timingFuncs = map[string]ease.TweenFunc{
	"linear":      ease.Linear,
	"ease":        ease.InOutCubic,
	"ease-in":     ease.InCubic,
	"ease-out":    ease.OutCubic,
	"ease-in-out": ease.InOutCubic,
}

// ParseTransitionShorthand parses a CSS `transition` property value, e.g.
// "opacity 200ms ease-in-out, transform 150ms linear 50ms".
func ParseTransitionShorthand(v string) []TransitionSpec {
	var out []TransitionSpec
	for _, part := range strings.Split(v, ",") {
		fields := strings.Fields(strings.TrimSpace(part))
		if len(fields) == 0 {
			continue
		}
		spec := TransitionSpec{Property: fields[0], DurationMS: 0, Timing: ease.Linear}
		durSeen := false
		for _, f := range fields[1:] {
			if d, ok := parseMS(f); ok {
				if !durSeen {
					spec.DurationMS = d
					durSeen = true
				} else {
					spec.DelayMS = d
				}
				continue
			}
			if fn, ok := timingFuncs[f]; ok {
				spec.Timing = fn
			}
		}
		out = append(out, spec)
	}
	return out
}

func parseMS(s string) (float64, bool) {
	switch {
	case strings.HasSuffix(s, "ms"):
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "ms"), 64)
		return f, err == nil
	case strings.HasSuffix(s, "s"):
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "s"), 64)
		return f * 1000, err == nil
	}
	return 0, false
}

// Animator drives a set of in-flight TweenGroups keyed by CSS property
// name for one element — callers create one per element that has active
// transitions and call Step each frame. There is no global manager; all
// animation state is owned by the caller.
type Animator struct {
	active map[string]*TweenGroup
}

// NewAnimator returns an empty animator.
func NewAnimator() *Animator { return &Animator{active: make(map[string]*TweenGroup)} }

// Start begins (or replaces) the transition for property.
func (a *Animator) Start(property string, g *TweenGroup) {
	a.active[property] = g
}

// Step advances every active transition by dt seconds and removes the ones
// that finished.
func (a *Animator) Step(dt float32) {
	for prop, g := range a.active {
		g.Update(dt)
		if g.Done {
			delete(a.active, prop)
		}
	}
}

// Active reports whether property currently has an in-flight transition.
func (a *Animator) Active(property string) bool {
	_, ok := a.active[property]
	return ok
}

// Len reports how many transitions are currently in flight.
func (a *Animator) Len() int { return len(a.active) }
