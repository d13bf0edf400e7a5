package css

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenFloatReachesTargetAndFinishes(t *testing.T) {
	opacity := 1.0
	g := TweenFloat(1.0, 0.0, 0.2, ease.Linear, func(v float64) { opacity = v })

	g.Update(0.1)
	if g.Done {
		t.Fatal("tween reported done at the halfway point")
	}
	if opacity >= 1.0 || opacity <= 0.0 {
		t.Fatalf("opacity = %v, want strictly between 0 and 1", opacity)
	}

	g.Update(0.1)
	if !g.Done {
		t.Fatal("tween not done after its full duration")
	}
	if opacity != 0 {
		t.Fatalf("opacity = %v, want 0", opacity)
	}
}

func TestTweenGroupDoneOnlyWhenEveryTweenFinished(t *testing.T) {
	var c Color
	g := TweenColor(Color{R: 0, G: 0, B: 0, A: 0}, Color{R: 255, G: 128, B: 64, A: 255}, 0.5, ease.Linear, func(v Color) { c = v })

	g.Update(0.25)
	if g.Done {
		t.Fatal("group done mid-flight")
	}
	g.Update(0.25)
	if !g.Done {
		t.Fatal("group not done after full duration")
	}
	if c.R != 255 || c.G != 128 || c.B != 64 || c.A != 255 {
		t.Fatalf("final color = %+v", c)
	}
}

func TestTweenGroupUpdateAfterDoneIsNoop(t *testing.T) {
	calls := 0
	g := TweenFloat(0, 1, 0.1, ease.Linear, func(float64) { calls++ })
	g.Update(0.2)
	callsAtDone := calls
	g.Update(0.2)
	if calls != callsAtDone {
		t.Fatal("apply callback ran after the group finished")
	}
}

func TestParseTransitionShorthand(t *testing.T) {
	specs := ParseTransitionShorthand("opacity 200ms ease-in-out, transform 0.15s linear 50ms")
	if len(specs) != 2 {
		t.Fatalf("specs = %d, want 2", len(specs))
	}
	if specs[0].Property != "opacity" || specs[0].DurationMS != 200 || specs[0].DelayMS != 0 {
		t.Fatalf("spec 0 = %+v", specs[0])
	}
	if specs[1].Property != "transform" || specs[1].DurationMS != 150 || specs[1].DelayMS != 50 {
		t.Fatalf("spec 1 = %+v", specs[1])
	}
}

func TestAnimatorRemovesFinishedTransitions(t *testing.T) {
	a := NewAnimator()
	v := 0.0
	a.Start("opacity", TweenFloat(0, 1, 0.1, ease.Linear, func(x float64) { v = x }))
	a.Start("width", TweenFloat(0, 100, 0.3, ease.Linear, func(float64) {}))

	if a.Len() != 2 {
		t.Fatalf("active = %d, want 2", a.Len())
	}
	a.Step(0.15)
	if a.Active("opacity") {
		t.Fatal("finished transition still active")
	}
	if !a.Active("width") {
		t.Fatal("in-flight transition dropped early")
	}
	if v != 1 {
		t.Fatalf("opacity = %v, want 1", v)
	}
}

func TestAnimatorStartReplacesInFlight(t *testing.T) {
	a := NewAnimator()
	first, second := 0, 0
	a.Start("opacity", TweenFloat(0, 1, 1, ease.Linear, func(float64) { first++ }))
	a.Start("opacity", TweenFloat(0, 1, 1, ease.Linear, func(float64) { second++ }))
	a.Step(0.1)
	if first != 0 {
		t.Fatal("replaced transition still running")
	}
	if second == 0 {
		t.Fatal("replacement transition not running")
	}
}
