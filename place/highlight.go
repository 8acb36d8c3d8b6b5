package place

import (
	"image/color"

	"github.com/voidshard/tileworld/world"
)

// HighlightColor returns the tint a renderer applies for `h`.
// HighlightNone is fully transparent.
func (e *Engine) HighlightColor(h world.Highlight) color.NRGBA {
	switch h {
	case world.HighlightValid:
		return e.cfg.Placement.ValidColor.NRGBA()
	case world.HighlightInvalid:
		return e.cfg.Placement.InvalidColor.NRGBA()
	}
	return color.NRGBA{}
}

func highlightFor(valid bool) world.Highlight {
	if valid {
		return world.HighlightValid
	}
	return world.HighlightInvalid
}

// setHighlight switches the tracked target to `t` with highlight `h`. The old
// target's highlight is always reset first, whatever its kind.
func (e *Engine) setHighlight(t Target, h world.Highlight) {
	if e.session.Target.Kind != TargetNone && e.session.Target.Entity != t.Entity {
		e.clearHighlight()
	}

	e.mustExist(t)
	if err := e.world.SetHighlight(t.Entity, h); err != nil {
		panic(err)
	}
	e.session.Target = t
}

// clearHighlight resets the tracked target (if any) & stops tracking it.
func (e *Engine) clearHighlight() {
	t := e.session.Target
	if t.Kind == TargetNone {
		return
	}
	e.mustExist(t)
	if err := e.world.SetHighlight(t.Entity, world.HighlightNone); err != nil {
		panic(err)
	}
	e.session.Target = Target{}
}
