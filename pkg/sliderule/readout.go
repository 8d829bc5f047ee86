package sliderule

import (
	"fmt"

	"github.com/matzehuels/sliderule/pkg/errors"
)

// Reading is the value under the cursor hairline on one scale. When the
// scale cannot be read, Error is set and Value is zero.
type Reading struct {
	Component Component `json:"component"`
	Scale     string    `json:"scale"`
	Value     float64   `json:"value"`
	Text      string    `json:"text"`
	Error     string    `json:"error,omitempty"`
}

func (rd Reading) String() string {
	return fmt.Sprintf("%s: %s", rd.Scale, rd.Text)
}

// Hairline returns the x coordinate of the cursor hairline.
func (r *SlideRule) Hairline() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursorPos + CursorWidth/2
}

// Readings computes the cursor readout of every mounted scale in visual
// order, snapping to ticks when the configuration asks for it.
func (r *SlideRule) Readings() []Reading {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readings(r.cfg.SnapToTicks)
}

// ExactReadings computes the readout without snapping.
func (r *SlideRule) ExactReadings() []Reading {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readings(false)
}

func (r *SlideRule) readings(snap bool) []Reading {
	hairline := r.cursorPos + CursorWidth/2
	var out []Reading
	for _, c := range Components() {
		g := r.geometry(c)
		for _, m := range r.mounted[c] {
			x := hairline - r.leftPadding
			if c == Slide {
				x -= r.slidePos
			}
			rd := Reading{Component: c, Scale: m.Renderer.Config().Name}
			v, err := m.Renderer.Value(m.Scale, g, x, snap)
			if err != nil {
				r.logger.Warn("read scale", "scale", rd.Scale, "code", errors.GetCode(err), "err", errors.UserMessage(err))
				rd.Text = "n/a"
				rd.Error = errors.UserMessage(err)
			} else {
				rd.Value = v
				rd.Text = fmt.Sprintf("%.2f", v)
			}
			out = append(out, rd)
		}
	}
	return out
}

// Snapshot is a consistent view of a rule's state taken under one lock.
type Snapshot struct {
	Layout        Layout
	Labels        []Label
	Readings      []Reading
	ExactReadings []Reading
	DeveloperMode bool
	Resetting     bool
}

// Snapshot returns the layout, labels and both readouts as of a single
// instant. Concurrent moves land entirely before or after it.
func (r *SlideRule) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		Layout:        r.layout(),
		Labels:        r.labels(),
		Readings:      r.readings(r.cfg.SnapToTicks),
		ExactReadings: r.readings(false),
		DeveloperMode: r.devMode,
		Resetting:     r.resetting,
	}
}

// Display returns the readout last shown in developer mode. It is empty
// while developer mode is off.
func (r *SlideRule) Display() []Reading {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Reading(nil), r.display...)
}

// refreshDisplay recomputes the developer mode readout. It returns the
// readings to pass to the readout handler, or nil when the display is off.
func (r *SlideRule) refreshDisplay() []Reading {
	if !r.devMode {
		r.display = nil
		return nil
	}
	r.display = r.readings(r.cfg.SnapToTicks)
	return append([]Reading(nil), r.display...)
}

// notify runs the readout handler. Callers must not hold the lock.
func (r *SlideRule) notify(readings []Reading) {
	if readings == nil || r.onReadout == nil {
		return
	}
	r.onReadout(readings)
}
