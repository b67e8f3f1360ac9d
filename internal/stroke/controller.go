// Package stroke turns pointer down/move/up sequences into brush applications.
package stroke

import (
	"time"

	"pixel-retouch/pkg/geometry"

	"github.com/google/uuid"
)

// State is the controller state.
type State int

const (
	Idle State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "Active"
	}
	return "Idle"
}

// Stroke is one continuous pointer interaction, in buffer coordinates.
type Stroke struct {
	ID      string
	Points  []geometry.PointInt
	Started time.Time
}

// ApplyFunc applies the brush at a buffer position.
type ApplyFunc func(p geometry.PointInt)

// CommitFunc receives a finished stroke.
type CommitFunc func(s Stroke)

// Controller is the Idle -> Active -> Idle state machine behind a brush.
// It is not safe for concurrent use.
type Controller struct {
	apply   ApplyFunc
	commit  CommitFunc
	spacing func() int

	state   State
	current Stroke
	last    geometry.PointInt
}

// New creates a controller. commit may be nil.
func New(apply ApplyFunc, commit CommitFunc) *Controller {
	return &Controller{apply: apply, commit: commit}
}

// SetSpacing enables interpolation: Move also applies the brush at points
// roughly spacing() pixels apart between the previous and the new position.
// A nil function or a non-positive result disables it.
func (c *Controller) SetSpacing(spacing func() int) {
	c.spacing = spacing
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Active reports whether a stroke is in progress.
func (c *Controller) Active() bool { return c.state == Active }

// Current returns a copy of the stroke in progress.
func (c *Controller) Current() (Stroke, bool) {
	if c.state != Active {
		return Stroke{}, false
	}
	s := c.current
	s.Points = append([]geometry.PointInt(nil), c.current.Points...)
	return s, true
}

// Start begins a stroke and applies the brush once at p, so a click
// without movement still edits. Starting while a stroke is active commits
// the old stroke first.
func (c *Controller) Start(p geometry.PointInt) {
	if c.state == Active {
		c.End()
	}
	c.state = Active
	c.current = Stroke{
		ID:      uuid.NewString(),
		Points:  []geometry.PointInt{p},
		Started: time.Now(),
	}
	c.last = p
	c.apply(p)
}

// Move applies the brush at p. It returns false and does nothing while Idle.
func (c *Controller) Move(p geometry.PointInt) bool {
	if c.state != Active {
		return false
	}
	if c.spacing != nil {
		if step := c.spacing(); step > 0 {
			dist := c.last.ToFloat().Distance(p.ToFloat())
			if n := int(dist/float64(step)) - 1; n > 0 {
				for _, q := range geometry.Lerp(c.last, p, n) {
					c.apply(q)
				}
			}
		}
	}
	c.current.Points = append(c.current.Points, p)
	c.last = p
	c.apply(p)
	return true
}

// Jump applies the brush at p as part of the current stroke without
// interpolating from the previous point.
func (c *Controller) Jump(p geometry.PointInt) bool {
	if c.state != Active {
		return false
	}
	c.current.Points = append(c.current.Points, p)
	c.last = p
	c.apply(p)
	return true
}

// End finishes the stroke and hands it to the commit function.
// It returns false and does nothing while Idle.
func (c *Controller) End() bool {
	if c.state != Active {
		return false
	}
	done := c.current
	c.state = Idle
	c.current = Stroke{}
	if c.commit != nil {
		c.commit(done)
	}
	return true
}

// Cancel drops the stroke in progress without committing it.
func (c *Controller) Cancel() {
	c.state = Idle
	c.current = Stroke{}
}
