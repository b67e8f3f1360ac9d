// Package retouch composes the pixel buffer, brush operators, stroke
// controller and undo history into a single editing engine.
//
// An Engine is single-threaded and synchronous. Hosts that call it from
// more than one goroutine must serialize access themselves.
package retouch

import (
	"errors"
	"fmt"
	"image"
	"slices"
	"time"

	"pixel-retouch/internal/applog"
	"pixel-retouch/internal/effect"
	"pixel-retouch/internal/history"
	pximage "pixel-retouch/internal/image"
	"pixel-retouch/internal/stroke"
	"pixel-retouch/pkg/geometry"

	"github.com/google/uuid"
)

// Brush radius limits.
const (
	MinRadius     = 5
	MaxRadius     = 100
	DefaultRadius = 20
)

// DefaultOperator is the operator selected after every load.
const DefaultOperator = effect.KindRepair

var (
	ErrNoImage         = errors.New("no image loaded")
	ErrUnknownOperator = errors.New("unknown operator")
)

// Brush is the current brush configuration.
type Brush struct {
	Radius   int
	Operator effect.Kind
}

// DefaultBrush returns the brush every load starts with.
func DefaultBrush() Brush {
	return Brush{Radius: DefaultRadius, Operator: DefaultOperator}
}

// ClampRadius limits r to [MinRadius, MaxRadius].
func ClampRadius(r int) int {
	return max(MinRadius, min(r, MaxRadius))
}

// Option configures an Engine.
type Option func(*Engine)

// WithOperator registers or replaces the operator used for kind.
func WithOperator(kind effect.Kind, op effect.Operator) Option {
	return func(e *Engine) {
		if op == nil {
			delete(e.operators, kind)
			return
		}
		e.operators[kind] = op
	}
}

// WithHistoryDepth sets how many snapshots undo keeps, including the
// loaded image.
func WithHistoryDepth(n int) Option {
	return func(e *Engine) { e.depth = n }
}

// WithInterpolation makes the brush fill gaps between pointer samples.
func WithInterpolation(on bool) Option {
	return func(e *Engine) { e.interpolate = on }
}

// WithBlurSeed replaces the Blur operator with one seeded for reproducible
// output.
func WithBlurSeed(seed uint64) Option {
	return func(e *Engine) {
		e.operators[effect.KindBlur] = effect.NewSeededBlur(seed, seed^0x9e3779b97f4a7c15)
	}
}

// Engine owns the live buffer, the brush and the undo history of one
// loaded image.
type Engine struct {
	operators   map[effect.Kind]effect.Operator
	depth       int
	interpolate bool

	buf     *pximage.Buffer
	imageID string
	brush   Brush
	history *history.Stack
	stroke  *stroke.Controller
	applied int
}

// New creates an engine with no image loaded.
func New(opts ...Option) *Engine {
	e := &Engine{
		operators: map[effect.Kind]effect.Operator{
			effect.KindRepair:   effect.NewRepair(),
			effect.KindBlur:     effect.NewBlur(),
			effect.KindPixelate: effect.NewPixelate(),
		},
		depth: history.DefaultDepth,
		brush: DefaultBrush(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.stroke = stroke.New(e.applyAt, e.commit)
	if e.interpolate {
		e.stroke.SetSpacing(e.spacing)
	}
	return e
}

// Load replaces the image with a copy of pix (RGBA, width*height*4 bytes).
func (e *Engine) Load(pix []uint8, width, height int) error {
	buf, err := pximage.FromPixels(pix, width, height)
	if err != nil {
		return fmt.Errorf("failed to load pixels: %w", err)
	}
	e.install(buf)
	return nil
}

// LoadImage replaces the image with a converted copy of img.
func (e *Engine) LoadImage(img image.Image) error {
	buf, err := pximage.FromImage(img)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	e.install(buf)
	return nil
}

// LoadBuffer takes ownership of buf as the new image.
func (e *Engine) LoadBuffer(buf *pximage.Buffer) error {
	if buf == nil || buf.Width() <= 0 || buf.Height() <= 0 {
		return fmt.Errorf("failed to load buffer: %w", pximage.ErrInvalidSize)
	}
	e.install(buf)
	return nil
}

func (e *Engine) install(buf *pximage.Buffer) {
	e.stroke.Cancel()
	e.applied = 0
	e.buf = buf
	e.brush = DefaultBrush()
	e.imageID = uuid.NewString()
	if e.history == nil {
		e.history = history.New(e.depth, buf)
	} else {
		e.history.Reset(buf)
	}
	applog.Logger().Info("image loaded",
		"image", e.imageID, "width", buf.Width(), "height", buf.Height())
}

// Loaded reports whether an image is loaded.
func (e *Engine) Loaded() bool { return e.buf != nil }

// ImageID identifies the current load for log correlation.
func (e *Engine) ImageID() string { return e.imageID }

// Size returns the buffer dimensions, or zeros when nothing is loaded.
func (e *Engine) Size() (width, height int) {
	if e.buf == nil {
		return 0, 0
	}
	return e.buf.Width(), e.buf.Height()
}

// Brush returns the current brush.
func (e *Engine) Brush() Brush { return e.brush }

// SetOperator selects the operator for subsequent applications.
func (e *Engine) SetOperator(kind effect.Kind) error {
	if _, ok := e.operators[kind]; !ok {
		return fmt.Errorf("%w: %v", ErrUnknownOperator, kind)
	}
	e.brush.Operator = kind
	return nil
}

// SetRadius sets the brush radius clamped to [MinRadius, MaxRadius] and
// returns the value stored.
func (e *Engine) SetRadius(r int) int {
	e.brush.Radius = ClampRadius(r)
	return e.brush.Radius
}

// Operators returns the registered operator kinds in display order.
func (e *Engine) Operators() []effect.Kind {
	kinds := make([]effect.Kind, 0, len(e.operators))
	for k := range e.operators {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// PointerDown starts a stroke at a display position inside box.
func (e *Engine) PointerDown(p geometry.Point2D, box geometry.Rect) error {
	q, err := e.mapPoint(p, box)
	if err != nil {
		return err
	}
	e.stroke.Start(q)
	return nil
}

// PointerMove continues the stroke. Moves without a stroke are ignored.
func (e *Engine) PointerMove(p geometry.Point2D, box geometry.Rect) error {
	if e.buf == nil {
		return ErrNoImage
	}
	if !e.stroke.Active() {
		return nil
	}
	q, err := e.mapPoint(p, box)
	if err != nil {
		return err
	}
	e.stroke.Move(q)
	return nil
}

// PointerUp ends the stroke and records one history snapshot.
func (e *Engine) PointerUp() {
	e.stroke.End()
}

// PointerLeave behaves like PointerUp.
func (e *Engine) PointerLeave() {
	e.stroke.End()
}

// Stroking reports whether a stroke is in progress.
func (e *Engine) Stroking() bool { return e.stroke.Active() }

func (e *Engine) mapPoint(p geometry.Point2D, box geometry.Rect) (geometry.PointInt, error) {
	if e.buf == nil {
		return geometry.PointInt{}, ErrNoImage
	}
	q, err := geometry.MapToBuffer(p, box, e.buf.Width(), e.buf.Height())
	if err != nil {
		return geometry.PointInt{}, fmt.Errorf("failed to map pointer: %w", err)
	}
	return q, nil
}

// PaintRect sweeps the brush over r in buffer coordinates as one stroke.
func (e *Engine) PaintRect(r geometry.RectInt) error {
	return e.PaintRects([]geometry.RectInt{r})
}

// PaintRects sweeps the brush over every rectangle as a single stroke, so
// one Undo reverts them all. Rows are spaced half a brush apart so the
// squares overlap. Rectangles outside the image are skipped.
func (e *Engine) PaintRects(rects []geometry.RectInt) error {
	if e.buf == nil {
		return ErrNoImage
	}
	e.stroke.End()
	for _, r := range rects {
		r = r.Clamp(e.buf.Width(), e.buf.Height())
		if r.Empty() {
			continue
		}
		for _, p := range e.sweep(r) {
			if e.stroke.Active() {
				e.stroke.Jump(p)
			} else {
				e.stroke.Start(p)
			}
		}
	}
	e.stroke.End()
	return nil
}

// sweep lists brush centers covering r row by row.
func (e *Engine) sweep(r geometry.RectInt) []geometry.PointInt {
	step := max(1, e.brush.Radius/2)
	half := e.brush.Radius / 2
	x0, x1 := r.X+min(half, r.Width/2), r.X+r.Width-min(half, r.Width/2)
	y0, y1 := r.Y+min(half, r.Height/2), r.Y+r.Height-min(half, r.Height/2)

	var points []geometry.PointInt
	for y := y0; ; y += step {
		y = min(y, y1)
		for x := x0; ; x += step {
			x = min(x, x1)
			points = append(points, geometry.PointInt{X: x, Y: y})
			if x >= x1 {
				break
			}
		}
		if y >= y1 {
			break
		}
	}
	return points
}

// Undo restores the previous snapshot. It reports false when only the
// loaded image remains or nothing is loaded.
func (e *Engine) Undo() bool {
	if e.buf == nil {
		return false
	}
	e.stroke.End()
	prev, ok := e.history.Undo()
	if !ok {
		return false
	}
	if err := e.buf.CopyFrom(prev); err != nil {
		// History only ever holds snapshots of this buffer.
		panic(fmt.Sprintf("retouch: restore snapshot: %v", err))
	}
	applog.Logger().Debug("undo", "image", e.imageID, "history", e.history.Len())
	return true
}

// CanUndo reports whether Undo would change the buffer.
func (e *Engine) CanUndo() bool {
	return e.history != nil && e.buf != nil && e.history.CanUndo()
}

// HistoryLen returns the number of stored snapshots.
func (e *Engine) HistoryLen() int {
	if e.history == nil || e.buf == nil {
		return 0
	}
	return e.history.Len()
}

// Export returns a read-only view of the live buffer, or nil when nothing
// is loaded. The view shares pixels with the engine and reflects later
// edits.
func (e *Engine) Export() image.Image {
	if e.buf == nil {
		return nil
	}
	return e.buf.Image()
}

// Snapshot returns an independent copy of the live buffer.
func (e *Engine) Snapshot() *pximage.Buffer {
	if e.buf == nil {
		return nil
	}
	return e.buf.Clone()
}

func (e *Engine) applyAt(p geometry.PointInt) {
	op, ok := e.operators[e.brush.Operator]
	if !ok {
		return
	}
	op.Apply(e.buf, p.X, p.Y, e.brush.Radius)
	e.applied++
}

func (e *Engine) commit(s stroke.Stroke) {
	e.history.Push(e.buf)
	applog.Logger().Debug("stroke committed",
		"image", e.imageID,
		"stroke", s.ID,
		"operator", e.brush.Operator,
		"radius", e.brush.Radius,
		"points", len(s.Points),
		"applications", e.applied,
		"elapsed", time.Since(s.Started),
		"history", e.history.Len())
	e.applied = 0
}

// spacing keeps interpolated applications a quarter brush apart.
func (e *Engine) spacing() int {
	return max(1, e.brush.Radius/4)
}
