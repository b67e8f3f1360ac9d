// Package canvas provides the retouch canvas: the image display that turns
// mouse input into brush strokes.
package canvas

import (
	"log"

	"pixel-retouch/internal/app"
	"pixel-retouch/pkg/colorutil"
	"pixel-retouch/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

var minCanvasSize = fyne.NewSize(160, 120)

// RetouchCanvas shows the session image letterboxed into its area and
// forwards mouse input to the session.
type RetouchCanvas struct {
	widget.BaseWidget

	session *app.Session

	image  *fynecanvas.Image
	cursor *fynecanvas.Rectangle
	hint   *fynecanvas.Text

	hover    fyne.Position
	hovering bool

	// OnError receives pointer errors, e.g. to show them in a status bar.
	OnError func(err error)
}

var (
	_ fyne.Widget       = (*RetouchCanvas)(nil)
	_ fyne.Draggable    = (*RetouchCanvas)(nil)
	_ desktop.Mouseable = (*RetouchCanvas)(nil)
	_ desktop.Hoverable = (*RetouchCanvas)(nil)
)

// NewRetouchCanvas creates a canvas bound to s.
func NewRetouchCanvas(s *app.Session) *RetouchCanvas {
	rc := &RetouchCanvas{session: s}

	rc.image = &fynecanvas.Image{
		FillMode:  fynecanvas.ImageFillContain,
		ScaleMode: fynecanvas.ImageScalePixels,
	}
	rc.cursor = fynecanvas.NewRectangle(colorutil.BrushGhost)
	rc.cursor.StrokeColor = colorutil.TealDark
	rc.cursor.StrokeWidth = 1
	rc.cursor.Hide()
	rc.hint = fynecanvas.NewText("Open an image to start", colorutil.TealDark)
	rc.hint.Alignment = fyne.TextAlignCenter

	s.On(app.EventBufferChanged, func(interface{}) { rc.reload() })
	s.On(app.EventBrushChanged, func(interface{}) { rc.Refresh() })

	rc.ExtendBaseWidget(rc)
	return rc
}

// reload copies the session pixels into the displayed image.
func (rc *RetouchCanvas) reload() {
	rc.image.Image = rc.session.Image()
	rc.Refresh()
}

// RenderBox returns where the image is drawn inside the widget.
func (rc *RetouchCanvas) RenderBox() geometry.Rect {
	w, h := rc.session.Size()
	size := rc.Size()
	return geometry.FitContain(geometry.NewSize(float64(size.Width), float64(size.Height)), w, h)
}

func toPoint(pos fyne.Position) geometry.Point2D {
	return geometry.NewPoint2D(float64(pos.X), float64(pos.Y))
}

func (rc *RetouchCanvas) report(err error) {
	if err == nil {
		return
	}
	if rc.OnError != nil {
		rc.OnError(err)
		return
	}
	log.Printf("canvas: %v", err)
}

// MouseDown starts a stroke with the primary button.
func (rc *RetouchCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary || !rc.session.Loaded() {
		return
	}
	box := rc.RenderBox()
	if box.Width <= 0 || box.Height <= 0 {
		return
	}
	rc.report(rc.session.PointerDown(toPoint(ev.Position), box))
}

// MouseUp ends the stroke.
func (rc *RetouchCanvas) MouseUp(*desktop.MouseEvent) {
	rc.session.PointerUp()
}

// Dragged continues the stroke.
func (rc *RetouchCanvas) Dragged(ev *fyne.DragEvent) {
	rc.moveTo(ev.Position)
}

// DragEnd ends the stroke.
func (rc *RetouchCanvas) DragEnd() {
	rc.session.PointerUp()
}

// MouseIn shows the brush outline.
func (rc *RetouchCanvas) MouseIn(ev *desktop.MouseEvent) {
	rc.hovering = true
	rc.hover = ev.Position
	rc.Refresh()
}

// MouseMoved moves the brush outline and continues any stroke.
func (rc *RetouchCanvas) MouseMoved(ev *desktop.MouseEvent) {
	rc.moveTo(ev.Position)
}

// MouseOut ends the stroke like a pointer leaving the canvas.
func (rc *RetouchCanvas) MouseOut() {
	rc.hovering = false
	rc.session.PointerLeave()
	rc.Refresh()
}

func (rc *RetouchCanvas) moveTo(pos fyne.Position) {
	rc.hovering = true
	rc.hover = pos
	if rc.session.Stroking() {
		rc.report(rc.session.PointerMove(toPoint(pos), rc.RenderBox()))
	}
	rc.Refresh()
}

// cursorRect returns the on-screen brush square centered on the mouse.
func (rc *RetouchCanvas) cursorRect() (fyne.Position, fyne.Size, bool) {
	w, _ := rc.session.Size()
	box := rc.RenderBox()
	if !rc.hovering || w == 0 || box.Width <= 0 {
		return fyne.Position{}, fyne.Size{}, false
	}
	side := float32(float64(rc.session.Brush().Radius) * box.Width / float64(w))
	pos := fyne.NewPos(rc.hover.X-side/2, rc.hover.Y-side/2)
	return pos, fyne.NewSize(side, side), true
}

func (rc *RetouchCanvas) CreateRenderer() fyne.WidgetRenderer {
	rc.ExtendBaseWidget(rc)
	return &retouchRenderer{canvas: rc}
}

type retouchRenderer struct {
	canvas *RetouchCanvas
}

func (r *retouchRenderer) Layout(size fyne.Size) {
	r.canvas.image.Resize(size)
	r.canvas.image.Move(fyne.NewPos(0, 0))
	r.canvas.hint.Resize(fyne.NewSize(size.Width, r.canvas.hint.MinSize().Height))
	r.canvas.hint.Move(fyne.NewPos(0, (size.Height-r.canvas.hint.MinSize().Height)/2))
	r.layoutCursor()
}

func (r *retouchRenderer) layoutCursor() {
	pos, size, ok := r.canvas.cursorRect()
	if !ok || !r.canvas.session.Loaded() {
		r.canvas.cursor.Hide()
		return
	}
	r.canvas.cursor.Move(pos)
	r.canvas.cursor.Resize(size)
	r.canvas.cursor.Show()
}

func (r *retouchRenderer) MinSize() fyne.Size {
	return minCanvasSize
}

func (r *retouchRenderer) Refresh() {
	if r.canvas.session.Loaded() {
		r.canvas.hint.Hide()
	} else {
		r.canvas.hint.Show()
	}
	r.canvas.image.Refresh()
	r.layoutCursor()
	r.canvas.cursor.Refresh()
}

func (r *retouchRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.image, r.canvas.hint, r.canvas.cursor}
}

func (r *retouchRenderer) Destroy() {}
