package panels

import (
	"testing"

	"pixel-retouch/internal/app"
	"pixel-retouch/internal/effect"
	pximage "pixel-retouch/internal/image"
	"pixel-retouch/pkg/geometry"

	"fyne.io/fyne/v2/test"
)

func newPanel(t *testing.T) (*ToolPanel, *app.Session) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)
	s := app.NewSession()
	return NewToolPanel(s), s
}

func TestToolPanelDefaults(t *testing.T) {
	tp, _ := newPanel(t)
	if got := tp.operators.Selected; got != "Repair" {
		t.Errorf("selected operator = %q, want Repair", got)
	}
	if got := tp.radius.Value; got != 20 {
		t.Errorf("slider value = %v, want 20", got)
	}
	if !tp.undoBtn.Disabled() || !tp.textBtn.Disabled() {
		t.Error("buttons should be disabled without an image")
	}
}

func TestToolPanelDrivesSession(t *testing.T) {
	tp, s := newPanel(t)

	tp.onOperator("Pixelate")
	if got := s.Brush().Operator; got != effect.KindPixelate {
		t.Errorf("session operator = %v, want pixelate", got)
	}
	tp.onRadius(64)
	if got := s.Brush().Radius; got != 64 {
		t.Errorf("session radius = %d, want 64", got)
	}
	if tp.operators.Selected != "Pixelate" {
		t.Errorf("selected operator = %q, want Pixelate", tp.operators.Selected)
	}
	if got := tp.radiusLabel.Text; got != "Brush size: 64 px" {
		t.Errorf("radius label = %q", got)
	}
}

func TestToolPanelFollowsSession(t *testing.T) {
	tp, s := newPanel(t)
	buf, err := pximage.NewBuffer(20, 20)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.LoadBuffer(buf, ""); err != nil {
		t.Fatal(err)
	}
	if tp.textBtn.Disabled() {
		t.Error("Remove text disabled with an image loaded")
	}

	if err := s.PointerDown(geometry.NewPoint2D(5, 5), geometry.NewRect(0, 0, 20, 20)); err != nil {
		t.Fatal(err)
	}
	s.PointerUp()
	if tp.undoBtn.Disabled() {
		t.Error("Undo disabled after a stroke")
	}

	test.Tap(tp.undoBtn)
	if s.CanUndo() || !tp.undoBtn.Disabled() {
		t.Error("Undo button did not undo")
	}

	s.SetRadius(7)
	if tp.radius.Value != 7 {
		t.Errorf("slider value = %v, want 7", tp.radius.Value)
	}
}
