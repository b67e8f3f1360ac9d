// Package panels provides the side panels of the main window.
package panels

import (
	"fmt"

	"pixel-retouch/internal/app"
	"pixel-retouch/internal/effect"
	"pixel-retouch/internal/retouch"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// ToolPanel holds the brush controls: operator, radius and undo.
type ToolPanel struct {
	session *app.Session

	operators   *widget.RadioGroup
	radius      *widget.Slider
	radiusLabel *widget.Label
	undoBtn     *widget.Button
	textBtn     *widget.Button

	kinds    map[string]effect.Kind
	updating bool

	// OnRemoveText is called by the "Remove text" button. Nil hides it.
	OnRemoveText func()

	container *fyne.Container
}

// NewToolPanel builds the panel for the operators s accepts.
func NewToolPanel(s *app.Session) *ToolPanel {
	tp := &ToolPanel{
		session: s,
		kinds:   make(map[string]effect.Kind),
	}

	var labels []string
	for _, k := range s.Operators() {
		labels = append(labels, k.Label())
		tp.kinds[k.Label()] = k
	}
	tp.operators = widget.NewRadioGroup(labels, tp.onOperator)
	tp.operators.Required = true

	tp.radius = widget.NewSlider(retouch.MinRadius, retouch.MaxRadius)
	tp.radius.Step = 1
	tp.radius.OnChanged = tp.onRadius
	tp.radiusLabel = widget.NewLabel("")

	tp.undoBtn = widget.NewButton("Undo", func() { s.Undo() })
	tp.textBtn = widget.NewButton("Remove text", func() {
		if tp.OnRemoveText != nil {
			tp.OnRemoveText()
		}
	})

	tp.container = container.NewVBox(
		widget.NewLabelWithStyle("Tool", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		tp.operators,
		widget.NewSeparator(),
		tp.radiusLabel,
		tp.radius,
		widget.NewSeparator(),
		tp.undoBtn,
		tp.textBtn,
	)

	s.On(app.EventBrushChanged, func(interface{}) { tp.sync() })
	s.On(app.EventHistoryChanged, func(interface{}) { tp.sync() })
	s.On(app.EventImageLoaded, func(interface{}) { tp.sync() })
	tp.sync()
	return tp
}

// Container returns the panel for embedding in layouts.
func (tp *ToolPanel) Container() fyne.CanvasObject {
	return tp.container
}

// sync copies the session state into the widgets without feeding the
// change back.
func (tp *ToolPanel) sync() {
	tp.updating = true
	defer func() { tp.updating = false }()

	brush := tp.session.Brush()
	tp.operators.SetSelected(brush.Operator.Label())
	tp.radius.SetValue(float64(brush.Radius))
	tp.radiusLabel.SetText(fmt.Sprintf("Brush size: %d px", brush.Radius))

	if tp.session.CanUndo() {
		tp.undoBtn.Enable()
	} else {
		tp.undoBtn.Disable()
	}
	if tp.session.Loaded() {
		tp.textBtn.Enable()
	} else {
		tp.textBtn.Disable()
	}
}

func (tp *ToolPanel) onOperator(label string) {
	if tp.updating {
		return
	}
	kind, ok := tp.kinds[label]
	if !ok {
		return
	}
	_ = tp.session.SetOperator(kind)
}

func (tp *ToolPanel) onRadius(v float64) {
	if tp.updating {
		return
	}
	tp.session.SetRadius(int(v))
}
