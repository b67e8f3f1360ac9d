// Package app holds the GUI session: serialized engine access and events.
package app

import (
	"errors"
	"fmt"
	goimage "image"
	"path/filepath"
	"sync"

	"pixel-retouch/internal/effect"
	"pixel-retouch/internal/export"
	"pixel-retouch/internal/image"
	"pixel-retouch/internal/retouch"
	"pixel-retouch/pkg/geometry"
)

// ErrImageChanged reports that another image was loaded while text was
// being searched for, so the boxes found no longer apply.
var ErrImageChanged = errors.New("image changed during text search")

// EventType identifies different session events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventBufferChanged
	EventHistoryChanged
	EventBrushChanged
	EventExported
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// TextFinder locates text boxes in a buffer.
type TextFinder interface {
	Find(buf *image.Buffer) ([]geometry.RectInt, error)
}

// Session wraps an Engine for the GUI. All engine calls are serialized
// and listeners run after the lock is released.
type Session struct {
	mu sync.RWMutex

	engine    *retouch.Engine
	imagePath string
	modified  bool

	ExportOptions export.Options

	listeners map[EventType][]EventListener
}

// NewSession creates a session around a new engine.
func NewSession(opts ...retouch.Option) *Session {
	return &Session{
		engine:    retouch.New(opts...),
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// LoadImage decodes the file at path and makes it the current image.
func (s *Session) LoadImage(path string) error {
	buf, err := image.Load(path)
	if err != nil {
		return err
	}
	return s.LoadBuffer(buf, path)
}

// LoadBuffer makes buf the current image. path is only recorded.
func (s *Session) LoadBuffer(buf *image.Buffer, path string) error {
	s.mu.Lock()
	if err := s.engine.LoadBuffer(buf); err != nil {
		s.mu.Unlock()
		return err
	}
	s.imagePath = path
	s.modified = false
	brush := s.engine.Brush()
	s.mu.Unlock()

	s.Emit(EventImageLoaded, path)
	s.Emit(EventBrushChanged, brush)
	s.Emit(EventHistoryChanged, false)
	s.Emit(EventBufferChanged, nil)
	s.Emit(EventModified, false)
	return nil
}

// ImagePath returns the path of the loaded image, if any.
func (s *Session) ImagePath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.imagePath
}

// Modified reports whether there are edits since the last load or export.
func (s *Session) Modified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// Loaded reports whether an image is loaded.
func (s *Session) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Loaded()
}

// Size returns the image dimensions.
func (s *Session) Size() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Size()
}

// Image returns a copy of the current pixels, or nil when nothing is loaded.
func (s *Session) Image() goimage.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.engine.Snapshot()
	if snap == nil {
		return nil
	}
	return snap.Image()
}

// Brush returns the current brush.
func (s *Session) Brush() retouch.Brush {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Brush()
}

// Operators lists the operators the engine accepts.
func (s *Session) Operators() []effect.Kind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Operators()
}

// SetOperator selects the brush operator.
func (s *Session) SetOperator(kind effect.Kind) error {
	s.mu.Lock()
	err := s.engine.SetOperator(kind)
	brush := s.engine.Brush()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.Emit(EventBrushChanged, brush)
	return nil
}

// SetRadius sets the brush radius and returns the clamped value.
func (s *Session) SetRadius(r int) int {
	s.mu.Lock()
	got := s.engine.SetRadius(r)
	brush := s.engine.Brush()
	s.mu.Unlock()
	s.Emit(EventBrushChanged, brush)
	return got
}

// PointerDown starts a stroke.
func (s *Session) PointerDown(p geometry.Point2D, box geometry.Rect) error {
	s.mu.Lock()
	err := s.engine.PointerDown(p, box)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.Emit(EventBufferChanged, nil)
	return nil
}

// PointerMove continues a stroke.
func (s *Session) PointerMove(p geometry.Point2D, box geometry.Rect) error {
	s.mu.Lock()
	active := s.engine.Stroking()
	err := s.engine.PointerMove(p, box)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if active {
		s.Emit(EventBufferChanged, nil)
	}
	return nil
}

// PointerUp ends a stroke.
func (s *Session) PointerUp() {
	s.endStroke(s.engine.PointerUp)
}

// PointerLeave ends a stroke.
func (s *Session) PointerLeave() {
	s.endStroke(s.engine.PointerLeave)
}

func (s *Session) endStroke(end func()) {
	s.mu.Lock()
	active := s.engine.Stroking()
	end()
	canUndo := s.engine.CanUndo()
	if active {
		s.modified = true
	}
	s.mu.Unlock()
	if active {
		s.Emit(EventHistoryChanged, canUndo)
		s.Emit(EventModified, true)
	}
}

// Stroking reports whether a stroke is in progress.
func (s *Session) Stroking() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Stroking()
}

// Undo reverts the last stroke.
func (s *Session) Undo() bool {
	s.mu.Lock()
	ok := s.engine.Undo()
	canUndo := s.engine.CanUndo()
	if ok {
		s.modified = true
	}
	s.mu.Unlock()
	if ok {
		s.Emit(EventBufferChanged, nil)
		s.Emit(EventHistoryChanged, canUndo)
		s.Emit(EventModified, true)
	}
	return ok
}

// CanUndo reports whether Undo would change the image.
func (s *Session) CanUndo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.CanUndo()
}

// HistoryLen returns the number of undo snapshots.
func (s *Session) HistoryLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.HistoryLen()
}

// Export writes the current image to path.
func (s *Session) Export(path string) error {
	s.mu.RLock()
	snap := s.engine.Snapshot()
	opts := s.ExportOptions
	s.mu.RUnlock()
	if snap == nil {
		return retouch.ErrNoImage
	}
	if err := export.Save(path, snap.Image(), opts); err != nil {
		return fmt.Errorf("failed to export %s: %w", filepath.Base(path), err)
	}

	s.mu.Lock()
	s.modified = false
	s.mu.Unlock()
	s.Emit(EventExported, path)
	s.Emit(EventModified, false)
	return nil
}

// RemoveText paints over every box the finder reports as one undoable
// stroke and returns the number of boxes.
func (s *Session) RemoveText(f TextFinder) (int, error) {
	s.mu.RLock()
	snap := s.engine.Snapshot()
	id := s.engine.ImageID()
	s.mu.RUnlock()
	if snap == nil {
		return 0, retouch.ErrNoImage
	}
	rects, err := f.Find(snap)
	if err != nil {
		return 0, fmt.Errorf("failed to find text: %w", err)
	}
	if len(rects) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	if s.engine.ImageID() != id {
		s.mu.Unlock()
		return 0, ErrImageChanged
	}
	err = s.engine.PaintRects(rects)
	canUndo := s.engine.CanUndo()
	if err == nil {
		s.modified = true
	}
	s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	s.Emit(EventBufferChanged, nil)
	s.Emit(EventHistoryChanged, canUndo)
	s.Emit(EventModified, true)
	return len(rects), nil
}
