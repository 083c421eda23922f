// Package mouse maps terminal mouse events onto named screen regions.
package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	doubleClickThreshold = 400 * time.Millisecond
	scrollDelta          = 3
)

// Rect is a screen rectangle in cells. The right and bottom edges are
// exclusive.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named rectangle with optional payload.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap holds the clickable regions of one frame. Later regions sit on
// top of earlier ones.
type HitMap struct {
	regions []Region
}

func NewHitMap() *HitMap {
	return &HitMap{}
}

func (h *HitMap) Add(id string, rect Rect, data any) {
	h.regions = append(h.regions, Region{ID: id, Rect: rect, Data: data})
}

func (h *HitMap) AddRect(id string, x, y, w, ht int, data any) {
	h.Add(id, Rect{X: x, Y: y, W: w, H: ht}, data)
}

// Test returns the topmost region containing (x, y), or nil.
func (h *HitMap) Test(x, y int) *Region {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			r := h.regions[i]
			return &r
		}
	}
	return nil
}

func (h *HitMap) Clear() {
	h.regions = h.regions[:0]
}

// Regions returns a copy of the registered regions.
func (h *HitMap) Regions() []Region {
	return append([]Region(nil), h.regions...)
}

// ActionType classifies a handled mouse event.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionDoubleClick
	ActionScrollUp
	ActionScrollDown
	ActionScrollLeft
	ActionScrollRight
	ActionDrag
	ActionDragEnd
	ActionHover
)

// Action is the result of HandleMouse.
type Action struct {
	Type   ActionType
	Region *Region
	X, Y   int
	// Delta is the scroll amount, negative for up and left.
	Delta int
	// DragDX and DragDY are the offsets from the drag start.
	DragDX, DragDY int
}

// ClickResult is the result of HandleClick.
type ClickResult struct {
	Region        *Region
	IsDoubleClick bool
}

type dragState struct {
	active     bool
	startX     int
	startY     int
	region     string
	startValue int
}

// Handler tracks clicks and drags across events.
type Handler struct {
	HitMap *HitMap

	lastClick       time.Time
	lastClickRegion string
	drag            dragState
}

func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap()}
}

// HandleClick resolves a click at (x, y). A second click on the same
// region within the threshold is a double click; the one after starts over.
func (h *Handler) HandleClick(x, y int) ClickResult {
	region := h.HitMap.Test(x, y)
	if region == nil {
		h.lastClickRegion = ""
		return ClickResult{}
	}
	now := time.Now()
	double := region.ID == h.lastClickRegion && now.Sub(h.lastClick) < doubleClickThreshold
	if double {
		h.lastClickRegion = ""
	} else {
		h.lastClickRegion = region.ID
		h.lastClick = now
	}
	return ClickResult{Region: region, IsDoubleClick: double}
}

// StartDrag begins a drag of region at (x, y). startValue is whatever the
// caller wants back when applying the delta, e.g. the starting width.
func (h *Handler) StartDrag(x, y int, region string, startValue int) {
	h.drag = dragState{active: true, startX: x, startY: y, region: region, startValue: startValue}
}

func (h *Handler) DragDelta(x, y int) (dx, dy int) {
	return x - h.drag.startX, y - h.drag.startY
}

func (h *Handler) EndDrag() {
	h.drag = dragState{}
}

func (h *Handler) IsDragging() bool    { return h.drag.active }
func (h *Handler) DragRegion() string  { return h.drag.region }
func (h *Handler) DragStartValue() int { return h.drag.startValue }

// Clear drops every region.
func (h *Handler) Clear() {
	h.HitMap.Clear()
}

// HandleMouse classifies msg against the current regions and drag state.
func (h *Handler) HandleMouse(msg tea.MouseMsg) Action {
	x, y := msg.X, msg.Y

	switch msg.Action {
	case tea.MouseActionMotion:
		if h.drag.active {
			dx, dy := h.DragDelta(x, y)
			return Action{Type: ActionDrag, X: x, Y: y, DragDX: dx, DragDY: dy}
		}
		return Action{Type: ActionHover, Region: h.HitMap.Test(x, y), X: x, Y: y}

	case tea.MouseActionRelease:
		if h.drag.active {
			h.EndDrag()
			return Action{Type: ActionDragEnd, X: x, Y: y}
		}
		return Action{Type: ActionNone, X: x, Y: y}
	}

	region := h.HitMap.Test(x, y)
	switch msg.Button {
	case tea.MouseButtonLeft:
		click := h.HandleClick(x, y)
		if click.Region == nil {
			return Action{Type: ActionNone, X: x, Y: y}
		}
		t := ActionClick
		if click.IsDoubleClick {
			t = ActionDoubleClick
		}
		return Action{Type: t, Region: click.Region, X: x, Y: y}

	case tea.MouseButtonWheelUp:
		if msg.Shift {
			return Action{Type: ActionScrollLeft, Region: region, X: x, Y: y, Delta: -scrollDelta}
		}
		return Action{Type: ActionScrollUp, Region: region, X: x, Y: y, Delta: -scrollDelta}

	case tea.MouseButtonWheelDown:
		if msg.Shift {
			return Action{Type: ActionScrollRight, Region: region, X: x, Y: y, Delta: scrollDelta}
		}
		return Action{Type: ActionScrollDown, Region: region, X: x, Y: y, Delta: scrollDelta}

	// Natural scrolling reports horizontal wheel directions inverted.
	case tea.MouseButtonWheelLeft:
		return Action{Type: ActionScrollRight, Region: region, X: x, Y: y, Delta: scrollDelta}

	case tea.MouseButtonWheelRight:
		return Action{Type: ActionScrollLeft, Region: region, X: x, Y: y, Delta: -scrollDelta}
	}
	return Action{Type: ActionNone, X: x, Y: y}
}
