package mouse

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func press(button tea.MouseButton, x, y int) tea.MouseMsg {
	return tea.MouseMsg{Action: tea.MouseActionPress, Button: button, X: x, Y: y}
}

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 30, H: 40}

	tests := []struct {
		name   string
		x, y   int
		expect bool
	}{
		{"inside", 15, 30, true},
		{"top-left corner", 10, 20, true},
		{"right edge exclusive", 40, 30, false},
		{"bottom edge exclusive", 15, 60, false},
		{"left of rect", 9, 30, false},
		{"above rect", 15, 19, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.expect {
				t.Errorf("Contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.expect)
			}
		})
	}

	if (Rect{X: 5, Y: 5, W: 0, H: 10}).Contains(5, 5) {
		t.Error("zero-width rect should not contain any point")
	}
}

// sidebarMap mirrors the app layout: page underneath, sidebar on top with
// its border column.
func sidebarMap() *HitMap {
	hm := NewHitMap()
	hm.Add("page", Rect{X: 0, Y: 0, W: 80, H: 23}, nil)
	hm.Add("sidebar", Rect{X: 0, Y: 0, W: 31, H: 23}, "tree")
	hm.Add("divider", Rect{X: 31, Y: 0, W: 1, H: 23}, nil)
	return hm
}

func TestHitMap_Test(t *testing.T) {
	hm := sidebarMap()

	tests := []struct {
		x, y int
		want string
	}{
		{0, 0, "sidebar"},
		{30, 10, "sidebar"},
		{31, 10, "divider"},
		{32, 10, "page"},
		{79, 22, "page"},
		{10, 23, ""},
	}
	for _, tt := range tests {
		r := hm.Test(tt.x, tt.y)
		got := ""
		if r != nil {
			got = r.ID
		}
		if got != tt.want {
			t.Errorf("Test(%d, %d) = %q, want %q", tt.x, tt.y, got, tt.want)
		}
	}

	if r := hm.Test(1, 1); r.Data != "tree" {
		t.Errorf("data = %v, want tree", r.Data)
	}
}

func TestHitMap_ClearAndRegions(t *testing.T) {
	hm := sidebarMap()

	regions := hm.Regions()
	if len(regions) != 3 {
		t.Fatalf("expected 3 regions, got %d", len(regions))
	}
	regions[0].ID = "mutated"
	if hm.Regions()[0].ID == "mutated" {
		t.Error("Regions() should return a copy")
	}

	hm.Clear()
	if hm.Test(5, 5) != nil {
		t.Error("expected no hit after clear")
	}
	hm.AddRect("toggler", 0, 0, 1, 23, nil)
	if r := hm.Test(0, 5); r == nil || r.ID != "toggler" {
		t.Errorf("expected toggler after re-adding, got %v", r)
	}
}

func TestHandleMouse_Clicks(t *testing.T) {
	h := NewHandler()
	h.HitMap = sidebarMap()

	first := h.HandleMouse(press(tea.MouseButtonLeft, 5, 5))
	if first.Type != ActionClick || first.Region.ID != "sidebar" {
		t.Fatalf("first = %+v, want click on sidebar", first)
	}
	second := h.HandleMouse(press(tea.MouseButtonLeft, 6, 7))
	if second.Type != ActionDoubleClick {
		t.Errorf("second click on the same region should be a double click, got %d", second.Type)
	}
	third := h.HandleMouse(press(tea.MouseButtonLeft, 6, 7))
	if third.Type != ActionClick {
		t.Errorf("third click should start over, got %d", third.Type)
	}
	other := h.HandleMouse(press(tea.MouseButtonLeft, 50, 7))
	if other.Type != ActionClick || other.Region.ID != "page" {
		t.Errorf("click on another region = %+v", other)
	}

	h.Clear()
	if miss := h.HandleMouse(press(tea.MouseButtonLeft, 5, 5)); miss.Type != ActionNone {
		t.Errorf("click with no regions = %d, want none", miss.Type)
	}
}

func TestHandleMouse_Scroll(t *testing.T) {
	h := NewHandler()
	h.HitMap = sidebarMap()

	tests := []struct {
		name  string
		msg   tea.MouseMsg
		want  ActionType
		delta int
	}{
		{"wheel up", press(tea.MouseButtonWheelUp, 5, 5), ActionScrollUp, -3},
		{"wheel down", press(tea.MouseButtonWheelDown, 5, 5), ActionScrollDown, 3},
		{"shift wheel up", tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp, Shift: true}, ActionScrollLeft, -3},
		{"shift wheel down", tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown, Shift: true}, ActionScrollRight, 3},
		{"natural left", press(tea.MouseButtonWheelLeft, 5, 5), ActionScrollRight, 3},
		{"natural right", press(tea.MouseButtonWheelRight, 5, 5), ActionScrollLeft, -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := h.HandleMouse(tt.msg)
			if a.Type != tt.want || a.Delta != tt.delta {
				t.Errorf("got type %d delta %d, want %d %d", a.Type, a.Delta, tt.want, tt.delta)
			}
		})
	}

	if a := h.HandleMouse(press(tea.MouseButtonWheelDown, 50, 5)); a.Region == nil || a.Region.ID != "page" {
		t.Errorf("scroll region = %v, want page", a.Region)
	}
}

func TestHandleMouse_DividerDrag(t *testing.T) {
	h := NewHandler()
	h.HitMap = sidebarMap()

	if h.IsDragging() {
		t.Fatal("should not be dragging initially")
	}
	h.StartDrag(31, 4, "divider", 32)
	if h.DragRegion() != "divider" || h.DragStartValue() != 32 {
		t.Fatalf("drag = %q/%d", h.DragRegion(), h.DragStartValue())
	}

	a := h.HandleMouse(tea.MouseMsg{Action: tea.MouseActionMotion, X: 40, Y: 6})
	if a.Type != ActionDrag || a.DragDX != 9 || a.DragDY != 2 {
		t.Errorf("motion = %+v, want drag (9, 2)", a)
	}
	a = h.HandleMouse(tea.MouseMsg{Action: tea.MouseActionMotion, X: 25, Y: 4})
	if a.DragDX != -6 {
		t.Errorf("dx = %d, want -6", a.DragDX)
	}

	a = h.HandleMouse(tea.MouseMsg{Action: tea.MouseActionRelease, X: 25, Y: 4})
	if a.Type != ActionDragEnd {
		t.Errorf("release = %d, want drag end", a.Type)
	}
	if h.IsDragging() || h.DragRegion() != "" {
		t.Error("drag should be over after release")
	}
}

func TestHandleMouse_Hover(t *testing.T) {
	h := NewHandler()
	h.HitMap = sidebarMap()

	a := h.HandleMouse(tea.MouseMsg{Action: tea.MouseActionMotion, X: 31, Y: 5})
	if a.Type != ActionHover || a.Region == nil || a.Region.ID != "divider" {
		t.Errorf("hover = %+v, want divider", a)
	}
	a = h.HandleMouse(tea.MouseMsg{Action: tea.MouseActionMotion, X: 90, Y: 5})
	if a.Type != ActionHover || a.Region != nil {
		t.Errorf("hover miss = %+v", a)
	}
	if a := h.HandleMouse(tea.MouseMsg{Action: tea.MouseActionRelease}); a.Type != ActionNone {
		t.Errorf("release without drag = %d, want none", a.Type)
	}
}
