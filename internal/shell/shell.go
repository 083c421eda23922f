package shell

import "github.com/marcus/treeside/internal/views"

// Width bounds used when none are configured.
const (
	DefaultMinWidth = 20
	DefaultMaxWidth = 80
)

// Shell is the scaffold the controller builds at startup.
type Shell struct {
	doc     *Document
	visible bool

	Sidebar *Sidebar
	Toggler *Toggler
	Panels  *Panels
}

// New builds a scaffold attached to doc with the sidebar at width columns.
func New(doc *Document, width, minWidth, maxWidth int) *Shell {
	sb := &Sidebar{doc: doc, min: minWidth, max: maxWidth}
	if sb.min <= 0 {
		sb.min = DefaultMinWidth
	}
	if sb.max < sb.min {
		sb.max = DefaultMaxWidth
	}
	sb.SetWidth(width)
	return &Shell{
		doc:     doc,
		Sidebar: sb,
		Toggler: &Toggler{},
		Panels:  NewPanels(views.Tree, views.Options, views.Error),
	}
}

// Document returns the host document.
func (s *Shell) Document() *Document { return s.doc }

// SidebarVisible reports whether the sidebar is shown.
func (s *Shell) SidebarVisible() bool { return s.visible }

// FlipSidebar toggles sidebar visibility and returns the new state.
func (s *Shell) FlipSidebar() bool {
	s.visible = !s.visible
	return s.visible
}

// Sidebar is the region the panels render into.
type Sidebar struct {
	doc      *Document
	width    int
	min, max int
}

// Document returns the document the sidebar is attached to.
func (s *Sidebar) Document() *Document { return s.doc }

// Width returns the sidebar width in columns.
func (s *Sidebar) Width() int { return s.width }

// SetWidth sets the width, clamped to the configured bounds, and returns it.
func (s *Sidebar) SetWidth(w int) int {
	if w < s.min {
		w = s.min
	}
	if w > s.max {
		w = s.max
	}
	s.width = w
	return w
}

// Resize changes the width by delta columns and reports whether it changed.
func (s *Sidebar) Resize(delta int) bool {
	before := s.width
	return s.SetWidth(before+delta) != before
}

// Toggler is the one-column tab that shows and hides the sidebar.
type Toggler struct {
	visible bool
	loading bool
}

// Show makes the toggler visible.
func (t *Toggler) Show() { t.visible = true }

// Hide hides the toggler.
func (t *Toggler) Hide() { t.visible = false }

// Visible reports whether the toggler is shown.
func (t *Toggler) Visible() bool { return t.visible }

// SetLoading sets or clears the loading mark.
func (t *Toggler) SetLoading(on bool) { t.loading = on }

// Loading reports whether the loading mark is set.
func (t *Toggler) Loading() bool { return t.loading }

// Panels tracks which panel root carries the current marker.
type Panels struct {
	roots   []views.ID
	current map[views.ID]bool
}

// NewPanels registers the panel roots that share the current marker.
func NewPanels(roots ...views.ID) *Panels {
	return &Panels{roots: roots, current: make(map[views.ID]bool, len(roots))}
}

// Roots returns the registered panel roots.
func (p *Panels) Roots() []views.ID { return p.roots }

// Show clears the marker from every root, then sets it on id. Ids that are
// not registered roots are ignored.
func (p *Panels) Show(id views.ID) {
	if !p.has(id) {
		return
	}
	for _, r := range p.roots {
		delete(p.current, r)
	}
	p.current[id] = true
}

func (p *Panels) has(id views.ID) bool {
	for _, r := range p.roots {
		if r == id {
			return true
		}
	}
	return false
}

// Current returns the marked panel, or views.None before any was shown.
func (p *Panels) Current() views.ID {
	for _, r := range p.roots {
		if p.current[r] {
			return r
		}
	}
	return views.None
}
