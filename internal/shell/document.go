// Package shell models the screen scaffold the sidebar lives in: the host
// document (the page pane), the sidebar, its toggler, and the panel roots.
// Visibility is read from here on demand instead of being cached elsewhere.
package shell

import "sync"

// ProgressiveLoader is the fragment the page shows while its content is
// still streaming in.
const ProgressiveLoader = "page.progressive-loader"

// Document is the host page: its location, the transient fragments it is
// currently showing, and the left margin the active adapter reserves for the
// sidebar.
type Document struct {
	mu        sync.Mutex
	location  string
	fragments map[string]bool
	observers map[int]func()
	nextID    int
	margin    int
}

// NewDocument creates a document at location.
func NewDocument(location string) *Document {
	return &Document{
		location:  location,
		fragments: make(map[string]bool),
		observers: make(map[int]func()),
	}
}

// Location returns the current location.
func (d *Document) Location() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.location
}

// SetLocation moves the document to loc.
func (d *Document) SetLocation(loc string) {
	d.mu.Lock()
	d.location = loc
	d.mu.Unlock()
}

// Has reports whether the fragment is present.
func (d *Document) Has(selector string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fragments[selector]
}

// AddFragment inserts a fragment and notifies observers.
func (d *Document) AddFragment(selector string) {
	d.mu.Lock()
	changed := !d.fragments[selector]
	d.fragments[selector] = true
	d.mu.Unlock()
	if changed {
		d.notify()
	}
}

// RemoveFragment removes a fragment and notifies observers.
func (d *Document) RemoveFragment(selector string) {
	d.mu.Lock()
	changed := d.fragments[selector]
	delete(d.fragments, selector)
	d.mu.Unlock()
	if changed {
		d.notify()
	}
}

// Observe registers fn to run after every fragment mutation. The returned
// function disconnects it.
func (d *Document) Observe(fn func()) (disconnect func()) {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.observers[id] = fn
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.observers, id)
			d.mu.Unlock()
		})
	}
}

func (d *Document) observerCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.observers)
}

func (d *Document) notify() {
	d.mu.Lock()
	fns := make([]func(), 0, len(d.observers))
	for _, fn := range d.observers {
		fns = append(fns, fn)
	}
	d.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// WaitGone returns a channel that is closed once selector is absent. When it
// is already absent the channel is closed immediately; otherwise an observer
// closes it on the first mutation that removes the fragment and then
// disconnects itself. Each call arms a new one-shot wait.
func (d *Document) WaitGone(selector string) <-chan struct{} {
	done := make(chan struct{})
	if !d.Has(selector) {
		close(done)
		return done
	}

	var (
		once       sync.Once
		disconnect func()
		mu         sync.Mutex
	)
	resolve := func() {
		once.Do(func() {
			close(done)
			mu.Lock()
			if disconnect != nil {
				disconnect()
			}
			mu.Unlock()
		})
	}

	mu.Lock()
	disconnect = d.Observe(func() {
		if !d.Has(selector) {
			resolve()
		}
	})
	mu.Unlock()

	// The fragment may have gone between the first check and Observe.
	if !d.Has(selector) {
		resolve()
	}
	return done
}

// Margin returns the columns the page keeps free on its left.
func (d *Document) Margin() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.margin
}

// SetMargin sets the columns the page keeps free on its left.
func (d *Document) SetMargin(cols int) {
	if cols < 0 {
		cols = 0
	}
	d.mu.Lock()
	d.margin = cols
	d.mu.Unlock()
}
