package library

import "sync"

// Screen is a category view together with the notifications it produced
// since they were last drained.
type Screen struct {
	View          *CategoryView
	Notifications *RecordingNotifier
}

// Registry keeps one screen per category name.
type Registry struct {
	mu         sync.Mutex
	books      BookStore
	categories CategoryStore
	screens    map[string]*Screen
}

func NewRegistry(books BookStore, categories CategoryStore) *Registry {
	return &Registry{
		books:      books,
		categories: categories,
		screens:    make(map[string]*Screen),
	}
}

// Screen returns the screen of the category, creating an unloaded one on
// first use.
func (r *Registry) Screen(category string) *Screen {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.screens[category]; ok {
		return s
	}

	notifications := NewRecordingNotifier(LogNotifier{})
	s := &Screen{
		View:          NewCategoryView(category, r.books, r.categories, notifications),
		Notifications: notifications,
	}
	r.screens[category] = s
	return s
}

// Forget drops the named screens. Their state is rebuilt by the next Load.
func (r *Registry) Forget(categories ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range categories {
		delete(r.screens, c)
	}
}

// Reset drops every screen, used when category membership changed outside
// of a view.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.screens = make(map[string]*Screen)
}
