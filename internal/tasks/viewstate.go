package tasks

import (
	"sync"

	"github.com/sandeepkv93/todolist/internal/model"
)

// Snapshot is one recomputation of the displayed list.
type Snapshot struct {
	Filter  model.Filter
	Query   string
	Visible []model.Task
	Total   int
}

// ViewState derives the visible tasks from the live collection, the active
// filter and the search query. Every input change produces exactly one
// recomputation, delivered to subscribers in order.
type ViewState struct {
	mu      sync.Mutex
	all     []model.Task
	filter  model.Filter
	query   string
	current Snapshot

	subs   map[int]func(Snapshot)
	nextID int

	// deliverMu keeps subscriber callbacks in recompute order.
	deliverMu sync.Mutex
}

func NewViewState(filter model.Filter) *ViewState {
	if !filter.IsValid() {
		filter = model.FilterAll
	}
	v := &ViewState{filter: filter, subs: make(map[int]func(Snapshot))}
	v.current = Snapshot{Filter: filter, Visible: []model.Task{}}
	return v
}

func (v *ViewState) SetTasks(all []model.Task) {
	v.update(func() {
		v.all = all
	})
}

func (v *ViewState) SetFilter(f model.Filter) {
	if !f.IsValid() {
		return
	}
	v.update(func() {
		v.filter = f
	})
}

func (v *ViewState) SetQuery(q string) {
	v.update(func() {
		v.query = q
	})
}

// Set replaces filter and query together in a single recomputation.
func (v *ViewState) Set(f model.Filter, q string) {
	if !f.IsValid() {
		f = v.Snapshot().Filter
	}
	v.update(func() {
		v.filter = f
		v.query = q
	})
}

func (v *ViewState) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return copySnapshot(v.current)
}

// Subscribe calls fn with the current snapshot and then after every
// recomputation until cancel is called.
func (v *ViewState) Subscribe(fn func(Snapshot)) (cancel func()) {
	v.deliverMu.Lock()
	defer v.deliverMu.Unlock()

	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs[id] = fn
	snap := copySnapshot(v.current)
	v.mu.Unlock()

	fn(snap)

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
		})
	}
}

func (v *ViewState) update(mutate func()) {
	v.deliverMu.Lock()
	defer v.deliverMu.Unlock()

	v.mu.Lock()
	mutate()
	v.current = Snapshot{
		Filter:  v.filter,
		Query:   v.query,
		Visible: model.VisibleTasks(v.all, v.filter, v.query),
		Total:   len(v.all),
	}
	snap := v.current
	fns := make([]func(Snapshot), 0, len(v.subs))
	for _, fn := range v.subs {
		fns = append(fns, fn)
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn(copySnapshot(snap))
	}
}

func copySnapshot(s Snapshot) Snapshot {
	out := s
	out.Visible = make([]model.Task, len(s.Visible))
	copy(out.Visible, s.Visible)
	return out
}
