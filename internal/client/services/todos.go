package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/pavelgris/erpadmin/internal/client/api"
	"github.com/pavelgris/erpadmin/internal/client/models"
	"github.com/pavelgris/erpadmin/internal/client/notify"
	"github.com/pavelgris/erpadmin/internal/client/querycache"
	"github.com/pavelgris/erpadmin/internal/common"
	"github.com/pavelgris/erpadmin/internal/logging"
)

const (
	todosEntity  = "todos"
	todosPerPage = 100
)

// AddState is the "add new" form, kept separate from the edit interaction
// state so both stay usable concurrently.
type AddState struct {
	Text       string
	CategoryID int64
	DueDate    string
	PriorityID int64
}

func defaultAddState() AddState {
	return AddState{CategoryID: 1, PriorityID: 1}
}

// EditState is the interaction state of an in-progress field edit. It is
// captured from the todo when editing starts and discarded on cancel
// without any network call.
type EditState struct {
	Editing    bool
	ID         int64
	Text       string
	CategoryID int64
	DueDate    string
	PriorityID int64
}

// Todos is the todo service: listing ordered by position, optimistic
// create/toggle/edit/delete, and the drag-and-drop reorder protocol.
type Todos struct {
	api      api.TodosAPI
	store    *querycache.Store[models.Todo]
	notifier notify.Notifier
	log      logging.Logger

	mu         sync.Mutex
	add        AddState
	edit       EditState
	dropTarget int64
}

func NewTodos(client api.TodosAPI, notifier notify.Notifier, log logging.Logger) *Todos {
	return &Todos{
		api:      client,
		store:    querycache.NewStore[models.Todo](),
		notifier: notifier,
		log:      log,
		add:      defaultAddState(),
	}
}

// Fingerprint is the single cache slot the todo list lives in.
func (s *Todos) Fingerprint() querycache.Fingerprint {
	return querycache.ForQuery(todosEntity, models.ListQuery{PerPage: todosPerPage})
}

// List returns the todo list sorted by position, fetching when the cache
// misses.
func (s *Todos) List(ctx context.Context) (querycache.List[models.Todo], error) {
	fp := s.Fingerprint()
	if cached, ok := s.store.Get(fp); ok {
		return cached, nil
	}

	fctx := s.store.BeginFetch(ctx, fp)
	resp, err := s.api.ListTodos(fctx, todosPerPage)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return querycache.List[models.Todo]{}, err
		}
		s.notifier.Error(api.Message(err))
		return querycache.List[models.Todo]{}, err
	}

	items := resp.Data
	sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })
	list := querycache.List[models.Todo]{Items: items, Total: resp.Total}
	s.store.CompleteFetch(fctx, fp, list)
	return list, nil
}

// AddState returns the current "add new" form values.
func (s *Todos) AddState() AddState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add
}

func (s *Todos) SetAddState(a AddState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add = a
}

// Add creates a todo from the add form, appended with position = count+1.
// The speculative entry carries a negative placeholder identity until the
// post-success invalidation refetches the real record.
func (s *Todos) Add(ctx context.Context, fp querycache.Fingerprint) error {
	add := s.AddState()
	if strings.TrimSpace(add.Text) == "" {
		s.notifier.Error(common.ErrTitleRequired.Error())
		return common.ErrTitleRequired
	}

	// The post-create invalidation empties the slot, so a second add in a
	// row must refetch before it can append at the end.
	cached, ok := s.store.Get(fp)
	if !ok {
		var err error
		cached, err = s.List(ctx)
		if err != nil {
			return err
		}
	}
	position := len(cached.Items) + 1
	payload := models.TodoPayload{
		Title:      add.Text,
		Completed:  false,
		CategoryID: add.CategoryID,
		DueDate:    add.DueDate,
		PriorityID: add.PriorityID,
		Position:   position,
		Active:     true,
	}

	speculate := func(l querycache.List[models.Todo]) querycache.List[models.Todo] {
		l.Items = append(l.Items, models.Todo{
			ID:         s.store.PlaceholderID(),
			Title:      add.Text,
			CategoryID: add.CategoryID,
			DueDate:    add.DueDate,
			PriorityID: add.PriorityID,
			Position:   position,
			Active:     true,
		})
		l.Total++
		return l
	}

	err := runOptimistic(ctx, s.store, fp, speculate, func(ctx context.Context) error {
		_, err := s.api.CreateTodo(ctx, payload)
		return err
	})
	if err != nil {
		s.notifier.Error(api.Message(err))
		return err
	}

	s.mu.Lock()
	s.add = defaultAddState()
	s.mu.Unlock()
	return nil
}

// Toggle flips a todo's completed flag.
func (s *Todos) Toggle(ctx context.Context, fp querycache.Fingerprint, id int64) error {
	cached, ok := s.store.Get(fp)
	if !ok {
		return common.ErrNotCached
	}
	var completed bool
	found := false
	for _, t := range cached.Items {
		if t.ID == id {
			completed = !t.Completed
			found = true
			break
		}
	}
	if !found {
		return common.ErrNotCached
	}

	speculate := func(l querycache.List[models.Todo]) querycache.List[models.Todo] {
		for i, t := range l.Items {
			if t.ID == id {
				t.Completed = completed
				l.Items[i] = t
			}
		}
		return l
	}

	err := runOptimistic(ctx, s.store, fp, speculate, func(ctx context.Context) error {
		_, err := s.api.UpdateTodo(ctx, id, models.TodoPatch{Completed: &completed})
		return err
	})
	if err != nil {
		s.notifier.Error(api.Message(err))
	}
	return err
}

// StartEdit captures the todo's current field values into the interaction
// state.
func (s *Todos) StartEdit(t models.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edit = EditState{
		Editing:    true,
		ID:         t.ID,
		Text:       t.Title,
		CategoryID: t.CategoryID,
		DueDate:    t.DueDate,
		PriorityID: t.PriorityID,
	}
}

func (s *Todos) EditState() EditState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edit
}

func (s *Todos) SetEditState(e EditState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edit = e
}

// CancelEdit discards the interaction state without a network call.
func (s *Todos) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edit = EditState{}
}

// SaveEdit writes the edited fields back. The interaction state is cleared
// only on success, so a failed save leaves the operator's input intact.
func (s *Todos) SaveEdit(ctx context.Context, fp querycache.Fingerprint) error {
	edit := s.EditState()
	if !edit.Editing {
		return nil
	}
	if strings.TrimSpace(edit.Text) == "" {
		s.notifier.Error(common.ErrTitleRequired.Error())
		return common.ErrTitleRequired
	}

	speculate := func(l querycache.List[models.Todo]) querycache.List[models.Todo] {
		for i, t := range l.Items {
			if t.ID == edit.ID {
				t.Title = edit.Text
				t.CategoryID = edit.CategoryID
				t.DueDate = edit.DueDate
				t.PriorityID = edit.PriorityID
				l.Items[i] = t
			}
		}
		return l
	}

	err := runOptimistic(ctx, s.store, fp, speculate, func(ctx context.Context) error {
		patch := models.TodoPatch{
			Title:      &edit.Text,
			CategoryID: &edit.CategoryID,
			DueDate:    &edit.DueDate,
			PriorityID: &edit.PriorityID,
		}
		_, err := s.api.UpdateTodo(ctx, edit.ID, patch)
		return err
	})
	if err != nil {
		s.notifier.Error(api.Message(err))
		return err
	}
	s.CancelEdit()
	return nil
}

// Delete removes a todo optimistically.
func (s *Todos) Delete(ctx context.Context, fp querycache.Fingerprint, id int64) error {
	speculate := func(l querycache.List[models.Todo]) querycache.List[models.Todo] {
		kept := l.Items[:0]
		for _, t := range l.Items {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		l.Items = kept
		if l.Total > 0 {
			l.Total--
		}
		return l
	}
	err := runOptimistic(ctx, s.store, fp, speculate, func(ctx context.Context) error {
		return s.api.DeleteTodo(ctx, id)
	})
	if err != nil {
		s.notifier.Error(api.Message(err))
	}
	return err
}

// SetDropTarget records the todo currently hovered as a drop target.
func (s *Todos) SetDropTarget(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropTarget = id
}

// DropTarget returns the current drop target id (0 when none).
func (s *Todos) DropTarget() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropTarget
}

// Reorder completes a drag from index from to index to: a single-element
// move, not a swap. The complete new ordering is sent to the reorder
// endpoint; on success positions are renumbered 1..N locally without a
// refetch round-trip, on failure the pre-drag order is restored. The drop
// indicator is cleared regardless of outcome.
func (s *Todos) Reorder(ctx context.Context, fp querycache.Fingerprint, from, to int) error {
	defer func() {
		s.mu.Lock()
		s.dropTarget = 0
		s.mu.Unlock()
	}()

	cached, ok := s.store.Get(fp)
	if !ok {
		return common.ErrNotCached
	}
	n := len(cached.Items)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return nil
	}

	s.store.CancelInflight(fp)
	prev, had := s.store.Snapshot(fp)

	moved := prev.Clone()
	moved.Items = moveItem(moved.Items, from, to)
	orderedIDs := make([]int64, len(moved.Items))
	for i, t := range moved.Items {
		orderedIDs[i] = t.ID
	}
	if had {
		s.store.Set(fp, moved)
	}

	if err := s.api.ReorderTodos(ctx, orderedIDs); err != nil {
		if had {
			s.store.Restore(fp, prev)
		}
		s.notifier.Error(api.Message(err))
		return err
	}

	// Renumber locally instead of refetching.
	renumbered := moved.Clone()
	for i := range renumbered.Items {
		renumbered.Items[i].Position = i + 1
	}
	s.store.Set(fp, renumbered)
	return nil
}

func moveItem(items []models.Todo, from, to int) []models.Todo {
	item := items[from]
	items = append(items[:from], items[from+1:]...)
	items = append(items[:to], append([]models.Todo{item}, items[to:]...)...)
	return items
}

// FilterTodos is the derived view helper: status is "all", "completed" or
// "active"; category filters by category name, "all" disables it.
func FilterTodos(items []models.Todo, status, category string) []models.Todo {
	out := make([]models.Todo, 0, len(items))
	for _, t := range items {
		switch status {
		case "completed":
			if !t.Completed {
				continue
			}
		case "active":
			if t.Completed {
				continue
			}
		}
		if category != "" && category != "all" {
			if t.Category == nil || t.Category.Name != category {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
