package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelgris/erpadmin/internal/client/models"
	"github.com/pavelgris/erpadmin/internal/client/notify"
	"github.com/pavelgris/erpadmin/internal/common"
)

/*************
 * Fake todos API
 *************/

type fakeTodosAPI struct {
	// outputs preset
	listResp   *models.TodoList
	listErr    error
	createResp *models.Todo
	createErr  error
	updateErr  error
	deleteErr  error
	reorderErr error

	// inputs captured
	listCalls   int
	lastCreate  models.TodoPayload
	lastPatch   models.TodoPatch
	lastPatched int64
	deleted     []int64
	lastOrder   []int64
}

func (f *fakeTodosAPI) ListTodos(ctx context.Context, perPage int) (*models.TodoList, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listResp, nil
}

func (f *fakeTodosAPI) CreateTodo(ctx context.Context, in models.TodoPayload) (*models.Todo, error) {
	f.lastCreate = in
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createResp, nil
}

func (f *fakeTodosAPI) UpdateTodo(ctx context.Context, id int64, patch models.TodoPatch) (*models.Todo, error) {
	f.lastPatched, f.lastPatch = id, patch
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &models.Todo{ID: id}, nil
}

func (f *fakeTodosAPI) DeleteTodo(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeTodosAPI) ReorderTodos(ctx context.Context, orderedIDs []int64) error {
	f.lastOrder = append([]int64(nil), orderedIDs...)
	return f.reorderErr
}

func threeTodos() []models.Todo {
	return []models.Todo{
		{ID: 1, Title: "first", Position: 1},
		{ID: 2, Title: "second", Position: 2},
		{ID: 3, Title: "third", Position: 3},
	}
}

func seededTodos(t *testing.T, f *fakeTodosAPI) *Todos {
	t.Helper()
	if f.listResp == nil {
		f.listResp = &models.TodoList{Data: threeTodos(), Total: 3}
	}
	s := NewTodos(f, notify.Discard{}, testLog())
	_, err := s.List(context.Background())
	require.NoError(t, err)
	return s
}

func ids(items []models.Todo) []int64 {
	out := make([]int64, len(items))
	for i, t := range items {
		out[i] = t.ID
	}
	return out
}

func TestTodos_ListSortsByPosition(t *testing.T) {
	f := &fakeTodosAPI{listResp: &models.TodoList{
		Data: []models.Todo{
			{ID: 9, Title: "c", Position: 3},
			{ID: 7, Title: "a", Position: 1},
			{ID: 8, Title: "b", Position: 2},
		},
		Total: 3,
	}}
	s := NewTodos(f, notify.Discard{}, testLog())

	got, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8, 9}, ids(got.Items))
	assert.Equal(t, 3, got.Total)

	// cached on second read
	_, err = s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.listCalls)
}

func TestTodos_AddRequiresTitle(t *testing.T) {
	f := &fakeTodosAPI{}
	s := seededTodos(t, f)

	s.SetAddState(AddState{Text: "   "})
	err := s.Add(context.Background(), s.Fingerprint())
	require.ErrorIs(t, err, common.ErrTitleRequired)
	assert.Empty(t, f.lastCreate.Title)
}

func TestTodos_AddPlaceholderThenRealID(t *testing.T) {
	f := &fakeTodosAPI{createResp: &models.Todo{ID: 42, Title: "new", Position: 4}}
	s := seededTodos(t, f)
	fp := s.Fingerprint()

	s.SetAddState(AddState{Text: "new", CategoryID: 2, PriorityID: 3, DueDate: "2026-09-30"})
	require.NoError(t, s.Add(context.Background(), fp))

	assert.Equal(t, "new", f.lastCreate.Title)
	assert.Equal(t, 4, f.lastCreate.Position) // appended after the 3 cached items
	assert.Equal(t, int64(2), f.lastCreate.CategoryID)

	// the form resets to defaults on success
	assert.Equal(t, AddState{CategoryID: 1, PriorityID: 1}, s.AddState())

	// invalidation forces a refetch carrying the server-assigned id
	f.listResp = &models.TodoList{Data: append(threeTodos(),
		models.Todo{ID: 42, Title: "new", Position: 4}), Total: 4}
	listCalls := f.listCalls
	got, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, listCalls+1, f.listCalls)
	assert.Equal(t, int64(42), got.Items[3].ID)
}

func TestTodos_ConsecutiveAddsAppendAtEnd(t *testing.T) {
	f := &fakeTodosAPI{createResp: &models.Todo{ID: 42, Title: "fourth", Position: 4}}
	s := seededTodos(t, f)
	fp := s.Fingerprint()

	s.SetAddState(AddState{Text: "fourth", CategoryID: 1, PriorityID: 1})
	require.NoError(t, s.Add(context.Background(), fp))
	assert.Equal(t, 4, f.lastCreate.Position)

	// The first add invalidated the slot, so the second one must refetch
	// before computing its position rather than starting over at 1.
	f.listResp = &models.TodoList{Data: append(threeTodos(),
		models.Todo{ID: 42, Title: "fourth", Position: 4}), Total: 4}
	f.createResp = &models.Todo{ID: 43, Title: "fifth", Position: 5}
	s.SetAddState(AddState{Text: "fifth", CategoryID: 1, PriorityID: 1})
	require.NoError(t, s.Add(context.Background(), fp))

	assert.Equal(t, 5, f.lastCreate.Position)
	assert.Equal(t, 2, f.listCalls) // seed + refetch before the second add
}

func TestTodos_AddFailureRollsBackAndKeepsForm(t *testing.T) {
	f := &fakeTodosAPI{createErr: errors.New("boom")}
	s := seededTodos(t, f)
	fp := s.Fingerprint()

	s.SetAddState(AddState{Text: "new", CategoryID: 1, PriorityID: 1})
	require.Error(t, s.Add(context.Background(), fp))

	// rollback: cache unchanged, still served without refetch
	listCalls := f.listCalls
	got, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, listCalls, f.listCalls)
	assert.Equal(t, []int64{1, 2, 3}, ids(got.Items))

	// the operator's input survives a failed save
	assert.Equal(t, "new", s.AddState().Text)
}

func TestTodos_Toggle(t *testing.T) {
	f := &fakeTodosAPI{}
	s := seededTodos(t, f)
	fp := s.Fingerprint()

	require.NoError(t, s.Toggle(context.Background(), fp, 2))

	assert.Equal(t, int64(2), f.lastPatched)
	require.NotNil(t, f.lastPatch.Completed)
	assert.True(t, *f.lastPatch.Completed)
}

func TestTodos_ToggleFailureRollsBack(t *testing.T) {
	f := &fakeTodosAPI{updateErr: errors.New("boom")}
	s := seededTodos(t, f)
	fp := s.Fingerprint()

	require.Error(t, s.Toggle(context.Background(), fp, 2))

	got, err := s.List(context.Background())
	require.NoError(t, err)
	assert.False(t, got.Items[1].Completed)
}

func TestTodos_ToggleUnknownID(t *testing.T) {
	f := &fakeTodosAPI{}
	s := seededTodos(t, f)

	err := s.Toggle(context.Background(), s.Fingerprint(), 999)
	require.ErrorIs(t, err, common.ErrNotCached)
	assert.Zero(t, f.lastPatched)
}

func TestTodos_EditLifecycle(t *testing.T) {
	f := &fakeTodosAPI{}
	s := seededTodos(t, f)

	s.StartEdit(models.Todo{ID: 2, Title: "second", CategoryID: 1, PriorityID: 2, DueDate: "2026-09-15"})

	edit := s.EditState()
	assert.True(t, edit.Editing)
	assert.Equal(t, "second", edit.Text)

	// cancel discards without any network call
	s.CancelEdit()
	assert.False(t, s.EditState().Editing)
	require.NoError(t, s.SaveEdit(context.Background(), s.Fingerprint()))
	assert.Zero(t, f.lastPatched)
}

func TestTodos_SaveEdit(t *testing.T) {
	f := &fakeTodosAPI{}
	s := seededTodos(t, f)
	fp := s.Fingerprint()

	s.StartEdit(models.Todo{ID: 2, Title: "second", CategoryID: 1, PriorityID: 1})
	edit := s.EditState()
	edit.Text = "renamed"
	s.SetEditState(edit)

	require.NoError(t, s.SaveEdit(context.Background(), fp))

	assert.Equal(t, int64(2), f.lastPatched)
	require.NotNil(t, f.lastPatch.Title)
	assert.Equal(t, "renamed", *f.lastPatch.Title)
	assert.False(t, s.EditState().Editing)
}

func TestTodos_SaveEditFailureKeepsState(t *testing.T) {
	f := &fakeTodosAPI{updateErr: errors.New("boom")}
	s := seededTodos(t, f)

	s.StartEdit(models.Todo{ID: 2, Title: "second"})
	edit := s.EditState()
	edit.Text = "renamed"
	s.SetEditState(edit)

	require.Error(t, s.SaveEdit(context.Background(), s.Fingerprint()))

	// interaction state survives so the operator can retry
	assert.True(t, s.EditState().Editing)
	assert.Equal(t, "renamed", s.EditState().Text)
}

func TestTodos_Delete(t *testing.T) {
	f := &fakeTodosAPI{}
	s := seededTodos(t, f)

	require.NoError(t, s.Delete(context.Background(), s.Fingerprint(), 2))
	assert.Equal(t, []int64{2}, f.deleted)
}

func TestTodos_DeleteFailureRollsBack(t *testing.T) {
	f := &fakeTodosAPI{deleteErr: errors.New("boom")}
	s := seededTodos(t, f)

	require.Error(t, s.Delete(context.Background(), s.Fingerprint(), 2))

	got, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(got.Items))
}

func TestTodos_ReorderMove(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []int64
	}{
		{"down", 0, 2, []int64{2, 3, 1}},
		{"up", 2, 0, []int64{3, 1, 2}},
		{"adjacent", 0, 1, []int64{2, 1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeTodosAPI{}
			s := seededTodos(t, f)
			fp := s.Fingerprint()

			require.NoError(t, s.Reorder(context.Background(), fp, tt.from, tt.to))
			assert.Equal(t, tt.want, f.lastOrder)

			// positions renumbered 1..N locally, no refetch
			listCalls := f.listCalls
			got, err := s.List(context.Background())
			require.NoError(t, err)
			assert.Equal(t, listCalls, f.listCalls)
			assert.Equal(t, tt.want, ids(got.Items))
			for i, todo := range got.Items {
				assert.Equal(t, i+1, todo.Position)
			}
		})
	}
}

func TestTodos_ReorderNoopCases(t *testing.T) {
	f := &fakeTodosAPI{}
	s := seededTodos(t, f)
	fp := s.Fingerprint()

	require.NoError(t, s.Reorder(context.Background(), fp, 1, 1))
	require.NoError(t, s.Reorder(context.Background(), fp, -1, 2))
	require.NoError(t, s.Reorder(context.Background(), fp, 0, 3))

	assert.Nil(t, f.lastOrder)
}

func TestTodos_ReorderFailureRestoresOrder(t *testing.T) {
	f := &fakeTodosAPI{reorderErr: errors.New("boom")}
	s := seededTodos(t, f)
	fp := s.Fingerprint()

	s.SetDropTarget(3)
	require.Error(t, s.Reorder(context.Background(), fp, 0, 2))

	// exact pre-drag order and positions come back
	got, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(got.Items))
	for i, todo := range got.Items {
		assert.Equal(t, i+1, todo.Position)
	}

	// drop indicator cleared even on failure
	assert.Zero(t, s.DropTarget())
}

func TestTodos_ReorderWithoutCache(t *testing.T) {
	f := &fakeTodosAPI{}
	s := NewTodos(f, notify.Discard{}, testLog())

	err := s.Reorder(context.Background(), s.Fingerprint(), 0, 1)
	require.ErrorIs(t, err, common.ErrNotCached)
}

func TestFilterTodos(t *testing.T) {
	items := []models.Todo{
		{ID: 1, Completed: true, Category: &models.Lookup{Name: "Work"}},
		{ID: 2, Completed: false, Category: &models.Lookup{Name: "Work"}},
		{ID: 3, Completed: false, Category: &models.Lookup{Name: "Health"}},
	}

	assert.Equal(t, []int64{1, 2, 3}, ids(FilterTodos(items, "all", "all")))
	assert.Equal(t, []int64{1}, ids(FilterTodos(items, "completed", "all")))
	assert.Equal(t, []int64{2, 3}, ids(FilterTodos(items, "active", "")))
	assert.Equal(t, []int64{1, 2}, ids(FilterTodos(items, "all", "Work")))
	assert.Equal(t, []int64{3}, ids(FilterTodos(items, "active", "Health")))
}
