package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/pavelgris/erpadmin/internal/client/models"
	"github.com/pavelgris/erpadmin/internal/client/services"
)

// ListTodos prints the todo list in position order.
func (a *App) ListTodos(ctx context.Context) error {
	list, err := a.todos.List(ctx)
	if err != nil {
		return err
	}

	for _, t := range list.Items {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		printlnFn(fmt.Sprintf("%3d [%s] #%-6d %-40s %-10s %-8s %s",
			t.Position, mark, t.ID, t.Title,
			lookupName(models.Categories, t.CategoryID),
			lookupName(models.Priorities, t.PriorityID),
			t.DueDate))
	}
	return nil
}

// AddTodo prompts for the new-todo form and creates the todo at the end of
// the list.
func (a *App) AddTodo(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}
	category, err := a.promptLookup("Category", models.Categories, 1)
	if err != nil {
		return err
	}
	priority, err := a.promptLookup("Priority", models.Priorities, 1)
	if err != nil {
		return err
	}
	due, err := getSimpleText(a.reader, "Due date (YYYY-MM-DD, blank for none)", os.Stdout)
	if err != nil {
		return err
	}

	a.todos.SetAddState(services.AddState{
		Text:       title,
		CategoryID: category,
		PriorityID: priority,
		DueDate:    due,
	})
	return a.todos.Add(ctx, a.todos.Fingerprint())
}

// ToggleTodo flips a todo's completion state.
func (a *App) ToggleTodo(ctx context.Context) error {
	id, ok, err := a.promptTodoID(ctx)
	if err != nil || !ok {
		return err
	}
	return a.todos.Toggle(ctx, a.todos.Fingerprint(), id)
}

// EditTodo prompts for a todo and a replacement title, then saves.
func (a *App) EditTodo(ctx context.Context) error {
	t, err := a.pickTodo(ctx)
	if err != nil {
		return err
	}
	if t == nil {
		return nil
	}

	a.todos.StartEdit(*t)
	title, err := getSimpleText(a.reader, labelWithDefault("Title", t.Title), os.Stdout)
	if err != nil {
		a.todos.CancelEdit()
		return err
	}
	if title == "" {
		a.todos.CancelEdit()
		return nil
	}

	edit := a.todos.EditState()
	edit.Text = title
	a.todos.SetEditState(edit)
	return a.todos.SaveEdit(ctx, a.todos.Fingerprint())
}

// DeleteTodo removes a todo.
func (a *App) DeleteTodo(ctx context.Context) error {
	id, ok, err := a.promptTodoID(ctx)
	if err != nil || !ok {
		return err
	}
	return a.todos.Delete(ctx, a.todos.Fingerprint(), id)
}

// MoveTodo moves a todo from one list position to another, mirroring a
// drag-and-drop on the web UI.
func (a *App) MoveTodo(ctx context.Context) error {
	from, err := a.promptPosition("Move from position")
	if err != nil {
		return err
	}
	to, err := a.promptPosition("Move to position")
	if err != nil {
		return err
	}
	if from < 1 || to < 1 {
		printlnFn("Positions start at 1")
		return nil
	}
	return a.todos.Reorder(ctx, a.todos.Fingerprint(), from-1, to-1)
}

func (a *App) promptTodoID(ctx context.Context) (int64, bool, error) {
	t, err := a.pickTodo(ctx)
	if err != nil || t == nil {
		return 0, false, err
	}
	return t.ID, true, nil
}

func (a *App) pickTodo(ctx context.Context) (*models.Todo, error) {
	raw, err := getSimpleText(a.reader, "Enter todo id", os.Stdout)
	if err != nil {
		return nil, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		printlnFn("Invalid id:", raw)
		return nil, nil
	}

	list, err := a.todos.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list.Items {
		if list.Items[i].ID == id {
			t := list.Items[i]
			return &t, nil
		}
	}
	printlnFn("No todo with id", id)
	return nil, nil
}

func (a *App) promptLookup(label string, options []models.Lookup, def int64) (int64, error) {
	for _, o := range options {
		printlnFn(fmt.Sprintf("  %d — %s", o.ID, o.Name))
	}
	raw, err := getSimpleText(a.reader, fmt.Sprintf("%s [%d]", label, def), os.Stdout)
	if err != nil {
		return 0, err
	}
	if raw == "" {
		return def, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def, nil
	}
	for _, o := range options {
		if o.ID == id {
			return id, nil
		}
	}
	return def, nil
}

func (a *App) promptPosition(label string) (int, error) {
	raw, err := getSimpleText(a.reader, label, os.Stdout)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func lookupName(options []models.Lookup, id int64) string {
	for _, o := range options {
		if o.ID == id {
			return o.Name
		}
	}
	return ""
}
