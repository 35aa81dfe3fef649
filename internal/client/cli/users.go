package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pavelgris/erpadmin/internal/client/models"
	"github.com/pavelgris/erpadmin/internal/client/services"
)

// ListUsers fetches and prints the current page of users. The search text,
// sort, filters, and page come from the shared user query state, so the
// listing reflects whatever the operator set up last.
func (a *App) ListUsers(ctx context.Context) error {
	return a.renderUsers(ctx, a.usersQuery.Query())
}

// renderUsers is the shared print path: ListUsers calls it with the current
// query, and the query state calls it whenever a setter changes the
// effective query.
func (a *App) renderUsers(ctx context.Context, q models.ListQuery) error {
	list, err := a.users.List(ctx, q)
	if err != nil {
		return err
	}

	for _, u := range list.Items {
		roles := make([]string, 0, len(u.Roles))
		for _, r := range u.Roles {
			roles = append(roles, r.Name)
		}
		state := "active"
		if !u.Active {
			state = "inactive"
		}
		printlnFn(fmt.Sprintf("%6d  %-25s %-30s %-10s %s",
			u.ID, u.Name, u.Email, state, strings.Join(roles, ",")))
	}
	printlnFn(fmt.Sprintf("page %d of %d", q.PageIndex+1, list.LastPage))
	return nil
}

// SearchUsers prompts for free-text search. The change is debounced, so the
// refreshed listing prints once the quiet period elapses.
func (a *App) SearchUsers(ctx context.Context) error {
	text, err := getSimpleText(a.reader, "Search (blank to clear)", os.Stdout)
	if err != nil {
		return err
	}
	a.usersQuery.SetSearch(text)
	return nil
}

// SortUsers prompts for the sort column and direction, then reprints.
func (a *App) SortUsers(ctx context.Context) error {
	col, err := getSimpleText(a.reader, "Sort by (id/name/email)", os.Stdout)
	if err != nil {
		return err
	}
	dir, err := getSimpleText(a.reader, "Direction (asc/desc)", os.Stdout)
	if err != nil {
		return err
	}
	a.usersQuery.SetSort(col, dir)
	return nil
}

// FilterUsers prompts for a column filter. A blank value removes the filter.
func (a *App) FilterUsers(ctx context.Context) error {
	col, err := getSimpleText(a.reader, "Filter column (e.g. active)", os.Stdout)
	if err != nil {
		return err
	}
	val, err := getSimpleText(a.reader, "Filter value (blank to remove)", os.Stdout)
	if err != nil {
		return err
	}
	a.usersQuery.SetFilter(col, val)
	return nil
}

// PageUsers prompts for a page number and jumps to it.
func (a *App) PageUsers(ctx context.Context) error {
	raw, err := getSimpleText(a.reader, "Page number", os.Stdout)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		printlnFn("Invalid page:", raw)
		return nil
	}
	a.usersQuery.SetPage(n - 1)
	return nil
}

// AddUser prompts for the new user form and creates the user.
func (a *App) AddUser(ctx context.Context) error {
	in, err := a.promptUserInput(models.User{}, false)
	if err != nil {
		return err
	}
	fp := a.users.Fingerprint(a.usersQuery.Query())
	return a.users.Save(ctx, fp, nil, in)
}

// EditUser prompts for a user id and the updated form, then saves.
// Password fields may be left blank to keep the current password.
func (a *App) EditUser(ctx context.Context) error {
	u, err := a.pickUser(ctx)
	if err != nil {
		return err
	}
	if u == nil {
		return nil
	}

	in, err := a.promptUserInput(*u, true)
	if err != nil {
		return err
	}
	fp := a.users.Fingerprint(a.usersQuery.Query())
	return a.users.Save(ctx, fp, u, in)
}

// DeleteUser asks the operator to retype the user's name before deleting.
// A mismatch aborts without any server call.
func (a *App) DeleteUser(ctx context.Context) error {
	u, err := a.pickUser(ctx)
	if err != nil {
		return err
	}
	if u == nil {
		return nil
	}

	typed, err := getSimpleText(a.reader,
		fmt.Sprintf("Type the user's name (%q) to confirm deletion", u.Name), os.Stdout)
	if err != nil {
		return err
	}

	fp := a.users.Fingerprint(a.usersQuery.Query())
	return a.users.Delete(ctx, fp, *u, typed)
}

// pickUser prompts for a user id and resolves it against the current page.
// Returns (nil, nil) when the id is unknown; the operator is told why.
func (a *App) pickUser(ctx context.Context) (*models.User, error) {
	raw, err := getSimpleText(a.reader, "Enter user id", os.Stdout)
	if err != nil {
		return nil, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		printlnFn("Invalid id:", raw)
		return nil, nil
	}

	list, err := a.users.List(ctx, a.usersQuery.Query())
	if err != nil {
		return nil, err
	}
	for i := range list.Items {
		if list.Items[i].ID == id {
			u := list.Items[i]
			return &u, nil
		}
	}
	printlnFn("No user with id", id, "on the current page")
	return nil, nil
}

func (a *App) promptUserInput(current models.User, isEdit bool) (services.UserInput, error) {
	var in services.UserInput

	name, err := getSimpleText(a.reader, labelWithDefault("Name", current.Name), os.Stdout)
	if err != nil {
		return in, err
	}
	in.Name = orDefault(name, current.Name)

	email, err := getSimpleText(a.reader, labelWithDefault("Email", current.Email), os.Stdout)
	if err != nil {
		return in, err
	}
	in.Email = orDefault(email, current.Email)

	currentRole := ""
	if len(current.Roles) > 0 {
		currentRole = current.Roles[0].Name
	}
	role, err := getSimpleText(a.reader,
		labelWithDefault("Role (superadmin/admin/cashier/manager)", currentRole), os.Stdout)
	if err != nil {
		return in, err
	}
	in.Role = orDefault(role, currentRole)

	passwordPrompt := "Password"
	if isEdit {
		passwordPrompt = "Password (blank to keep current)"
	}
	in.Password, err = getPassword(passwordPrompt, os.Stdout)
	if err != nil {
		return in, err
	}
	if in.Password != "" || !isEdit {
		in.ConfirmPassword, err = getPassword("Confirm password", os.Stdout)
		if err != nil {
			return in, err
		}
	}

	in.Active, err = GetBool(a.reader, "Active", !isEdit || current.Active, os.Stdout)
	if err != nil {
		return in, err
	}

	return in, nil
}

func labelWithDefault(label, def string) string {
	if def == "" {
		return label
	}
	return fmt.Sprintf("%s [%s]", label, def)
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
