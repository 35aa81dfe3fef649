package cli

import (
	"context"
	"os"
	"strings"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts the user for credentials and tries to authenticate.
//
// The session manager reports success or failure through the notifier, so
// the handler only collects input. On success subsequent commands run with
// the authenticated session's headers.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}

	a.session.Login(ctx, email, password)
	return nil
}

// Logout ends the session. Safe to call when not logged in.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	return nil
}

// WhoAmI prints the current session user, roles, and token expiry.
func (a *App) WhoAmI(ctx context.Context) error {
	u := a.session.User()
	if u == nil {
		printlnFn("Not logged in.")
		return nil
	}

	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, r.Name)
	}

	printlnFn("Name:       ", u.Name)
	printlnFn("Email:      ", u.Email)
	printlnFn("Tenant:     ", u.TenantID)
	printlnFn("Roles:      ", strings.Join(roles, ", "))
	printlnFn("Permissions:", strings.Join(u.Permissions, ", "))

	if exp, ok := a.session.TokenExpiry(); ok {
		printlnFn("Token expires:", exp.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// Refresh refetches the session user from the server. On failure the
// session manager tears the session down and notifies the user.
func (a *App) Refresh(ctx context.Context) error {
	return a.session.Refetch(ctx)
}
