// Package cli provides the interactive ERP admin command-line client.
//
// It wires configuration, local session storage, the REST API client, and an
// interactive REPL for managing users, todos, and enquiries against a
// multi-tenant ERP backend. Typical flow: rehydrate a stored session, start a
// background session watcher, and execute operator commands.
//
// Key features:
//   - Login / Logout with persisted sessions
//   - User administration including role assignment and guarded deletion
//   - Todo management with drag-style reordering
//   - Enquiry submission with contact lookup
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, session.Manager, and runREPL for details.
package cli
