package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Refresh(ctx context.Context) error
	ListUsers(ctx context.Context) error
	SearchUsers(ctx context.Context) error
	SortUsers(ctx context.Context) error
	FilterUsers(ctx context.Context) error
	PageUsers(ctx context.Context) error
	AddUser(ctx context.Context) error
	EditUser(ctx context.Context) error
	DeleteUser(ctx context.Context) error
	ListTodos(ctx context.Context) error
	AddTodo(ctx context.Context) error
	ToggleTodo(ctx context.Context) error
	EditTodo(ctx context.Context) error
	DeleteTodo(ctx context.Context) error
	MoveTodo(ctx context.Context) error
	ListEnquiries(ctx context.Context) error
	SearchEnquiries(ctx context.Context) error
	PageEnquiries(ctx context.Context) error
	AddEnquiry(ctx context.Context) error
	LookupContact(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the admin CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - whoami         — show the current session
//	  - refresh        — refetch the session user
//	  - users          — list users
//	  - usersearch     — set the user search text (debounced)
//	  - usersort       — set the user sort column and direction
//	  - userfilter     — set or clear a user column filter
//	  - userpage       — jump to a user page
//	  - useradd        — create a user
//	  - useredit       — edit a user
//	  - userdel        — delete a user (requires typing the name)
//	  - todos          — list todos in position order
//	  - todoadd        — add a todo
//	  - tododone       — toggle a todo's completion
//	  - todoedit       — edit a todo's title
//	  - tododel        — delete a todo
//	  - todomove       — move a todo to a new position
//	  - enquiries      — list enquiries
//	  - enquirysearch  — set the enquiry search text (debounced)
//	  - enquirypage    — jump to an enquiry page
//	  - enquiryadd     — submit an enquiry
//	  - lookup         — look up a contact by phone
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers notify
// the user themselves. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("erp> %s ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, refresh, users, usersearch, usersort, userfilter, userpage, useradd, useredit, userdel, todos, todoadd, tododone, todoedit, tododel, todomove, enquiries, enquirysearch, enquirypage, enquiryadd, lookup, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "users":
			_ = a.ListUsers(ctx)

		case "usersearch":
			_ = a.SearchUsers(ctx)

		case "usersort":
			_ = a.SortUsers(ctx)

		case "userfilter":
			_ = a.FilterUsers(ctx)

		case "userpage":
			_ = a.PageUsers(ctx)

		case "useradd":
			_ = a.AddUser(ctx)

		case "useredit":
			_ = a.EditUser(ctx)

		case "userdel":
			_ = a.DeleteUser(ctx)

		case "todos":
			_ = a.ListTodos(ctx)

		case "todoadd":
			_ = a.AddTodo(ctx)

		case "tododone":
			_ = a.ToggleTodo(ctx)

		case "todoedit":
			_ = a.EditTodo(ctx)

		case "tododel":
			_ = a.DeleteTodo(ctx)

		case "todomove":
			_ = a.MoveTodo(ctx)

		case "enquiries":
			_ = a.ListEnquiries(ctx)

		case "enquirysearch":
			_ = a.SearchEnquiries(ctx)

		case "enquirypage":
			_ = a.PageEnquiries(ctx)

		case "enquiryadd":
			_ = a.AddEnquiry(ctx)

		case "lookup":
			_ = a.LookupContact(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
