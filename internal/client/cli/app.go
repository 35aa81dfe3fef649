package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"

	"github.com/pavelgris/erpadmin/internal/client/api"
	"github.com/pavelgris/erpadmin/internal/client/config"
	"github.com/pavelgris/erpadmin/internal/client/models"
	"github.com/pavelgris/erpadmin/internal/client/notify"
	"github.com/pavelgris/erpadmin/internal/client/services"
	"github.com/pavelgris/erpadmin/internal/client/session"
	"github.com/pavelgris/erpadmin/internal/client/storage"
	"github.com/pavelgris/erpadmin/internal/logging"
)

// App is the interactive client. It owns the wired service graph and the
// terminal input reader the command handlers share.
type App struct {
	config   *config.Config
	log      logging.Logger
	db       *sql.DB
	client   *api.RESTClient
	session  *session.Manager
	notifier notify.Notifier

	users     *services.Users
	todos     *services.Todos
	enquiries *services.Enquiries

	usersQuery     *services.QueryState
	enquiriesQuery *services.QueryState

	reader *bufio.Reader
}

func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	client := api.NewRESTClient(c.APIBaseURL, log)
	client.UseLegacyOrder(c.LegacyOrderEndpoint)

	notifier := notify.NewWriter(os.Stdout)

	app := &App{
		config:   c,
		log:      log,
		db:       db,
		client:   client,
		notifier: notifier,
		reader:   bufio.NewReader(os.Stdin),
	}

	manager := session.NewManager(client, db, log, notifier, func() {
		printlnFn("You have been logged out.")
	})
	client.OnTokenRefresh(func(token string) {
		manager.TokenRefreshed(context.Background(), token)
	})
	app.session = manager

	app.users = services.NewUsers(client, notifier, log)
	app.todos = services.NewTodos(client, notifier, log)
	app.enquiries = services.NewEnquiries(client, notifier, log)

	// Query changes reprint the affected listing, including debounced
	// search changes firing after the quiet period.
	app.usersQuery = services.NewQueryState(c.PerPage, func(q models.ListQuery) {
		_ = app.renderUsers(ctx, q)
	})
	app.enquiriesQuery = services.NewQueryState(c.PerPage, func(q models.ListQuery) {
		_ = app.renderEnquiries(ctx, q)
	})

	return app, nil
}

// Run rehydrates any persisted session, starts the background session
// watcher, and enters the REPL. It blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	a.session.Rehydrate(ctx)

	go func() {
		a.session.StartWatcher(ctx, a.config.SessionCheckInterval)
	}()

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.session.Authenticated()
}

func (a *App) getStatus() string {
	u := a.session.User()
	if u == nil {
		return ""
	}
	return "(" + u.Name + "@" + u.TenantID + ")"
}
