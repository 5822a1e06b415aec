package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/residentportal/internal/client/client"
	"github.com/dmitrijs2005/residentportal/internal/client/config"
	"github.com/dmitrijs2005/residentportal/internal/client/gate"
	"github.com/dmitrijs2005/residentportal/internal/client/repositories"
	"github.com/dmitrijs2005/residentportal/internal/client/roles"
	"github.com/dmitrijs2005/residentportal/internal/client/services"
	"github.com/dmitrijs2005/residentportal/internal/client/session"
	"github.com/dmitrijs2005/residentportal/internal/client/token"
	"github.com/dmitrijs2005/residentportal/internal/client/ui"
	"github.com/dmitrijs2005/residentportal/internal/logging"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	out      io.Writer
	reader   *bufio.Reader
	console  *ui.Console
	store    session.Store
	resolver *roles.Resolver
	gate     *gate.Gate
	flow     *services.LoginFlow
	account  *services.AccountService
	db       *sql.DB

	mu     sync.Mutex
	signed string
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	a := &App{config: c, logger: logger, out: out, reader: bufio.NewReader(in)}

	if c.SessionDSN == "" {
		a.store = session.NewMemoryStore()
	} else {
		db, err := repositories.InitDatabase(ctx, c.SessionDSN)
		if err != nil {
			logger.Error(ctx, "error initializing session database", "error", err)
			return nil, err
		}
		a.db = db
		a.store = session.NewSQLiteStore(db)
	}

	a.console = ui.NewConsole(out, gate.LoginRoute)
	a.resolver = roles.NewResolver(a.store)
	a.gate = gate.New(a.resolver, nil)

	apiClient, err := client.NewHTTPClient(client.Options{
		BaseURL:       c.APIBaseURL,
		LogoutURL:     c.LogoutURL,
		DeviceType:    c.DeviceType,
		RedirectDelay: c.RedirectDelay,
		Timeout:       c.RequestTimeout,
	}, a.store, a.console, a.console, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	materializer := token.NewMaterializer(token.NewDecoder(c.TokenVerifySecret), a.store)
	a.flow = services.NewLoginFlow(apiClient, materializer, a.console, a.console, logger)
	a.account = services.NewAccountService(apiClient, a.store, a.console, a.console, logger, c.LogoutURL)

	a.store.Subscribe(a.onSessionChange)

	return a, nil
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// onSessionChange keeps the prompt in step with the store.
func (a *App) onSessionChange(rec session.Record) {
	id := roles.FromRecord(rec)
	a.mu.Lock()
	defer a.mu.Unlock()
	if id.Authenticated {
		a.signed = fmt.Sprintf("%s/%s", id.Name, id.Role)
	} else {
		a.signed = ""
	}
}

func (a *App) getStatus() string {
	a.mu.Lock()
	signed := a.signed
	a.mu.Unlock()

	loc := a.console.Location()
	if signed == "" {
		return fmt.Sprintf("(guest) %s", loc)
	}
	return fmt.Sprintf("(%s) %s", signed, loc)
}

// Run restores a persisted session, if any, and serves the REPL.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Resident portal (type 'help' for commands)")

	rec, err := a.store.Load(ctx)
	if err != nil {
		a.logger.Warn(ctx, "stored session discarded", "error", err)
	}
	a.onSessionChange(rec)
	if id := roles.FromRecord(rec); id.Authenticated {
		_ = a.Open(ctx, gate.Landing(id.Role))
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
