// Command crmctl is a terminal client for the CRM API. It keeps the signed-in
// session in a local file so later commands skip the login step.
//
//	crmctl login -email demo@moderncrm.com -password demo123
//	crmctl customers
//	crmctl customers create -name "Ada" -email ada@example.com
//	crmctl logout
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/moderncrm/crm-api/internal/client"
	"github.com/moderncrm/crm-api/internal/client/session"
)

const usage = `usage: crmctl [-api URL] [-session FILE] <command> [flags]

commands:
  health                      server liveness
  login -email -password      sign in and cache the session
  register -name -email -password
  logout                      forget the cached session
  whoami                      profile of the cached session
  stats | recent [-limit N] | analytics
  customers [create -name -email -company -phone -status -source -notes]
  deals     [create -title -customer-id -customer-name -value -stage -probability -expected-close]
  tasks     [create -title -due -priority -status -customer-id -deal-id -assigned-to]
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "crmctl:", err)
		os.Exit(1)
	}
}

type app struct {
	api   *client.Client
	cache *session.Cache
	out   io.Writer
}

func run(ctx context.Context, args []string, out io.Writer) error {
	global := flag.NewFlagSet("crmctl", flag.ContinueOnError)
	global.Usage = func() { fmt.Fprint(global.Output(), usage) }
	apiURL := global.String("api", envOr("CRM_API_URL", "http://localhost:3001/api"), "API base URL")
	sessionPath := global.String("session", "", "session file (default: user config dir)")
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return errors.New("missing command")
	}

	path := *sessionPath
	if path == "" {
		var err error
		if path, err = session.DefaultPath(); err != nil {
			return err
		}
	}
	a := &app{api: client.New(*apiURL), cache: session.New(path), out: out}

	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "health":
		return a.print(a.api.Health(ctx))
	case "login":
		return a.login(ctx, rest)
	case "register":
		return a.register(ctx, rest)
	case "logout":
		if err := a.cache.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(out, "signed out")
		return nil
	}

	// everything below needs a session
	if err := a.restore(); err != nil {
		return err
	}
	err := a.authed(ctx, cmd, rest)
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.SessionExpired() {
		_ = a.cache.Clear()
		return fmt.Errorf("%w (session cleared, run crmctl login)", err)
	}
	return err
}

func (a *app) authed(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "whoami":
		return a.print(a.api.Profile(ctx))
	case "stats":
		return a.print(a.api.Stats(ctx))
	case "analytics":
		return a.print(a.api.Analytics(ctx))
	case "recent":
		fs := flag.NewFlagSet("recent", flag.ContinueOnError)
		limit := fs.Int("limit", 0, "number of deals (server default 5)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return a.print(a.api.RecentDeals(ctx, *limit))
	case "customers":
		if len(args) > 0 && args[0] == "create" {
			return a.createCustomer(ctx, args[1:])
		}
		return a.print(a.api.Customers(ctx))
	case "deals":
		if len(args) > 0 && args[0] == "create" {
			return a.createDeal(ctx, args[1:])
		}
		return a.print(a.api.Deals(ctx))
	case "tasks":
		if len(args) > 0 && args[0] == "create" {
			return a.createTask(ctx, args[1:])
		}
		return a.print(a.api.Tasks(ctx))
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) restore() error {
	s, err := a.cache.Load()
	if err != nil {
		return err
	}
	if s == nil {
		return errors.New("not signed in, run crmctl login")
	}
	a.api.SetToken(s.Token)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	res, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	return a.remember(res)
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	res, err := a.api.Register(ctx, *name, *email, *password)
	if err != nil {
		return err
	}
	return a.remember(res)
}

func (a *app) remember(res *client.AuthResult) error {
	if err := a.cache.Save(session.Session{User: res.User, Token: res.Token, SavedAt: time.Now().UTC()}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s as %s (%s)\n", res.Message, res.User.Name, res.User.Role)
	return nil
}

func (a *app) createCustomer(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("customers create", flag.ContinueOnError)
	fields := stringFlags(fs, "name", "email", "phone", "company", "status", "source", "notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.print(a.api.CreateCustomer(ctx, collect(fields, nil)))
}

func (a *app) createDeal(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("deals create", flag.ContinueOnError)
	fields := stringFlags(fs, "title", "description", "stage", "notes")
	customerID := fs.String("customer-id", "", "customer id")
	customerName := fs.String("customer-name", "", "customer display name")
	expected := fs.String("expected-close", "", "expected close date (YYYY-MM-DD)")
	value := fs.Float64("value", 0, "deal value")
	probability := fs.Int("probability", 0, "win probability 0-100")
	if err := fs.Parse(args); err != nil {
		return err
	}
	body := collect(fields, map[string]any{
		"customerId":        *customerID,
		"customerName":      *customerName,
		"expectedCloseDate": *expected,
		"value":             *value,
		"probability":       *probability,
	})
	return a.print(a.api.CreateDeal(ctx, body))
}

func (a *app) createTask(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasks create", flag.ContinueOnError)
	fields := stringFlags(fs, "title", "description", "priority", "status")
	due := fs.String("due", "", "due date (YYYY-MM-DD)")
	customerID := fs.String("customer-id", "", "related customer id")
	dealID := fs.String("deal-id", "", "related deal id")
	assignedTo := fs.String("assigned-to", "", "owner")
	if err := fs.Parse(args); err != nil {
		return err
	}
	body := collect(fields, map[string]any{
		"dueDate":    *due,
		"customerId": *customerID,
		"dealId":     *dealID,
		"assignedTo": *assignedTo,
	})
	return a.print(a.api.CreateTask(ctx, body))
}

func stringFlags(fs *flag.FlagSet, names ...string) map[string]*string {
	m := make(map[string]*string, len(names))
	for _, n := range names {
		m[n] = fs.String(n, "", n)
	}
	return m
}

// collect merges non-empty string flags into extra.
func collect(fields map[string]*string, extra map[string]any) map[string]any {
	body := make(map[string]any, len(fields)+len(extra))
	for k, v := range extra {
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		body[k] = v
	}
	for k, v := range fields {
		if *v != "" {
			body[k] = *v
		}
	}
	return body
}

func (a *app) print(v any, err error) error {
	if err != nil {
		return err
	}
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
