package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http/cookiejar"
	"os"

	"go.opentelemetry.io/otel/trace"

	"taskcal/internal/api"
	"taskcal/internal/instrumentation"
	"taskcal/internal/session"
	"taskcal/internal/store"
)

const defaultServerURL = "http://localhost:8000/api/"

// app bundles the wired-up client stack for one command invocation.
type app struct {
	client  *api.Client
	session *session.Session
	persist *session.Store
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// newApp builds the client from the persistent flags, restoring a
// previously saved session when one exists.
func newApp(errOut io.Writer) (*app, error) {
	return newAppWithTelemetry(errOut, nil, nil)
}

// newAppWithTelemetry is newApp with metrics and tracing attached, for
// the long-running watch mode.
func newAppWithTelemetry(errOut io.Writer, metrics *instrumentation.Metrics, tracer trace.Tracer) (*app, error) {
	level := slog.LevelWarn
	if debugMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	baseURL := serverURL
	if baseURL == "" {
		baseURL = os.Getenv("TASKCAL_SERVER")
	}
	if baseURL == "" {
		baseURL = defaultServerURL
	}

	persist, err := session.NewStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	sess := session.New()

	client, err := api.New(api.Config{
		BaseURL:   baseURL,
		Session:   sess,
		Navigator: &cliNavigator{persist: persist, out: errOut},
		Jar:       jar,
		Logger:    logger,
		Metrics:   metrics,
		Tracer:    tracer,
	})
	if err != nil {
		return nil, err
	}

	if err := persist.Load(sess, jar, client.BaseURL()); err != nil {
		return nil, fmt.Errorf("restoring session: %w", err)
	}

	return &app{
		client:  client,
		session: sess,
		persist: persist,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// save persists the current session and cookies.
func (a *app) save() error {
	return a.persist.Save(a.session, a.client.Jar(), a.client.BaseURL())
}

// requireUser returns the logged-in user or an instruction to log in.
func (a *app) requireUser() (session.User, error) {
	user, ok := a.session.User()
	if !ok {
		return session.User{}, fmt.Errorf("not logged in; run 'taskcal login' first")
	}
	return user, nil
}

// taskStore builds a store for the logged-in user with the server's
// current task list loaded.
func (a *app) taskStore(ctx context.Context) (*store.Store, error) {
	user, err := a.requireUser()
	if err != nil {
		return nil, err
	}
	st := store.New(a.client, user.ID, a.logger, store.WithMetrics(a.metrics))
	if err := st.Refresh(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

// cliNavigator implements the session entry points for a terminal
// client: there is no view to switch to, so it clears the persisted
// session and tells the user what happened.
type cliNavigator struct {
	persist *session.Store
	out     io.Writer
}

func (n *cliNavigator) EnterLogin() {
	_ = n.persist.Clear()
	fmt.Fprintln(n.out, "Session expired. Run 'taskcal login' to sign in again.")
}

func (n *cliNavigator) EnterBlocked() {
	_ = n.persist.Clear()
	fmt.Fprintln(n.out, "Your account has been blocked. Contact the administrator.")
}
