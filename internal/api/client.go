package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel/trace"

	"taskcal/internal/instrumentation"
	"taskcal/internal/logging"
	"taskcal/internal/schedule"
	"taskcal/internal/session"
)

// Route templates, used both to build request URLs and as low
// cardinality path labels on metrics and spans.
const (
	routeLogin      = "token/"
	routeRefresh    = "token/refresh/"
	routeSignup     = "register/"
	routeVerifyOTP  = "verifyotp/"
	routeResendOTP  = "resendotp/"
	routeLogout     = "logout/"
	routeTaskList   = "tasks/{userId}"
	routeTaskCreate = "tasks/"
	routeTaskEdit   = "tasks/edit/{taskId}"
	routeTaskDelete = "tasks/delete/{taskId}"
)

const defaultTimeout = 30 * time.Second

// Config carries the dependencies for a Client. Everything except
// BaseURL has a usable default.
type Config struct {
	// BaseURL is the API root, e.g. "https://example.com/api/".
	BaseURL string

	// Session tracks the authentication state machine the renewal
	// transport drives.
	Session *session.Session

	// Navigator receives the entry-point transitions (login on
	// unrecoverable expiry, blocked on an account block).
	Navigator session.Navigator

	// Jar holds the auth cookies. A fresh in-memory jar is created when
	// nil; pass a pre-loaded jar to resume a persisted session.
	Jar http.CookieJar

	// Transport is the underlying RoundTripper the renewal policy
	// wraps. Defaults to http.DefaultTransport.
	Transport http.RoundTripper

	Logger  *slog.Logger
	Metrics *instrumentation.Metrics
	Tracer  trace.Tracer
	Timeout time.Duration
}

// Client talks to the task backend. All requests pass through the
// session renewal transport, so callers never see a transient expiry.
type Client struct {
	base    *url.URL
	http    *http.Client
	jar     http.CookieJar
	session *session.Session
	logger  *slog.Logger
	metrics *instrumentation.Metrics
	tracer  trace.Tracer
}

// New builds a Client from the given configuration.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	jar := cfg.Jar
	if jar == nil {
		jar, err = cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
	}

	sess := cfg.Session
	if sess == nil {
		sess = session.New()
	}
	nav := cfg.Navigator
	if nav == nil {
		nav = session.NopNavigator{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logging.WithComponent(logger, "api")

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}

	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	renewing := &renewalTransport{
		base:       transport,
		refreshURL: base.JoinPath(routeRefresh),
		jar:        jar,
		session:    sess,
		nav:        nav,
		logger:     logger,
		metrics:    metrics,
	}

	return &Client{
		base:    base,
		http:    &http.Client{Transport: renewing, Jar: jar, Timeout: timeout},
		jar:     jar,
		session: sess,
		logger:  logger,
		metrics: metrics,
		tracer:  cfg.Tracer,
	}, nil
}

// BaseURL returns the resolved API root.
func (c *Client) BaseURL() *url.URL { return c.base }

// Jar exposes the cookie jar for session persistence.
func (c *Client) Jar() http.CookieJar { return c.jar }

// Session returns the session state machine the client drives.
func (c *Client) Session() *session.Session { return c.session }

// Login authenticates with email and password. On success the server
// sets the auth cookies and the returned user details identify the
// account for task operations.
func (c *Client) Login(ctx context.Context, email, password string) (UserDetails, error) {
	body := map[string]string{"email": email, "password": password}
	var out loginResponse
	err := c.do(ctx, "login", http.MethodPost, routeLogin, routeLogin, body, &out)
	if err != nil {
		return UserDetails{}, err
	}
	if !out.Success {
		return UserDetails{}, &ServerError{StatusCode: http.StatusOK, Message: out.Message}
	}
	c.session.Begin(session.User{
		ID:       out.UserDetails.ID,
		Username: out.UserDetails.Username,
		Email:    out.UserDetails.Email,
	})
	c.logger.Info("login succeeded", logging.UserHash(email))
	return out.UserDetails, nil
}

// Signup registers a new account. The server replies by mailing a
// one-time password; the registration completes via VerifyOTP.
func (c *Client) Signup(ctx context.Context, p Profile) (string, error) {
	var out statusResponse
	err := c.do(ctx, "signup", http.MethodPost, routeSignup, routeSignup, p, &out)
	if err != nil {
		return "", err
	}
	if !out.Success {
		return "", &ServerError{StatusCode: http.StatusOK, Message: out.Message}
	}
	return out.Message, nil
}

// VerifyOTP confirms a pending registration with the mailed code. The
// full profile is resubmitted alongside the code.
func (c *Client) VerifyOTP(ctx context.Context, p Profile, otp string) (string, error) {
	body := struct {
		Profile
		OTP string `json:"otp"`
	}{Profile: p, OTP: otp}
	var out statusResponse
	err := c.do(ctx, "verify_otp", http.MethodPost, routeVerifyOTP, routeVerifyOTP, body, &out)
	if err != nil {
		return "", err
	}
	if !out.Success {
		return "", &ServerError{StatusCode: http.StatusOK, Message: out.Message}
	}
	return out.Message, nil
}

// ResendOTP asks the server to mail a fresh one-time password for a
// pending registration.
func (c *Client) ResendOTP(ctx context.Context, email string) (string, error) {
	body := map[string]string{"email": email}
	var out statusResponse
	err := c.do(ctx, "resend_otp", http.MethodPost, routeResendOTP, routeResendOTP, body, &out)
	if err != nil {
		return "", err
	}
	if !out.Success {
		return "", &ServerError{StatusCode: http.StatusOK, Message: out.Message}
	}
	return out.Message, nil
}

// Logout ends the server-side session and clears the local one. The
// logout path is exempt from blocked-account navigation, so a blocked
// user can always get out.
func (c *Client) Logout(ctx context.Context) error {
	var out statusResponse
	err := c.do(ctx, "logout", http.MethodPost, routeLogout, routeLogout, nil, &out)
	if err != nil && !errors.Is(err, ErrSessionExpired) {
		return err
	}
	c.session.Terminate()
	return nil
}

// ListTasks fetches every task owned by the given user.
func (c *Client) ListTasks(ctx context.Context, userID int64) ([]schedule.Task, error) {
	path := "tasks/" + strconv.FormatInt(userID, 10)
	var out tasksResponse
	if err := c.do(ctx, "list_tasks", http.MethodGet, routeTaskList, path, nil, &out); err != nil {
		return nil, err
	}
	tasks := make([]schedule.Task, 0, len(out.Task))
	for _, p := range out.Task {
		tasks = append(tasks, toTask(p))
	}
	return tasks, nil
}

// CreateTask adds a task for the given user. Validation happens before
// the call; the server persists whatever it is handed.
func (c *Client) CreateTask(ctx context.Context, userID int64, t schedule.Task) error {
	body := taskWrite{
		Name:         t.Name,
		ScheduledFor: t.ScheduledFor,
		Completed:    t.Completed,
		UserID:       userID,
	}
	var out statusResponse
	err := c.do(ctx, "create_task", http.MethodPost, routeTaskCreate, routeTaskCreate, body, &out)
	if err != nil {
		return err
	}
	if !out.Success {
		return &ServerError{StatusCode: http.StatusOK, Message: out.Message}
	}
	return nil
}

// EditTask overwrites the named fields of an existing task, including
// completion toggles.
func (c *Client) EditTask(ctx context.Context, t schedule.Task) error {
	path := "tasks/edit/" + strconv.FormatInt(t.ID, 10)
	body := taskWrite{
		Name:         t.Name,
		ScheduledFor: t.ScheduledFor,
		Completed:    t.Completed,
	}
	var out statusResponse
	err := c.do(ctx, "edit_task", http.MethodPatch, routeTaskEdit, path, body, &out)
	if err != nil {
		return err
	}
	if !out.Success {
		return &ServerError{StatusCode: http.StatusOK, Message: out.Message}
	}
	return nil
}

// DeleteTask removes a task by id. Completion gating is enforced by the
// caller, not here.
func (c *Client) DeleteTask(ctx context.Context, taskID int64) error {
	path := "tasks/delete/" + strconv.FormatInt(taskID, 10)
	var out statusResponse
	err := c.do(ctx, "delete_task", http.MethodDelete, routeTaskDelete, path, nil, &out)
	if err != nil {
		return err
	}
	if !out.Success {
		return &ServerError{StatusCode: http.StatusOK, Message: out.Message}
	}
	return nil
}

// do issues one request and decodes the reply. route is the metrics
// label, path the concrete URL suffix. Non-2xx statuses are mapped to
// the error taxonomy; renewal has already run by the time a 401 is
// seen here.
func (c *Client) do(ctx context.Context, op, method, route, path string, body, out any) error {
	ctx, end := instrumentation.StartSpan(ctx, c.tracer, op, route)
	var err error
	defer func() { end(err) }()

	var rdr io.Reader
	if body != nil {
		var data []byte
		data, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", op, err)
		}
		rdr = bytes.NewReader(data)
	}

	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), rdr)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := newRequestID()
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	start := time.Now()
	resp, respErr := c.http.Do(req)
	duration := time.Since(start)
	if respErr != nil {
		err = fmt.Errorf("%s: %w", op, respErr)
		c.logger.Debug("request failed",
			logging.Operation(op),
			slog.String(logging.KeyMethod, method),
			slog.String(logging.KeyPath, route),
			logging.RequestID(requestID),
			logging.Err(respErr),
		)
		return err
	}
	defer resp.Body.Close()

	c.metrics.RecordAPIRequest(ctx, method, route, resp.StatusCode, duration)
	c.logger.Debug("request completed",
		logging.Operation(op),
		slog.String(logging.KeyMethod, method),
		slog.String(logging.KeyPath, route),
		slog.Int(logging.KeyStatus, resp.StatusCode),
		slog.Duration(logging.KeyDuration, duration),
		logging.RequestID(requestID),
	)

	data, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		err = fmt.Errorf("%s: reading response: %w", op, readErr)
		return err
	}

	if err = mapStatus(resp.StatusCode, data); err != nil {
		err = fmt.Errorf("%s: %w", op, err)
		return err
	}

	if out != nil && len(data) > 0 {
		if decErr := json.Unmarshal(data, out); decErr != nil {
			err = fmt.Errorf("%s: decoding response: %w", op, decErr)
			return err
		}
	}
	return nil
}

// mapStatus translates a response status into the error taxonomy. The
// body is the already-read payload, consulted for the failure message.
func mapStatus(status int, body []byte) error {
	if status >= 200 && status <= 299 {
		return nil
	}
	if status == http.StatusUnauthorized {
		return ErrSessionExpired
	}

	var sr statusResponse
	_ = json.Unmarshal(body, &sr)

	if status == http.StatusForbidden && strings.Contains(strings.ToLower(sr.Detail), "blocked") {
		return ErrAccountBlocked
	}

	msg := sr.Message
	if msg == "" {
		msg = sr.Detail
	}
	return &ServerError{StatusCode: status, Message: msg}
}

func newRequestID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return ""
	}
	return id.String()
}
