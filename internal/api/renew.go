package api

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"taskcal/internal/instrumentation"
	"taskcal/internal/logging"
	"taskcal/internal/session"
)

// renewalTransport decorates a RoundTripper with the session renewal
// policy:
//
//   - An authentication-required response triggers exactly one silent
//     refresh against the renewal endpoint, then one replay of the
//     original request. The replay bypasses this decorator, so a
//     request can never be replayed twice.
//   - If the refresh fails, the session is terminated, the login entry
//     point is entered, and the caller receives the original response.
//   - A forbidden response whose body reports a blocked account moves
//     the session to the blocked entry point, unless it arrived for the
//     logout call itself (logging out a blocked account must not loop).
//
// Concurrent requests that fail at the same time share a single
// in-flight refresh; every waiter consumes its result. Each originating
// request is still replayed independently and at most once.
type renewalTransport struct {
	base       http.RoundTripper
	refreshURL *url.URL
	jar        http.CookieJar
	session    *session.Session
	nav        session.Navigator
	logger     *slog.Logger
	metrics    *instrumentation.Metrics

	mu       sync.Mutex
	inflight *renewal
}

// renewal is one in-flight refresh shared by all requests waiting on it.
type renewal struct {
	done chan struct{}
	err  error
}

func (t *renewalTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return t.handleUnauthorized(req, resp)
	}

	t.checkBlocked(req, resp)
	return resp, nil
}

// handleUnauthorized runs the refresh-then-replay sequence. The replay
// is issued strictly after the refresh resolves.
func (t *renewalTransport) handleUnauthorized(req *http.Request, resp *http.Response) (*http.Response, error) {
	ctx := req.Context()
	t.session.Invalidate()

	if err := t.renew(ctx); err != nil {
		t.metrics.RecordRenewal(ctx, instrumentation.RenewalResultFailure)
		t.logger.Warn("credential renewal failed, terminating session",
			logging.Err(err),
			slog.String(logging.KeyPath, req.URL.Path),
		)
		t.session.Terminate()
		t.nav.EnterLogin()
		// The caller gets the original failure, not a second retry.
		return resp, nil
	}

	t.metrics.RecordRenewal(ctx, instrumentation.RenewalResultSuccess)
	t.session.Repair()

	replay, err := t.replay(req)
	if err != nil {
		t.logger.Warn("replay after renewal failed", logging.Err(err))
		return resp, nil
	}
	drain(resp)

	t.checkBlocked(req, replay)
	return replay, nil
}

// renew performs the refresh call, deduplicating concurrent attempts:
// the first failing request starts the refresh, everyone else waits for
// the same result.
func (t *renewalTransport) renew(ctx context.Context) error {
	t.mu.Lock()
	r := t.inflight
	if r != nil {
		t.mu.Unlock()
		select {
		case <-r.done:
			return r.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	r = &renewal{done: make(chan struct{})}
	t.inflight = r
	t.mu.Unlock()

	r.err = t.doRefresh(ctx)
	close(r.done)

	t.mu.Lock()
	t.inflight = nil
	t.mu.Unlock()

	return r.err
}

// doRefresh posts to the renewal endpoint with credentials attached and
// no request body. The fresh access cookie lands in the shared jar.
func (t *renewalTransport) doRefresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.refreshURL.String(), http.NoBody)
	if err != nil {
		return err
	}

	// A dedicated client on the raw transport: the refresh call itself
	// must never re-enter the renewal policy.
	client := &http.Client{Transport: t.base, Jar: t.jar}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServerError{StatusCode: resp.StatusCode, Message: "token refresh rejected"}
	}

	t.logger.Debug("credential renewed")
	return nil
}

// replay resubmits the original request once, with the refreshed
// cookies, bypassing the renewal policy.
func (t *renewalTransport) replay(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if req.Body != nil {
		if req.GetBody == nil {
			return nil, errNoReplayBody
		}
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		clone.Body = body
	}

	// The outer client stamped the stale cookies onto the original
	// request; swap in the refreshed ones.
	if t.jar != nil {
		clone.Header.Del("Cookie")
		for _, ck := range t.jar.Cookies(clone.URL) {
			clone.AddCookie(ck)
		}
	}

	return t.base.RoundTrip(clone)
}

// checkBlocked inspects a forbidden response for the blocked-account
// reason and, for any request except logout, enters the blocked entry
// point. The response body is restored for the caller.
func (t *renewalTransport) checkBlocked(req *http.Request, resp *http.Response) {
	if resp.StatusCode != http.StatusForbidden || isLogout(req.URL) {
		return
	}
	if !blockedReason(resp) {
		return
	}

	t.metrics.RecordBlockedSignal(req.Context())
	t.logger.Warn("account blocked signal received",
		slog.String(logging.KeyPath, req.URL.Path),
	)
	t.session.Block()
	t.nav.EnterBlocked()
}

// blockedReason reads the response body looking for the blocked detail
// and puts the bytes back so the caller still sees the full response.
func blockedReason(resp *http.Response) bool {
	if resp.Body == nil {
		return false
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(data)), "blocked")
}

func isLogout(u *url.URL) bool {
	return strings.Contains(u.Path, "/logout")
}

// drain closes a response we are discarding so the connection can be
// reused.
func drain(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
	}
}
