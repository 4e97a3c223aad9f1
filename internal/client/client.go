// Package client talks to a tack server over HTTP. BoardClient is the
// board.Persister the terminal UI drives.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/amterp/tack/internal/api"
	tackerr "github.com/amterp/tack/internal/errors"
	"github.com/amterp/tack/internal/model"
)

const (
	defaultTimeout = 10 * time.Second
	defaultRetries = 2
	defaultBackoff = 200 * time.Millisecond
	maxBackoff     = 2 * time.Second
)

// Client is an HTTP client for one tack server.
type Client struct {
	baseURL string
	http    *http.Client
	retries int
	wait    time.Duration
	log     *log.Entry
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every single attempt of a request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithRetries sets how many times a failed request is retried.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithBackoff sets the first delay between retries; later ones grow
// exponentially.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.wait = d }
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Client) { c.log = logger.WithField("component", "client") }
}

// New creates a client for the server at baseURL, e.g. http://localhost:5260.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		retries: defaultRetries,
		wait:    defaultBackoff,
		log:     log.StandardLogger().WithField("component", "client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Board returns a client scoped to one board.
func (c *Client) Board(name string) *BoardClient {
	return &BoardClient{c: c, name: name}
}

// Boards lists the server's boards.
func (c *Client) Boards(ctx context.Context) ([]string, error) {
	var resp api.BoardsResponse
	if err := c.do(ctx, "list boards", http.MethodGet, "/api/v1/boards", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Boards, nil
}

// retryPolicy backs off exponentially from c.wait and gives up after
// c.retries retries or when ctx ends.
func (c *Client) retryPolicy(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(c.wait),
		backoff.WithMaxInterval(maxBackoff),
		backoff.WithMaxElapsedTime(0),
	)
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(c.retries)), ctx)
}

// do sends a JSON request, retrying transport failures, 5xx, 429 and 425.
// Mutating requests carry one Idempotency-Key across all attempts.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
	}

	var key string
	if method != http.MethodGet {
		key = uuid.NewString()
	}

	entry := c.log.WithFields(log.Fields{"op": op, "method": method, "path": path})
	attempts := 0
	err := backoff.RetryNotify(func() error {
		attempts++
		retry, err := c.attempt(ctx, op, method, path, payload, key, out)
		if err != nil && !retry {
			return backoff.Permanent(err)
		}
		return err
	}, c.retryPolicy(ctx), func(err error, wait time.Duration) {
		entry.WithError(err).WithFields(log.Fields{"attempt": attempts, "wait": wait}).Debug("request failed, retrying")
	})
	if err == nil {
		return nil
	}

	var pe *tackerr.PersistError
	if !errors.As(err, &pe) {
		// Context ended between attempts.
		return &tackerr.PersistError{Op: op, Err: err}
	}
	return err
}

func (c *Client) attempt(ctx context.Context, op, method, path string, payload []byte, key string, out any) (retry bool, err error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return false, &tackerr.PersistError{Op: op, Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if key != "" {
		req.Header.Set(api.IdempotencyHeader, key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, &tackerr.PersistError{Op: op, Err: ctxErr}
		}
		return true, &tackerr.PersistError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		var e api.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		retry = retryable(resp.StatusCode)
		return retry, &tackerr.PersistError{Op: op, Status: resp.StatusCode, Message: e.Error}
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, &tackerr.PersistError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("invalid response: %w", err)}
		}
	}
	return false, nil
}

func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusTooEarly:
		return true
	}
	return status >= http.StatusInternalServerError
}

// BoardClient implements board.Persister against one board of the server.
type BoardClient struct {
	c    *Client
	name string
}

func (b *BoardClient) Name() string { return b.name }

func (b *BoardClient) path(format string, args ...any) string {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = url.PathEscape(fmt.Sprint(a))
	}
	return "/api/v1/boards/" + url.PathEscape(b.name) + fmt.Sprintf(format, escaped...)
}

// FetchListOrder returns the board's lists in order.
func (b *BoardClient) FetchListOrder(ctx context.Context) ([]model.List, error) {
	var resp []api.ListResponse
	if err := b.c.do(ctx, "fetch lists", http.MethodGet, b.path("/lists"), nil, &resp); err != nil {
		return nil, err
	}
	lists := make([]model.List, len(resp))
	for i, l := range resp {
		lists[i] = model.List{ID: l.ID, Title: l.Title, Color: l.Color}
	}
	return lists, nil
}

// FetchCards returns the cards of one list in order.
func (b *BoardClient) FetchCards(ctx context.Context, listID string) ([]model.Card, error) {
	var cards []model.Card
	if err := b.c.do(ctx, "fetch cards", http.MethodGet, b.path("/lists/%s/cards", listID), nil, &cards); err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []model.Card{}
	}
	return cards, nil
}

// ReorderCard moves cardID from fromListID to toListID so that it ends up
// at toIndex.
func (b *BoardClient) ReorderCard(ctx context.Context, cardID, fromListID, toListID string, toIndex int) error {
	req := api.MoveCardRequest{FromList: fromListID, ToList: toListID, Position: &toIndex}
	return b.c.do(ctx, "reorder card", http.MethodPatch, b.path("/cards/%s/move", cardID), req, nil)
}

// ReorderList moves listID to toIndex in the board's list order.
func (b *BoardClient) ReorderList(ctx context.Context, listID string, toIndex int) error {
	req := api.PositionRequest{Position: &toIndex}
	return b.c.do(ctx, "reorder list", http.MethodPut, b.path("/lists/%s/position", listID), req, nil)
}

// IsUnavailable reports whether err means the server couldn't be reached
// or failed on its side.
func IsUnavailable(err error) bool {
	var pe *tackerr.PersistError
	if !errors.As(err, &pe) {
		return false
	}
	return pe.Err != nil || pe.Status >= http.StatusInternalServerError
}
