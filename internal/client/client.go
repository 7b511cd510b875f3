// Package client is the facade the mobile UI layer talks to: a thin
// wrapper over the notification HTTP API holding an in-memory cache that
// is always subordinate to a server refetch.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"mealmate/internal/common"
)

// NetworkError is a client-side transport failure. The facade fails
// closed: the prior cached list is retained and flagged stale instead of
// being cleared.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// State is the cached view the UI renders. Stale marks a cache that could
// not be refreshed on the last fetch.
type State struct {
	Notifications []*common.NotificationResponse
	UnreadCount   int64
	Stale         bool
}

type Client struct {
	baseURL   string
	authToken string
	http      *http.Client

	mu           sync.Mutex
	state        State
	receivedSubs map[int]func()
	tappedSubs   map[int]func(notificationID string)
	nextSub      int
}

func New(baseURL, authToken string) *Client {
	return &Client{
		baseURL:      baseURL,
		authToken:    authToken,
		http:         &http.Client{Timeout: 15 * time.Second},
		receivedSubs: make(map[int]func()),
		tappedSubs:   make(map[int]func(string)),
	}
}

// State returns a copy of the current cached view.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Fetch re-fetches page/limit from the source of truth and replaces the
// cache. On a transport failure the previous cache is kept, marked stale,
// and returned alongside the NetworkError.
func (c *Client) Fetch(ctx context.Context, page, limit int) (State, error) {
	var resp struct {
		Success       bool                           `json:"success"`
		Notifications []*common.NotificationResponse `json:"notifications"`
		UnreadCount   int64                          `json:"unreadCount"`
	}

	path := fmt.Sprintf("/notifications?page=%d&limit=%d", page, limit)
	err := c.do(ctx, http.MethodGet, path, nil, &resp)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state.Stale = true
		return c.snapshotLocked(), err
	}

	c.state = State{
		Notifications: resp.Notifications,
		UnreadCount:   resp.UnreadCount,
		Stale:         false,
	}
	return c.snapshotLocked(), nil
}

// MarkAsRead flips the given ids (or everything) read. The local cache is
// updated optimistically; a server failure rolls it back to the
// pre-operation snapshot.
func (c *Client) MarkAsRead(ctx context.Context, ids []string, markAll bool) error {
	c.mu.Lock()
	snapshot := c.snapshotLocked()
	c.applyMarkReadLocked(ids, markAll)
	c.mu.Unlock()

	body := map[string]interface{}{}
	if markAll {
		body["markAll"] = true
	} else {
		body["notificationIds"] = ids
	}

	if err := c.do(ctx, http.MethodPut, "/notifications/mark-read", body, nil); err != nil {
		c.mu.Lock()
		c.state = snapshot
		c.mu.Unlock()
		return err
	}
	return nil
}

// DeleteNotifications removes the given ids (or everything) with the same
// optimistic-then-reconcile contract as MarkAsRead.
func (c *Client) DeleteNotifications(ctx context.Context, ids []string, deleteAll bool) error {
	c.mu.Lock()
	snapshot := c.snapshotLocked()
	c.applyDeleteLocked(ids, deleteAll)
	c.mu.Unlock()

	body := map[string]interface{}{}
	if deleteAll {
		body["deleteAll"] = true
	} else {
		body["notificationIds"] = ids
	}

	if err := c.do(ctx, http.MethodDelete, "/notifications", body, nil); err != nil {
		c.mu.Lock()
		c.state = snapshot
		c.mu.Unlock()
		return err
	}
	return nil
}

func (c *Client) Preferences(ctx context.Context) (*common.Preferences, error) {
	var resp struct {
		Success     bool               `json:"success"`
		Preferences common.Preferences `json:"preferences"`
	}
	if err := c.do(ctx, http.MethodGet, "/notifications/preferences", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Preferences, nil
}

// UpdatePreferences sends only the fields set in the patch; the server
// applies a field-level merge. The client applies nothing locally until
// the server confirms, so the update is all-or-nothing from the UI's
// perspective.
func (c *Client) UpdatePreferences(ctx context.Context, patch common.PreferencesPatch) (*common.Preferences, error) {
	var resp struct {
		Success     bool               `json:"success"`
		Preferences common.Preferences `json:"preferences"`
	}
	if err := c.do(ctx, http.MethodPut, "/notifications/preferences", patch, &resp); err != nil {
		return nil, err
	}
	return &resp.Preferences, nil
}

func (c *Client) RegisterPushToken(ctx context.Context, token, platform string) error {
	body := map[string]string{"token": token, "platform": platform}
	return c.do(ctx, http.MethodPost, "/notifications/register-token", body, nil)
}

func (c *Client) SendTestNotification(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/notifications/test", nil, nil)
}

func (c *Client) CheckPantry(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/notifications/check-pantry", nil, nil)
}

func (c *Client) CheckGrocery(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/notifications/check-grocery", nil, nil)
}

// OnNotificationReceived subscribes to foreground push deliveries. The
// returned unsubscribe func is idempotent and must be called on component
// teardown, error paths included.
func (c *Client) OnNotificationReceived(fn func()) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.receivedSubs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.receivedSubs, id)
		c.mu.Unlock()
	}
}

// OnNotificationTapped subscribes to user taps on delivered notifications.
func (c *Client) OnNotificationTapped(fn func(notificationID string)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.tappedSubs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.tappedSubs, id)
		c.mu.Unlock()
	}
}

// EmitReceived is called by the platform push bridge when a notification
// arrives in the foreground.
func (c *Client) EmitReceived() {
	c.mu.Lock()
	subs := make([]func(), 0, len(c.receivedSubs))
	for _, fn := range c.receivedSubs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// EmitTapped is called by the platform push bridge on user interaction.
func (c *Client) EmitTapped(notificationID string) {
	c.mu.Lock()
	subs := make([]func(string), 0, len(c.tappedSubs))
	for _, fn := range c.tappedSubs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(notificationID)
	}
}

func (c *Client) snapshotLocked() State {
	copied := make([]*common.NotificationResponse, len(c.state.Notifications))
	for i, n := range c.state.Notifications {
		clone := *n
		copied[i] = &clone
	}
	return State{
		Notifications: copied,
		UnreadCount:   c.state.UnreadCount,
		Stale:         c.state.Stale,
	}
}

func (c *Client) applyMarkReadLocked(ids []string, markAll bool) {
	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}

	for _, n := range c.state.Notifications {
		if !markAll && !idSet[n.ID] {
			continue
		}
		if !n.IsRead {
			n.IsRead = true
			if c.state.UnreadCount > 0 {
				c.state.UnreadCount--
			}
		}
	}
	if markAll {
		c.state.UnreadCount = 0
	}
}

func (c *Client) applyDeleteLocked(ids []string, deleteAll bool) {
	if deleteAll {
		c.state.Notifications = nil
		c.state.UnreadCount = 0
		return
	}

	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}

	kept := c.state.Notifications[:0]
	for _, n := range c.state.Notifications {
		if idSet[n.ID] {
			if !n.IsRead && c.state.UnreadCount > 0 {
				c.state.UnreadCount--
			}
			continue
		}
		kept = append(kept, n)
	}
	c.state.Notifications = kept
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.authToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error == "" {
			apiErr.Error = resp.Status
		}

		switch resp.StatusCode {
		case http.StatusBadRequest:
			return &common.ValidationError{Field: "request", Reason: apiErr.Error}
		case http.StatusForbidden:
			return &common.AuthorizationError{Resource: apiErr.Error}
		default:
			return fmt.Errorf("request failed with %d: %s", resp.StatusCode, apiErr.Error)
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
