package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ihildy/weekhours/internal/auth"
	"github.com/ihildy/weekhours/internal/week"

	"github.com/google/uuid"
)

const DefaultBaseURL = "http://localhost:8000/api"

// ErrNotLoggedIn is returned by week operations attempted without a user.
// No request is sent in that case.
var ErrNotLoggedIn = errors.New("user not logged in")

type Client struct {
	BaseURL  string
	HTTP     *http.Client
	Session  *auth.Session
	Observer Observer
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type WeekRecord struct {
	ID            int64     `json:"id"`
	User          int64     `json:"user,omitempty"`
	WeekStartDate string    `json:"week_start_date"`
	WeekData      week.Week `json:"week_data"`
	CreatedAt     string    `json:"created_at,omitempty"`
	UpdatedAt     string    `json:"updated_at,omitempty"`
}

// StatusError reports a non-2xx response. Body is only filled for save
// failures; the other operations discard the server's explanation.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Body)
	}
	return e.Op
}

func New(baseURL string, httpClient *http.Client, session *auth.Session) *Client {
	if session == nil {
		session = &auth.Session{}
	}
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		HTTP:     httpClient,
		Session:  session,
		Observer: NoopObserver{},
	}
}

func (c *Client) Register(ctx context.Context, username, email, password string) (User, error) {
	payload := map[string]string{"username": username, "email": email, "password": password}
	var user User
	if err := c.do(ctx, "register", http.MethodPost, "/register/", payload, &user, false); err != nil {
		return User{}, err
	}
	c.Session.SetUser(user.ID)
	return user, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (User, error) {
	payload := map[string]string{"username": username, "password": password}
	var user User
	if err := c.do(ctx, "login", http.MethodPost, "/login/", payload, &user, false); err != nil {
		return User{}, err
	}
	c.Session.SetUser(user.ID)
	return user, nil
}

// Logout always clears the session, even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.Session.Clear()
	return c.do(ctx, "logout", http.MethodPost, "/logout/", nil, nil, false)
}

func (c *Client) GetCurrentWeek(ctx context.Context) (WeekRecord, error) {
	userID, ok := c.Session.UserID()
	if !ok {
		return WeekRecord{}, ErrNotLoggedIn
	}
	var out WeekRecord
	if err := c.do(ctx, "fetch_week", http.MethodGet, "/week/current/?"+userQuery(userID), nil, &out, false); err != nil {
		return WeekRecord{}, err
	}
	return out, nil
}

func (c *Client) SaveCurrentWeek(ctx context.Context, w week.Week) (WeekRecord, error) {
	userID, ok := c.Session.UserID()
	if !ok {
		return WeekRecord{}, ErrNotLoggedIn
	}
	payload := struct {
		UserID   int64     `json:"user_id"`
		WeekData week.Week `json:"week_data"`
	}{UserID: userID, WeekData: w}

	var out WeekRecord
	if err := c.do(ctx, "save_week", http.MethodPost, "/week/save/", payload, &out, true); err != nil {
		return WeekRecord{}, err
	}
	return out, nil
}

func (c *Client) GetWeekHistory(ctx context.Context) ([]WeekRecord, error) {
	userID, ok := c.Session.UserID()
	if !ok {
		return nil, ErrNotLoggedIn
	}
	var out []WeekRecord
	if err := c.do(ctx, "fetch_history", http.MethodGet, "/week/history/?"+userQuery(userID), nil, &out, false); err != nil {
		return nil, err
	}
	if out == nil {
		out = []WeekRecord{}
	}
	return out, nil
}

var failureMessages = map[string]string{
	"register":      "registration failed",
	"login":         "login failed",
	"logout":        "logout failed",
	"fetch_week":    "failed to fetch week data",
	"save_week":     "failed to save week data",
	"fetch_history": "failed to fetch week history",
}

func (c *Client) do(ctx context.Context, op, method, path string, payload, out any, keepBody bool) (err error) {
	requestID := uuid.NewString()
	started := time.Now()
	status := 0
	defer func() {
		c.observer().OnCallComplete(CallEvent{
			Op:        op,
			Method:    method,
			Path:      path,
			RequestID: requestID,
			Status:    status,
			Latency:   time.Since(started),
			Err:       err,
		})
	}()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s payload: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.BaseURL, "/")+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "weekhours/1.0")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("X-CSRFToken", c.Session.CSRFToken(c.HTTP, c.BaseURL))
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", op, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Op: failureMessages[op], StatusCode: resp.StatusCode}
		if keepBody {
			data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			statusErr.Body = strings.TrimSpace(string(data))
		} else {
			_, _ = io.Copy(io.Discard, resp.Body)
		}
		return statusErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func (c *Client) observer() Observer {
	if c.Observer == nil {
		return NoopObserver{}
	}
	return c.Observer
}

func userQuery(userID int64) string {
	q := url.Values{}
	q.Set("user_id", strconv.FormatInt(userID, 10))
	return q.Encode()
}
