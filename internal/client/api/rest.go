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
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pavelgris/erpadmin/internal/client/models"
	"github.com/pavelgris/erpadmin/internal/common"
	"github.com/pavelgris/erpadmin/internal/logging"
)

const requestTimeout = 15 * time.Second

// RESTClient talks JSON over HTTP to the ERP backend. It owns the bearer
// token between login and logout; the session manager installs and clears
// credentials via SetAuth/ClearAuth and observes rotation via OnTokenRefresh.
type RESTClient struct {
	baseURL     string
	http        *http.Client
	log         logging.Logger
	legacyOrder bool

	mu             sync.Mutex
	token          string
	tenantID       string
	userID         string
	onTokenRefresh func(token string)
}

// NewRESTClient builds a client for the given base URL, e.g.
// "https://erp.example.com/api".
func NewRESTClient(baseURL string, log logging.Logger) *RESTClient {
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		log:     log,
	}
}

// UseLegacyOrder switches todo reordering to the legacy POST /todos/order
// wire form.
func (c *RESTClient) UseLegacyOrder(v bool) { c.legacyOrder = v }

// OnTokenRefresh registers a hook invoked after every transparent token
// rotation, so the new token can be re-persisted.
func (c *RESTClient) OnTokenRefresh(fn func(token string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTokenRefresh = fn
}

// SetAuth installs the credentials stamped on every authenticated request.
func (c *RESTClient) SetAuth(token, tenantID, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.tenantID = tenantID
	c.userID = userID
}

// ClearAuth drops the credentials.
func (c *RESTClient) ClearAuth() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.tenantID = ""
	c.userID = ""
}

// Token returns the current bearer token ("" when logged out).
func (c *RESTClient) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// do performs one request. For authenticated calls a 401 triggers exactly one
// token refresh followed by exactly one retry; if the refresh itself fails,
// the original error is terminal.
func (c *RESTClient) do(ctx context.Context, method, path string, query url.Values, body, out any, authed bool) error {
	err := c.doOnce(ctx, method, path, query, body, out, authed)
	if err == nil || !authed || !errors.Is(err, common.ErrUnauthorized) {
		return err
	}
	if _, rerr := c.RefreshToken(ctx); rerr != nil {
		c.log.Warn(ctx, "token refresh failed", "error", rerr)
		return err
	}
	return c.doOnce(ctx, method, path, query, body, out, authed)
}

func (c *RESTClient) doOnce(ctx context.Context, method, path string, query url.Values, body, out any, authed bool) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	for k, v := range c.headers(authed) {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", common.ErrUnauthorized, extractMessage(data))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode, Message: extractMessage(data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// headers builds the header set fresh for every request; token and tenant
// can change between calls.
func (c *RESTClient) headers(authed bool) map[string]string {
	h := map[string]string{
		"Content-Type": "application/json",
		"X-Request-Id": uuid.NewString(),
	}
	if !authed {
		return h
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	h["Authorization"] = "Bearer " + c.token
	if c.tenantID != "" {
		h["x-tenant-id"] = c.tenantID
	}
	if c.userID != "" {
		h["x-user-id"] = c.userID
	}
	return h
}

func extractMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(data))
}

// --- auth ---

func (c *RESTClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	in := map[string]string{"email": email, "password": password}
	var out LoginResult
	if err := c.doOnce(ctx, http.MethodPost, "/login", nil, in, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RESTClient) Logout(ctx context.Context) error {
	return c.doOnce(ctx, http.MethodPost, "/logout", nil, nil, nil, true)
}

func (c *RESTClient) CurrentUser(ctx context.Context) (*models.RawUser, error) {
	var out struct {
		Data *models.RawUser `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/user", nil, nil, &out, true); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return nil, fmt.Errorf("%w: empty user payload", common.ErrUnauthorized)
	}
	return out.Data, nil
}

// RefreshToken rotates the bearer token and installs the replacement.
func (c *RESTClient) RefreshToken(ctx context.Context) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.doOnce(ctx, http.MethodPost, "/auth/refresh", nil, nil, &out, true); err != nil {
		return "", err
	}
	c.mu.Lock()
	c.token = out.Token
	hook := c.onTokenRefresh
	c.mu.Unlock()
	if hook != nil {
		hook(out.Token)
	}
	return out.Token, nil
}

// --- users ---

func (c *RESTClient) ListUsers(ctx context.Context, q models.ListQuery) (*models.UserList, error) {
	var out models.UserList
	if err := c.do(ctx, http.MethodGet, "/users", q.Values(), nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// userResponse tolerates both {user:{...}} and flat user bodies on writes;
// the backend answers POST with the former and PUT with the latter.
type userResponse struct {
	User   *models.User  `json:"user"`
	ID     int64         `json:"id"`
	Name   string        `json:"name"`
	Email  string        `json:"email"`
	Active bool          `json:"active"`
	Roles  []models.Role `json:"roles"`
}

func (r *userResponse) record() *models.User {
	if r.User != nil {
		return r.User
	}
	return &models.User{ID: r.ID, Name: r.Name, Email: r.Email, Active: r.Active, Roles: r.Roles}
}

func (c *RESTClient) CreateUser(ctx context.Context, in models.UserPayload) (*models.User, error) {
	var out userResponse
	if err := c.do(ctx, http.MethodPost, "/users", nil, in, &out, true); err != nil {
		return nil, err
	}
	return out.record(), nil
}

func (c *RESTClient) UpdateUser(ctx context.Context, id int64, in models.UserPayload) (*models.User, error) {
	var out userResponse
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), nil, in, &out, true); err != nil {
		return nil, err
	}
	return out.record(), nil
}

func (c *RESTClient) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil, nil, true)
}

func (c *RESTClient) AssignRole(ctx context.Context, userID, roleID int64) error {
	in := map[string]int64{"role_id": roleID}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/users/%d/assign-role", userID), nil, in, nil, true)
}

func (c *RESTClient) RemoveRole(ctx context.Context, userID, roleID int64) error {
	in := map[string]int64{"role_id": roleID}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/users/%d/remove-role", userID), nil, in, nil, true)
}

// --- todos ---

func (c *RESTClient) ListTodos(ctx context.Context, perPage int) (*models.TodoList, error) {
	q := url.Values{}
	q.Set("per_page", fmt.Sprint(perPage))
	var out models.TodoList
	if err := c.do(ctx, http.MethodGet, "/todos", q, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RESTClient) CreateTodo(ctx context.Context, in models.TodoPayload) (*models.Todo, error) {
	var out struct {
		Data *models.Todo `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/todos", nil, in, &out, true); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *RESTClient) UpdateTodo(ctx context.Context, id int64, patch models.TodoPatch) (*models.Todo, error) {
	var out struct {
		Data *models.Todo `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/todos/%d", id), nil, patch, &out, true); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *RESTClient) DeleteTodo(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/todos/%d", id), nil, nil, nil, true)
}

// ReorderTodos sends the complete new ordering of the list. The legacy wire
// form differs in both path and body key.
func (c *RESTClient) ReorderTodos(ctx context.Context, orderedIDs []int64) error {
	if c.legacyOrder {
		in := map[string][]int64{"orderedIds": orderedIDs}
		return c.do(ctx, http.MethodPost, "/todos/order", nil, in, nil, true)
	}
	in := map[string][]int64{"ordered_ids": orderedIDs}
	return c.do(ctx, http.MethodPost, "/todos/reorder", nil, in, nil, true)
}

// --- enquiries ---

func (c *RESTClient) ListEnquiries(ctx context.Context, q models.ListQuery) (*models.EnquiryList, error) {
	var out models.EnquiryList
	if err := c.do(ctx, http.MethodGet, "/enquiries", q.Values(), nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RESTClient) CreateEnquiry(ctx context.Context, in models.EnquiryPayload) (*models.EnquiryReceipt, error) {
	var out models.EnquiryReceipt
	if err := c.do(ctx, http.MethodPost, "/enquiries", nil, in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RESTClient) LookupContact(ctx context.Context, phone string) (*models.Contact, error) {
	q := url.Values{}
	q.Set("phone", phone)
	var out struct {
		Contact *models.Contact `json:"contact"`
	}
	if err := c.do(ctx, http.MethodGet, "/contacts/lookup", q, nil, &out, true); err != nil {
		return nil, err
	}
	return out.Contact, nil
}
