package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelgris/erpadmin/internal/client/models"
	"github.com/pavelgris/erpadmin/internal/common"
	"github.com/pavelgris/erpadmin/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewText(io.Discard, slog.LevelError)
}

func newTestClient(t *testing.T, handler http.Handler) *RESTClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRESTClient(srv.URL, testLogger())
}

func TestRESTClient_AuthenticatedHeaders(t *testing.T) {
	var got http.Header
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"data":[],"meta":{"last_page":1}}`))
	}))
	c.SetAuth("tok-1", "acme", "17")

	_, err := c.ListUsers(context.Background(), models.ListQuery{})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-1", got.Get("Authorization"))
	assert.Equal(t, "acme", got.Get("x-tenant-id"))
	assert.Equal(t, "17", got.Get("x-user-id"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.NotEmpty(t, got.Get("X-Request-Id"))
}

func TestRESTClient_LoginIsUnauthenticated(t *testing.T) {
	var got http.Header
	var body map[string]string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"user":{"id":1,"name":"Admin"},"token":"abc"}`))
	}))

	res, err := c.Login(context.Background(), "admin@example.com", "secret12")
	require.NoError(t, err)

	assert.Empty(t, got.Get("Authorization"))
	assert.Equal(t, "admin@example.com", body["email"])
	assert.Equal(t, "abc", res.Token)
	assert.Equal(t, "Admin", res.User.Name)
}

func TestRESTClient_RefreshRetryOnce(t *testing.T) {
	var userCalls, refreshCalls int
	var secondAuth string

	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		userCalls++
		if userCalls == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Unauthenticated."}`))
			return
		}
		secondAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":{"id":1,"name":"Admin","email":"a@b.c"}}`))
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		w.Write([]byte(`{"token":"tok-2"}`))
	})

	c := newTestClient(t, mux)
	c.SetAuth("tok-1", "acme", "17")

	var rotated string
	c.OnTokenRefresh(func(token string) { rotated = token })

	u, err := c.CurrentUser(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, userCalls)
	assert.Equal(t, 1, refreshCalls)
	assert.Equal(t, "Bearer tok-2", secondAuth)
	assert.Equal(t, "tok-2", rotated)
	assert.Equal(t, "tok-2", c.Token())
	assert.Equal(t, "Admin", u.Name)
}

func TestRESTClient_RefreshFailureIsTerminal(t *testing.T) {
	var userCalls, refreshCalls int

	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		userCalls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Unauthenticated."}`))
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	})

	c := newTestClient(t, mux)
	c.SetAuth("tok-1", "", "")

	_, err := c.CurrentUser(context.Background())
	require.ErrorIs(t, err, common.ErrUnauthorized)

	// one original attempt, one refresh, no second retry loop
	assert.Equal(t, 1, userCalls)
	assert.Equal(t, 1, refreshCalls)
}

func TestRESTClient_StatusErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"The email has already been taken."}`, "The email has already been taken."},
		{"error field", `{"error":"forbidden"}`, "forbidden"},
		{"plain text", "boom", "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte(tt.body))
			}))
			c.SetAuth("tok", "", "")

			_, err := c.CreateUser(context.Background(), models.UserPayload{})
			require.Error(t, err)

			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, http.StatusUnprocessableEntity, se.Status)
			assert.Equal(t, tt.want, se.Message)
			assert.Equal(t, tt.want, Message(err))
		})
	}
}

func TestRESTClient_TransportErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewRESTClient(url, testLogger())
	c.SetAuth("tok", "", "")

	_, err := c.ListTodos(context.Background(), 100)
	require.ErrorIs(t, err, common.ErrUnavailable)
	assert.Equal(t, "Network error, please try again", Message(err))
}

func TestRESTClient_ListUsersQueryParams(t *testing.T) {
	var rawQuery map[string][]string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.Query()
		w.Write([]byte(`{"data":[],"meta":{"last_page":3,"total":25}}`))
	}))
	c.SetAuth("tok", "", "")

	q := models.ListQuery{
		Search:    "jane",
		SortBy:    "email",
		SortDir:   "desc",
		Filters:   map[string]string{"active": "1"},
		PageIndex: 2,
		PerPage:   10,
	}
	list, err := c.ListUsers(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, []string{"jane"}, rawQuery["search"])
	assert.Equal(t, []string{"email"}, rawQuery["sort_by"])
	assert.Equal(t, []string{"desc"}, rawQuery["sort_dir"])
	assert.Equal(t, []string{"1"}, rawQuery["filter[active]"])
	assert.Equal(t, []string{"3"}, rawQuery["page"]) // zero-based index 2 -> page 3
	assert.Equal(t, []string{"10"}, rawQuery["per_page"])
	assert.Equal(t, 3, list.Meta.LastPage)
}

func TestRESTClient_ReorderTodos(t *testing.T) {
	tests := []struct {
		name     string
		legacy   bool
		wantPath string
		wantKey  string
	}{
		{"current protocol", false, "/todos/reorder", "ordered_ids"},
		{"legacy protocol", true, "/todos/order", "orderedIds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			var body map[string][]int64
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				w.Write([]byte(`{}`))
			}))
			c.SetAuth("tok", "", "")
			c.UseLegacyOrder(tt.legacy)

			err := c.ReorderTodos(context.Background(), []int64{3, 1, 2})
			require.NoError(t, err)

			assert.Equal(t, tt.wantPath, gotPath)
			assert.Equal(t, []int64{3, 1, 2}, body[tt.wantKey])
		})
	}
}

func TestRESTClient_UserResponseShapes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user":{"id":42,"name":"Jane Doe","email":"jane@x.y","active":true}}`))
	})
	mux.HandleFunc("PUT /users/42", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":42,"name":"Jane D.","email":"jane@x.y","active":false}`))
	})

	c := newTestClient(t, mux)
	c.SetAuth("tok", "", "")

	created, err := c.CreateUser(context.Background(), models.UserPayload{Name: "Jane Doe"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, "Jane Doe", created.Name)

	updated, err := c.UpdateUser(context.Background(), 42, models.UserPayload{Name: "Jane D."})
	require.NoError(t, err)
	assert.Equal(t, int64(42), updated.ID)
	assert.Equal(t, "Jane D.", updated.Name)
	assert.False(t, updated.Active)
}

func TestRESTClient_LookupContact(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "+12345678901", r.URL.Query().Get("phone"))
		w.Write([]byte(`{"contact":{"name":"Acme Ltd","contact_type":"supplier","contact_code":"SUP-7"}}`))
	}))
	c.SetAuth("tok", "", "")

	contact, err := c.LookupContact(context.Background(), "+12345678901")
	require.NoError(t, err)
	require.NotNil(t, contact)
	assert.Equal(t, "Acme Ltd", contact.Name)
	assert.Equal(t, "supplier", contact.ContactType)
}
