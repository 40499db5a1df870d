package router_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andymarkow/gamevault/internal/auth"
	"github.com/andymarkow/gamevault/internal/backoffice"
	"github.com/andymarkow/gamevault/internal/domain/users"
	"github.com/andymarkow/gamevault/internal/portal"
	"github.com/andymarkow/gamevault/internal/server/router"
	"github.com/andymarkow/gamevault/internal/storage/inmemory"
	"github.com/andymarkow/gamevault/internal/wallet"
)

type testServer struct {
	*httptest.Server
	store *inmemory.Storage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := inmemory.NewStorage()
	mutator := wallet.NewMutator()

	r := router.NewRouter(store,
		portal.New(store, wallet.New(store, mutator)),
		backoffice.New(store, mutator),
		router.WithAuth(auth.NewJWTAuth([]byte("test-secret"))),
	)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (int, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, s.URL+path, reader)
	require.NoError(t, err)

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.Client().Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(data)
}

func token(t *testing.T, body string) string {
	t.Helper()

	var resp struct {
		Token string `json:"token"`
	}

	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.NotEmpty(t, resp.Token)

	return resp.Token
}

func TestRouter_Ping(t *testing.T) {
	srv := newTestServer(t)

	code, body := srv.do(t, http.MethodGet, "/ping", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"message":"ok"}`, body)
}

func TestRouter_UserAuth(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
	}{
		{
			name:     "register",
			path:     "/api/user/register",
			body:     `{"username":"alice","email":"alice@example.com","password":"secret"}`,
			wantCode: http.StatusCreated,
		},
		{
			name:     "register duplicate",
			path:     "/api/user/register",
			body:     `{"username":"alice","password":"secret"}`,
			wantCode: http.StatusConflict,
		},
		{
			name:     "register without username",
			path:     "/api/user/register",
			body:     `{"password":"secret"}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "register malformed",
			path:     "/api/user/register",
			body:     `{"username":`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "login",
			path:     "/api/user/login",
			body:     `{"username":"alice","password":"secret"}`,
			wantCode: http.StatusOK,
		},
		{
			name:     "login wrong password",
			path:     "/api/user/login",
			body:     `{"username":"alice","password":"nope"}`,
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := srv.do(t, http.MethodPost, tt.path, "", tt.body)
			assert.Equal(t, tt.wantCode, code)
		})
	}

	code, _ := srv.do(t, http.MethodGet, "/api/user/balance", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = srv.do(t, http.MethodGet, "/api/user/balance", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_AdminRequiresRole(t *testing.T) {
	srv := newTestServer(t)

	_, body := srv.do(t, http.MethodPost, "/api/user/register", "", `{"username":"alice","password":"secret"}`)
	userToken := token(t, body)

	code, body := srv.do(t, http.MethodGet, "/api/admin/dashboard", userToken, "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.JSONEq(t, `{"error":"administrator role required"}`, body)

	code, _ = srv.do(t, http.MethodPost, "/api/admin/users/bulk", userToken, `{"ids":[1],"action":"grant","amount":5}`)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestRouter_PaymentFlow(t *testing.T) {
	srv := newTestServer(t)

	admin, err := users.CreateUser("root", "", "rootpassword", users.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, srv.store.CreateUser(context.Background(), admin))

	_, body := srv.do(t, http.MethodPost, "/api/user/login", "", `{"username":"root","password":"rootpassword"}`)
	adminToken := token(t, body)

	_, body = srv.do(t, http.MethodPost, "/api/user/register", "", `{"username":"alice","password":"secret"}`)
	userToken := token(t, body)

	code, body := srv.do(t, http.MethodPost, "/api/user/payments", userToken,
		`{"coins_amount":100,"payment_amount":"9.99","payment_method":"card"}`)
	require.Equal(t, http.StatusCreated, code, body)

	var payment struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}

	require.NoError(t, json.Unmarshal([]byte(body), &payment))
	assert.Equal(t, "pending", payment.Status)

	approvePath := fmt.Sprintf("/api/admin/payments/%d/approve", payment.ID)

	code, body = srv.do(t, http.MethodPost, approvePath, adminToken, "")
	require.Equal(t, http.StatusOK, code, body)
	assert.Contains(t, body, `"status":"approved"`)

	code, _ = srv.do(t, http.MethodPost, approvePath, adminToken, `{"notes":"again"}`)
	assert.Equal(t, http.StatusConflict, code)

	code, body = srv.do(t, http.MethodGet, "/api/user/balance", userToken, "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"coins":100}`, body)

	code, _ = srv.do(t, http.MethodPost, "/api/user/withdrawals", userToken,
		`{"amount":500,"payment_method":"bank","account_details":"IBAN"}`)
	assert.Equal(t, http.StatusPaymentRequired, code)

	code, _ = srv.do(t, http.MethodPost, "/api/admin/payments/abc/approve", adminToken, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = srv.do(t, http.MethodPost, "/api/admin/payments/999/approve", adminToken, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRouter_CatalogAdmin(t *testing.T) {
	srv := newTestServer(t)

	admin, err := users.CreateUser("root", "", "rootpassword", users.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, srv.store.CreateUser(context.Background(), admin))

	_, body := srv.do(t, http.MethodPost, "/api/user/login", "", `{"username":"root","password":"rootpassword"}`)
	adminToken := token(t, body)

	code, body := srv.do(t, http.MethodPost, "/api/admin/games", adminToken, `{"name":"Free Fire"}`)
	require.Equal(t, http.StatusCreated, code, body)

	var game struct {
		ID int64 `json:"id"`
	}

	require.NoError(t, json.Unmarshal([]byte(body), &game))

	code, body = srv.do(t, http.MethodPut, fmt.Sprintf("/api/admin/games/%d", game.ID), adminToken,
		`{"name":"Free Fire MAX","display_order":2}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Contains(t, body, `"slug":"free-fire-max"`)

	code, _ = srv.do(t, http.MethodPut, "/api/admin/games/999", adminToken, `{"name":"Ghost"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = srv.do(t, http.MethodPost, "/api/admin/payment-methods", adminToken,
		`{"name":"eSewa","method_type":"wallet","account_number":"9800000000"}`)
	require.Equal(t, http.StatusCreated, code, body)

	code, _ = srv.do(t, http.MethodPost, "/api/admin/payment-methods", adminToken,
		`{"name":"Cash","method_type":"barter"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, body = srv.do(t, http.MethodGet, "/api/admin/payment-methods", adminToken, "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"active_count":1`)

	code, body = srv.do(t, http.MethodGet, "/api/payment-methods", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"name":"eSewa"`)

	code, _ = srv.do(t, http.MethodDelete, "/api/admin/payment-methods/999", adminToken, "")
	assert.Equal(t, http.StatusNotFound, code)
}
