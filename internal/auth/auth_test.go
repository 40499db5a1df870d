package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andymarkow/gamevault/internal/domain/users"
)

// verify runs the token through the jwtauth verifier and returns the
// principal seen by a handler, or the response code when it was rejected.
func verify(t *testing.T, a *JWTAuth, token string) (users.Principal, int) {
	t.Helper()

	var got users.Principal

	tokenAuth := a.TokenAuth()
	h := jwtauth.Verifier(tokenAuth)(jwtauth.Authenticator(tokenAuth)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := PrincipalFromContext(r.Context())
			require.NoError(t, err)

			got = p

			w.WriteHeader(http.StatusNoContent)
		})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return got, rec.Code
}

func TestJWTAuth_RoundTrip(t *testing.T) {
	a := NewJWTAuth([]byte("secret"))

	token, err := a.CreateJWTString(users.Principal{ID: 42, Username: "root", Role: users.RoleAdmin})
	require.NoError(t, err)

	p, code := verify(t, a, token)
	require.Equal(t, http.StatusNoContent, code)
	assert.Equal(t, int64(42), p.ID)
	assert.True(t, p.IsAdmin())
}

func TestJWTAuth_Rejects(t *testing.T) {
	a := NewJWTAuth([]byte("secret"))

	t.Run("foreign secret", func(t *testing.T) {
		token, err := NewJWTAuth([]byte("other")).CreateJWTString(users.Principal{ID: 1, Role: users.RoleUser})
		require.NoError(t, err)

		_, code := verify(t, a, token)
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := NewJWTAuth([]byte("secret"), WithTokenTTL(-time.Minute)).
			CreateJWTString(users.Principal{ID: 1, Role: users.RoleUser})
		require.NoError(t, err)

		_, code := verify(t, a, token)
		assert.Equal(t, http.StatusUnauthorized, code)
	})
}
