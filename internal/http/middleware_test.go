package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OrderOfTheOverflow/globalsiteselector/internal/domain/federation"
)

func TestRequireSession_ValidCookie(t *testing.T) {
	sess := testSession("user1")
	resolver := &mockAutoLoginService{
		getSessionFunc: func(ctx context.Context, id string) (*federation.Session, error) {
			require.Equal(t, sess.ID, id)
			return &sess, nil
		},
	}

	var got *federation.Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetSessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/token", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.ID})
	w := httptest.NewRecorder()

	RequireSession(resolver)(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, "user1", got.UID)
}

func TestRequireSession_MissingCookie(t *testing.T) {
	resolver := &mockAutoLoginService{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/token", nil)
	w := httptest.NewRecorder()

	RequireSession(resolver)(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication_required")
}

func TestRequireSession_UnknownSession(t *testing.T) {
	resolver := &mockAutoLoginService{
		getSessionFunc: func(ctx context.Context, id string) (*federation.Session, error) {
			return nil, nil
		},
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/token", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "no-such-session"})
	w := httptest.NewRecorder()

	RequireSession(resolver)(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireSession_ResolverError(t *testing.T) {
	resolver := &mockAutoLoginService{
		getSessionFunc: func(ctx context.Context, id string) (*federation.Session, error) {
			return nil, errors.New("redis down")
		},
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/token", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "some-session"})
	w := httptest.NewRecorder()

	RequireSession(resolver)(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
