package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviebrowser/internal/domain"
	"moviebrowser/internal/service"
)

func TestSessionStore(t *testing.T) {
	store := NewSessionStore()
	account := &service.Account{}

	token, err := store.Create(account)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	other, err := store.Create(&service.Account{})
	require.NoError(t, err)
	assert.NotEqual(t, token, other, "tokens are unique per session")

	got, ok := store.Get(token)
	require.True(t, ok)
	assert.Same(t, account, got)

	store.Delete(token)
	_, ok = store.Get(token)
	assert.False(t, ok)
}

func TestFromRequest(t *testing.T) {
	store := NewSessionStore()
	account := &service.Account{}
	token, err := store.Create(account)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/account", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	got, err := store.FromRequest(req)
	require.NoError(t, err)
	assert.Same(t, account, got)

	missing := httptest.NewRequest(http.MethodGet, "/api/account", nil)
	_, err = store.FromRequest(missing)
	require.Error(t, err)
	assert.True(t, domain.IsCategory(err, domain.CategoryAuthorization))

	stale := httptest.NewRequest(http.MethodGet, "/api/account", nil)
	stale.Header.Set("Authorization", "Bearer bogus")
	_, err = store.FromRequest(stale)
	require.Error(t, err)
	assert.True(t, domain.IsCategory(err, domain.CategoryAuthorization))
}

func TestWriteModelError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", domain.ValidationError("bad input"), http.StatusBadRequest},
		{"authorization", domain.AuthorizationError("not allowed"), http.StatusForbidden},
		{"state", domain.StateError("already rented"), http.StatusConflict},
		{"storage", domain.StorageError(errors.New("io"), "write failed"), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeModelError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}
