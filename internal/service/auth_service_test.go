package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviebrowser/internal/domain"
)

func TestAuthenticate_SeededAdmin(t *testing.T) {
	store := newMemStore()
	store.seedAdmin()

	account, err := newTestAuth(store).Authenticate("admin", "Password")
	require.NoError(t, err)

	assert.Equal(t, "admin", account.Username())
	assert.Equal(t, domain.RankAdmin, account.Rank())
	assert.Equal(t, "administrator", account.RankName())
	assert.Zero(t, account.Balance())
	assert.Zero(t, account.RentedMoviesAmount())
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	store := newMemStore()
	store.seedAdmin()

	_, err := newTestAuth(store).Authenticate("admin", "password")
	require.Error(t, err)
	assert.True(t, domain.IsCategory(err, domain.CategoryAuthorization))
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	store := newMemStore()
	store.seedAdmin()

	_, err := newTestAuth(store).Authenticate("nobody", "Password")
	require.Error(t, err)
	assert.True(t, domain.IsCategory(err, domain.CategoryAuthorization))
}

func TestAuthenticate_HydratesRentedCount(t *testing.T) {
	store := newMemStore()
	store.seedAdmin()
	auth := newTestAuth(store)

	admin, err := auth.Authenticate("admin", "Password")
	require.NoError(t, err)

	require.NoError(t, admin.AddFunds(20))
	require.NoError(t, admin.InsertMovie(&domain.Movie{Author: "Lang", Title: "Metropolis", Genre: "scifi", Year: 1927}))

	movies, err := admin.Movies(nil)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	require.NoError(t, admin.RentMovie(movies[0]))

	again, err := auth.Authenticate("admin", "Password")
	require.NoError(t, err)
	assert.Equal(t, 1, again.RentedMoviesAmount())
}
