package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gerneth/secretapp/internal/secretapp/domain"
	"github.com/gerneth/secretapp/internal/secretapp/store"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestUsersRepo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	alice := domain.User{
		Username:        "alice@example.com",
		PasswordHash:    "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		ValidationToken: "token-alice",
	}

	t.Run("create assigns increasing ids", func(t *testing.T) {
		id, err := s.Users().CreateUser(ctx, alice)
		require.NoError(t, err)
		require.Equal(t, int64(1), id)

		bob := alice
		bob.Username = "bob@example.com"
		bobID, err := s.Users().CreateUser(ctx, bob)
		require.NoError(t, err)
		require.Greater(t, bobID, id)
	})

	t.Run("duplicate username maps to ErrAlreadyExists", func(t *testing.T) {
		_, err := s.Users().CreateUser(ctx, alice)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("username lookup is case-sensitive", func(t *testing.T) {
		_, err := s.Users().GetUserByUsername(ctx, "ALICE@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("lookups round-trip the record", func(t *testing.T) {
		byName, err := s.Users().GetUserByUsername(ctx, "alice@example.com")
		require.NoError(t, err)
		require.False(t, byName.Validated)
		require.Equal(t, "token-alice", byName.ValidationToken)

		byID, err := s.Users().GetUserByID(ctx, byName.ID)
		require.NoError(t, err)
		require.Equal(t, byName, byID)
	})

	t.Run("missing ids map to ErrNotFound", func(t *testing.T) {
		_, err := s.Users().GetUserByID(ctx, 9999)
		require.ErrorIs(t, err, store.ErrNotFound)
		require.ErrorIs(t, s.Users().MarkUserValidated(ctx, 9999), store.ErrNotFound)
	})

	t.Run("mark validated is idempotent", func(t *testing.T) {
		user, err := s.Users().GetUserByUsername(ctx, "alice@example.com")
		require.NoError(t, err)

		require.NoError(t, s.Users().MarkUserValidated(ctx, user.ID))
		require.NoError(t, s.Users().MarkUserValidated(ctx, user.ID))

		user, err = s.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.True(t, user.Validated)
	})

	t.Run("delete removes the record", func(t *testing.T) {
		carol := alice
		carol.Username = "carol@example.com"
		id, err := s.Users().CreateUser(ctx, carol)
		require.NoError(t, err)

		require.NoError(t, s.Users().DeleteUser(ctx, id))

		_, err = s.Users().GetUserByID(ctx, id)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestSecretsRepo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	userID, err := s.Users().CreateUser(ctx, domain.User{
		Username:        "a@b.com",
		PasswordHash:    "hash",
		ValidationToken: "tok",
	})
	require.NoError(t, err)

	t.Run("create and list resolve the creator username", func(t *testing.T) {
		first, err := s.Secrets().CreateSecret(ctx, domain.Secret{Body: "hello", CreatedBy: userID})
		require.NoError(t, err)
		second, err := s.Secrets().CreateSecret(ctx, domain.Secret{Body: "world", CreatedBy: userID})
		require.NoError(t, err)
		require.Greater(t, second, first)

		secrets, err := s.Secrets().ListSecrets(ctx)
		require.NoError(t, err)
		require.Equal(t, []domain.SecretView{
			{ID: first, Body: "hello", CreatedBy: "a@b.com"},
			{ID: second, Body: "world", CreatedBy: "a@b.com"},
		}, secrets)
	})

	t.Run("creator must exist", func(t *testing.T) {
		_, err := s.Secrets().CreateSecret(ctx, domain.Secret{Body: "orphan", CreatedBy: 424242})
		require.Error(t, err)
	})
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	t.Run("rollback on error leaves no rows", func(t *testing.T) {
		wantErr := store.ErrAlreadyExists // any sentinel will do
		err := s.WithTx(ctx, func(tx store.Tx) error {
			_, err := tx.Users().CreateUser(ctx, domain.User{
				Username:        "tx@example.com",
				PasswordHash:    "hash",
				ValidationToken: "tok",
			})
			require.NoError(t, err)
			return wantErr
		})
		require.ErrorIs(t, err, wantErr)

		_, err = s.Users().GetUserByUsername(ctx, "tx@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("commit persists", func(t *testing.T) {
		err := s.WithTx(ctx, func(tx store.Tx) error {
			_, err := tx.Users().CreateUser(ctx, domain.User{
				Username:        "tx2@example.com",
				PasswordHash:    "hash",
				ValidationToken: "tok",
			})
			return err
		})
		require.NoError(t, err)

		_, err = s.Users().GetUserByUsername(ctx, "tx2@example.com")
		require.NoError(t, err)
	})
}
