package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gerneth/secretapp/internal/secretapp/store"
	"github.com/gerneth/secretapp/internal/secretapp/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

// fakeNotifier records dispatched notifications and can be told to fail.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []fakeMessage
	fail error
}

type fakeMessage struct {
	to      string
	subject string
	body    string
}

func (f *fakeNotifier) Send(_ context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, fakeMessage{to: to, subject: subject, body: body})
	return nil
}

// lastToken pulls the validation token out of the activation URL in the most
// recently sent notification.
func (f *fakeNotifier) lastToken(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)

	body := f.sent[len(f.sent)-1].body
	idx := strings.LastIndex(body, "/")
	require.Greater(t, idx, 0, "notification body should contain an activation url")
	return body[idx+1:]
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newRegistrationService(t *testing.T) (*RegistrationService, *fakeNotifier) {
	t.Helper()
	notifier := &fakeNotifier{}
	return &RegistrationService{
		Store:    newTestStore(t),
		Notifier: notifier,
		BaseURL:  "http://localhost:8080",
	}, notifier
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an unvalidated user and notifies it", func(t *testing.T) {
		svc, notifier := newRegistrationService(t)

		id, err := svc.Register(ctx, "alice@example.com", "pw1")
		require.NoError(t, err)
		require.Positive(t, id)

		user, err := svc.Store.Users().GetUserByID(ctx, id)
		require.NoError(t, err)
		require.False(t, user.Validated)
		require.NotEmpty(t, user.ValidationToken)
		require.NotEqual(t, "pw1", user.PasswordHash, "password must not be stored in plaintext")

		require.Len(t, notifier.sent, 1)
		require.Equal(t, "alice@example.com", notifier.sent[0].to)
		require.Contains(t, notifier.sent[0].body,
			"http://localhost:8080/users/1/validation/"+user.ValidationToken)
	})

	t.Run("rejects empty username or password", func(t *testing.T) {
		svc, _ := newRegistrationService(t)

		_, err := svc.Register(ctx, "", "pw")
		require.ErrorIs(t, err, ErrInvalidParameter)
		_, err = svc.Register(ctx, "a@b.com", "")
		require.ErrorIs(t, err, ErrInvalidParameter)
	})

	t.Run("rejects non-email usernames and persists nothing", func(t *testing.T) {
		svc, notifier := newRegistrationService(t)

		for _, username := range []string{"alice", "alice@", "@example.com", "alice@example", "a b@c.de"} {
			_, err := svc.Register(ctx, username, "pw")
			require.ErrorIs(t, err, ErrInvalidParameter, "username %q", username)

			_, err = svc.Store.Users().GetUserByUsername(ctx, username)
			require.ErrorIs(t, err, store.ErrNotFound)
		}
		require.Empty(t, notifier.sent)
	})

	t.Run("duplicate username fails and leaves the first account alone", func(t *testing.T) {
		svc, notifier := newRegistrationService(t)

		id, err := svc.Register(ctx, "dup@example.com", "first")
		require.NoError(t, err)

		token := notifier.lastToken(t)
		require.NoError(t, svc.Activate(ctx, id, token))

		_, err = svc.Register(ctx, "dup@example.com", "second")
		require.ErrorIs(t, err, ErrUsernameTaken)

		user, err := svc.Store.Users().GetUserByID(ctx, id)
		require.NoError(t, err)
		require.True(t, user.Validated, "existing user must be untouched by the failed registration")
	})

	t.Run("notification failure rolls the registration back", func(t *testing.T) {
		svc, notifier := newRegistrationService(t)
		dispatchErr := errors.New("smtp: connection refused")
		notifier.fail = dispatchErr

		_, err := svc.Register(ctx, "ghost@example.com", "pw")
		require.ErrorIs(t, err, ErrNotifyFailed)
		require.ErrorIs(t, err, dispatchErr, "original dispatch failure must stay observable")

		_, err = svc.Store.Users().GetUserByUsername(ctx, "ghost@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)

		// The username is free again after the rollback.
		notifier.fail = nil
		_, err = svc.Register(ctx, "ghost@example.com", "pw")
		require.NoError(t, err)
	})

	t.Run("validation tokens differ between users", func(t *testing.T) {
		svc, _ := newRegistrationService(t)

		firstID, err := svc.Register(ctx, "one@example.com", "pw")
		require.NoError(t, err)
		secondID, err := svc.Register(ctx, "two@example.com", "pw")
		require.NoError(t, err)

		first, err := svc.Store.Users().GetUserByID(ctx, firstID)
		require.NoError(t, err)
		second, err := svc.Store.Users().GetUserByID(ctx, secondID)
		require.NoError(t, err)
		require.NotEqual(t, first.ValidationToken, second.ValidationToken)
	})
}

func TestActivate(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*RegistrationService, int64, string) {
		svc, notifier := newRegistrationService(t)
		id, err := svc.Register(ctx, "alice@example.com", "pw1")
		require.NoError(t, err)
		return svc, id, notifier.lastToken(t)
	}

	t.Run("correct token validates the user, repeat is a no-op success", func(t *testing.T) {
		svc, id, token := setup(t)

		require.NoError(t, svc.Activate(ctx, id, token))

		user, err := svc.Store.Users().GetUserByID(ctx, id)
		require.NoError(t, err)
		require.True(t, user.Validated)

		// Double-delivered activation link.
		require.NoError(t, svc.Activate(ctx, id, token))

		user, err = svc.Store.Users().GetUserByID(ctx, id)
		require.NoError(t, err)
		require.True(t, user.Validated)
	})

	t.Run("wrong token fails and leaves the user unvalidated", func(t *testing.T) {
		svc, id, _ := setup(t)

		require.ErrorIs(t, svc.Activate(ctx, id, "wrong-token"), ErrTokenMismatch)

		user, err := svc.Store.Users().GetUserByID(ctx, id)
		require.NoError(t, err)
		require.False(t, user.Validated)
	})

	t.Run("unknown user id fails with not found", func(t *testing.T) {
		svc, _, token := setup(t)

		require.ErrorIs(t, svc.Activate(ctx, 9999, token), ErrUserNotFound)
	})
}
