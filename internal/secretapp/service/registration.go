package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/gerneth/secretapp/internal/secretapp/domain"
	"github.com/gerneth/secretapp/internal/secretapp/notify"
	"github.com/gerneth/secretapp/internal/secretapp/store"
	"github.com/gerneth/secretapp/pkg/cryptox"
	"github.com/gerneth/secretapp/pkg/slogx"
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrUserNotFound     = errors.New("user not found")
	ErrTokenMismatch    = errors.New("validation token does not match")
	ErrNotifyFailed     = errors.New("activation notification dispatch failed")
)

// usernames must look like an email address (local@domain.tld)
var emailShape = regexp.MustCompile(`^[\w.]+@[\w.]+\.\w+$`)

// RegistrationService owns the account lifecycle up to validation: it creates
// unvalidated users, dispatches the activation notification and consumes
// validation tokens. A user only ever moves unvalidated -> validated, and a
// user whose activation notification could not be sent is removed again.
type RegistrationService struct {
	Store    store.Store
	Notifier notify.Notifier

	// BaseURL is the externally reachable prefix used to build activation
	// links, e.g. "https://secrets.example.com".
	BaseURL string
}

// Register creates a new unvalidated user and dispatches the activation
// notification to the username address. Registration is all-or-nothing: if
// the notification cannot be delivered, the just-created user is deleted and
// the dispatch failure is returned (wrapped in ErrNotifyFailed).
func (s *RegistrationService) Register(ctx context.Context, username, password string) (int64, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	if username == "" || password == "" {
		return 0, ErrInvalidParameter
	}
	if !emailShape.MatchString(username) {
		log.Warn("registration with non-email username rejected")
		return 0, ErrInvalidParameter
	}

	// 2. Hash the password and generate a fresh validation token. The token
	// is per-user and per-registration, never shared.
	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return 0, err
	}
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate validation token", slog.Any("error", err))
		return 0, err
	}

	// 3. Create the user. The duplicate check and the insert run in one
	// transaction; the unique index on username backstops the race.
	var id int64
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().GetUserByUsername(ctx, username)
		if err == nil {
			return ErrUsernameTaken
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		id, err = tx.Users().CreateUser(ctx, domain.User{
			Username:        username,
			PasswordHash:    passwordHash,
			Validated:       false,
			ValidationToken: token,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return 0, ErrUsernameTaken
		}
		return 0, err
	}

	// 4. Dispatch the activation notification. On failure the registration
	// is rolled back with a compensating delete and the original error is
	// surfaced; there is no automatic retry.
	activationURL := s.activationURL(id, token)
	body := fmt.Sprintf("please validate your account by opening this url: %s", activationURL)
	if err := s.Notifier.Send(ctx, username, "please validate your account", body); err != nil {
		log.Warn("activation notification failed, rolling back registration",
			slog.Int64("user_id", id),
			slog.Any("error", err),
		)
		if delErr := s.Store.Users().DeleteUser(ctx, id); delErr != nil {
			log.Error("failed to roll back user after notification failure",
				slog.Int64("user_id", id),
				slog.Any("error", delErr),
			)
		}
		return 0, errors.Join(ErrNotifyFailed, err)
	}

	log.Info("user registered",
		slog.Int64("user_id", id),
		slog.String("username", username),
	)

	return id, nil
}

// Activate consumes a validation token and transitions the user to validated.
// Activation is idempotent: re-presenting the correct token after a
// successful activation is a no-op success, so a double-delivered activation
// link still works. A wrong token fails with ErrTokenMismatch and leaves the
// user untouched.
func (s *RegistrationService) Activate(ctx context.Context, userID int64, token string) error {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if subtle.ConstantTimeCompare([]byte(user.ValidationToken), []byte(token)) != 1 {
		log.Warn("validation token mismatch", slog.Int64("user_id", userID))
		return ErrTokenMismatch
	}

	if err := s.Store.Users().MarkUserValidated(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !user.Validated {
		log.Info("user validated", slog.Int64("user_id", userID))
	}

	return nil
}

func (s *RegistrationService) activationURL(userID int64, token string) string {
	return fmt.Sprintf("%s/users/%d/validation/%s",
		strings.TrimRight(s.BaseURL, "/"), userID, token)
}
