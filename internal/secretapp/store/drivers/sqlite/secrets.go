package sqlite

import (
	"context"
	"time"

	"github.com/gerneth/secretapp/internal/secretapp/domain"
)

type secretsRepo struct {
	db dbtx
}

func (r *secretsRepo) CreateSecret(ctx context.Context, s domain.Secret) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO secrets (secret, created_by, created_at)
		VALUES (?, ?, ?)`,
		s.Body, s.CreatedBy, time.Now().UTC(),
	)
	if err != nil {
		return 0, mapConstraint(err)
	}
	return res.LastInsertId()
}

func (r *secretsRepo) ListSecrets(ctx context.Context) ([]domain.SecretView, error) {
	// Creator resolution happens here at read time; created_by is guaranteed
	// to reference an existing user by the FK, so an inner join is safe.
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.secret, u.username
		FROM secrets s
		JOIN users u ON u.id = s.created_by
		ORDER BY s.id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var secrets []domain.SecretView
	for rows.Next() {
		var sv domain.SecretView
		if err := rows.Scan(&sv.ID, &sv.Body, &sv.CreatedBy); err != nil {
			return nil, err
		}
		secrets = append(secrets, sv)
	}
	return secrets, rows.Err()
}
