package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
	apperrors "github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/errors"
)

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, email, name, role, password_hash, language, prakriti,
			   created_at, updated_at
		FROM users
		WHERE email = $1
	`
	var user model.User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("user", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
