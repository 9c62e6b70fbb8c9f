package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"cargoflow/internal/domain"
	"cargoflow/internal/port"
)

type clientRepo struct {
	db *sqlx.DB
}

// NewClientRepo creates a new PostgreSQL-backed ClientRepository.
func NewClientRepo(db *sqlx.DB) port.ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) FindFirstByNameContains(ctx context.Context, fragment string) (*domain.Client, error) {
	var c domain.Client
	err := r.db.GetContext(ctx, &c,
		"SELECT * FROM clients WHERE name ILIKE '%' || $1 || '%' ORDER BY name LIMIT 1",
		fragment)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("clientRepo.FindFirstByNameContains: %w", err)
	}
	return &c, nil
}
