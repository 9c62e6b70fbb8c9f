package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"cargoflow/internal/domain"
	"cargoflow/internal/port"
)

type alertRepo struct {
	db *sqlx.DB
}

// NewAlertRepo creates a new PostgreSQL-backed AlertRepository.
func NewAlertRepo(db *sqlx.DB) port.AlertRepository {
	return &alertRepo{db: db}
}

func (r *alertRepo) Create(ctx context.Context, alert *domain.ProactiveAlert) error {
	alert.CreatedAt = time.Now().UTC()

	query := `INSERT INTO proactive_alerts (
		id, alert_type, severity, title, message,
		entity_type, entity_id, entity_reference,
		action_required, suggested_action, status,
		resolved_at, resolution_notes, created_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8,
		$9, $10, $11,
		$12, $13, $14
	)`

	_, err := r.db.ExecContext(ctx, query,
		alert.ID, alert.AlertType, alert.Severity, alert.Title, alert.Message,
		alert.EntityType, alert.EntityID, alert.EntityReference,
		alert.ActionRequired, alert.SuggestedAction, alert.Status,
		alert.ResolvedAt, alert.ResolutionNotes, alert.CreatedAt)
	if err != nil {
		return fmt.Errorf("alertRepo.Create: %w", err)
	}
	return nil
}

func (r *alertRepo) FindActive(ctx context.Context, alertType string, entityID uuid.UUID) (*domain.ProactiveAlert, error) {
	var alert domain.ProactiveAlert
	err := r.db.GetContext(ctx, &alert,
		`SELECT * FROM proactive_alerts
		 WHERE alert_type = $1 AND entity_id = $2 AND status = 'active'
		 LIMIT 1`,
		alertType, entityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("alertRepo.FindActive: %w", err)
	}
	return &alert, nil
}

func (r *alertRepo) ListActiveByType(ctx context.Context, alertType string) ([]domain.ProactiveAlert, error) {
	var alerts []domain.ProactiveAlert
	err := r.db.SelectContext(ctx, &alerts,
		`SELECT * FROM proactive_alerts
		 WHERE alert_type = $1 AND status = 'active'
		 ORDER BY created_at`,
		alertType)
	if err != nil {
		return nil, fmt.Errorf("alertRepo.ListActiveByType: %w", err)
	}
	return alerts, nil
}

func (r *alertRepo) ListActive(ctx context.Context, offset, limit int) ([]domain.ProactiveAlert, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM proactive_alerts WHERE status = 'active'")
	if err != nil {
		return nil, 0, fmt.Errorf("alertRepo.ListActive count: %w", err)
	}

	var alerts []domain.ProactiveAlert
	err = r.db.SelectContext(ctx, &alerts,
		`SELECT * FROM proactive_alerts WHERE status = 'active'
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("alertRepo.ListActive: %w", err)
	}
	return alerts, total, nil
}

func (r *alertRepo) Resolve(ctx context.Context, id uuid.UUID, notes string, resolvedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE proactive_alerts SET
			status = 'resolved', resolved_at = $1, resolution_notes = $2
		 WHERE id = $3 AND status = 'active'`,
		resolvedAt, notes, id)
	if err != nil {
		return fmt.Errorf("alertRepo.Resolve: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrAlertNotFound
	}
	return nil
}
