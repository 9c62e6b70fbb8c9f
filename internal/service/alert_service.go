package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cargoflow/internal/config"
	"cargoflow/internal/domain"
	"cargoflow/internal/port"
)

// AlertService evaluates the proactive alert rules and manages the alert
// lifecycle.
type AlertService interface {
	// RunSweep evaluates every rule once: creates alerts for newly firing
	// conditions, auto-resolves alerts whose condition cleared, and forwards
	// freshly created warning-or-worse alerts to the notifier. Sweeps are
	// idempotent; running twice against unchanged data changes nothing.
	RunSweep(ctx context.Context) (*SweepResult, error)
	ListActive(ctx context.Context, offset, limit int) ([]domain.ProactiveAlert, int, error)
	Resolve(ctx context.Context, id uuid.UUID, notes string) error
}

// SweepResult summarises one rule sweep.
type SweepResult struct {
	AlertsCreated  int           `json:"alerts_created"`
	AlertsResolved int           `json:"alerts_resolved"`
	Details        []RuleOutcome `json:"details"`
}

// RuleOutcome is the per-rule slice of a sweep.
type RuleOutcome struct {
	RuleType string `json:"rule_type"`
	Created  int    `json:"created"`
	Resolved int    `json:"resolved"`
	Error    string `json:"error,omitempty"`
}

type alertService struct {
	alerts   port.AlertRepository
	rules    []alertRule
	notifier port.Notifier
	logger   zerolog.Logger
}

// NewAlertService assembles the rule table and returns the sweep service.
func NewAlertService(
	alerts port.AlertRepository,
	suppliers port.SupplierRepository,
	shipments port.ShipmentRepository,
	payments port.PaymentRepository,
	thresholds config.AlertThresholds,
	notifier port.Notifier,
	logger zerolog.Logger,
) AlertService {
	return &alertService{
		alerts:   alerts,
		rules:    buildRules(suppliers, shipments, payments, thresholds),
		notifier: notifier,
		logger:   logger.With().Str("component", "alert_service").Logger(),
	}
}

func (s *alertService) RunSweep(ctx context.Context) (*SweepResult, error) {
	result := &SweepResult{Details: make([]RuleOutcome, 0, len(s.rules))}
	for _, rule := range s.rules {
		outcome := s.sweepRule(ctx, rule)
		result.AlertsCreated += outcome.Created
		result.AlertsResolved += outcome.Resolved
		result.Details = append(result.Details, outcome)
	}
	s.logger.Info().
		Int("created", result.AlertsCreated).
		Int("resolved", result.AlertsResolved).
		Msg("alert sweep completed")
	return result, nil
}

// sweepRule runs one rule in isolation. Evaluation or persistence failures
// are recorded on the outcome and never abort the remaining rules.
func (s *alertService) sweepRule(ctx context.Context, rule alertRule) RuleOutcome {
	outcome := RuleOutcome{RuleType: rule.Type}

	candidates, err := rule.Evaluate(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("rule", rule.Type).Msg("rule evaluation failed")
		outcome.Error = err.Error()
		return outcome
	}

	firing := make(map[uuid.UUID]bool, len(candidates))
	for _, c := range candidates {
		firing[c.EntityID] = true
		created, err := s.createIfAbsent(ctx, rule.Type, c)
		if err != nil {
			s.logger.Error().Err(err).
				Str("rule", rule.Type).
				Str("entity_id", c.EntityID.String()).
				Msg("alert creation failed")
			outcome.Error = err.Error()
			continue
		}
		if created != nil {
			outcome.Created++
			s.forward(ctx, created)
		}
	}

	resolved, err := s.autoResolve(ctx, rule, firing)
	if err != nil {
		s.logger.Error().Err(err).Str("rule", rule.Type).Msg("auto-resolve failed")
		outcome.Error = err.Error()
	}
	outcome.Resolved = resolved
	return outcome
}

// createIfAbsent inserts a new active alert unless one already exists for
// (alertType, candidate entity). Returns the created alert, or nil when the
// condition was already alerted.
func (s *alertService) createIfAbsent(ctx context.Context, alertType string, c alertCandidate) (*domain.ProactiveAlert, error) {
	existing, err := s.alerts.FindActive(ctx, alertType, c.EntityID)
	if err != nil {
		return nil, fmt.Errorf("find active alert: %w", err)
	}
	if existing != nil {
		return nil, nil
	}

	alert := &domain.ProactiveAlert{
		ID:              uuid.New(),
		AlertType:       alertType,
		Severity:        c.Severity,
		Title:           c.Title,
		Message:         c.Message,
		EntityType:      c.EntityType,
		EntityID:        c.EntityID,
		EntityReference: c.EntityReference,
		ActionRequired:  c.ActionRequired,
		SuggestedAction: c.SuggestedAction,
		Status:          domain.AlertStatusActive,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.alerts.Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}
	return alert, nil
}

// autoResolve closes active alerts of this rule's type per its direction:
// resolveMissing closes alerts whose entity is absent from the firing set,
// resolveFixed closes alerts whose entity appears in the rule's fixed set.
func (s *alertService) autoResolve(ctx context.Context, rule alertRule, firing map[uuid.UUID]bool) (int, error) {
	active, err := s.alerts.ListActiveByType(ctx, rule.Type)
	if err != nil {
		return 0, fmt.Errorf("list active alerts: %w", err)
	}
	if len(active) == 0 {
		return 0, nil
	}

	var fixed map[uuid.UUID]bool
	if rule.Direction == resolveFixed {
		ids, err := rule.FixedSet(ctx)
		if err != nil {
			return 0, fmt.Errorf("load fixed set: %w", err)
		}
		fixed = make(map[uuid.UUID]bool, len(ids))
		for _, id := range ids {
			fixed[id] = true
		}
	}

	resolved := 0
	now := time.Now().UTC()
	for _, alert := range active {
		var shouldResolve bool
		switch rule.Direction {
		case resolveMissing:
			shouldResolve = !firing[alert.EntityID]
		case resolveFixed:
			shouldResolve = fixed[alert.EntityID]
		}
		if !shouldResolve {
			continue
		}
		if err := s.alerts.Resolve(ctx, alert.ID, rule.ResolutionNote, now); err != nil {
			s.logger.Error().Err(err).
				Str("rule", rule.Type).
				Str("alert_id", alert.ID.String()).
				Msg("alert resolve failed")
			continue
		}
		resolved++
	}
	return resolved, nil
}

// forward sends a freshly created alert to the notification channel. Info
// alerts stay in the database only; delivery failures are logged and never
// affect the sweep.
func (s *alertService) forward(ctx context.Context, alert *domain.ProactiveAlert) {
	if alert.Severity == domain.SeverityInfo {
		return
	}
	n := port.Notification{
		Type:     alert.AlertType,
		Title:    alert.Title,
		Message:  alert.Message,
		Priority: string(alert.Severity),
	}
	if err := s.notifier.Send(ctx, n); err != nil {
		s.logger.Warn().Err(err).
			Str("alert_type", alert.AlertType).
			Msg("alert notification failed")
	}
}

func (s *alertService) ListActive(ctx context.Context, offset, limit int) ([]domain.ProactiveAlert, int, error) {
	return s.alerts.ListActive(ctx, offset, limit)
}

func (s *alertService) Resolve(ctx context.Context, id uuid.UUID, notes string) error {
	return s.alerts.Resolve(ctx, id, notes, time.Now().UTC())
}
