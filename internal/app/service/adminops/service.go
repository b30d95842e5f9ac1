// Package adminops is the thin privileged orchestration over the lifecycle
// service: it validates administrator input, delegates the transition, and
// appends the append-only AdminAction audit row. It performs no entitlement
// checks; admin-ness is enforced at the HTTP layer.
package adminops

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/leilauto/gatekeeper/internal/app/service/lifecycle"
	"github.com/leilauto/gatekeeper/internal/models"
	"github.com/leilauto/gatekeeper/pkg/config"
	"github.com/leilauto/gatekeeper/pkg/logctx"
	"github.com/leilauto/gatekeeper/pkg/tool"
	"github.com/leilauto/gatekeeper/pkg/types"
)

// Bounds for time-boxed overrides.
const (
	MinTrialExtensionDays   = 1
	MaxTrialExtensionDays   = 30
	MinTemporaryAccessHours = 1
	MaxTemporaryAccessHours = 168
)

// Default reasons for non-destructive actions; suspend and delete always
// require an explicit one.
const (
	defaultExtendReason   = "Extensão administrativa"
	defaultGrantReason    = "Acesso administrativo"
	defaultActivateReason = "Ativação administrativa"
)

type Service struct {
	cfg *config.Config
	db  *gorm.DB
	log *zap.SugaredLogger
	lc  *lifecycle.Service
}

func NewService(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger, lc *lifecycle.Service) *Service {
	return &Service{cfg: cfg, db: db, log: log, lc: lc}
}

// ExtendTrial pushes a user's trial out by days (1-30) and records the action.
func (s *Service) ExtendTrial(ctx context.Context, userID string, days int, reason, adminID string) (*models.AdminAction, error) {
	if days < MinTrialExtensionDays || days > MaxTrialExtensionDays {
		return nil, fmt.Errorf("%w: trial extension must be between %d and %d days", lifecycle.ErrValidation, MinTrialExtensionDays, MaxTrialExtensionDays)
	}
	if adminID == "" {
		return nil, fmt.Errorf("%w: missing admin id", lifecycle.ErrValidation)
	}
	if reason == "" {
		reason = defaultExtendReason
	}

	st, err := s.lc.ExtendTrial(ctx, userID, days)
	if err != nil {
		return nil, err
	}

	durationHours := days * 24
	return s.appendAction(ctx, &models.AdminAction{
		UserID:      userID,
		Type:        types.AdminActionExtendTrial,
		Description: fmt.Sprintf("Trial estendido por %d dias", days),
		Duration:    &durationHours,
		Reason:      reason,
		PerformedBy: adminID,
		ExpiresAt:   st.Account.TrialEndDate,
	})
}

// GrantTemporaryAccess activates a user for hours (1-168) and records the
// action. Reversion is handled lazily by the lifecycle service.
func (s *Service) GrantTemporaryAccess(ctx context.Context, userID string, hours int, reason, adminID string) (*models.AdminAction, error) {
	if hours < MinTemporaryAccessHours || hours > MaxTemporaryAccessHours {
		return nil, fmt.Errorf("%w: temporary access must be between %d and %d hours", lifecycle.ErrValidation, MinTemporaryAccessHours, MaxTemporaryAccessHours)
	}
	if adminID == "" {
		return nil, fmt.Errorf("%w: missing admin id", lifecycle.ErrValidation)
	}
	if reason == "" {
		reason = defaultGrantReason
	}

	_, expires, err := s.lc.GrantTemporaryAccess(ctx, userID, hours)
	if err != nil {
		return nil, err
	}

	return s.appendAction(ctx, &models.AdminAction{
		UserID:      userID,
		Type:        types.AdminActionGrantAccess,
		Description: fmt.Sprintf("Acesso temporário concedido por %d horas", hours),
		Duration:    &hours,
		Reason:      reason,
		PerformedBy: adminID,
		ExpiresAt:   &expires,
	})
}

// Suspend blocks a user. Reason is mandatory.
func (s *Service) Suspend(ctx context.Context, userID, reason, adminID string) (*models.AdminAction, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: suspension requires a reason", lifecycle.ErrValidation)
	}
	if adminID == "" {
		return nil, fmt.Errorf("%w: missing admin id", lifecycle.ErrValidation)
	}

	if _, err := s.lc.Suspend(ctx, userID); err != nil {
		return nil, err
	}

	return s.appendAction(ctx, &models.AdminAction{
		UserID:      userID,
		Type:        types.AdminActionSuspendUser,
		Description: "Usuário suspenso",
		Reason:      reason,
		PerformedBy: adminID,
	})
}

// Activate reverses a suspension or expiry.
func (s *Service) Activate(ctx context.Context, userID, reason, adminID string) (*models.AdminAction, error) {
	if adminID == "" {
		return nil, fmt.Errorf("%w: missing admin id", lifecycle.ErrValidation)
	}
	if reason == "" {
		reason = defaultActivateReason
	}

	if _, err := s.lc.ActivateAdmin(ctx, userID); err != nil {
		return nil, err
	}

	return s.appendAction(ctx, &models.AdminAction{
		UserID:      userID,
		Type:        types.AdminActionActivateUser,
		Description: "Usuário ativado",
		Reason:      reason,
		PerformedBy: adminID,
	})
}

// appendAction writes the audit row. Rows are created exactly once and never
// mutated afterwards.
func (s *Service) appendAction(ctx context.Context, action *models.AdminAction) (*models.AdminAction, error) {
	action.ID = tool.GenerateUUIDV7()
	action.PerformedAt = time.Now()
	if err := s.db.WithContext(ctx).Create(action).Error; err != nil {
		return nil, fmt.Errorf("failed to append admin action: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("admin action recorded",
		"action_id", action.ID, "user_id", action.UserID, "type", action.Type, "performed_by", action.PerformedBy)
	return action, nil
}
