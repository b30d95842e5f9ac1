// Package lifecycle owns the canonical subscription/trial state for user
// accounts and every transition over it. Reads go through a reconciling load
// that lazily applies time-driven expiry; there is no background sweep.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/leilauto/gatekeeper/internal/models"
	"github.com/leilauto/gatekeeper/internal/platform/payment"
	"github.com/leilauto/gatekeeper/pkg/config"
	"github.com/leilauto/gatekeeper/pkg/logctx"
	"github.com/leilauto/gatekeeper/pkg/tool"
	"github.com/leilauto/gatekeeper/pkg/types"
)

type Service struct {
	cfg     *config.Config
	db      *gorm.DB
	log     *zap.SugaredLogger
	gateway payment.Gateway
}

func NewService(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger, gateway payment.Gateway) *Service {
	return &Service{cfg: cfg, db: db, log: log, gateway: gateway}
}

// GetAccount loads an account with its subscription row and reconciles
// time-driven expiry before returning. The demotion, when one happens, is
// persisted so the cached status converges.
func (s *Service) GetAccount(ctx context.Context, userID string) (*models.AccountState, error) {
	return s.mutate(ctx, userID, types.SubscriptionChangeReasonExpire, nil)
}

// StartTrial begins the once-per-account free trial. planID may be empty, in
// which case the default trial length from config applies.
func (s *Service) StartTrial(ctx context.Context, userID, planID string) (*models.Subscription, error) {
	var plan *types.SubscriptionPlan
	trialDays := s.cfg.DefaultTrialDays
	if planID != "" {
		plan = s.cfg.GetPlanByID(planID)
		if plan == nil {
			return nil, fmt.Errorf("%w: unknown plan %s", ErrValidation, planID)
		}
		trialDays = plan.TrialDays
	}

	st, err := s.mutate(ctx, userID, types.SubscriptionChangeReasonTrialStart, func(st *models.AccountState, now time.Time) error {
		return applyStartTrial(st, plan, trialDays, now)
	})
	if err != nil {
		return nil, err
	}
	return st.Subscription, nil
}

// Activate charges the payment collaborator and, only on confirmation,
// promotes the account. A declined charge leaves every field untouched.
func (s *Service) Activate(ctx context.Context, userID, planID string) (*models.Subscription, error) {
	plan := s.cfg.GetPlanByID(planID)
	if plan == nil {
		return nil, fmt.Errorf("%w: unknown plan %s", ErrValidation, planID)
	}
	if _, err := s.GetAccount(ctx, userID); err != nil {
		return nil, err
	}

	charge, err := s.gateway.ChargeSubscription(ctx, userID, plan)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamPayment, err)
	}
	if !charge.Confirmed {
		return nil, fmt.Errorf("%w: charge not confirmed", ErrUpstreamPayment)
	}

	st, err := s.mutate(ctx, userID, types.SubscriptionChangeReasonActivate, func(st *models.AccountState, now time.Time) error {
		return applyActivate(st, plan, charge.GatewaySubscriptionID, now)
	})
	if err != nil {
		return nil, err
	}
	return st.Subscription, nil
}

// CancelSubscription flags the active subscription to end at the period
// boundary. Access stays on through the paid period.
func (s *Service) CancelSubscription(ctx context.Context, userID string) (*models.Subscription, error) {
	st, err := s.mutate(ctx, userID, types.SubscriptionChangeReasonCancel, func(st *models.AccountState, now time.Time) error {
		return applyCancel(st, now)
	})
	if err != nil {
		return nil, err
	}

	if id := st.Subscription.GatewaySubscriptionID; id != "" {
		if err := s.gateway.CancelSubscription(ctx, id); err != nil {
			logctx.FromCtx(ctx, s.log).Errorw("gateway cancel failed", "user_id", userID, "err", err)
		}
	}
	return st.Subscription, nil
}

// ExpireTrial forces the lazy trial-expiry evaluation for one account. It is
// the system-driven demotion, not an admin action.
func (s *Service) ExpireTrial(ctx context.Context, userID string) (*models.AccountState, error) {
	st, err := s.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if st.Account.SubscriptionStatus == types.AccountStatusTrial {
		return nil, fmt.Errorf("%w: trial has not ended", ErrPrecondition)
	}
	return st, nil
}

// ExtendTrial pushes the trial end date out by days, counted from now when
// the previous end date is already behind. Admin-only; the caller records
// the audit row.
func (s *Service) ExtendTrial(ctx context.Context, userID string, days int) (*models.AccountState, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive", ErrValidation)
	}
	return s.mutate(ctx, userID, types.SubscriptionChangeReasonExtendTrial, func(st *models.AccountState, now time.Time) error {
		return applyExtendTrial(st, days, now)
	})
}

// GrantTemporaryAccess promotes the account to active until now+hours.
// Reversion is lazy: the next reconciling load demotes it once the stamp has
// passed.
func (s *Service) GrantTemporaryAccess(ctx context.Context, userID string, hours int) (*models.AccountState, time.Time, error) {
	if hours <= 0 {
		return nil, time.Time{}, fmt.Errorf("%w: hours must be positive", ErrValidation)
	}
	var expires time.Time
	st, err := s.mutate(ctx, userID, types.SubscriptionChangeReasonGrantAccess, func(st *models.AccountState, now time.Time) error {
		expires = applyGrantAccess(st, hours, now)
		return nil
	})
	if err != nil {
		return nil, time.Time{}, err
	}
	return st, expires, nil
}

// Suspend blocks the account regardless of its current state.
func (s *Service) Suspend(ctx context.Context, userID string) (*models.AccountState, error) {
	return s.mutate(ctx, userID, types.SubscriptionChangeReasonSuspend, func(st *models.AccountState, now time.Time) error {
		applySuspend(st)
		return nil
	})
}

// ActivateAdmin reverses a suspension or expiry. The target state depends on
// whether a trial window is still running.
func (s *Service) ActivateAdmin(ctx context.Context, userID string) (*models.AccountState, error) {
	return s.mutate(ctx, userID, types.SubscriptionChangeReasonAdminActivate, func(st *models.AccountState, now time.Time) error {
		return applyAdminActivate(st, now)
	})
}

// mutate runs load -> reconcile -> fn -> save atomically and writes the
// before/after change log off the request path. fn may be nil for a
// reconcile-only read.
func (s *Service) mutate(ctx context.Context, userID string, reason types.SubscriptionChangeReason, fn func(st *models.AccountState, now time.Time) error) (*models.AccountState, error) {
	var st *models.AccountState
	var before *models.AccountState
	var changed bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		st, err = s.loadState(ctx, tx, userID)
		if err != nil {
			return err
		}
		before = st.Clone()

		now := time.Now()
		changed = reconcile(st, now)
		if fn != nil {
			if err := fn(st, now); err != nil {
				return err
			}
			changed = true
		}
		if !changed {
			return nil
		}
		return s.saveState(ctx, tx, st)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.writeLog(ctx, userID, reason, before, st)
	}
	return st, nil
}

func (s *Service) loadState(ctx context.Context, tx *gorm.DB, userID string) (*models.AccountState, error) {
	var account models.UserAccount
	if err := tx.WithContext(ctx).Where("id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	st := &models.AccountState{Account: &account}

	var sub models.Subscription
	err := tx.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error
	switch {
	case err == nil:
		st.Subscription = &sub
	case errors.Is(err, gorm.ErrRecordNotFound):
		// free account, no subscription row
	default:
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	return st, nil
}

func (s *Service) saveState(ctx context.Context, tx *gorm.DB, st *models.AccountState) error {
	if err := tx.WithContext(ctx).Save(st.Account).Error; err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	if st.Subscription != nil {
		if err := tx.WithContext(ctx).Save(st.Subscription).Error; err != nil {
			return fmt.Errorf("failed to save subscription: %w", err)
		}
	}
	return nil
}

// writeLog records the change asynchronously; errors are logged, not returned.
func (s *Service) writeLog(ctx context.Context, userID string, reason types.SubscriptionChangeReason, before, after *models.AccountState) {
	go func() {
		row := &models.SubscriptionLog{
			ID:     tool.GenerateUUIDV7(),
			UserID: userID,
			Reason: reason,
			Before: datatypes.NewJSONType(before),
			After:  datatypes.NewJSONType(after.Clone()),
			Extra:  datatypes.JSONMap{},
		}
		if err := s.db.Save(row).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save subscription log: %v", err)
		}
	}()
}
