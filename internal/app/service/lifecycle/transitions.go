package lifecycle

import (
	"fmt"
	"time"

	"github.com/leilauto/gatekeeper/internal/models"
	"github.com/leilauto/gatekeeper/pkg/tool"
	"github.com/leilauto/gatekeeper/pkg/types"
)

// Pure transition functions over an in-memory AccountState. The service layer
// owns loading, persisting, and logging; everything here is testable without
// a database.

// reconcile applies the lazy, time-driven demotions before any read:
//   - elapsed temporary access grants
//   - elapsed trials (unless a subscription activation superseded them)
//   - active accounts whose billing period lapsed without renewal
//
// Returns whether the state changed; reason is always "expire" when it did.
func reconcile(st *models.AccountState, now time.Time) bool {
	account := st.Account
	if account == nil {
		return false
	}
	changed := false

	if account.AccessExpiresAt != nil && !account.AccessExpiresAt.After(now) {
		account.AccessExpiresAt = nil
		if account.SubscriptionStatus == types.AccountStatusActive && !st.Subscription.Valid(now) {
			account.SubscriptionStatus = types.AccountStatusExpired
			account.IsActive = false
		}
		changed = true
	}

	if account.SubscriptionStatus == types.AccountStatusTrial && account.TrialElapsed(now) {
		if st.Subscription != nil && st.Subscription.Status == types.SubscriptionStatusActive && st.Subscription.Valid(now) {
			// An activation superseded the trial; the cached enum lagged.
			account.SubscriptionStatus = types.AccountStatusActive
		} else {
			account.SubscriptionStatus = types.AccountStatusExpired
			account.IsActive = false
		}
		changed = true
	}

	if account.SubscriptionStatus == types.AccountStatusActive &&
		account.AccessExpiresAt == nil &&
		st.Subscription != nil && !st.Subscription.Valid(now) {
		account.SubscriptionStatus = types.AccountStatusExpired
		account.IsActive = false
		if st.Subscription.CancelAtPeriodEnd && st.Subscription.Status == types.SubscriptionStatusActive {
			st.Subscription.Status = types.SubscriptionStatusCanceled
		}
		changed = true
	}

	return changed
}

func applyStartTrial(st *models.AccountState, plan *types.SubscriptionPlan, trialDays int, now time.Time) error {
	account := st.Account
	if account.SubscriptionStatus != types.AccountStatusFree || account.HadTrial() {
		return fmt.Errorf("%w: trial already used or status is %s", ErrPrecondition, account.SubscriptionStatus)
	}
	if trialDays <= 0 {
		return fmt.Errorf("%w: trial days must be positive", ErrValidation)
	}

	end := now.Add(time.Duration(trialDays) * 24 * time.Hour)
	account.SubscriptionStatus = types.AccountStatusTrial
	account.TrialEndDate = &end
	account.IsActive = true

	planID := "trial"
	if plan != nil {
		planID = plan.ID
	}
	st.Subscription = &models.Subscription{
		ID:                 tool.GenerateUUIDV7(),
		UserID:             account.ID,
		PlanID:             planID,
		Status:             types.SubscriptionStatusTrialing,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   end,
		TrialStart:         &now,
		TrialEnd:           &end,
	}
	return nil
}

func applyActivate(st *models.AccountState, plan *types.SubscriptionPlan, gatewaySubscriptionID string, now time.Time) error {
	if plan == nil {
		return fmt.Errorf("%w: plan is required", ErrValidation)
	}

	end := now.AddDate(0, 1, 0)
	if plan.Interval == types.PlanIntervalYear {
		end = now.AddDate(1, 0, 0)
	}

	account := st.Account
	account.SubscriptionStatus = types.AccountStatusActive
	account.AccessExpiresAt = nil
	account.IsActive = true

	if st.Subscription == nil {
		st.Subscription = &models.Subscription{
			ID:     tool.GenerateUUIDV7(),
			UserID: account.ID,
		}
	}
	sub := st.Subscription
	sub.PlanID = plan.ID
	sub.Status = types.SubscriptionStatusActive
	sub.CurrentPeriodStart = now
	sub.CurrentPeriodEnd = end
	sub.CancelAtPeriodEnd = false
	sub.CanceledAt = nil
	sub.GatewaySubscriptionID = gatewaySubscriptionID
	return nil
}

func applyCancel(st *models.AccountState, now time.Time) error {
	sub := st.Subscription
	if sub == nil || sub.Status != types.SubscriptionStatusActive {
		return fmt.Errorf("%w: no active subscription to cancel", ErrPrecondition)
	}
	if sub.CancelAtPeriodEnd {
		return fmt.Errorf("%w: subscription already canceled", ErrPrecondition)
	}
	// Access is not revoked here; the user keeps it through the paid period.
	sub.CancelAtPeriodEnd = true
	sub.CanceledAt = &now
	return nil
}

func applyExtendTrial(st *models.AccountState, days int, now time.Time) error {
	account := st.Account
	if account.SubscriptionStatus != types.AccountStatusTrial && account.SubscriptionStatus != types.AccountStatusExpired {
		return fmt.Errorf("%w: extend trial requires trial or expired status, got %s", ErrPrecondition, account.SubscriptionStatus)
	}

	// Extension counts from the later of now and the current end date, so an
	// expired-yesterday trial extended by 7 days runs 7 days from now.
	base := now
	if account.TrialEndDate != nil && account.TrialEndDate.After(now) {
		base = *account.TrialEndDate
	}
	end := base.Add(time.Duration(days) * 24 * time.Hour)

	account.SubscriptionStatus = types.AccountStatusTrial
	account.TrialEndDate = &end
	account.AccessExpiresAt = nil
	account.IsActive = true

	if st.Subscription == nil {
		st.Subscription = &models.Subscription{
			ID:                 tool.GenerateUUIDV7(),
			UserID:             account.ID,
			PlanID:             "trial",
			CurrentPeriodStart: now,
			TrialStart:         &now,
		}
	}
	sub := st.Subscription
	if sub.Status == types.SubscriptionStatusTrialing || sub.Status == "" || sub.Status == types.SubscriptionStatusUnpaid {
		sub.Status = types.SubscriptionStatusTrialing
		sub.CurrentPeriodEnd = end
		sub.TrialEnd = &end
	}
	return nil
}

func applyGrantAccess(st *models.AccountState, hours int, now time.Time) time.Time {
	expires := now.Add(time.Duration(hours) * time.Hour)
	account := st.Account
	account.SubscriptionStatus = types.AccountStatusActive
	account.AccessExpiresAt = &expires
	account.IsActive = true
	return expires
}

func applySuspend(st *models.AccountState) {
	st.Account.SubscriptionStatus = types.AccountStatusSuspended
	st.Account.IsActive = false
}

func applyAdminActivate(st *models.AccountState, now time.Time) error {
	account := st.Account
	if account.SubscriptionStatus != types.AccountStatusSuspended && account.SubscriptionStatus != types.AccountStatusExpired {
		return fmt.Errorf("%w: activate requires suspended or expired status, got %s", ErrPrecondition, account.SubscriptionStatus)
	}
	// A still-running trial window takes the account back to trial;
	// otherwise it becomes active.
	if account.TrialEndDate != nil && account.TrialEndDate.After(now) {
		account.SubscriptionStatus = types.AccountStatusTrial
	} else {
		account.SubscriptionStatus = types.AccountStatusActive
	}
	account.IsActive = true
	return nil
}
