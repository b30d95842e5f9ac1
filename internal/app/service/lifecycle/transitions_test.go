package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leilauto/gatekeeper/internal/models"
	"github.com/leilauto/gatekeeper/pkg/types"
)

func tp(t time.Time) *time.Time { return &t }

func freeState(id string) *models.AccountState {
	return &models.AccountState{Account: &models.UserAccount{
		ID:                 id,
		SubscriptionStatus: types.AccountStatusFree,
		IsActive:           true,
	}}
}

func basicPlan() *types.SubscriptionPlan {
	return &types.SubscriptionPlan{
		ID:        "basic",
		Name:      "Básico",
		Price:     4990,
		Currency:  "BRL",
		Interval:  types.PlanIntervalMonth,
		TrialDays: 7,
		IsActive:  true,
	}
}

func TestApplyStartTrial(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("free account starts a trial", func(t *testing.T) {
		st := freeState("u1")
		require.NoError(t, applyStartTrial(st, basicPlan(), 7, now))

		assert.Equal(t, types.AccountStatusTrial, st.Account.SubscriptionStatus)
		require.NotNil(t, st.Account.TrialEndDate)
		assert.Equal(t, now.Add(7*24*time.Hour), *st.Account.TrialEndDate)

		require.NotNil(t, st.Subscription)
		assert.Equal(t, "basic", st.Subscription.PlanID)
		assert.Equal(t, types.SubscriptionStatusTrialing, st.Subscription.Status)
		assert.Equal(t, st.Subscription.CurrentPeriodEnd, *st.Subscription.TrialEnd)
	})

	t.Run("nil plan falls back to the trial placeholder", func(t *testing.T) {
		st := freeState("u1")
		require.NoError(t, applyStartTrial(st, nil, 7, now))
		assert.Equal(t, "trial", st.Subscription.PlanID)
	})

	t.Run("trial is once per account", func(t *testing.T) {
		st := freeState("u1")
		st.Account.TrialEndDate = tp(now.Add(-60 * 24 * time.Hour))

		err := applyStartTrial(st, basicPlan(), 7, now)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrPrecondition))
	})

	t.Run("non-free status rejects", func(t *testing.T) {
		for _, status := range []types.AccountStatus{
			types.AccountStatusTrial,
			types.AccountStatusActive,
			types.AccountStatusExpired,
			types.AccountStatusSuspended,
		} {
			st := freeState("u1")
			st.Account.SubscriptionStatus = status
			err := applyStartTrial(st, basicPlan(), 7, now)
			assert.True(t, errors.Is(err, ErrPrecondition), "status %s", status)
		}
	})

	t.Run("non-positive trial days reject", func(t *testing.T) {
		st := freeState("u1")
		err := applyStartTrial(st, basicPlan(), 0, now)
		assert.True(t, errors.Is(err, ErrValidation))
	})
}

func TestApplyActivate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("monthly plan sets a one month period", func(t *testing.T) {
		st := freeState("u1")
		require.NoError(t, applyActivate(st, basicPlan(), "sim_1", now))

		assert.Equal(t, types.AccountStatusActive, st.Account.SubscriptionStatus)
		assert.Nil(t, st.Account.AccessExpiresAt)
		require.NotNil(t, st.Subscription)
		assert.Equal(t, types.SubscriptionStatusActive, st.Subscription.Status)
		assert.Equal(t, now.AddDate(0, 1, 0), st.Subscription.CurrentPeriodEnd)
		assert.Equal(t, "sim_1", st.Subscription.GatewaySubscriptionID)
	})

	t.Run("yearly plan sets a one year period", func(t *testing.T) {
		plan := basicPlan()
		plan.Interval = types.PlanIntervalYear
		st := freeState("u1")
		require.NoError(t, applyActivate(st, plan, "sim_1", now))
		assert.Equal(t, now.AddDate(1, 0, 0), st.Subscription.CurrentPeriodEnd)
	})

	t.Run("activation from trial reuses the row and clears cancel state", func(t *testing.T) {
		st := freeState("u1")
		require.NoError(t, applyStartTrial(st, basicPlan(), 7, now))
		subID := st.Subscription.ID

		st.Subscription.CancelAtPeriodEnd = true
		st.Subscription.CanceledAt = tp(now)
		require.NoError(t, applyActivate(st, basicPlan(), "sim_2", now.Add(time.Hour)))

		assert.Equal(t, subID, st.Subscription.ID)
		assert.False(t, st.Subscription.CancelAtPeriodEnd)
		assert.Nil(t, st.Subscription.CanceledAt)
		assert.Equal(t, types.SubscriptionStatusActive, st.Subscription.Status)
	})

	t.Run("activation clears a temporary access stamp", func(t *testing.T) {
		st := freeState("u1")
		st.Account.AccessExpiresAt = tp(now.Add(2 * time.Hour))
		require.NoError(t, applyActivate(st, basicPlan(), "sim_3", now))
		assert.Nil(t, st.Account.AccessExpiresAt)
	})

	t.Run("nil plan rejects", func(t *testing.T) {
		err := applyActivate(freeState("u1"), nil, "", now)
		assert.True(t, errors.Is(err, ErrValidation))
	})
}

func TestApplyCancel(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("cancel keeps access through the paid period", func(t *testing.T) {
		st := freeState("u1")
		require.NoError(t, applyActivate(st, basicPlan(), "sim_1", now))
		end := st.Subscription.CurrentPeriodEnd

		require.NoError(t, applyCancel(st, now.Add(24*time.Hour)))

		// Only the cancel markers move; status and period stay.
		assert.Equal(t, types.AccountStatusActive, st.Account.SubscriptionStatus)
		assert.Equal(t, types.SubscriptionStatusActive, st.Subscription.Status)
		assert.True(t, st.Subscription.CancelAtPeriodEnd)
		require.NotNil(t, st.Subscription.CanceledAt)
		assert.Equal(t, end, st.Subscription.CurrentPeriodEnd)
	})

	t.Run("no subscription rejects", func(t *testing.T) {
		err := applyCancel(freeState("u1"), now)
		assert.True(t, errors.Is(err, ErrPrecondition))
	})

	t.Run("double cancel rejects", func(t *testing.T) {
		st := freeState("u1")
		require.NoError(t, applyActivate(st, basicPlan(), "sim_1", now))
		require.NoError(t, applyCancel(st, now))

		err := applyCancel(st, now.Add(time.Hour))
		assert.True(t, errors.Is(err, ErrPrecondition))
	})

	t.Run("trialing subscription rejects", func(t *testing.T) {
		st := freeState("u1")
		require.NoError(t, applyStartTrial(st, basicPlan(), 7, now))
		err := applyCancel(st, now)
		assert.True(t, errors.Is(err, ErrPrecondition))
	})
}

func TestApplyExtendTrial(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("running trial extends from its end date", func(t *testing.T) {
		st := freeState("u1")
		require.NoError(t, applyStartTrial(st, basicPlan(), 7, now))
		oldEnd := *st.Account.TrialEndDate

		require.NoError(t, applyExtendTrial(st, 5, now.Add(24*time.Hour)))

		require.NotNil(t, st.Account.TrialEndDate)
		assert.Equal(t, oldEnd.Add(5*24*time.Hour), *st.Account.TrialEndDate)
		assert.Equal(t, types.AccountStatusTrial, st.Account.SubscriptionStatus)
		assert.Equal(t, *st.Account.TrialEndDate, st.Subscription.CurrentPeriodEnd)
	})

	t.Run("expired trial extends from now", func(t *testing.T) {
		st := freeState("u1")
		st.Account.SubscriptionStatus = types.AccountStatusExpired
		st.Account.IsActive = false
		st.Account.TrialEndDate = tp(now.Add(-10 * 24 * time.Hour))

		require.NoError(t, applyExtendTrial(st, 7, now))

		assert.Equal(t, types.AccountStatusTrial, st.Account.SubscriptionStatus)
		assert.True(t, st.Account.IsActive)
		assert.Equal(t, now.Add(7*24*time.Hour), *st.Account.TrialEndDate)
	})

	t.Run("expired account without a subscription row gets one", func(t *testing.T) {
		st := freeState("u1")
		st.Account.SubscriptionStatus = types.AccountStatusExpired
		st.Account.TrialEndDate = tp(now.Add(-time.Hour))

		require.NoError(t, applyExtendTrial(st, 3, now))
		require.NotNil(t, st.Subscription)
		assert.Equal(t, types.SubscriptionStatusTrialing, st.Subscription.Status)
		assert.Equal(t, now.Add(3*24*time.Hour), st.Subscription.CurrentPeriodEnd)
	})

	t.Run("free or active status rejects", func(t *testing.T) {
		for _, status := range []types.AccountStatus{
			types.AccountStatusFree,
			types.AccountStatusActive,
			types.AccountStatusSuspended,
		} {
			st := freeState("u1")
			st.Account.SubscriptionStatus = status
			err := applyExtendTrial(st, 5, now)
			assert.True(t, errors.Is(err, ErrPrecondition), "status %s", status)
		}
	})
}

func TestApplyGrantAccess(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for _, status := range []types.AccountStatus{
		types.AccountStatusFree,
		types.AccountStatusTrial,
		types.AccountStatusExpired,
		types.AccountStatusSuspended,
	} {
		t.Run("grants from "+string(status), func(t *testing.T) {
			st := freeState("u1")
			st.Account.SubscriptionStatus = status

			expires := applyGrantAccess(st, 48, now)

			assert.Equal(t, now.Add(48*time.Hour), expires)
			assert.Equal(t, types.AccountStatusActive, st.Account.SubscriptionStatus)
			require.NotNil(t, st.Account.AccessExpiresAt)
			assert.Equal(t, expires, *st.Account.AccessExpiresAt)
			assert.True(t, st.Account.IsActive)
		})
	}
}

func TestApplySuspend(t *testing.T) {
	st := freeState("u1")
	st.Account.SubscriptionStatus = types.AccountStatusActive

	applySuspend(st)

	assert.Equal(t, types.AccountStatusSuspended, st.Account.SubscriptionStatus)
	assert.False(t, st.Account.IsActive)
}

func TestApplyAdminActivate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("suspended with running trial window returns to trial", func(t *testing.T) {
		st := freeState("u1")
		st.Account.SubscriptionStatus = types.AccountStatusSuspended
		st.Account.TrialEndDate = tp(now.Add(48 * time.Hour))

		require.NoError(t, applyAdminActivate(st, now))
		assert.Equal(t, types.AccountStatusTrial, st.Account.SubscriptionStatus)
	})

	t.Run("expired with elapsed trial becomes active", func(t *testing.T) {
		st := freeState("u1")
		st.Account.SubscriptionStatus = types.AccountStatusExpired
		st.Account.TrialEndDate = tp(now.Add(-time.Hour))

		require.NoError(t, applyAdminActivate(st, now))
		assert.Equal(t, types.AccountStatusActive, st.Account.SubscriptionStatus)
		assert.True(t, st.Account.IsActive)
	})

	t.Run("free or active rejects", func(t *testing.T) {
		for _, status := range []types.AccountStatus{
			types.AccountStatusFree,
			types.AccountStatusTrial,
			types.AccountStatusActive,
		} {
			st := freeState("u1")
			st.Account.SubscriptionStatus = status
			err := applyAdminActivate(st, now)
			assert.True(t, errors.Is(err, ErrPrecondition), "status %s", status)
		}
	})
}

func TestReconcile(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("nil account is a no-op", func(t *testing.T) {
		assert.False(t, reconcile(&models.AccountState{}, now))
	})

	t.Run("untouched free account is a no-op", func(t *testing.T) {
		st := freeState("u1")
		assert.False(t, reconcile(st, now))
		assert.Equal(t, types.AccountStatusFree, st.Account.SubscriptionStatus)
	})

	t.Run("elapsed temporary grant demotes to expired", func(t *testing.T) {
		st := freeState("u1")
		applyGrantAccess(st, 2, now.Add(-3*time.Hour))

		assert.True(t, reconcile(st, now))
		assert.Nil(t, st.Account.AccessExpiresAt)
		assert.Equal(t, types.AccountStatusExpired, st.Account.SubscriptionStatus)
		assert.False(t, st.Account.IsActive)
	})

	t.Run("elapsed grant over a live paid subscription keeps active", func(t *testing.T) {
		st := freeState("u1")
		require.NoError(t, applyActivate(st, basicPlan(), "sim_1", now.Add(-time.Hour)))
		st.Account.AccessExpiresAt = tp(now.Add(-time.Minute))

		assert.True(t, reconcile(st, now))
		assert.Nil(t, st.Account.AccessExpiresAt)
		assert.Equal(t, types.AccountStatusActive, st.Account.SubscriptionStatus)
	})

	t.Run("running grant is untouched", func(t *testing.T) {
		st := freeState("u1")
		applyGrantAccess(st, 2, now)
		assert.False(t, reconcile(st, now.Add(time.Hour)))
		assert.Equal(t, types.AccountStatusActive, st.Account.SubscriptionStatus)
	})

	t.Run("elapsed trial demotes to expired", func(t *testing.T) {
		st := freeState("u1")
		require.NoError(t, applyStartTrial(st, basicPlan(), 7, now.Add(-8*24*time.Hour)))

		assert.True(t, reconcile(st, now))
		assert.Equal(t, types.AccountStatusExpired, st.Account.SubscriptionStatus)
		// The trial end date survives as the once-per-account marker.
		assert.NotNil(t, st.Account.TrialEndDate)
	})

	t.Run("elapsed trial with superseding activation goes active", func(t *testing.T) {
		st := freeState("u1")
		require.NoError(t, applyStartTrial(st, basicPlan(), 7, now.Add(-8*24*time.Hour)))
		st.Subscription.Status = types.SubscriptionStatusActive
		st.Subscription.CurrentPeriodEnd = now.AddDate(0, 1, 0)

		assert.True(t, reconcile(st, now))
		assert.Equal(t, types.AccountStatusActive, st.Account.SubscriptionStatus)
	})

	t.Run("active with lapsed period demotes and finalizes cancel", func(t *testing.T) {
		st := freeState("u1")
		require.NoError(t, applyActivate(st, basicPlan(), "sim_1", now.AddDate(0, -2, 0)))
		require.NoError(t, applyCancel(st, now.AddDate(0, -2, 15)))

		assert.True(t, reconcile(st, now))
		assert.Equal(t, types.AccountStatusExpired, st.Account.SubscriptionStatus)
		assert.Equal(t, types.SubscriptionStatusCanceled, st.Subscription.Status)
	})

	t.Run("active within period is untouched", func(t *testing.T) {
		st := freeState("u1")
		require.NoError(t, applyActivate(st, basicPlan(), "sim_1", now))
		assert.False(t, reconcile(st, now.Add(24*time.Hour)))
		assert.Equal(t, types.AccountStatusActive, st.Account.SubscriptionStatus)
	})
}
