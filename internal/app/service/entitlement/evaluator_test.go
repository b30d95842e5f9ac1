package entitlement

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leilauto/gatekeeper/internal/models"
	"github.com/leilauto/gatekeeper/pkg/types"
)

func tp(t time.Time) *time.Time { return &t }

func TestHasAccessAt_AllCases(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		snap Snapshot
		want bool
	}{
		{name: "nil account", snap: Snapshot{}, want: false},
		{
			name: "free account",
			snap: Snapshot{Account: &models.UserAccount{SubscriptionStatus: types.AccountStatusFree}},
			want: false,
		},
		{
			name: "trial with future end date",
			snap: Snapshot{Account: &models.UserAccount{
				SubscriptionStatus: types.AccountStatusTrial,
				TrialEndDate:       tp(now.Add(48 * time.Hour)),
			}},
			want: true,
		},
		{
			name: "trial ending exactly now",
			snap: Snapshot{Account: &models.UserAccount{
				SubscriptionStatus: types.AccountStatusTrial,
				TrialEndDate:       tp(now),
			}},
			want: false,
		},
		{
			name: "stale trial with no subscription row",
			snap: Snapshot{Account: &models.UserAccount{
				SubscriptionStatus: types.AccountStatusTrial,
				TrialEndDate:       tp(now.Add(-time.Hour)),
			}},
			want: false,
		},
		{
			name: "stale trial cache masked by a live active subscription",
			snap: Snapshot{
				Account: &models.UserAccount{
					SubscriptionStatus: types.AccountStatusTrial,
					TrialEndDate:       tp(now.Add(-time.Hour)),
				},
				Subscription: &models.Subscription{
					Status:           types.SubscriptionStatusActive,
					CurrentPeriodEnd: now.AddDate(0, 1, 0),
				},
			},
			want: true,
		},
		{
			name: "stale trial with lapsed subscription",
			snap: Snapshot{
				Account: &models.UserAccount{
					SubscriptionStatus: types.AccountStatusTrial,
					TrialEndDate:       tp(now.Add(-time.Hour)),
				},
				Subscription: &models.Subscription{
					Status:           types.SubscriptionStatusActive,
					CurrentPeriodEnd: now.Add(-time.Minute),
				},
			},
			want: false,
		},
		{
			name: "trial with nil end date falls through to subscription",
			snap: Snapshot{
				Account: &models.UserAccount{SubscriptionStatus: types.AccountStatusTrial},
				Subscription: &models.Subscription{
					Status:   types.SubscriptionStatusTrialing,
					TrialEnd: tp(now.Add(time.Hour)),
				},
			},
			want: true,
		},
		{
			name: "active status grants regardless of subscription row",
			snap: Snapshot{Account: &models.UserAccount{SubscriptionStatus: types.AccountStatusActive}},
			want: true,
		},
		{
			name: "expired account",
			snap: Snapshot{Account: &models.UserAccount{
				SubscriptionStatus: types.AccountStatusExpired,
				TrialEndDate:       tp(now.Add(-time.Hour)),
			}},
			want: false,
		},
		{
			name: "suspended account with live subscription row",
			snap: Snapshot{
				Account: &models.UserAccount{SubscriptionStatus: types.AccountStatusSuspended},
				Subscription: &models.Subscription{
					Status:           types.SubscriptionStatusActive,
					CurrentPeriodEnd: now.AddDate(0, 1, 0),
				},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, f := range types.AllFeatures {
				assert.Equal(t, tt.want, HasAccessAt(tt.snap, f, now), "feature %s", f)
			}
			assert.Equal(t, tt.want, CanUsePremiumFeaturesAt(tt.snap, now))
		})
	}
}

func TestCanViewVehicles_AlwaysTrue(t *testing.T) {
	assert.True(t, CanViewVehicles())

	// The flag never depends on account state.
	info := Info(Snapshot{}, time.Now())
	assert.True(t, info.CanViewVehicles)
	assert.False(t, info.Premium)
}

func TestDaysUntilExpiryAt(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		snap Snapshot
		want int
	}{
		{name: "nil account", snap: Snapshot{}, want: 0},
		{
			name: "free account",
			snap: Snapshot{Account: &models.UserAccount{SubscriptionStatus: types.AccountStatusFree}},
			want: 0,
		},
		{
			name: "trial partial day rounds up",
			snap: Snapshot{Account: &models.UserAccount{
				SubscriptionStatus: types.AccountStatusTrial,
				TrialEndDate:       tp(now.Add(36 * time.Hour)),
			}},
			want: 2,
		},
		{
			name: "trial exact whole days",
			snap: Snapshot{Account: &models.UserAccount{
				SubscriptionStatus: types.AccountStatusTrial,
				TrialEndDate:       tp(now.Add(7 * 24 * time.Hour)),
			}},
			want: 7,
		},
		{
			name: "trial one minute left still counts a day",
			snap: Snapshot{Account: &models.UserAccount{
				SubscriptionStatus: types.AccountStatusTrial,
				TrialEndDate:       tp(now.Add(time.Minute)),
			}},
			want: 1,
		},
		{
			name: "elapsed trial floors at zero",
			snap: Snapshot{Account: &models.UserAccount{
				SubscriptionStatus: types.AccountStatusTrial,
				TrialEndDate:       tp(now.Add(-time.Hour)),
			}},
			want: 0,
		},
		{
			name: "active with billing period",
			snap: Snapshot{
				Account: &models.UserAccount{SubscriptionStatus: types.AccountStatusActive},
				Subscription: &models.Subscription{
					Status:           types.SubscriptionStatusActive,
					CurrentPeriodEnd: now.Add(30*24*time.Hour + time.Hour),
				},
			},
			want: 31,
		},
		{
			name: "active without subscription row",
			snap: Snapshot{Account: &models.UserAccount{SubscriptionStatus: types.AccountStatusActive}},
			want: 0,
		},
		{
			name: "active with lapsed period floors at zero",
			snap: Snapshot{
				Account: &models.UserAccount{SubscriptionStatus: types.AccountStatusActive},
				Subscription: &models.Subscription{
					Status:           types.SubscriptionStatusActive,
					CurrentPeriodEnd: now.Add(-time.Hour),
				},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntilExpiryAt(tt.snap, now))
		})
	}
}

func TestDaysUntilExpiry_AdvisoryOnly(t *testing.T) {
	// A positive countdown never implies access: an expired account keeps
	// zero days, and a suspended account with a live paid period reports its
	// countdown source gone because status gates first.
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Account: &models.UserAccount{
			SubscriptionStatus: types.AccountStatusTrial,
			TrialEndDate:       tp(now.Add(time.Hour)),
		},
	}
	assert.Equal(t, 1, DaysUntilExpiryAt(snap, now))
	assert.True(t, HasAccessAt(snap, types.FeatureFilters, now))

	snap.Account.SubscriptionStatus = types.AccountStatusSuspended
	assert.Equal(t, 0, DaysUntilExpiryAt(snap, now))
	assert.False(t, HasAccessAt(snap, types.FeatureFilters, now))
}

func TestInfo(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	end := now.Add(5 * 24 * time.Hour)

	snap := Snapshot{Account: &models.UserAccount{
		ID:                 "u1",
		SubscriptionStatus: types.AccountStatusTrial,
		TrialEndDate:       &end,
	}}
	info := Info(snap, now)

	require.NotNil(t, info)
	assert.Equal(t, types.AccountStatusTrial, info.Status)
	assert.True(t, info.Premium)
	assert.True(t, info.CanViewVehicles)
	assert.Equal(t, 5, info.DaysUntilExpiry)
	require.NotNil(t, info.TrialEndDate)
	assert.Equal(t, end, *info.TrialEndDate)
	assert.Len(t, info.Features, len(types.AllFeatures))
	for _, f := range types.AllFeatures {
		assert.True(t, info.Features[f])
	}
}

func TestInfo_Anonymous(t *testing.T) {
	info := Info(Snapshot{}, time.Now())

	assert.Empty(t, info.Status)
	assert.Nil(t, info.TrialEndDate)
	assert.Zero(t, info.DaysUntilExpiry)
	for _, f := range types.AllFeatures {
		assert.False(t, info.Features[f])
	}
}

func TestInfo_JSONRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	end := now.Add(48 * time.Hour)
	info := Info(Snapshot{Account: &models.UserAccount{
		SubscriptionStatus: types.AccountStatusTrial,
		TrialEndDate:       &end,
	}}, now)

	raw, err := json.Marshal(info)
	require.NoError(t, err)

	var got types.EntitlementInfo
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, *info, got)
}
