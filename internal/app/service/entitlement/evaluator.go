// Package entitlement decides whether an account may use a gated dashboard
// feature right now. Evaluation is a pure function of a state snapshot and
// the clock; it never touches storage and never caches, since trial expiry
// is time-driven and must be re-derived on every call.
package entitlement

import (
	"time"

	"github.com/leilauto/gatekeeper/internal/models"
	"github.com/leilauto/gatekeeper/pkg/types"
)

// Snapshot is a read-only view of an account and its owned subscription row
// (nil for free accounts). The lifecycle service produces it; this package
// only reads it.
type Snapshot struct {
	Account      *models.UserAccount  `json:"account"`
	Subscription *models.Subscription `json:"subscription,omitempty"`
}

// HasAccessAt reports whether the account may use feature at now.
//
// Check order, each short-circuiting:
//  1. no account -> false
//  2. cached status trial with a future end date -> true; a stale trial
//     cache (missing or elapsed end date) falls through and consults the
//     subscription row, so a concurrent activation is not masked by it
//  3. cached status active -> true; demoting active after a lapsed period
//     is the lifecycle service's job, the evaluator trusts it here
//  4. free/expired/suspended -> false
func HasAccessAt(snap Snapshot, feature types.Feature, now time.Time) bool {
	_ = feature // all features share eligibility today; entry points stay per-feature

	account := snap.Account
	if account == nil {
		return false
	}

	if account.SubscriptionStatus == types.AccountStatusTrial {
		if account.TrialEndDate != nil && account.TrialEndDate.After(now) {
			return true
		}
		// Stale trial cache: the subscription record is the tie-breaker.
		if snap.Subscription.Valid(now) {
			return true
		}
	}

	if account.SubscriptionStatus == types.AccountStatusActive {
		return true
	}

	return false
}

// HasAccess is HasAccessAt against the wall clock.
func HasAccess(snap Snapshot, feature types.Feature) bool {
	return HasAccessAt(snap, feature, time.Now())
}

// CanUsePremiumFeatures reports whether any gated feature is usable.
func CanUsePremiumFeatures(snap Snapshot) bool {
	return CanUsePremiumFeaturesAt(snap, time.Now())
}

func CanUsePremiumFeaturesAt(snap Snapshot, now time.Time) bool {
	for _, f := range types.AllFeatures {
		if HasAccessAt(snap, f, now) {
			return true
		}
	}
	return false
}

// CanViewVehicles is always true: anonymous catalog browsing is product
// policy and independent of entitlements.
func CanViewVehicles() bool {
	return true
}

// DaysUntilExpiry returns the whole days (ceiling) until the trial end or the
// current billing period end, never negative. Display-only; the boolean
// checks above stay authoritative for gating.
func DaysUntilExpiry(snap Snapshot) int {
	return DaysUntilExpiryAt(snap, time.Now())
}

func DaysUntilExpiryAt(snap Snapshot, now time.Time) int {
	account := snap.Account
	if account == nil {
		return 0
	}

	if account.SubscriptionStatus == types.AccountStatusTrial &&
		account.TrialEndDate != nil && account.TrialEndDate.After(now) {
		return ceilDays(account.TrialEndDate.Sub(now))
	}

	if account.SubscriptionStatus == types.AccountStatusActive && snap.Subscription != nil {
		if !snap.Subscription.CurrentPeriodEnd.After(now) {
			return 0
		}
		return ceilDays(snap.Subscription.CurrentPeriodEnd.Sub(now))
	}

	return 0
}

// Info builds the UI-facing entitlement summary for a snapshot.
func Info(snap Snapshot, now time.Time) *types.EntitlementInfo {
	features := make(map[types.Feature]bool, len(types.AllFeatures))
	for _, f := range types.AllFeatures {
		features[f] = HasAccessAt(snap, f, now)
	}
	info := &types.EntitlementInfo{
		Features:        features,
		CanViewVehicles: CanViewVehicles(),
		Premium:         CanUsePremiumFeaturesAt(snap, now),
		DaysUntilExpiry: DaysUntilExpiryAt(snap, now),
	}
	if snap.Account != nil {
		info.Status = snap.Account.SubscriptionStatus
		info.TrialEndDate = snap.Account.TrialEndDate
	}
	return info
}

func ceilDays(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}
