package adminops

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/leilauto/gatekeeper/internal/app/service/lifecycle"
	"github.com/leilauto/gatekeeper/internal/models"
	"github.com/leilauto/gatekeeper/pkg/tool"
	"github.com/leilauto/gatekeeper/pkg/types"
)

// filtersAnd combines CommonFilter entries into a single clause.Expression.
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

type ScanUsersRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanUsersResponse struct {
	Items []*models.UserAccount `json:"items"`
	Total int64                 `json:"total"`
}

// ScanUsers implements the paginated, filterable back-office user listing.
func (s *Service) ScanUsers(ctx context.Context, req *ScanUsersRequest) (*ScanUsersResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.UserAccount{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var rows []*models.UserAccount
	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	if req.SortBy != "" {
		q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return &ScanUsersResponse{Items: rows, Total: total}, nil
}

type ScanActionsRequest struct {
	UserID string `json:"user_id"`
	From   int    `json:"from"`
	Size   int    `json:"size"`
}

type ScanActionsResponse struct {
	Items []*models.AdminAction `json:"items"`
	Total int64                 `json:"total"`
}

// ScanActions lists the audit trail, newest first, optionally for one user.
func (s *Service) ScanActions(ctx context.Context, req *ScanActionsRequest) (*ScanActionsResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 20
	}

	tx := s.db.WithContext(ctx).Model(&models.AdminAction{})
	if req.UserID != "" {
		tx = tx.Where("user_id = ?", req.UserID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count admin actions: %w", err)
	}

	var rows []*models.AdminAction
	q := tx.Order("performed_at desc").Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list admin actions: %w", err)
	}

	return &ScanActionsResponse{Items: rows, Total: total}, nil
}

type CreateUserRequest struct {
	Name      string              `json:"name"`
	Email     string              `json:"email"`
	Phone     *string             `json:"phone"`
	Status    types.AccountStatus `json:"subscription_status"`
	TrialDays int                 `json:"trial_days"`
	Notes     string              `json:"notes"`
}

// CreateUser provisions an account from the back office. A trial status gets
// an end date of now + trial_days (default from config).
func (s *Service) CreateUser(ctx context.Context, req *CreateUserRequest) (*models.UserAccount, error) {
	if req == nil || req.Name == "" || req.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", lifecycle.ErrValidation)
	}
	status := req.Status
	if status == "" {
		status = types.AccountStatusFree
	}

	account := &models.UserAccount{
		ID:                 tool.GenerateUUIDV7(),
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		Role:               types.RoleUser,
		SubscriptionStatus: status,
		IsActive:           true,
	}
	if req.Notes != "" {
		account.Extra = map[string]interface{}{"notes": req.Notes}
	}
	if status == types.AccountStatusTrial {
		days := req.TrialDays
		if days <= 0 {
			days = s.cfg.DefaultTrialDays
		}
		end := time.Now().Add(time.Duration(days) * 24 * time.Hour)
		account.TrialEndDate = &end
	}

	if err := s.db.WithContext(ctx).Create(account).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return account, nil
}

type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
	Notes *string `json:"notes"`
}

func (s *Service) UpdateUser(ctx context.Context, userID string, req *UpdateUserRequest) (*models.UserAccount, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}

	var account models.UserAccount
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", lifecycle.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Email != nil {
		account.Email = *req.Email
	}
	if req.Phone != nil {
		account.Phone = req.Phone
	}
	if req.Notes != nil {
		if account.Extra == nil {
			account.Extra = map[string]interface{}{}
		}
		account.Extra["notes"] = *req.Notes
	}

	if err := s.db.WithContext(ctx).Save(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &account, nil
}

// DeleteUser removes the account and everything it owns. Reason is mandatory;
// the audit row survives the account (revoke_access covers destruction).
func (s *Service) DeleteUser(ctx context.Context, userID, reason, adminID string) error {
	if reason == "" {
		return fmt.Errorf("%w: deletion requires a reason", lifecycle.ErrValidation)
	}
	if adminID == "" {
		return fmt.Errorf("%w: missing admin id", lifecycle.ErrValidation)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", userID).Delete(&models.UserAccount{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", lifecycle.ErrNotFound, userID)
		}
		for _, owned := range []interface{}{&models.Subscription{}, &models.Favorite{}, &models.VehicleAlert{}} {
			if err := tx.Where("user_id = ?", userID).Delete(owned).Error; err != nil {
				return fmt.Errorf("failed to delete owned rows: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	_, err = s.appendAction(ctx, &models.AdminAction{
		UserID:      userID,
		Type:        types.AdminActionRevokeAccess,
		Description: "Usuário excluído",
		Reason:      reason,
		PerformedBy: adminID,
	})
	return err
}

type DashboardMetrics struct {
	TotalUsers          int64                 `json:"total_users"`
	ByStatus            map[string]int64      `json:"by_status"`
	TrialsExpiringSoon  int64                 `json:"trials_expiring_soon"`
	ActiveSubscriptions int64                 `json:"active_subscriptions"`
	RecentActions       []*models.AdminAction `json:"recent_actions"`
}

// Metrics aggregates the admin dashboard counters. "Expiring soon" means a
// trial ending within the next 3 days.
func (s *Service) Metrics(ctx context.Context) (*DashboardMetrics, error) {
	m := &DashboardMetrics{ByStatus: map[string]int64{}}

	if err := s.db.WithContext(ctx).Model(&models.UserAccount{}).Count(&m.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	type statusCount struct {
		SubscriptionStatus string
		N                  int64
	}
	var counts []statusCount
	if err := s.db.WithContext(ctx).Model(&models.UserAccount{}).
		Select("subscription_status, count(*) as n").
		Group("subscription_status").Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}
	for _, c := range counts {
		m.ByStatus[c.SubscriptionStatus] = c.N
	}

	now := time.Now()
	soon := now.Add(3 * 24 * time.Hour)
	if err := s.db.WithContext(ctx).Model(&models.UserAccount{}).
		Where("subscription_status = ? AND trial_end_date BETWEEN ? AND ?", types.AccountStatusTrial, now, soon).
		Count(&m.TrialsExpiringSoon).Error; err != nil {
		return nil, fmt.Errorf("failed to count expiring trials: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("status = ?", types.SubscriptionStatusActive).
		Count(&m.ActiveSubscriptions).Error; err != nil {
		return nil, fmt.Errorf("failed to count active subscriptions: %w", err)
	}

	actions, err := s.ScanActions(ctx, &ScanActionsRequest{Size: 10})
	if err != nil {
		return nil, err
	}
	m.RecentActions = actions.Items

	return m, nil
}
