// Package alerts manages saved-search alert criteria. Delivery is out of
// scope; only the criteria rows live here. Gated on the alerts entitlement.
package alerts

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/leilauto/gatekeeper/internal/app/service/entitlement"
	"github.com/leilauto/gatekeeper/internal/app/service/lifecycle"
	"github.com/leilauto/gatekeeper/internal/models"
	"github.com/leilauto/gatekeeper/pkg/tool"
	"github.com/leilauto/gatekeeper/pkg/types"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
	lc  *lifecycle.Service
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, lc *lifecycle.Service) *Service {
	return &Service{db: db, log: log, lc: lc}
}

func (s *Service) requireAccess(ctx context.Context, userID string) error {
	st, err := s.lc.GetAccount(ctx, userID)
	if err != nil {
		return err
	}
	snap := entitlement.Snapshot{Account: st.Account, Subscription: st.Subscription}
	if !entitlement.HasAccess(snap, types.FeatureAlerts) {
		return fmt.Errorf("%w: alerts feature is locked for this account", lifecycle.ErrPrecondition)
	}
	return nil
}

type AlertInput struct {
	Name     string  `json:"name"`
	Make     *string `json:"make"`
	Model    *string `json:"model"`
	State    *string `json:"state"`
	YearMin  *int    `json:"year_min"`
	YearMax  *int    `json:"year_max"`
	PriceMax *int64  `json:"price_max"`
	Channel  string  `json:"channel"`
}

func (in *AlertInput) validate() error {
	if in == nil || in.Name == "" {
		return fmt.Errorf("%w: alert name is required", lifecycle.ErrValidation)
	}
	if in.YearMin != nil && in.YearMax != nil && *in.YearMin > *in.YearMax {
		return fmt.Errorf("%w: year range is inverted", lifecycle.ErrValidation)
	}
	switch in.Channel {
	case "", "email", "whatsapp":
	default:
		return fmt.Errorf("%w: unsupported channel %s", lifecycle.ErrValidation, in.Channel)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, userID string, in *AlertInput) (*models.VehicleAlert, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.requireAccess(ctx, userID); err != nil {
		return nil, err
	}

	alert := &models.VehicleAlert{
		ID:       tool.GenerateUUIDV7(),
		UserID:   userID,
		Name:     in.Name,
		Make:     in.Make,
		Model:    in.Model,
		State:    in.State,
		YearMin:  in.YearMin,
		YearMax:  in.YearMax,
		PriceMax: in.PriceMax,
		Channel:  in.Channel,
		IsActive: true,
	}
	if alert.Channel == "" {
		alert.Channel = "email"
	}
	if err := s.db.WithContext(ctx).Create(alert).Error; err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}
	return alert, nil
}

func (s *Service) Update(ctx context.Context, userID, alertID string, in *AlertInput) (*models.VehicleAlert, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.requireAccess(ctx, userID); err != nil {
		return nil, err
	}

	alert, err := s.load(ctx, userID, alertID)
	if err != nil {
		return nil, err
	}

	alert.Name = in.Name
	alert.Make = in.Make
	alert.Model = in.Model
	alert.State = in.State
	alert.YearMin = in.YearMin
	alert.YearMax = in.YearMax
	alert.PriceMax = in.PriceMax
	if in.Channel != "" {
		alert.Channel = in.Channel
	}

	if err := s.db.WithContext(ctx).Save(alert).Error; err != nil {
		return nil, fmt.Errorf("failed to update alert: %w", err)
	}
	return alert, nil
}

// SetActive pauses or resumes an alert without touching its criteria.
func (s *Service) SetActive(ctx context.Context, userID, alertID string, active bool) (*models.VehicleAlert, error) {
	if err := s.requireAccess(ctx, userID); err != nil {
		return nil, err
	}
	alert, err := s.load(ctx, userID, alertID)
	if err != nil {
		return nil, err
	}
	alert.IsActive = active
	if err := s.db.WithContext(ctx).Save(alert).Error; err != nil {
		return nil, fmt.Errorf("failed to update alert: %w", err)
	}
	return alert, nil
}

func (s *Service) Delete(ctx context.Context, userID, alertID string) error {
	if err := s.requireAccess(ctx, userID); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", alertID, userID).Delete(&models.VehicleAlert{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete alert: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: alert %s", lifecycle.ErrNotFound, alertID)
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID string) ([]*models.VehicleAlert, error) {
	if err := s.requireAccess(ctx, userID); err != nil {
		return nil, err
	}
	var rows []*models.VehicleAlert
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return rows, nil
}

func (s *Service) load(ctx context.Context, userID, alertID string) (*models.VehicleAlert, error) {
	var alert models.VehicleAlert
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", alertID, userID).First(&alert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: alert %s", lifecycle.ErrNotFound, alertID)
		}
		return nil, fmt.Errorf("failed to load alert: %w", err)
	}
	return &alert, nil
}

var Module = fx.Options(
	fx.Provide(NewService),
)
