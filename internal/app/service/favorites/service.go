// Package favorites stores a user's saved auction vehicles. Every operation
// is gated on the favorites entitlement.
package favorites

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

// requireAccess loads the reconciled account state and checks the gate.
func (s *Service) requireAccess(ctx context.Context, userID string) error {
	st, err := s.lc.GetAccount(ctx, userID)
	if err != nil {
		return err
	}
	snap := entitlement.Snapshot{Account: st.Account, Subscription: st.Subscription}
	if !entitlement.HasAccess(snap, types.FeatureFavorites) {
		return fmt.Errorf("%w: favorites feature is locked for this account", lifecycle.ErrPrecondition)
	}
	return nil
}

// Add saves a vehicle. Adding an already saved vehicle returns the existing
// row unchanged.
func (s *Service) Add(ctx context.Context, userID, vehicleID string, snapshot map[string]interface{}) (*models.Favorite, error) {
	if vehicleID == "" {
		return nil, fmt.Errorf("%w: missing vehicle id", lifecycle.ErrValidation)
	}
	if err := s.requireAccess(ctx, userID); err != nil {
		return nil, err
	}

	var existing models.Favorite
	err := s.db.WithContext(ctx).Where("user_id = ? AND vehicle_id = ?", userID, vehicleID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check favorite: %w", err)
	}

	fav := &models.Favorite{
		ID:        tool.GenerateUUIDV7(),
		UserID:    userID,
		VehicleID: vehicleID,
		Snapshot:  snapshot,
	}
	if err := s.db.WithContext(ctx).Create(fav).Error; err != nil {
		return nil, fmt.Errorf("failed to save favorite: %w", err)
	}
	return fav, nil
}

func (s *Service) Remove(ctx context.Context, userID, vehicleID string) error {
	if err := s.requireAccess(ctx, userID); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Where("user_id = ? AND vehicle_id = ?", userID, vehicleID).Delete(&models.Favorite{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove favorite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: favorite %s", lifecycle.ErrNotFound, vehicleID)
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID string) ([]*models.Favorite, error) {
	if err := s.requireAccess(ctx, userID); err != nil {
		return nil, err
	}
	var rows []*models.Favorite
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return rows, nil
}

var Module = fx.Options(
	fx.Provide(NewService),
)
