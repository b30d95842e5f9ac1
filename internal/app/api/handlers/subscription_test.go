package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/leilauto/gatekeeper/internal/app/service/lifecycle"
	"github.com/leilauto/gatekeeper/internal/models"
	"github.com/leilauto/gatekeeper/pkg/config"
	"github.com/leilauto/gatekeeper/pkg/response"
	"github.com/leilauto/gatekeeper/pkg/types"
)

type stubSubMgr struct {
	sub *models.Subscription
	err error
}

func (s *stubSubMgr) StartTrial(_ context.Context, _ string, _ string) (*models.Subscription, error) {
	return s.sub, s.err
}

func (s *stubSubMgr) Activate(_ context.Context, _ string, _ string) (*models.Subscription, error) {
	return s.sub, s.err
}

func (s *stubSubMgr) CancelSubscription(_ context.Context, _ string) (*models.Subscription, error) {
	return s.sub, s.err
}

func subscriptionRouter(mgr SubscriptionManager, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterSubscriptionRoutes(r.Group("/api/v1"), mgr, cfg)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestApiListPlans_ReturnsActiveCatalog(t *testing.T) {
	cfg := &config.Config{Plans: []*types.SubscriptionPlan{
		{ID: "basic", Name: "Básico", Price: 4990, Currency: "BRL", Interval: types.PlanIntervalMonth, TrialDays: 7, IsActive: true},
		{ID: "premium", Name: "Premium", Price: 9990, Currency: "BRL", Interval: types.PlanIntervalMonth, TrialDays: 14, IsPopular: true, IsActive: true},
		{ID: "legacy", Name: "Legado", IsActive: false},
	}}
	r := subscriptionRouter(&stubSubMgr{}, cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var out response.APIResponse[[]PlanItem]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, response.APIResponseCodeOK, out.Code)
	require.Len(t, out.Data, 2)
	require.Equal(t, "basic", out.Data[0].ID)
	require.Equal(t, "premium", out.Data[1].ID)
	require.True(t, out.Data[1].IsPopular)
	require.NotContains(t, w.Body.String(), "legacy")
}

func TestApiStartTrial(t *testing.T) {
	end := time.Now().Add(7 * 24 * time.Hour)
	r := subscriptionRouter(&stubSubMgr{sub: &models.Subscription{
		ID:       "s1",
		UserID:   "u1",
		PlanID:   "basic",
		Status:   types.SubscriptionStatusTrialing,
		TrialEnd: &end,
	}}, &config.Config{})

	w := postJSON(t, r, "/api/v1/trial/start", map[string]any{"user_id": "u1", "plan_id": "basic"})
	require.Equal(t, http.StatusOK, w.Code)

	var out response.APIResponse[models.Subscription]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, response.APIResponseCodeOK, out.Code)
	require.Equal(t, types.SubscriptionStatusTrialing, out.Data.Status)
}

func TestApiStartTrial_MissingUserID(t *testing.T) {
	r := subscriptionRouter(&stubSubMgr{}, &config.Config{})

	w := postJSON(t, r, "/api/v1/trial/start", map[string]any{"plan_id": "basic"})
	require.Equal(t, http.StatusOK, w.Code)

	var out response.APIResponse[any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, response.APIResponseCodeBadRequest, out.Code)
}

func TestApiStartTrial_AlreadyUsed(t *testing.T) {
	r := subscriptionRouter(&stubSubMgr{err: fmt.Errorf("%w: trial already used", lifecycle.ErrPrecondition)}, &config.Config{})

	w := postJSON(t, r, "/api/v1/trial/start", map[string]any{"user_id": "u1"})

	var out response.APIResponse[any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, response.APIResponseCodePrecondition, out.Code)
}

func TestApiActivate_PaymentDeclined(t *testing.T) {
	r := subscriptionRouter(&stubSubMgr{err: fmt.Errorf("%w: charge declined", lifecycle.ErrUpstreamPayment)}, &config.Config{})

	w := postJSON(t, r, "/api/v1/subscription/activate", map[string]any{"user_id": "u1", "plan_id": "basic"})

	var out response.APIResponse[any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, response.APIResponseCodePaymentFailed, out.Code)
}

func TestApiCancelSubscription(t *testing.T) {
	now := time.Now()
	r := subscriptionRouter(&stubSubMgr{sub: &models.Subscription{
		ID:                "s1",
		Status:            types.SubscriptionStatusActive,
		CancelAtPeriodEnd: true,
		CanceledAt:        &now,
	}}, &config.Config{})

	w := postJSON(t, r, "/api/v1/subscription/cancel", map[string]any{"user_id": "u1"})

	var out response.APIResponse[models.Subscription]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, response.APIResponseCodeOK, out.Code)
	require.True(t, out.Data.CancelAtPeriodEnd)
	require.Equal(t, types.SubscriptionStatusActive, out.Data.Status)
}
