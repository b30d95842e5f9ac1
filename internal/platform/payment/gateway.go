package payment

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/leilauto/gatekeeper/pkg/config"
	"github.com/leilauto/gatekeeper/pkg/logctx"
	"github.com/leilauto/gatekeeper/pkg/tool"
	"github.com/leilauto/gatekeeper/pkg/types"
)

// ChargeResult is what the gateway reports back for a subscription charge.
type ChargeResult struct {
	// GatewaySubscriptionID is the opaque reference stored on our
	// subscription row.
	GatewaySubscriptionID string
	Confirmed             bool
}

// Gateway is the payment collaborator boundary. The production checkout flow
// runs upstream; the lifecycle service only needs a confirmation.
type Gateway interface {
	ChargeSubscription(ctx context.Context, userID string, plan *types.SubscriptionPlan) (*ChargeResult, error)
	CancelSubscription(ctx context.Context, gatewaySubscriptionID string) error
}

// SimulatedGateway confirms every charge (unless configured to decline).
// There is no real gateway integration in this system.
type SimulatedGateway struct {
	cfg *cfgpkg.Config
	log *zap.SugaredLogger
}

func NewSimulatedGateway(cfg *cfgpkg.Config, log *zap.SugaredLogger) Gateway {
	return &SimulatedGateway{cfg: cfg, log: log}
}

func (g *SimulatedGateway) ChargeSubscription(ctx context.Context, userID string, plan *types.SubscriptionPlan) (*ChargeResult, error) {
	if plan == nil {
		return nil, fmt.Errorf("nil plan")
	}
	if g.cfg.Payment.SimulateFailure {
		logctx.FromCtx(ctx, g.log).Warnw("simulated gateway declined charge", "user_id", userID, "plan_id", plan.ID)
		return &ChargeResult{Confirmed: false}, nil
	}
	res := &ChargeResult{
		GatewaySubscriptionID: "sim_" + tool.GenerateUUIDV7(),
		Confirmed:             true,
	}
	logctx.FromCtx(ctx, g.log).Infow("simulated gateway confirmed charge",
		"user_id", userID, "plan_id", plan.ID, "gateway_subscription_id", res.GatewaySubscriptionID)
	return res, nil
}

func (g *SimulatedGateway) CancelSubscription(ctx context.Context, gatewaySubscriptionID string) error {
	logctx.FromCtx(ctx, g.log).Infow("simulated gateway canceled subscription",
		"gateway_subscription_id", gatewaySubscriptionID)
	return nil
}

var Module = fx.Options(
	fx.Provide(NewSimulatedGateway),
)
