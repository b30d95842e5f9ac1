package app

import (
	"time"

	"github.com/leilauto/gatekeeper/internal/app/api/server"
	"github.com/leilauto/gatekeeper/internal/app/service/adminops"
	"github.com/leilauto/gatekeeper/internal/app/service/alerts"
	"github.com/leilauto/gatekeeper/internal/app/service/favorites"
	"github.com/leilauto/gatekeeper/internal/app/service/lifecycle"
	"github.com/leilauto/gatekeeper/internal/platform/db"
	"github.com/leilauto/gatekeeper/internal/platform/payment"
	"github.com/leilauto/gatekeeper/pkg/config"
	"github.com/leilauto/gatekeeper/pkg/logger"

	"go.uber.org/fx"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	payment.Module,
	server.Module,
	lifecycle.Module,
	adminops.Module,
	favorites.Module,
	alerts.Module,
)
