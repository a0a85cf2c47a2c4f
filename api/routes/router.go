package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/guideway/guideway-backend/api/controllers"
	"github.com/guideway/guideway-backend/api/middleware"
	checkinsvc "github.com/guideway/guideway-backend/internal/checkin"
	ledgersvc "github.com/guideway/guideway-backend/internal/ledger"
	ordersvc "github.com/guideway/guideway-backend/internal/orders"
	overtimesvc "github.com/guideway/guideway-backend/internal/overtime"
	refundsvc "github.com/guideway/guideway-backend/internal/refunds"
	"github.com/guideway/guideway-backend/pkg/config"
	"github.com/guideway/guideway-backend/pkg/enums"
	"github.com/guideway/guideway-backend/pkg/logger"
)

// Services bundles everything the HTTP surface depends on.
type Services struct {
	Orders   ordersvc.Service
	CheckIn  checkinsvc.Service
	Overtime overtimesvc.Service
	Refunds  refundsvc.Service
	Ledger   ledgersvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *prometheus.Registry,
	svcs Services,
	pingers ...controllers.Pinger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers...))
	})
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(svcs.Orders, logg))
			r.Post("/", controllers.OrderCreate(svcs.Orders, logg))
			r.Get("/{orderID}", controllers.OrderGet(svcs.Orders, logg))
			r.Post("/{orderID}/pay", controllers.OrderPay(svcs.Orders, logg))
			r.Post("/{orderID}/cancel", controllers.OrderCancel(svcs.Orders, logg))
			r.Post("/{orderID}/refund", controllers.OrderRefund(svcs.Refunds, logg))
			r.Post("/{orderID}/checkin", controllers.OrderCheckIn(svcs.CheckIn, logg))
			r.Get("/{orderID}/overtime", controllers.OvertimeListByOrder(svcs.Overtime, logg))
			r.Post("/{orderID}/overtime", controllers.OvertimeCreate(svcs.Overtime, logg))
		})
		r.Post("/overtime/{overtimeID}/pay", controllers.OvertimePay(svcs.Overtime, logg))

		r.Route("/balance", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.UserRoleGuide, logg))
			r.Get("/", controllers.BalanceGet(svcs.Ledger, logg))
			r.Get("/entries", controllers.BalanceEntries(svcs.Ledger, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(enums.UserRoleAdmin, logg))

		r.Post("/orders/{orderID}/assign", controllers.OrderAssign(svcs.Orders, logg))
		r.Post("/orders/{orderID}/reopen", controllers.OrderReopen(svcs.Orders, logg))
	})

	return r
}
