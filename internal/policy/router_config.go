package policy

import (
	"github.com/diewo77/orderdesk/auth"
	"github.com/diewo77/orderdesk/gate"
	"github.com/diewo77/orderdesk/internal/config"
	"github.com/diewo77/orderdesk/internal/handlers"
	"github.com/diewo77/orderdesk/internal/metrics"
	"github.com/diewo77/orderdesk/internal/repository"
	"github.com/diewo77/orderdesk/internal/services"
	"github.com/sirupsen/logrus"
)

// RouterConfig holds configured handlers and middleware for the application.
type RouterConfig struct {
	// AuthGate provides authorization checks and middleware
	AuthGate *AuthGate
	Sessions *auth.Sessions

	AuthHandler       *handlers.AuthHandler
	OrderHandler      *handlers.OrderHandler
	DesignTaskHandler *handlers.DesignTaskHandler
	ShipmentHandler   *handlers.ShipmentHandler
	InventoryHandler  *handlers.InventoryHandler
	CustomerHandler   *handlers.CustomerHandler
	ReportHandler     *handlers.ReportHandler
	AdminHandler      *handlers.AdminHandler

	// Services
	OrderService *services.OrderService
}

// NewRouterConfig wires the role gate, the workflow services and their
// handlers over repo.
//
//	cfg := policy.NewRouterConfig(repo, appCfg, log, m)
//	mux.Handle("POST /api/orders", cfg.AuthGate.RequirePermission(gate.ResourceOrder, gate.ActionCreate)(http.HandlerFunc(cfg.OrderHandler.Create)))
func NewRouterConfig(repo *repository.Repository, cfg *config.Config, log logrus.FieldLogger, m *metrics.Metrics) *RouterConfig {
	roles := gate.DefaultRoles()
	authGate := NewAuthGate(gate.New(roles))
	sessions := auth.NewSessions(cfg.App.Secret())

	orderService := services.NewOrderService(repo, authGate.Gate, log, m)
	designService := services.NewDesignService(orderService)
	shippingService := services.NewShippingService(orderService)
	inventoryService := services.NewInventoryService(repo, log)
	customerService := services.NewCustomerService(repo, log, cfg.App.PhoneRegion)
	invoiceService := services.NewInvoiceService(repo)

	return &RouterConfig{
		AuthGate:          authGate,
		Sessions:          sessions,
		AuthHandler:       handlers.NewAuthHandler(sessions, roles, cfg.App.Dev, log),
		OrderHandler:      handlers.NewOrderHandler(orderService, log),
		DesignTaskHandler: handlers.NewDesignTaskHandler(designService, log),
		ShipmentHandler:   handlers.NewShipmentHandler(shippingService, invoiceService, log),
		InventoryHandler:  handlers.NewInventoryHandler(inventoryService, log),
		CustomerHandler:   handlers.NewCustomerHandler(customerService, log),
		ReportHandler:     handlers.NewReportHandler(invoiceService, log),
		AdminHandler:      handlers.NewAdminHandler(repo, log),
		OrderService:      orderService,
	}
}
