package main

import (
	"net/http"
	"time"

	"github.com/diewo77/orderdesk/auth"
	"github.com/diewo77/orderdesk/gate"
	"github.com/diewo77/orderdesk/httpx"
	"github.com/diewo77/orderdesk/internal/policy"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	routerCfg *policy.RouterConfig
	gatherer  prometheus.Gatherer
	log       logrus.FieldLogger
}

// NewApp creates a new application with all routes configured.
func NewApp(routerCfg *policy.RouterConfig, gatherer prometheus.Gatherer, log logrus.FieldLogger) *App {
	app := &App{
		mux:       http.NewServeMux(),
		routerCfg: routerCfg,
		gatherer:  gatherer,
		log:       log,
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Attach the session actor before routing
	a.routerCfg.Sessions.Middleware(a.mux).ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Public routes (no auth required)
	// ─────────────────────────────────────────────────────────────────────────
	ah := a.routerCfg.AuthHandler

	a.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	a.mux.Handle("GET /metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{}))
	a.mux.HandleFunc("POST /login", ah.Login)
	a.mux.HandleFunc("POST /logout", ah.Logout)
	a.mux.Handle("GET /api/me", auth.RequireAuth(http.HandlerFunc(ah.Me)))

	// ─────────────────────────────────────────────────────────────────────────
	// Orders
	// ─────────────────────────────────────────────────────────────────────────
	oh := a.routerCfg.OrderHandler
	a.handle("GET /api/orders", gate.ResourceOrder, gate.ActionList, oh.List)
	a.handle("POST /api/orders", gate.ResourceOrder, gate.ActionCreate, oh.Create)
	a.handle("GET /api/orders/{id}", gate.ResourceOrder, gate.ActionView, oh.Get)
	a.handle("PUT /api/orders/{id}", gate.ResourceOrder, gate.ActionUpdate, oh.Update)
	// Cancellation is authorized inside the service once the target is known.
	a.handle("POST /api/orders/{id}/status", gate.ResourceOrder, gate.ActionAdvance, oh.Advance)
	a.handle("POST /api/orders/{id}/payments", gate.ResourceOrder, gate.ActionPay, oh.RecordPayment)
	a.handle("GET /api/orders/{id}/progression", gate.ResourceOrder, gate.ActionView, oh.Progression)

	// ─────────────────────────────────────────────────────────────────────────
	// Design and shipping desks
	// ─────────────────────────────────────────────────────────────────────────
	dh := a.routerCfg.DesignTaskHandler
	a.handle("GET /api/design-tasks", gate.ResourceDesignTask, gate.ActionList, dh.List)
	a.handle("POST /api/design-tasks/{id}/assign", gate.ResourceDesignTask, gate.ActionAssign, dh.Assign)
	a.handle("POST /api/design-tasks/{id}/status", gate.ResourceDesignTask, gate.ActionUpdate, dh.UpdateStatus)

	sh := a.routerCfg.ShipmentHandler
	a.handle("GET /api/shipments", gate.ResourceShipment, gate.ActionList, sh.List)
	a.handle("PUT /api/shipments/{id}", gate.ResourceShipment, gate.ActionUpdate, sh.Update)
	a.handle("POST /api/shipments/{id}/dispatch", gate.ResourceShipment, gate.ActionDispatch, sh.Dispatch)
	a.handle("POST /api/shipments/{id}/deliver", gate.ResourceShipment, gate.ActionDeliver, sh.Deliver)
	a.handle("GET /api/shipments/{id}/slip", gate.ResourceShipment, gate.ActionView, sh.Slip)

	// ─────────────────────────────────────────────────────────────────────────
	// Inventory, customers and reports
	// ─────────────────────────────────────────────────────────────────────────
	ih := a.routerCfg.InventoryHandler
	a.handle("GET /api/inventory", gate.ResourceInventory, gate.ActionList, ih.List)
	a.handle("PUT /api/inventory", gate.ResourceInventory, gate.ActionUpdate, ih.Upsert)
	a.handle("POST /api/inventory/{id}/adjust", gate.ResourceInventory, gate.ActionAdjust, ih.Adjust)

	ch := a.routerCfg.CustomerHandler
	a.handle("GET /api/customers", gate.ResourceCustomer, gate.ActionList, ch.List)
	a.handle("POST /api/customers", gate.ResourceCustomer, gate.ActionCreate, ch.Create)

	rh := a.routerCfg.ReportHandler
	a.handle("GET /api/invoices", gate.ResourceInvoice, gate.ActionList, rh.Invoices)
	a.handle("GET /api/dashboard", gate.ResourceDashboard, gate.ActionView, rh.Dashboard)

	// ─────────────────────────────────────────────────────────────────────────
	// Admin routes (superadmin only)
	// ─────────────────────────────────────────────────────────────────────────
	a.mux.Handle("POST /api/admin/reset",
		a.routerCfg.AuthGate.RequireAdmin()(http.HandlerFunc(a.routerCfg.AdminHandler.Reset)))
}

// handle registers h behind the resourceType:action permission check.
func (a *App) handle(pattern, resourceType string, action gate.Action, h http.HandlerFunc) {
	a.mux.Handle(pattern, a.routerCfg.AuthGate.RequirePermission(resourceType, action)(h))
}

// ─────────────────────────────────────────────────────────────────────────────
// Middleware
// ─────────────────────────────────────────────────────────────────────────────

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging middleware with a per-request id.
func withLogging(log logrus.FieldLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.WithFields(logrus.Fields{
			"request_id": reqID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).String(),
		}).Info("request")
	})
}
