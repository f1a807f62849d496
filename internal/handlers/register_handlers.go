package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ulule/limiter/v3"

	portsrepo "github.com/ParksWS/payments_recon_app/internal/core/ports/repositories"
	portssvc "github.com/ParksWS/payments_recon_app/internal/core/ports/services"
	"github.com/ParksWS/payments_recon_app/internal/middleware"
	"github.com/ParksWS/payments_recon_app/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	repos portsrepo.RepositoryProvider,
	limiterInstance *limiter.Limiter,
) {
	registerValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services, repos, limiterInstance)
}

// registerValidators installs the custom binding validators used by the DTOs.
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("recondate", func(fl validator.FieldLevel) bool {
			_, err := time.Parse("2006-01-02", fl.Field().String())
			return err == nil
		})
	}
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	repos portsrepo.RepositoryProvider,
	limiterInstance *limiter.Limiter,
) {
	// Apply auth and rate limiting to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret), middleware.RateLimit(limiterInstance))

	registerReconciliationRoutes(v1, services, repos)
	registerInvoiceRoutes(v1, cfg, services, repos)
	registerInterfaceRoutes(v1, repos)
}

func registerReconciliationRoutes(v1 *gin.RouterGroup, services *portssvc.ServiceContainer, repos portsrepo.RepositoryProvider) {
	handler := newReconciliationHandler(services.Reconciliation, repos.ParserRepo)
	runs := v1.Group("/reconciliation")
	runs.POST("/runs", handler.runParser)
	runs.GET("/runs", handler.getRun)
}

func registerInvoiceRoutes(v1 *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer, repos portsrepo.RepositoryProvider) {
	handler := newInvoiceHandler(services.Allocation, repos.InvoiceRepo, cfg.GSTRate)
	invoices := v1.Group("/invoices")
	invoices.GET("/:reference", handler.getInvoice)
	invoices.POST("/:reference/allocations", handler.updateAllocations)
}

func registerInterfaceRoutes(v1 *gin.RouterGroup, repos portsrepo.RepositoryProvider) {
	handler := newInterfaceHandler(repos.OracleRepo)
	records := v1.Group("/interface")
	records.GET("/records", handler.listRecords)
}
