package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"inpaygate/internal/config"
	"inpaygate/internal/gateway"
	"inpaygate/internal/handler"
	"inpaygate/internal/middleware"
	"inpaygate/internal/repository"
)

// Setup configures all routes for the Echo server.
func Setup(
	e *echo.Echo,
	db *gorm.DB,
	cfg *config.Config,
	logger *zap.Logger,
	deduper middleware.DeliveryDeduper,
) {
	// Global middleware
	e.Use(echomw.Recover())
	e.Use(middleware.CORS())

	// Repositories
	invoiceRepo := repository.NewInvoiceRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	currencyRepo := repository.NewCurrencyRepository(db)
	clientRepo := repository.NewClientRepository(db)
	gatewayLogRepo := repository.NewGatewayLogRepository(db)

	// Reconciliation core
	ledger := repository.NewLedger(invoiceRepo, transactionRepo, currencyRepo)
	txlog := repository.NewTransactionLogger(gatewayLogRepo, gateway.GatewayName, cfg.Gateway.GatewayLogs, logger)
	verifier := gateway.NewVerifyClient(cfg.Gateway.APIBase, cfg.Gateway.SecretKey)
	recon := gateway.NewReconciler(ledger, txlog, logger, cfg.Gateway.ConvertTo)
	events := gateway.NewRouter(verifier, recon, txlog, logger)

	// Handlers
	callbackHandler := handler.NewCallbackHandler(
		cfg.Gateway.SecretKey,
		cfg.Gateway.ReplayTolerance,
		cfg.Gateway.SystemURL,
		verifier,
		recon,
		events,
		txlog,
		logger,
	)
	checkoutHandler := handler.NewCheckoutHandler(
		cfg.Gateway.PublicKey,
		cfg.Gateway.WebhookURL,
		invoiceRepo,
		clientRepo,
		logger,
	)

	// Gateway callback surface (single path, method-dispatched; unregistered
	// methods get echo's 405)
	paymentGroup := e.Group("/payment/inpay")
	paymentGroup.POST("/callback", callbackHandler.Callback, middleware.WebhookDeliveryDedup(deduper))
	paymentGroup.GET("/callback", callbackHandler.CallbackRedirect)

	// Checkout session for the invoice-page payment button
	e.POST("/checkout/session", checkoutHandler.CreateSession)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
}
