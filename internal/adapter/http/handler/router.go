package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"novabank/internal/adapter/http/middleware"
	"novabank/internal/core/ports"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	LedgerSvc      ports.LedgerService
	RateSvc        ports.RateService
	AdvisorSvc     ports.AdvisorService // nil = advice endpoint disabled
	HealthCheckers []ports.HealthChecker
	Mode           string // gin mode: debug, release, test
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	if deps.Mode != "" {
		gin.SetMode(deps.Mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies the configured snapshot backend)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// API v1 routes
	v1 := r.Group("/api/v1")

	ledgerHandler := NewLedgerHandler(deps.LedgerSvc)
	ledger := v1.Group("/ledger")
	{
		ledger.GET("", ledgerHandler.GetLedger)
		ledger.GET("/accounts", ledgerHandler.ListAccounts)
		ledger.GET("/transactions", ledgerHandler.ListTransactions)
		ledger.POST("/accounts/:id/topup", ledgerHandler.Topup)
		ledger.POST("/transfers", ledgerHandler.Transfer)
		ledger.POST("/transfers/verify", ledgerHandler.VerifyRecipient)
		ledger.POST("/exchange", ledgerHandler.Exchange)
		ledger.POST("/reset", ledgerHandler.Reset)
		ledger.PUT("/name", ledgerHandler.UpdateName)
	}

	rateHandler := NewRateHandler(deps.RateSvc)
	v1.GET("/rates", rateHandler.GetRates)

	if deps.AdvisorSvc != nil {
		advisorHandler := NewAdvisorHandler(deps.AdvisorSvc)
		v1.GET("/advice", advisorHandler.GetAdvice)
	}

	return r
}
