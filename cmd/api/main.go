package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "approval-engine/internal/adapter/http"
	idemp "approval-engine/internal/adapter/middleware"
	"approval-engine/internal/adapter/repository/mysql"
	"approval-engine/internal/config"
	"approval-engine/internal/infrastructure/cache"
	"approval-engine/internal/infrastructure/db"
	ucPolicy "approval-engine/internal/usecase/policy"
	ucRequest "approval-engine/internal/usecase/request"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	policyRepo := mysql.NewPolicyRepository(gdb)
	requestRepo := mysql.NewRequestRepository(gdb)
	assignmentRepo := mysql.NewAssignmentRepository(gdb)
	historyRepo := mysql.NewHistoryRepository(gdb)
	guow := mysql.NewGormUoW(gdb)

	// Role resolution is a directory-service concern; until one is wired in,
	// policies must name approvers by user id.
	requestUC := ucRequest.NewUsecase(policyRepo, requestRepo, assignmentRepo, historyRepo, guow, noDirectory{})
	policyUC := ucPolicy.NewUsecase(policyRepo, requestRepo)

	h := httpadp.NewHandler()
	ph := httpadp.NewPolicyHandler(policyUC)
	rh := httpadp.NewRequestHandler(requestUC)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	e.GET("/health", h.Health)

	idempTTL := time.Duration(cfg.IdempTTLSecs) * time.Second
	mut := e.Group("", idemp.IdempotencyMiddleware(rdb, idempTTL))

	// policies
	mut.POST("/policies", ph.CreatePolicy)
	mut.PATCH("/policies/:policy_id", ph.UpdatePolicy)
	mut.DELETE("/policies/:policy_id", ph.DeactivatePolicy)
	e.GET("/policies", ph.ListPolicies)
	e.GET("/policies/:code", ph.GetPolicy)

	// requests
	mut.POST("/requests", rh.CreateRequest)
	mut.POST("/requests/:request_id/respond", rh.Respond)
	mut.POST("/requests/:request_id/delegate", rh.Delegate)
	mut.POST("/requests/:request_id/cancel", rh.Cancel)
	mut.POST("/requests/:request_id/recall", rh.Recall)
	mut.POST("/requests/:request_id/notified", rh.MarkNotified)
	e.GET("/requests/overdue", rh.ListOverdue)
	e.GET("/requests/:request_id", rh.GetRequest)
	e.GET("/approvers/:approver_id/pending", rh.ListPending)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
