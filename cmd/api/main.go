package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/attendance"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/config"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/dashboard"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/httpapi"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/kiosk"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/queue"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/roster"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/store"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/vision"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if err := store.Migrate(ctx, db.Client); err != nil {
		return err
	}

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "attendance:marks")
	}

	if cfg.OpenAIAPIKey == "" {
		log.Println("OPENAI_API_KEY not set: registrations will store placeholder descriptions and attendance marking will fail")
	}
	provider := vision.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.VisionModel, cfg.VisionTimeout)

	rosterRepo := roster.NewRepository(db.Client)
	attendanceRepo := attendance.NewRepository(db.Client)
	kioskRepo := kiosk.NewRepository(db.Client)

	rosterSvc := roster.NewService(rosterRepo, provider)
	attendanceSvc := attendance.NewService(rosterSvc, attendanceRepo, provider, q)
	dashboardSvc := dashboard.NewService(rosterRepo, attendanceSvc, redisClient, cfg.DashboardCacheTTL)
	kioskSvc := kiosk.NewService(kioskRepo)

	r := httpapi.NewRouter(httpapi.Config{
		CORSOrigins:     cfg.CORSOrigins,
		JWTIssuer:       cfg.JWTIssuer,
		JWTSigningKey:   cfg.JWTSigningKey,
		AccessTTL:       cfg.AccessTTL,
		RefreshTTL:      cfg.RefreshTTL,
		AuthRequired:    cfg.AuthRequired,
		RateLimitPerMin: cfg.RateLimitPerMin,
	}, httpapi.Deps{
		Roster:       rosterSvc,
		Attendance:   attendanceSvc,
		Dashboard:    dashboardSvc,
		Kiosk:        kioskSvc,
		DBHealthy:    func(ctx context.Context) bool { return db.Client.PingContext(ctx) == nil },
		RedisHealthy: redisClient.Healthy,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("starting server on :%s (model %s)", cfg.HTTPPort, provider.Name())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced shutdown: %v", err)
	}

	log.Println("server exited")
	return nil
}
