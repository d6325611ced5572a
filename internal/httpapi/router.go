package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/attendance"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/auth"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/dashboard"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/httpmiddleware"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/metrics"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/roster"
)

// RosterService is the registration and listing surface.
type RosterService interface {
	Register(ctx context.Context, in roster.RegisterInput) (roster.Student, error)
	List(ctx context.Context) ([]roster.Student, error)
	ListByClass(ctx context.Context, className string) ([]roster.Student, error)
	Classes(ctx context.Context) ([]string, error)
}

// AttendanceService is the marking and query surface.
type AttendanceService interface {
	Mark(ctx context.Context, className string, probe []byte) (attendance.MarkResult, error)
	Today(ctx context.Context) ([]attendance.Record, error)
	TodayByClass(ctx context.Context, className string) ([]attendance.Record, error)
}

// DashboardService serves aggregates.
type DashboardService interface {
	Stats(ctx context.Context) (dashboard.Stats, error)
}

// KioskService registers attendance kiosks.
type KioskService interface {
	Register(ctx context.Context, deviceID string) error
	RememberRefreshToken(ctx context.Context, deviceID, token string, expiresAt time.Time) error
}

// Config carries the transport-level knobs.
type Config struct {
	CORSOrigins     []string
	JWTIssuer       string
	JWTSigningKey   string
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	AuthRequired    bool
	RateLimitPerMin int
}

// Deps are the collaborators handlers delegate to.
type Deps struct {
	Roster       RosterService
	Attendance   AttendanceService
	Dashboard    DashboardService
	Kiosk        KioskService
	DBHealthy    func(ctx context.Context) bool
	RedisHealthy func(ctx context.Context) bool
}

// NewRouter builds the gin engine with all routes and middleware.
func NewRouter(cfg Config, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(httpmiddleware.CORS(cfg.CORSOrigins))
	r.Use(httpmiddleware.SecurityHeaders())
	if cfg.RateLimitPerMin > 0 {
		r.Use(httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())
	}

	h := &handlers{cfg: cfg, deps: deps}

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/healthz", h.healthz)

	api := r.Group("/api")
	api.GET("/", h.banner)
	api.GET("/dashboard/stats", h.dashboardStats)
	api.GET("/students", h.listStudents)
	api.GET("/students/class/:class_name", h.listStudentsByClass)
	api.GET("/attendance/today", h.todaysAttendance)
	api.GET("/attendance/class/:class_name", h.classAttendance)
	api.GET("/classes", h.listClasses)
	api.POST("/devices/register", h.registerDevice)

	mutating := api.Group("")
	if cfg.AuthRequired {
		mutating.Use(auth.DeviceAuth(cfg.JWTSigningKey, cfg.JWTIssuer))
	}
	mutating.POST("/students", h.createStudent)
	mutating.POST("/attendance/mark", h.markAttendance)

	return r
}

func (h *handlers) healthz(c *gin.Context) {
	ctx := c.Request.Context()
	dbHealthy := h.deps.DBHealthy == nil || h.deps.DBHealthy(ctx)
	redisHealthy := h.deps.RedisHealthy == nil || h.deps.RedisHealthy(ctx)
	status := http.StatusOK
	if !dbHealthy || !redisHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": "ok", "db": dbHealthy, "redis": redisHealthy})
}
