package dashboard

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/store"
)

const cacheKey = "dashboard:stats"

// Stats is the aggregate view served to the dashboard.
type Stats struct {
	TotalStudents  int      `json:"total_students"`
	PresentToday   int      `json:"present_today"`
	AttendanceRate float64  `json:"attendance_rate"`
	ActiveClasses  []string `json:"active_classes"`
}

// RosterCounts is the roster slice the dashboard needs.
type RosterCounts interface {
	Count(ctx context.Context) (int, error)
	Classes(ctx context.Context) ([]string, error)
}

// Presence counts today's attendance.
type Presence interface {
	PresentToday(ctx context.Context) (int, error)
}

// Service aggregates dashboard statistics with a best-effort redis cache.
type Service struct {
	roster     RosterCounts
	attendance Presence
	cache      *store.Redis
	cacheTTL   time.Duration
}

// NewService creates the dashboard service. cache may be nil to disable caching.
func NewService(roster RosterCounts, attendance Presence, cache *store.Redis, cacheTTL time.Duration) *Service {
	return &Service{roster: roster, attendance: attendance, cache: cache, cacheTTL: cacheTTL}
}

// Stats computes totals, present-today count, the attendance rate rounded to
// one decimal (zero when no students are registered) and the active classes.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	if cached, ok := s.cache.GetString(ctx, cacheKey); ok {
		var stats Stats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return stats, nil
		}
	}

	total, err := s.roster.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	present, err := s.attendance.PresentToday(ctx)
	if err != nil {
		return Stats{}, err
	}
	classes, err := s.roster.Classes(ctx)
	if err != nil {
		return Stats{}, err
	}
	if classes == nil {
		classes = []string{}
	}

	stats := Stats{
		TotalStudents:  total,
		PresentToday:   present,
		AttendanceRate: rate(present, total),
		ActiveClasses:  classes,
	}

	if payload, err := json.Marshal(stats); err == nil {
		s.cache.SetString(ctx, cacheKey, string(payload), s.cacheTTL)
	}
	return stats, nil
}

// rate returns presentToday/totalStudents*100 rounded to one decimal, or 0
// when the roster is empty.
func rate(present, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(present)/float64(total)*1000) / 10
}
