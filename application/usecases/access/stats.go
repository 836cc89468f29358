package access

import (
	"time"

	apperrors "facegate.io/application/appErrors"
	"facegate.io/application/config"
	"facegate.io/entities"
)

type counterRepository interface {
	CountDocs(filter map[string]interface{}) (int64, error)
}

// StatsService answers the dashboard's counters straight from the stores.
type StatsService struct {
	users     counterRepository
	templates counterRepository
	events    counterRepository
	alerts    counterRepository
	settings  *config.Settings
	now       func() time.Time
}

func NewStatsService(users, templates, events, alerts counterRepository, settings *config.Settings) *StatsService {
	return &StatsService{
		users:     users,
		templates: templates,
		events:    events,
		alerts:    alerts,
		settings:  settings,
		now:       time.Now,
	}
}

// StatsThresholds exposes the engine's configured floors so operators can
// read alongside the counters what the engine is currently enforcing.
type StatsThresholds struct {
	Acceptance float64 `json:"acceptance"`
	Liveness   float64 `json:"liveness"`
	Spoof      float64 `json:"spoof"`
}

type StatsSnapshot struct {
	ActiveUsers    int64           `json:"activeUsers"`
	Templates      int64           `json:"templates"`
	EventsToday    int64           `json:"eventsToday"`
	PermittedToday int64           `json:"permittedToday"`
	DeniedToday    int64           `json:"deniedToday"`
	OpenAlerts     int64           `json:"openAlerts"`
	Thresholds     StatsThresholds `json:"thresholds"`
}

func (s *StatsService) Snapshot() (*StatsSnapshot, error) {
	snapshot := &StatsSnapshot{
		Thresholds: StatsThresholds{
			Acceptance: s.settings.AcceptanceThreshold,
			Liveness:   s.settings.LivenessThreshold,
			Spoof:      s.settings.SpoofProbabilityThreshold,
		},
	}
	var err error

	if snapshot.ActiveUsers, err = s.users.CountDocs(map[string]interface{}{
		"active":    true,
		"deletedAt": nil,
	}); err != nil {
		return nil, apperrors.StoreFault{Reason: "failed to count users", Err: err}
	}

	if snapshot.Templates, err = s.templates.CountDocs(map[string]interface{}{
		"deletedAt": nil,
	}); err != nil {
		return nil, apperrors.StoreFault{Reason: "failed to count templates", Err: err}
	}

	dayStart := s.dayStart()
	todayFilter := map[string]interface{}{
		"occurredAt": map[string]interface{}{"$gte": dayStart},
	}
	if snapshot.EventsToday, err = s.events.CountDocs(todayFilter); err != nil {
		return nil, apperrors.StoreFault{Reason: "failed to count events", Err: err}
	}

	if snapshot.PermittedToday, err = s.events.CountDocs(map[string]interface{}{
		"occurredAt": map[string]interface{}{"$gte": dayStart},
		"decision":   entities.DecisionPermitted,
	}); err != nil {
		return nil, apperrors.StoreFault{Reason: "failed to count permitted events", Err: err}
	}
	snapshot.DeniedToday = snapshot.EventsToday - snapshot.PermittedToday

	if snapshot.OpenAlerts, err = s.alerts.CountDocs(map[string]interface{}{
		"acknowledged": false,
		"deletedAt":    nil,
	}); err != nil {
		return nil, apperrors.StoreFault{Reason: "failed to count alerts", Err: err}
	}

	return snapshot, nil
}

func (s *StatsService) dayStart() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
