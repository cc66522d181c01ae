package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Jojie16/SafeZone/internal/model"
	"github.com/Jojie16/SafeZone/internal/repository"
	"github.com/Jojie16/SafeZone/pkg/logger"
	"github.com/Jojie16/SafeZone/pkg/prom"
	"github.com/Jojie16/SafeZone/pkg/redis"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("incident not found")
	ErrAlreadyClosed = errors.New("incident is already closed")
)

const (
	activeAlertsCacheKey = "alerts:active"

	resolvedBanner         = "Emergency resolved by dispatcher"
	resolutionChatMessage  = "🚨 EMERGENCY RESOLVED: This incident has been marked as solved and is now closed."
	emergencyMessageFormat = "🚨 EMERGENCY ALERT: I need help! Location: %v, %v"
	triggeredSummaryFormat = "Emergency alert triggered by %s"
)

type UserRepository interface {
	FindOrCreateByPhone(ctx context.Context, fullName, phoneNumber string) (*model.User, error)
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type IncidentRepository interface {
	Create(ctx context.Context, incident *model.Incident) (*model.Incident, error)
	GetByID(ctx context.Context, id int64) (*model.Incident, error)
	ListActive(ctx context.Context) ([]*model.ActiveAlert, error)
	MarkResolved(ctx context.Context, id int64, latestMessage string) error
	UpdateLatestMessage(ctx context.Context, id int64, text string) error
}

type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) (*model.Message, error)
	ListByIncident(ctx context.Context, incidentID int64) ([]*model.Message, error)
}

// DefaultLocation is the fallback written when a trigger carries no
// usable GPS fix.
type DefaultLocation struct {
	Lat      float64
	Lng      float64
	Accuracy float64
}

type AlertService struct {
	userRepo     UserRepository
	incidentRepo IncidentRepository
	messageRepo  MessageRepository
	cache        redis.RedisAdapter
	defaults     DefaultLocation
	cacheTTL     time.Duration
}

func NewAlertService(userRepo UserRepository, incidentRepo IncidentRepository, messageRepo MessageRepository, cache redis.RedisAdapter, defaults DefaultLocation, cacheTTL time.Duration) *AlertService {
	return &AlertService{
		userRepo:     userRepo,
		incidentRepo: incidentRepo,
		messageRepo:  messageRepo,
		cache:        cache,
		defaults:     defaults,
		cacheTTL:     cacheTTL,
	}
}

// Trigger raises a new incident. The whole sequence — resolve-or-create
// the reporter, insert the incident, write the opening emergency message
// — runs in one transaction, so a failure at any step leaves no partial
// state behind.
func (s *AlertService) Trigger(ctx context.Context, p model.AlertTriggerRequest) (*model.Incident, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	// A zero coordinate on either axis means "no fix"; substitute the
	// configured fallback before anything is written.
	if p.GpsLat == 0 || p.GpsLng == 0 {
		p.GpsLat = s.defaults.Lat
		p.GpsLng = s.defaults.Lng
		p.GpsAccuracy = s.defaults.Accuracy
		p.LocationMethod = model.LocationMethodDefault
	}
	if p.LocationMethod == "" {
		p.LocationMethod = "unknown"
	}

	start := time.Now()
	var created *model.Incident
	err := s.userRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.FindOrCreateByPhone(ctx, p.FullName, p.PhoneNumber)
		if err != nil {
			return fmt.Errorf("resolve user: %w", err)
		}

		incident := &model.Incident{
			UserID:         user.ID,
			GpsLat:         p.GpsLat,
			GpsLng:         p.GpsLng,
			GpsAccuracy:    p.GpsAccuracy,
			LocationMethod: p.LocationMethod,
			Status:         model.IncidentStatusActive,
			LatestMessage:  fmt.Sprintf(triggeredSummaryFormat, p.FullName),
		}
		created, err = s.incidentRepo.Create(ctx, incident)
		if err != nil {
			return fmt.Errorf("create incident: %w", err)
		}

		opening := &model.Message{
			IncidentID:  created.ID,
			Sender:      model.SenderUser,
			MessageText: fmt.Sprintf(emergencyMessageFormat, p.GpsLat, p.GpsLng),
		}
		if _, err := s.messageRepo.Create(ctx, opening); err != nil {
			return fmt.Errorf("create opening message: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache()
	prom.IncCounter(prom.SystemAlerts, prom.MetricAlertsTriggered)
	prom.Observe(prom.SystemAlerts, prom.MetricAlertTriggerDuration, time.Since(start).Seconds())
	return created, nil
}

// ListActive returns the dashboard view of open incidents, newest first.
// The redis cache only shortens the dashboard poll path; any cache
// failure falls through to the store.
func (s *AlertService) ListActive(ctx context.Context) ([]*model.ActiveAlert, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(activeAlertsCacheKey); err == nil {
			var cached []*model.ActiveAlert
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		} else if !errors.Is(err, redis.NilError) {
			logger.Warn("alert cache read failed", "error", err)
		}
	}

	alerts, err := s.incidentRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(alerts); err == nil {
			if err := s.cache.Set(activeAlertsCacheKey, raw, s.cacheTTL); err != nil {
				logger.Warn("alert cache write failed", "error", err)
			}
		}
	}
	return alerts, nil
}

// Resolve closes an active incident and appends the closing dispatcher
// annotation. Both writes share one transaction.
func (s *AlertService) Resolve(ctx context.Context, incidentID int64) error {
	if incidentID <= 0 {
		return fmt.Errorf("%w: valid incident id required", ErrValidation)
	}

	err := s.userRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.incidentRepo.MarkResolved(ctx, incidentID, resolvedBanner); err != nil {
			return err
		}

		closing := &model.Message{
			IncidentID:  incidentID,
			Sender:      model.SenderDispatcher,
			MessageText: resolutionChatMessage,
		}
		if _, err := s.messageRepo.Create(ctx, closing); err != nil {
			return fmt.Errorf("create resolution message: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrIncidentNotFound) {
			return ErrNotFound
		}
		if errors.Is(err, repository.ErrIncidentClosed) {
			return ErrAlreadyClosed
		}
		return err
	}

	s.invalidateCache()
	prom.IncCounter(prom.SystemAlerts, prom.MetricAlertsResolved)
	return nil
}

func (s *AlertService) invalidateCache() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(activeAlertsCacheKey); err != nil {
		logger.Warn("alert cache invalidation failed", "error", err)
	}
}
