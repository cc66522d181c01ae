package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jojie16/SafeZone/internal/model"
	"github.com/Jojie16/SafeZone/internal/repository"
	"github.com/Jojie16/SafeZone/pkg/logger"
	"github.com/Jojie16/SafeZone/pkg/prom"
	"github.com/Jojie16/SafeZone/pkg/redis"
)

type ChatService struct {
	incidentRepo IncidentRepository
	messageRepo  MessageRepository
	cache        redis.RedisAdapter
}

func NewChatService(incidentRepo IncidentRepository, messageRepo MessageRepository, cache redis.RedisAdapter) *ChatService {
	return &ChatService{
		incidentRepo: incidentRepo,
		messageRepo:  messageRepo,
		cache:        cache,
	}
}

// Append adds one chat entry to an incident. Chat stays open on closed
// incidents: a dispatcher can keep messaging a reporter after resolving.
//
// The message insert and the latest-message summary update are one
// logical unit, but a summary failure after a successful insert is
// reported and swallowed rather than rolled back; the summary is a
// derived value that the next append recomputes anyway.
func (s *ChatService) Append(ctx context.Context, p model.ChatMessageRequest) (*model.Message, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	if _, err := s.incidentRepo.GetByID(ctx, p.IncidentID); err != nil {
		if errors.Is(err, repository.ErrIncidentNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	msg := &model.Message{
		IncidentID:  p.IncidentID,
		Sender:      p.Sender,
		MessageText: p.MessageText,
		MediaPath:   p.MediaPath,
	}
	created, err := s.messageRepo.Create(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	if err := s.incidentRepo.UpdateLatestMessage(ctx, p.IncidentID, created.DisplayText()); err != nil {
		// known consistency gap: the message exists but the dashboard
		// preview is stale until the next append
		logger.Error("latest message update failed after append",
			"incident_id", p.IncidentID, "message_id", created.ID, "error", err)
		prom.IncCounter(prom.SystemChat, prom.MetricChatSummaryUpdateFail)
	} else {
		s.invalidateCache()
	}

	prom.IncCounter(prom.SystemChat, prom.MetricChatMessages)
	return created, nil
}

// GetChat returns the ordered transcript of one incident.
func (s *ChatService) GetChat(ctx context.Context, incidentID int64) ([]*model.Message, error) {
	if incidentID <= 0 {
		return nil, fmt.Errorf("%w: valid incident id required", ErrValidation)
	}

	if _, err := s.incidentRepo.GetByID(ctx, incidentID); err != nil {
		if errors.Is(err, repository.ErrIncidentNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.messageRepo.ListByIncident(ctx, incidentID)
}

func (s *ChatService) invalidateCache() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(activeAlertsCacheKey); err != nil {
		logger.Warn("alert cache invalidation failed", "error", err)
	}
}
