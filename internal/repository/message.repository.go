package repository

import (
	"context"

	"github.com/Jojie16/SafeZone/internal/model"
	"github.com/Jojie16/SafeZone/pkg/pg"
)

type MessageRepository struct {
	*pg.DB
}

func NewMessageRepository(db *pg.DB) *MessageRepository {
	return &MessageRepository{
		db,
	}
}

func (r *MessageRepository) Create(ctx context.Context, msg *model.Message) (*model.Message, error) {
	entity := toMessageEntity(msg)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toMessageModel(entity), nil
}

// ListByIncident returns the chat transcript of one incident. Ordering by
// created_at with id as tiebreak keeps the transcript stable when two
// messages land within the same clock tick.
func (r *MessageRepository) ListByIncident(ctx context.Context, incidentID int64) ([]*model.Message, error) {
	var entities []*MessageEntity
	err := r.Read(ctx).
		Where("incident_id = ?", incidentID).
		Order("created_at ASC, id ASC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toMessageModels(entities), nil
}
