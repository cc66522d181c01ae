package repository

import (
	"time"

	"github.com/Jojie16/SafeZone/internal/model"
)

type MessageEntity struct {
	ID          int64           `db:"id"           gorm:"primaryKey;autoIncrement;column:id"`
	IncidentID  int64           `db:"incident_id"  gorm:"column:incident_id;not null;index"`
	Sender      string          `db:"sender"       gorm:"column:sender;not null"`
	MessageText string          `db:"message_text" gorm:"column:message_text"`
	MediaPath   string          `db:"media_path"   gorm:"column:media_path"`
	CreatedAt   time.Time       `db:"created_at"   gorm:"column:created_at;autoCreateTime"`
	Incident    *IncidentEntity `gorm:"foreignKey:IncidentID"`
}

func (MessageEntity) TableName() string {
	return "messages"
}

func toMessageEntity(m *model.Message) *MessageEntity {
	if m == nil {
		return nil
	}
	return &MessageEntity{
		ID:          m.ID,
		IncidentID:  m.IncidentID,
		Sender:      string(m.Sender),
		MessageText: m.MessageText,
		MediaPath:   m.MediaPath,
		CreatedAt:   m.CreatedAt,
	}
}

func toMessageModel(e *MessageEntity) *model.Message {
	if e == nil {
		return nil
	}
	return &model.Message{
		ID:          e.ID,
		IncidentID:  e.IncidentID,
		Sender:      model.Sender(e.Sender),
		MessageText: e.MessageText,
		MediaPath:   e.MediaPath,
		CreatedAt:   e.CreatedAt,
	}
}

func toMessageModels(entities []*MessageEntity) []*model.Message {
	if entities == nil {
		return nil
	}
	models := make([]*model.Message, len(entities))
	for i, e := range entities {
		models[i] = toMessageModel(e)
	}
	return models
}
