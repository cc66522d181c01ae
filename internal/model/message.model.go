package model

import (
	"errors"
	"time"
)

// Sender identifies which side of the chat wrote a message.
type Sender string

const (
	SenderUser       Sender = "user"
	SenderDispatcher Sender = "dispatcher"
)

func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderDispatcher
}

// Message is one chat entry of an incident. Messages are append-only;
// the transcript order is created_at ascending with id as tiebreak.
type Message struct {
	ID          int64     `json:"id"           db:"id"           gorm:"primaryKey;autoIncrement;column:id"`
	IncidentID  int64     `json:"incident_id"  db:"incident_id"  gorm:"column:incident_id;not null;index"`
	Incident    *Incident `json:"-"                              gorm:"foreignKey:IncidentID;references:ID;constraint:OnDelete:CASCADE"`
	Sender      Sender    `json:"sender"       db:"sender"       gorm:"column:sender;not null"`
	MessageText string    `json:"message_text" db:"message_text" gorm:"column:message_text"`
	MediaPath   string    `json:"media_path"   db:"media_path"   gorm:"column:media_path"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"   gorm:"column:created_at;autoCreateTime"`
}

func (Message) TableName() string { return "messages" }

// DisplayText is the denormalized preview cached on the incident. It is
// recomputed from the message itself on every append so the cache cannot
// drift from the log.
func (m *Message) DisplayText() string {
	if m.MessageText != "" {
		return m.MessageText
	}
	return MediaSharedPlaceholder
}

const MediaSharedPlaceholder = "Media shared"

// ChatMessageRequest is the input for appending a chat message.
type ChatMessageRequest struct {
	IncidentID  int64
	Sender      Sender
	MessageText string
	MediaPath   string
}

func (p ChatMessageRequest) Validate() error {
	if p.IncidentID <= 0 {
		return errors.New("incident_id is required")
	}
	if !p.Sender.Valid() {
		return errors.New("sender must be user or dispatcher")
	}
	if p.MessageText == "" && p.MediaPath == "" {
		return errors.New("message_text or media is required")
	}
	return nil
}
