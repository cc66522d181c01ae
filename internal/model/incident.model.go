package model

import (
	"errors"
	"time"
)

// IncidentStatus is the lifecycle state of an incident.
type IncidentStatus string

const (
	IncidentStatusActive IncidentStatus = "active"
	IncidentStatusClosed IncidentStatus = "closed"
)

// LocationMethodDefault marks incidents whose coordinates were replaced
// by the configured fallback because the trigger carried no GPS fix.
const LocationMethodDefault = "default"

type Incident struct {
	ID             int64          `json:"id"              db:"id"              gorm:"primaryKey;autoIncrement;column:id"`
	UserID         int64          `json:"user_id"         db:"user_id"         gorm:"column:user_id;not null;index"`
	User           *User          `json:"-"                                    gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	GpsLat         float64        `json:"gps_lat"         db:"gps_lat"         gorm:"column:gps_lat;not null"`
	GpsLng         float64        `json:"gps_lng"         db:"gps_lng"         gorm:"column:gps_lng;not null"`
	GpsAccuracy    float64        `json:"gps_accuracy"    db:"gps_accuracy"    gorm:"column:gps_accuracy;not null;default:0"`
	LocationMethod string         `json:"location_method" db:"location_method" gorm:"column:location_method;not null;default:unknown"`
	Status         IncidentStatus `json:"status"          db:"status"          gorm:"column:status;not null;default:active"`
	LatestMessage  string         `json:"latest_message"  db:"latest_message"  gorm:"column:latest_message"`
	CreatedAt      time.Time      `json:"created_at"      db:"created_at"      gorm:"column:created_at;autoCreateTime"`
}

func (Incident) TableName() string { return "incidents" }

// ActiveAlert is an incident joined with its reporter's display name, as
// shown on the dispatcher dashboard.
type ActiveAlert struct {
	Incident
	UserName string `json:"user_name"`
}

// AlertTriggerRequest is the input for raising a new incident.
type AlertTriggerRequest struct {
	FullName       string
	PhoneNumber    string
	GpsLat         float64
	GpsLng         float64
	GpsAccuracy    float64
	LocationMethod string
}

func (p AlertTriggerRequest) Validate() error {
	if p.FullName == "" {
		return errors.New("full_name is required")
	}
	if p.PhoneNumber == "" {
		return errors.New("phone_number is required")
	}
	return nil
}
