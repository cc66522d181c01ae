package repository

import (
	"time"

	"github.com/Jojie16/SafeZone/internal/model"
)

type IncidentEntity struct {
	ID             int64       `db:"id"              gorm:"primaryKey;autoIncrement;column:id"`
	UserID         int64       `db:"user_id"         gorm:"column:user_id;not null;index"`
	GpsLat         float64     `db:"gps_lat"         gorm:"column:gps_lat;not null"`
	GpsLng         float64     `db:"gps_lng"         gorm:"column:gps_lng;not null"`
	GpsAccuracy    float64     `db:"gps_accuracy"    gorm:"column:gps_accuracy;not null;default:0"`
	LocationMethod string      `db:"location_method" gorm:"column:location_method;not null;default:unknown"`
	Status         string      `db:"status"          gorm:"column:status;not null;default:active;index"`
	LatestMessage  string      `db:"latest_message"  gorm:"column:latest_message"`
	CreatedAt      time.Time   `db:"created_at"      gorm:"column:created_at;autoCreateTime"`
	User           *UserEntity `gorm:"foreignKey:UserID"`
}

func (IncidentEntity) TableName() string {
	return "incidents"
}

func toIncidentEntity(m *model.Incident) *IncidentEntity {
	if m == nil {
		return nil
	}
	return &IncidentEntity{
		ID:             m.ID,
		UserID:         m.UserID,
		GpsLat:         m.GpsLat,
		GpsLng:         m.GpsLng,
		GpsAccuracy:    m.GpsAccuracy,
		LocationMethod: m.LocationMethod,
		Status:         string(m.Status),
		LatestMessage:  m.LatestMessage,
		CreatedAt:      m.CreatedAt,
	}
}

func toIncidentModel(e *IncidentEntity) *model.Incident {
	if e == nil {
		return nil
	}
	return &model.Incident{
		ID:             e.ID,
		UserID:         e.UserID,
		GpsLat:         e.GpsLat,
		GpsLng:         e.GpsLng,
		GpsAccuracy:    e.GpsAccuracy,
		LocationMethod: e.LocationMethod,
		Status:         model.IncidentStatus(e.Status),
		LatestMessage:  e.LatestMessage,
		CreatedAt:      e.CreatedAt,
	}
}

// ActiveAlertRow is the join of an active incident with its reporter used
// by the dashboard list query.
type ActiveAlertRow struct {
	ID             int64     `gorm:"column:id"`
	UserID         int64     `gorm:"column:user_id"`
	GpsLat         float64   `gorm:"column:gps_lat"`
	GpsLng         float64   `gorm:"column:gps_lng"`
	GpsAccuracy    float64   `gorm:"column:gps_accuracy"`
	LocationMethod string    `gorm:"column:location_method"`
	Status         string    `gorm:"column:status"`
	LatestMessage  string    `gorm:"column:latest_message"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UserName       string    `gorm:"column:user_name"`
}

func toActiveAlertModel(row *ActiveAlertRow) *model.ActiveAlert {
	if row == nil {
		return nil
	}
	name := row.UserName
	if name == "" {
		name = "Unknown User"
	}
	return &model.ActiveAlert{
		Incident: model.Incident{
			ID:             row.ID,
			UserID:         row.UserID,
			GpsLat:         row.GpsLat,
			GpsLng:         row.GpsLng,
			GpsAccuracy:    row.GpsAccuracy,
			LocationMethod: row.LocationMethod,
			Status:         model.IncidentStatus(row.Status),
			LatestMessage:  row.LatestMessage,
			CreatedAt:      row.CreatedAt,
		},
		UserName: name,
	}
}

func toActiveAlertModels(rows []*ActiveAlertRow) []*model.ActiveAlert {
	if rows == nil {
		return nil
	}
	alerts := make([]*model.ActiveAlert, len(rows))
	for i, row := range rows {
		alerts[i] = toActiveAlertModel(row)
	}
	return alerts
}
