package repository

import (
	"context"
	"errors"

	"github.com/Jojie16/SafeZone/internal/model"
	"github.com/Jojie16/SafeZone/pkg/pg"
	"gorm.io/gorm"
)

var (
	// ErrIncidentNotFound is returned when the referenced incident does not exist.
	ErrIncidentNotFound = errors.New("incident not found")
	// ErrIncidentClosed is returned when resolving an incident that is not active.
	ErrIncidentClosed = errors.New("incident is already closed")
)

type IncidentRepository struct {
	*pg.DB
}

func NewIncidentRepository(db *pg.DB) *IncidentRepository {
	return &IncidentRepository{
		db,
	}
}

func (r *IncidentRepository) Create(ctx context.Context, incident *model.Incident) (*model.Incident, error) {
	entity := toIncidentEntity(incident)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toIncidentModel(entity), nil
}

func (r *IncidentRepository) GetByID(ctx context.Context, id int64) (*model.Incident, error) {
	var entity IncidentEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIncidentNotFound
		}
		return nil, err
	}
	return toIncidentModel(&entity), nil
}

// ListActive returns active incidents joined with the reporter's display
// name, newest alert first.
func (r *IncidentRepository) ListActive(ctx context.Context) ([]*model.ActiveAlert, error) {
	var rows []*ActiveAlertRow
	err := r.Read(ctx).
		Table("incidents AS i").
		Select("i.id, i.user_id, i.gps_lat, i.gps_lng, i.gps_accuracy, i.location_method, i.status, i.latest_message, i.created_at, u.full_name AS user_name").
		Joins("JOIN users AS u ON u.id = i.user_id").
		Where("i.status = ?", string(model.IncidentStatusActive)).
		Order("i.created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toActiveAlertModels(rows), nil
}

// MarkResolved flips an active incident to closed and overwrites its
// latest-message summary with the resolution banner. The guard on the
// current status makes the transition one-way: a closed incident is
// reported as ErrIncidentClosed and left untouched.
func (r *IncidentRepository) MarkResolved(ctx context.Context, id int64, latestMessage string) error {
	var entity IncidentEntity
	err := r.Write(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIncidentNotFound
		}
		return err
	}

	if entity.Status != string(model.IncidentStatusActive) {
		return ErrIncidentClosed
	}

	result := r.Write(ctx).
		Model(&IncidentEntity{}).
		Where("id = ? AND status = ?", id, string(model.IncidentStatusActive)).
		Updates(map[string]interface{}{
			"status":         string(model.IncidentStatusClosed),
			"latest_message": latestMessage,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// lost a race with a concurrent resolve
		return ErrIncidentClosed
	}
	return nil
}

// UpdateLatestMessage unconditionally overwrites the denormalized summary
// shown on the dashboard list.
func (r *IncidentRepository) UpdateLatestMessage(ctx context.Context, id int64, text string) error {
	result := r.Write(ctx).
		Model(&IncidentEntity{}).
		Where("id = ?", id).
		Update("latest_message", text)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrIncidentNotFound
	}
	return nil
}
