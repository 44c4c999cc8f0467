package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/LwandleM/SafeSuburb/app/models"
)

// vehicleAlertRepository implements the VehicleAlertRepository interface
type vehicleAlertRepository struct {
	db *gorm.DB
}

// NewVehicleAlertRepository creates a new vehicle alert repository instance
func NewVehicleAlertRepository(db *gorm.DB) VehicleAlertRepository {
	return &vehicleAlertRepository{db: db}
}

// Create creates a new vehicle alert in the database
func (r *vehicleAlertRepository) Create(alert *models.VehicleAlert) error {
	if err := r.db.Create(alert).Error; err != nil {
		return translateCreateErr("create vehicle alert", err)
	}
	return nil
}

// GetByID retrieves a vehicle alert by its ID
func (r *vehicleAlertRepository) GetByID(id uint) (*models.VehicleAlert, error) {
	var alert models.VehicleAlert
	err := r.db.Preload("User").First(&alert, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFoundOrForbidden
		}
		return nil, remoteErr("get vehicle alert", err)
	}
	return &alert, nil
}

// ListPage retrieves one page of alerts ordered by creation time descending.
// HasMore is derived from the fetched page length, matching the dashboard's
// load-more contract.
func (r *vehicleAlertRepository) ListPage(filter ListFilter, page, pageSize int) (*VehicleAlertPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	q := r.db.Model(&models.VehicleAlert{})
	if filter.OwnerID != 0 {
		q = q.Where("user_id = ?", filter.OwnerID)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, remoteErr("count vehicle alerts", err)
	}

	var items []models.VehicleAlert
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&items).Error
	if err != nil {
		return nil, remoteErr("list vehicle alerts", err)
	}

	return &VehicleAlertPage{
		Items:      items,
		TotalCount: total,
		HasMore:    len(items) == pageSize,
	}, nil
}

// UpdateStatus transitions an alert's status within the caller's scope.
// Zero matched rows surfaces as ErrNotFoundOrForbidden, never a silent no-op.
func (r *vehicleAlertRepository) UpdateStatus(id uint, scope MutationScope, status string) error {
	if !models.IsValidStatus(status) {
		return models.ErrInvalidStatus
	}
	return r.mutate(id, scope, map[string]any{"status": status}, "update vehicle alert status")
}

// UpdateFields applies a partial edit within the caller's scope.
func (r *vehicleAlertRepository) UpdateFields(id uint, scope MutationScope, patch map[string]any) error {
	// Ownership and identity are immutable after creation.
	delete(patch, "user_id")
	delete(patch, "ob_number")
	delete(patch, "created_at")
	return r.mutate(id, scope, patch, "update vehicle alert")
}

// Delete soft deletes an alert within the caller's scope.
func (r *vehicleAlertRepository) Delete(id uint, scope MutationScope) error {
	q := r.db.Where("id = ?", id)
	if !scope.Elevated {
		q = q.Where("user_id = ?", scope.UserID)
	}
	res := q.Delete(&models.VehicleAlert{})
	if res.Error != nil {
		return remoteErr("delete vehicle alert", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFoundOrForbidden
	}
	return nil
}

func (r *vehicleAlertRepository) mutate(id uint, scope MutationScope, patch map[string]any, op string) error {
	// Touch updated_at so MySQL reports a matched-and-changed row even when
	// the patch values equal the current ones.
	patch["updated_at"] = time.Now()

	q := r.db.Model(&models.VehicleAlert{}).Where("id = ?", id)
	if !scope.Elevated {
		q = q.Where("user_id = ?", scope.UserID)
	}
	res := q.Updates(patch)
	if res.Error != nil {
		return remoteErr(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFoundOrForbidden
	}
	return nil
}

// CountTotal returns the total number of alerts
func (r *vehicleAlertRepository) CountTotal() (int64, error) {
	var count int64
	err := r.db.Model(&models.VehicleAlert{}).Count(&count).Error
	if err != nil {
		return 0, remoteErr("count vehicle alerts", err)
	}
	return count, nil
}

// CountByStatus returns the number of alerts in the given status
func (r *vehicleAlertRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.VehicleAlert{}).Where("status = ?", status).Count(&count).Error
	if err != nil {
		return 0, remoteErr("count vehicle alerts by status", err)
	}
	return count, nil
}

// CountToday returns the number of alerts filed since local midnight
func (r *vehicleAlertRepository) CountToday(now time.Time) (int64, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var count int64
	err := r.db.Model(&models.VehicleAlert{}).Where("created_at >= ?", midnight).Count(&count).Error
	if err != nil {
		return 0, remoteErr("count today's vehicle alerts", err)
	}
	return count, nil
}
