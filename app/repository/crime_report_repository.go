package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/LwandleM/SafeSuburb/app/models"
)

// crimeReportRepository implements the CrimeReportRepository interface
type crimeReportRepository struct {
	db *gorm.DB
}

// NewCrimeReportRepository creates a new crime report repository instance
func NewCrimeReportRepository(db *gorm.DB) CrimeReportRepository {
	return &crimeReportRepository{db: db}
}

// Create creates a new crime report in the database
func (r *crimeReportRepository) Create(report *models.CrimeReport) error {
	if err := r.db.Create(report).Error; err != nil {
		return translateCreateErr("create crime report", err)
	}
	return nil
}

// GetByID retrieves a crime report by its ID
func (r *crimeReportRepository) GetByID(id uint) (*models.CrimeReport, error) {
	var report models.CrimeReport
	err := r.db.Preload("User").First(&report, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFoundOrForbidden
		}
		return nil, remoteErr("get crime report", err)
	}
	return &report, nil
}

// ListPage retrieves one page of reports ordered by creation time descending.
func (r *crimeReportRepository) ListPage(filter ListFilter, page, pageSize int) (*CrimeReportPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	q := r.db.Model(&models.CrimeReport{})
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
		return nil, remoteErr("count crime reports", err)
	}

	var items []models.CrimeReport
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&items).Error
	if err != nil {
		return nil, remoteErr("list crime reports", err)
	}

	return &CrimeReportPage{
		Items:      items,
		TotalCount: total,
		HasMore:    len(items) == pageSize,
	}, nil
}

// UpdateStatus transitions a report's status within the caller's scope.
func (r *crimeReportRepository) UpdateStatus(id uint, scope MutationScope, status string) error {
	if !models.IsValidStatus(status) {
		return models.ErrInvalidStatus
	}
	return r.mutate(id, scope, map[string]any{"status": status}, "update crime report status")
}

// UpdateFields applies a partial edit within the caller's scope.
func (r *crimeReportRepository) UpdateFields(id uint, scope MutationScope, patch map[string]any) error {
	delete(patch, "user_id")
	delete(patch, "ob_number")
	delete(patch, "created_at")
	return r.mutate(id, scope, patch, "update crime report")
}

// Delete soft deletes a report within the caller's scope.
func (r *crimeReportRepository) Delete(id uint, scope MutationScope) error {
	q := r.db.Where("id = ?", id)
	if !scope.Elevated {
		q = q.Where("user_id = ?", scope.UserID)
	}
	res := q.Delete(&models.CrimeReport{})
	if res.Error != nil {
		return remoteErr("delete crime report", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFoundOrForbidden
	}
	return nil
}

func (r *crimeReportRepository) mutate(id uint, scope MutationScope, patch map[string]any, op string) error {
	patch["updated_at"] = time.Now()

	q := r.db.Model(&models.CrimeReport{}).Where("id = ?", id)
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

// CountTotal returns the total number of crime reports
func (r *crimeReportRepository) CountTotal() (int64, error) {
	var count int64
	err := r.db.Model(&models.CrimeReport{}).Count(&count).Error
	if err != nil {
		return 0, remoteErr("count crime reports", err)
	}
	return count, nil
}

// CountByStatus returns the number of reports in the given status
func (r *crimeReportRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.CrimeReport{}).Where("status = ?", status).Count(&count).Error
	if err != nil {
		return 0, remoteErr("count crime reports by status", err)
	}
	return count, nil
}

// CountToday returns the number of reports filed since local midnight
func (r *crimeReportRepository) CountToday(now time.Time) (int64, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var count int64
	err := r.db.Model(&models.CrimeReport{}).Where("created_at >= ?", midnight).Count(&count).Error
	if err != nil {
		return 0, remoteErr("count today's crime reports", err)
	}
	return count, nil
}
