package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/LwandleM/SafeSuburb/app/models"
)

// ListFilter narrows a report list query. A zero OwnerID means all owners.
type ListFilter struct {
	OwnerID  uint
	Statuses []string
	Since    time.Time
}

// MutationScope restricts a mutation to rows the caller may touch.
// Elevated callers (moderator/admin) bypass the ownership predicate; the
// database remains the final authority either way.
type MutationScope struct {
	UserID   uint
	Elevated bool
}

// VehicleAlertPage is one page of a paginated alert listing.
type VehicleAlertPage struct {
	Items      []models.VehicleAlert
	TotalCount int64
	HasMore    bool
}

// CrimeReportPage is one page of a paginated crime report listing.
type CrimeReportPage struct {
	Items      []models.CrimeReport
	TotalCount int64
	HasMore    bool
}

// Profile is the display subset of a user returned by batch lookups.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// VehicleAlertRepository defines the gateway for vehicle alert persistence.
type VehicleAlertRepository interface {
	Create(alert *models.VehicleAlert) error
	GetByID(id uint) (*models.VehicleAlert, error)
	ListPage(filter ListFilter, page, pageSize int) (*VehicleAlertPage, error)
	UpdateStatus(id uint, scope MutationScope, status string) error
	UpdateFields(id uint, scope MutationScope, patch map[string]any) error
	Delete(id uint, scope MutationScope) error
	CountTotal() (int64, error)
	CountByStatus(status string) (int64, error)
	CountToday(now time.Time) (int64, error)
}

// CrimeReportRepository defines the gateway for crime report persistence.
type CrimeReportRepository interface {
	Create(report *models.CrimeReport) error
	GetByID(id uint) (*models.CrimeReport, error)
	ListPage(filter ListFilter, page, pageSize int) (*CrimeReportPage, error)
	UpdateStatus(id uint, scope MutationScope, status string) error
	UpdateFields(id uint, scope MutationScope, patch map[string]any) error
	Delete(id uint, scope MutationScope) error
	CountTotal() (int64, error)
	CountByStatus(status string) (int64, error)
	CountToday(now time.Time) (int64, error)
}

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	UpdateLastLogin(id uint, at time.Time) error
	Approve(id uint) error
	SetRole(id uint, role string) error
	HardDelete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	Search(query string) ([]models.User, error)
	BatchFetchProfiles(ids []uint) (map[uint]Profile, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	VehicleAlert VehicleAlertRepository
	CrimeReport  CrimeReportRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		VehicleAlert: NewVehicleAlertRepository(db),
		CrimeReport:  NewCrimeReportRepository(db),
	}
}
