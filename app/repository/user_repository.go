package repository

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/LwandleM/SafeSuburb/app/models"
)

// Placeholder profile returned for ids the database no longer knows about.
// Batch lookups are a display fallback, never an error source.
const (
	UnknownProfileName  = "Unknown User"
	UnknownProfileEmail = "unknown@example.com"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database. A concurrent registration with
// the same email loses on the unique key and comes back as
// ErrDuplicateEmail, not as an opaque backend error.
func (r *userRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return translateUserCreateErr("create user", err)
	}
	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates an existing user in the database
func (r *userRepository) Update(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return remoteErr("update user", err)
	}
	return nil
}

// UpdateLastLogin stamps the user's last successful login
func (r *userRepository) UpdateLastLogin(id uint, at time.Time) error {
	err := r.db.Model(&models.User{}).Where("id = ?", id).
		Update("last_login_at", at).Error
	if err != nil {
		return remoteErr("update last login", err)
	}
	return nil
}

// Approve grants the account the right to file reports
func (r *userRepository) Approve(id uint) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]any{"approved": true, "updated_at": time.Now()})
	if res.Error != nil {
		return remoteErr("approve user", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFoundOrForbidden
	}
	return nil
}

// SetRole changes the user's role
func (r *userRepository) SetRole(id uint, role string) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]any{"role": role, "updated_at": time.Now()})
	if res.Error != nil {
		return remoteErr("set user role", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFoundOrForbidden
	}
	return nil
}

// HardDelete removes a user row permanently. Only the admin user-management
// flow uses this; report deletion stays logical.
func (r *userRepository) HardDelete(id uint) error {
	res := r.db.Unscoped().Delete(&models.User{}, id)
	if res.Error != nil {
		return remoteErr("delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFoundOrForbidden
	}
	return nil
}

// List retrieves a paginated list of users
func (r *userRepository) List(offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error
	if err != nil {
		return nil, remoteErr("list users", err)
	}
	return users, nil
}

// Count returns the total number of users
func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	if err != nil {
		return 0, remoteErr("count users", err)
	}
	return count, nil
}

// Search searches for users by name or email
func (r *userRepository) Search(query string) ([]models.User, error) {
	var users []models.User
	searchPattern := "%" + strings.TrimSpace(query) + "%"
	err := r.db.Where("name LIKE ? OR email LIKE ?", searchPattern, searchPattern).Find(&users).Error
	if err != nil {
		return nil, remoteErr("search users", err)
	}
	return users, nil
}

// BatchFetchProfiles resolves a set of user ids to display profiles. Input
// ids are deduplicated; ids the database does not return get the Unknown
// User placeholder.
func (r *userRepository) BatchFetchProfiles(ids []uint) (map[uint]Profile, error) {
	result := make(map[uint]Profile, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	seen := make(map[uint]struct{}, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	var rows []models.User
	err := r.db.Select("id", "name", "email").Where("id IN ?", unique).Find(&rows).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, remoteErr("batch fetch profiles", err)
	}

	for _, u := range rows {
		result[u.ID] = Profile{Name: u.Name, Email: u.Email}
	}
	for _, id := range unique {
		if _, ok := result[id]; !ok {
			result[id] = Profile{Name: UnknownProfileName, Email: UnknownProfileEmail}
		}
	}
	return result, nil
}
