package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type CrimeReport struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	OBNumber           string         `gorm:"uniqueIndex;type:varchar(40);not null" json:"ob_number"`
	CrimeType          string         `gorm:"type:varchar(80);not null" json:"crime_type" validate:"required,max=80"`
	Description        string         `gorm:"type:text;not null" json:"description" validate:"required"`
	Location           string         `gorm:"type:varchar(200);not null" json:"location" validate:"required,max=200"`
	Suburb             string         `gorm:"type:varchar(120);not null" json:"suburb" validate:"required,max=120"`
	OccurredAt         *time.Time     `gorm:"type:timestamp;default:null" json:"occurred_at,omitempty"`
	SuspectDescription string         `gorm:"type:text" json:"suspect_description,omitempty"`
	WeaponsInvolved    bool           `gorm:"default:false" json:"weapons_involved"`
	Injuries           bool           `gorm:"default:false" json:"injuries"`
	SAPSCaseNumber     string         `gorm:"type:varchar(60);default:null" json:"saps_case_number,omitempty"`
	StationName        string         `gorm:"type:varchar(120);default:null" json:"station_name,omitempty"`
	Latitude           *float64       `json:"latitude,omitempty"`
	Longitude          *float64       `json:"longitude,omitempty"`
	HasImages          bool           `gorm:"default:false" json:"has_images"`
	ImageURLs          []string       `gorm:"serializer:json;type:text" json:"image_urls,omitempty"`
	UserID             uint           `gorm:"index;not null" json:"user_id"`
	User               *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status             string         `gorm:"type:varchar(20);default:'pending'" json:"status" validate:"oneof=pending active resolved rejected"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *CrimeReport) Validate() error {
	v := validator.New()
	if err := v.Struct(r); err != nil {
		return err
	}
	return validateGeoMedia(r.Latitude, r.Longitude, r.HasImages, r.ImageURLs)
}

// HasCoordinates reports whether the report can be placed on a map.
func (r *CrimeReport) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// SearchFields returns the fields matched by local dashboard search.
func (r *CrimeReport) SearchFields() []string {
	return []string{r.CrimeType, r.Location, r.Description, r.Suburb, r.OBNumber}
}
