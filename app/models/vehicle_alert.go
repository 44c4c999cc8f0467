package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type VehicleAlert struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OBNumber       string         `gorm:"uniqueIndex;type:varchar(40);not null" json:"ob_number"`
	Plate          string         `gorm:"type:varchar(20);not null" json:"plate" validate:"required,min=2,max=20"`
	Make           string         `gorm:"type:varchar(80)" json:"make" validate:"max=80"`
	Model          string         `gorm:"type:varchar(80)" json:"model" validate:"max=80"`
	Color          string         `gorm:"type:varchar(40)" json:"color" validate:"max=40"`
	Reason         string         `gorm:"type:text;not null" json:"reason" validate:"required"`
	SAPSCaseNumber string         `gorm:"type:varchar(60);default:null" json:"saps_case_number,omitempty"`
	StationName    string         `gorm:"type:varchar(120);default:null" json:"station_name,omitempty"`
	IncidentDate   *time.Time     `gorm:"type:timestamp;default:null" json:"incident_date,omitempty"`
	Latitude       *float64       `json:"latitude,omitempty"`
	Longitude      *float64       `json:"longitude,omitempty"`
	HasImages      bool           `gorm:"default:false" json:"has_images"`
	ImageURLs      []string       `gorm:"serializer:json;type:text" json:"image_urls,omitempty"`
	UserID         uint           `gorm:"index;not null" json:"user_id"`
	User           *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status         string         `gorm:"type:varchar(20);default:'pending'" json:"status" validate:"oneof=pending active resolved rejected"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *VehicleAlert) Validate() error {
	v := validator.New()
	if err := v.Struct(a); err != nil {
		return err
	}
	return validateGeoMedia(a.Latitude, a.Longitude, a.HasImages, a.ImageURLs)
}

// HasCoordinates reports whether the alert can be placed on a map.
func (a *VehicleAlert) HasCoordinates() bool {
	return a.Latitude != nil && a.Longitude != nil
}

// SearchFields returns the fields matched by local dashboard search.
func (a *VehicleAlert) SearchFields() []string {
	return []string{a.Plate, a.Make, a.Model, a.Color, a.OBNumber}
}
