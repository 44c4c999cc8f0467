package models

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Table names as created by gorm; shared with the realtime changefeed.
const (
	TableVehicleAlerts = "vehicle_alerts"
	TableCrimeReports  = "crime_reports"
)

// Report status vocabulary. ACTIVE/RECOVERED from the older dashboards map
// onto active/resolved here; rejected is the terminal moderation outcome.
const (
	STATUS_PENDING  = "pending"
	STATUS_ACTIVE   = "active"
	STATUS_RESOLVED = "resolved"
	STATUS_REJECTED = "rejected"
)

var ErrInvalidStatus = errors.New("invalid report status")

// ErrValidation marks domain validation failures (geo pair, image flag) so
// the API layer can answer 422 instead of treating them as server faults.
var ErrValidation = errors.New("validation failed")

func IsValidStatus(s string) bool {
	switch s {
	case STATUS_PENDING, STATUS_ACTIVE, STATUS_RESOLVED, STATUS_REJECTED:
		return true
	}
	return false
}

// IsValidStatusTransition encodes the report lifecycle:
// pending -> active | rejected, active -> resolved | rejected.
// Resolved and rejected are terminal.
func IsValidStatusTransition(from, to string) bool {
	if !IsValidStatus(from) || !IsValidStatus(to) {
		return false
	}
	switch from {
	case STATUS_PENDING:
		return to == STATUS_ACTIVE || to == STATUS_REJECTED
	case STATUS_ACTIVE:
		return to == STATUS_RESOLVED || to == STATUS_REJECTED
	}
	return false
}

// NewOBNumber generates a fresh occurrence-book reference, e.g.
// OB-20260823-9F2C41B7. Uniqueness is ultimately enforced by the database.
func NewOBNumber(now time.Time) string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(err)
	}
	return fmt.Sprintf("OB-%s-%s", now.Format("20060102"), strings.ToUpper(hex.EncodeToString(b)))
}

// validateGeoMedia checks the shared invariants of both report kinds:
// coordinates are both present or both absent and within range, and the
// image flag matches the image list.
func validateGeoMedia(lat, lon *float64, hasImages bool, imageURLs []string) error {
	if (lat == nil) != (lon == nil) {
		return fmt.Errorf("%w: latitude and longitude must be set together", ErrValidation)
	}
	if lat != nil {
		if *lat < -90 || *lat > 90 {
			return fmt.Errorf("%w: latitude out of range: %f", ErrValidation, *lat)
		}
		if *lon < -180 || *lon > 180 {
			return fmt.Errorf("%w: longitude out of range: %f", ErrValidation, *lon)
		}
	}
	if hasImages && len(imageURLs) == 0 {
		return fmt.Errorf("%w: has_images set but no image urls", ErrValidation)
	}
	if !hasImages && len(imageURLs) > 0 {
		return fmt.Errorf("%w: image urls present but has_images not set", ErrValidation)
	}
	return nil
}
