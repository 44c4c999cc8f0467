package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidStatusTransition(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		ok   bool
	}{
		{"pending to active", STATUS_PENDING, STATUS_ACTIVE, true},
		{"pending to rejected", STATUS_PENDING, STATUS_REJECTED, true},
		{"pending to resolved skips activation", STATUS_PENDING, STATUS_RESOLVED, false},
		{"active to resolved", STATUS_ACTIVE, STATUS_RESOLVED, true},
		{"active to rejected", STATUS_ACTIVE, STATUS_REJECTED, true},
		{"active back to pending", STATUS_ACTIVE, STATUS_PENDING, false},
		{"resolved is terminal", STATUS_RESOLVED, STATUS_ACTIVE, false},
		{"rejected is terminal", STATUS_REJECTED, STATUS_ACTIVE, false},
		{"unknown status", "stolen", STATUS_ACTIVE, false},
		{"unknown target", STATUS_ACTIVE, "gone", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, IsValidStatusTransition(tt.from, tt.to))
		})
	}
}

func TestNewOBNumber(t *testing.T) {
	now := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)

	ob := NewOBNumber(now)
	assert.True(t, strings.HasPrefix(ob, "OB-20260823-"))
	assert.Len(t, ob, len("OB-20260823-")+8)

	// Two consecutive numbers should differ
	assert.NotEqual(t, ob, NewOBNumber(now))
}

func TestVehicleAlertValidate(t *testing.T) {
	lat := -33.92
	lon := 18.42
	badLat := 123.0

	base := func() VehicleAlert {
		return VehicleAlert{
			OBNumber: "OB-20260823-AABBCCDD",
			Plate:    "CA123456",
			Reason:   "stolen from driveway",
			UserID:   1,
			Status:   STATUS_PENDING,
		}
	}

	t.Run("valid without coordinates", func(t *testing.T) {
		a := base()
		assert.NoError(t, a.Validate())
		assert.False(t, a.HasCoordinates())
	})

	t.Run("valid with coordinates", func(t *testing.T) {
		a := base()
		a.Latitude = &lat
		a.Longitude = &lon
		assert.NoError(t, a.Validate())
		assert.True(t, a.HasCoordinates())
	})

	t.Run("latitude without longitude", func(t *testing.T) {
		a := base()
		a.Latitude = &lat
		assert.Error(t, a.Validate())
	})

	t.Run("latitude out of range", func(t *testing.T) {
		a := base()
		a.Latitude = &badLat
		a.Longitude = &lon
		assert.Error(t, a.Validate())
	})

	t.Run("has_images without urls", func(t *testing.T) {
		a := base()
		a.HasImages = true
		assert.Error(t, a.Validate())
	})

	t.Run("urls without has_images", func(t *testing.T) {
		a := base()
		a.ImageURLs = []string{"https://img.example.com/a.jpg"}
		assert.Error(t, a.Validate())
	})

	t.Run("missing plate", func(t *testing.T) {
		a := base()
		a.Plate = ""
		assert.Error(t, a.Validate())
	})
}

func TestCrimeReportValidate(t *testing.T) {
	r := CrimeReport{
		OBNumber:    "OB-20260823-00112233",
		CrimeType:   "burglary",
		Description: "forced entry through back window",
		Location:    "12 Main Rd",
		Suburb:      "Observatory",
		UserID:      2,
		Status:      STATUS_PENDING,
	}
	assert.NoError(t, r.Validate())

	r.Suburb = ""
	assert.Error(t, r.Validate())
}

func TestUserValidate(t *testing.T) {
	u, err := CreateUser("Nomsa D", "nomsa@example.com", "s3cret-pw")
	assert.NoError(t, err)
	assert.Equal(t, ROLE_USER, u.Role)
	assert.False(t, u.Approved)
	assert.False(t, u.CanFileReports())
	assert.True(t, u.CheckPassword("s3cret-pw"))
	assert.False(t, u.CheckPassword("wrong"))

	u.Role = ROLE_MODERATOR
	assert.True(t, u.IsElevated())
}
