package controllers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LwandleM/SafeSuburb/app/models"
)

func floatp(v float64) *float64 { return &v }
func strp(s string) *string     { return &s }

func validAlert() models.VehicleAlert {
	return models.VehicleAlert{
		OBNumber: "OB-20260823-AABBCCDD",
		Plate:    "CA123456",
		Reason:   "stolen from driveway",
		UserID:   1,
		Status:   models.STATUS_PENDING,
	}
}

func TestAlertPatchValidatesMergedRecord(t *testing.T) {
	t.Run("latitude without longitude rejected", func(t *testing.T) {
		alert := validAlert()
		patch := applyAlertPatch(&alert, patchAlertRequest{Latitude: floatp(-33.92)})
		require.Len(t, patch, 1)

		err := alert.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrValidation))
	})

	t.Run("out of range latitude rejected", func(t *testing.T) {
		alert := validAlert()
		patch := applyAlertPatch(&alert, patchAlertRequest{
			Latitude:  floatp(123.0),
			Longitude: floatp(18.42),
		})
		require.Len(t, patch, 2)
		assert.True(t, errors.Is(alert.Validate(), models.ErrValidation))
	})

	t.Run("completing a geo pair accepted", func(t *testing.T) {
		alert := validAlert()
		alert.Latitude = floatp(-33.92)
		alert.Longitude = floatp(18.42)

		patch := applyAlertPatch(&alert, patchAlertRequest{Longitude: floatp(18.50)})
		require.Len(t, patch, 1)
		assert.NoError(t, alert.Validate())
		assert.Equal(t, 18.50, *alert.Longitude)
	})

	t.Run("empty patch leaves record untouched", func(t *testing.T) {
		alert := validAlert()
		patch := applyAlertPatch(&alert, patchAlertRequest{})
		assert.Empty(t, patch)
		assert.NoError(t, alert.Validate())
	})
}

func TestCrimePatchValidatesMergedRecord(t *testing.T) {
	report := models.CrimeReport{
		OBNumber:    "OB-20260823-00112233",
		CrimeType:   "burglary",
		Description: "forced entry through back window",
		Location:    "12 Main Rd",
		Suburb:      "Observatory",
		UserID:      2,
		Status:      models.STATUS_PENDING,
	}

	patch := applyCrimePatch(&report, patchCrimeRequest{
		Suburb:   strp("Salt River"),
		Latitude: floatp(-33.93),
	})
	require.Len(t, patch, 2)
	assert.Equal(t, "Salt River", report.Suburb)

	// Merged record carries a lone latitude and must be rejected.
	assert.True(t, errors.Is(report.Validate(), models.ErrValidation))
}
