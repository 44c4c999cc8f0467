package statistics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LwandleM/SafeSuburb/app/models"
	"github.com/LwandleM/SafeSuburb/app/repository"
)

// fakeAlertRepo satisfies VehicleAlertRepository; only the count methods
// matter here, the rest are inert.
type fakeAlertRepo struct {
	total, byStatus, today int64
	totalErr, statusErr    error
	todayErr               error
}

func (f *fakeAlertRepo) Create(*models.VehicleAlert) error { return nil }
func (f *fakeAlertRepo) GetByID(uint) (*models.VehicleAlert, error) { return nil, nil }
func (f *fakeAlertRepo) UpdateStatus(uint, repository.MutationScope, string) error { return nil }
func (f *fakeAlertRepo) UpdateFields(uint, repository.MutationScope, map[string]any) error {
	return nil
}
func (f *fakeAlertRepo) Delete(uint, repository.MutationScope) error { return nil }
func (f *fakeAlertRepo) ListPage(repository.ListFilter, int, int) (*repository.VehicleAlertPage, error) {
	return &repository.VehicleAlertPage{}, nil
}
func (f *fakeAlertRepo) CountTotal() (int64, error) { return f.total, f.totalErr }
func (f *fakeAlertRepo) CountByStatus(string) (int64, error) { return f.byStatus, f.statusErr }
func (f *fakeAlertRepo) CountToday(time.Time) (int64, error) { return f.today, f.todayErr }

type fakeCrimeRepo struct {
	total, byStatus, today int64
}

func (f *fakeCrimeRepo) Create(*models.CrimeReport) error { return nil }
func (f *fakeCrimeRepo) GetByID(uint) (*models.CrimeReport, error) { return nil, nil }
func (f *fakeCrimeRepo) UpdateStatus(uint, repository.MutationScope, string) error { return nil }
func (f *fakeCrimeRepo) UpdateFields(uint, repository.MutationScope, map[string]any) error {
	return nil
}
func (f *fakeCrimeRepo) Delete(uint, repository.MutationScope) error { return nil }
func (f *fakeCrimeRepo) ListPage(repository.ListFilter, int, int) (*repository.CrimeReportPage, error) {
	return &repository.CrimeReportPage{}, nil
}
func (f *fakeCrimeRepo) CountTotal() (int64, error) { return f.total, nil }
func (f *fakeCrimeRepo) CountByStatus(string) (int64, error) { return f.byStatus, nil }
func (f *fakeCrimeRepo) CountToday(time.Time) (int64, error) { return f.today, nil }

func TestGetTableStatsCounts(t *testing.T) {
	InvalidateTable(models.TableVehicleAlerts)

	repos := &repository.Repositories{
		VehicleAlert: &fakeAlertRepo{total: 12, byStatus: 4, today: 2},
		CrimeReport:  &fakeCrimeRepo{},
	}

	stats := GetTableStats(repos, models.TableVehicleAlerts)
	require.NotNil(t, stats.Total)
	assert.Equal(t, 12, *stats.Total)
	require.NotNil(t, stats.Active)
	assert.Equal(t, 4, *stats.Active)
	require.NotNil(t, stats.Today)
	assert.Equal(t, 2, *stats.Today)
}

func TestFailingCounterReportsNullNotZero(t *testing.T) {
	InvalidateTable(models.TableVehicleAlerts)

	repos := &repository.Repositories{
		VehicleAlert: &fakeAlertRepo{
			total:    12,
			today:    2,
			totalErr: errors.New("backend down"),
		},
		CrimeReport: &fakeCrimeRepo{},
	}

	stats := GetTableStats(repos, models.TableVehicleAlerts)

	// The failing counter is null, not a fake zero.
	assert.Nil(t, stats.Total)

	// The other counters survive independently.
	require.NotNil(t, stats.Active)
	require.NotNil(t, stats.Today)
	assert.Equal(t, 2, *stats.Today)
}
