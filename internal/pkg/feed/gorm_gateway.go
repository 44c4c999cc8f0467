package feed

import (
	"context"

	"github.com/LwandleM/SafeSuburb/app/models"
	"github.com/LwandleM/SafeSuburb/app/repository"
)

// vehicleAlertGateway adapts the vehicle alert repository to the feed
// Gateway, scoped to one session user.
type vehicleAlertGateway struct {
	repo     repository.VehicleAlertRepository
	userID   uint
	elevated bool
}

// NewVehicleAlertGateway returns a Gateway over the vehicle alert repository.
func NewVehicleAlertGateway(repo repository.VehicleAlertRepository, userID uint, elevated bool) Gateway {
	return &vehicleAlertGateway{repo: repo, userID: userID, elevated: elevated}
}

func (g *vehicleAlertGateway) ListPage(ctx context.Context, q Query) (*PageResult, error) {
	filter := repository.ListFilter{}
	if q.ViewMode == ViewMine {
		filter.OwnerID = g.userID
	}
	page, err := g.repo.ListPage(filter, q.Page, q.PageSize)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(page.Items))
	for i := range page.Items {
		a := page.Items[i]
		items = append(items, Item{
			ID:       a.ID,
			OBNumber: a.OBNumber,
			Status:   a.Status,
			OwnerID:  a.UserID,
			Search:   a.SearchFields(),
			Payload:  a,
		})
	}
	return &PageResult{Items: items, TotalCount: page.TotalCount, HasMore: page.HasMore}, nil
}

func (g *vehicleAlertGateway) UpdateStatus(ctx context.Context, id uint, status string) error {
	return g.repo.UpdateStatus(id, g.scope(), status)
}

func (g *vehicleAlertGateway) Delete(ctx context.Context, id uint) error {
	return g.repo.Delete(id, g.scope())
}

func (g *vehicleAlertGateway) scope() repository.MutationScope {
	return repository.MutationScope{UserID: g.userID, Elevated: g.elevated}
}

// crimeReportGateway adapts the crime report repository to the feed Gateway.
type crimeReportGateway struct {
	repo     repository.CrimeReportRepository
	userID   uint
	elevated bool
}

// NewCrimeReportGateway returns a Gateway over the crime report repository.
func NewCrimeReportGateway(repo repository.CrimeReportRepository, userID uint, elevated bool) Gateway {
	return &crimeReportGateway{repo: repo, userID: userID, elevated: elevated}
}

func (g *crimeReportGateway) ListPage(ctx context.Context, q Query) (*PageResult, error) {
	filter := repository.ListFilter{}
	if q.ViewMode == ViewMine {
		filter.OwnerID = g.userID
	}
	page, err := g.repo.ListPage(filter, q.Page, q.PageSize)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(page.Items))
	for i := range page.Items {
		r := page.Items[i]
		items = append(items, Item{
			ID:       r.ID,
			OBNumber: r.OBNumber,
			Status:   r.Status,
			OwnerID:  r.UserID,
			Search:   r.SearchFields(),
			Payload:  r,
		})
	}
	return &PageResult{Items: items, TotalCount: page.TotalCount, HasMore: page.HasMore}, nil
}

func (g *crimeReportGateway) UpdateStatus(ctx context.Context, id uint, status string) error {
	return g.repo.UpdateStatus(id, g.scope(), status)
}

func (g *crimeReportGateway) Delete(ctx context.Context, id uint) error {
	return g.repo.Delete(id, g.scope())
}

func (g *crimeReportGateway) scope() repository.MutationScope {
	return repository.MutationScope{UserID: g.userID, Elevated: g.elevated}
}

// GatewayFor picks the adapter matching a table name.
func GatewayFor(repos *repository.Repositories, table string, userID uint, elevated bool) Gateway {
	switch table {
	case models.TableCrimeReports:
		return NewCrimeReportGateway(repos.CrimeReport, userID, elevated)
	default:
		return NewVehicleAlertGateway(repos.VehicleAlert, userID, elevated)
	}
}
