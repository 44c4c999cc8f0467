package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/LwandleM/SafeSuburb/app/models"
	"github.com/LwandleM/SafeSuburb/app/repository"
	"github.com/LwandleM/SafeSuburb/internal/pkg/authz"
	"github.com/LwandleM/SafeSuburb/internal/pkg/listcache"
	"github.com/LwandleM/SafeSuburb/internal/pkg/realtime"
	"github.com/LwandleM/SafeSuburb/internal/pkg/statistics"
)

// HandleListCrimes serves a page of the crime report dashboard.
func HandleListCrimes(c *fiber.Ctx) error {
	return handleListReports(c, models.TableCrimeReports)
}

// HandleLoadMoreCrimes appends the next page of crime reports.
func HandleLoadMoreCrimes(c *fiber.Ctx) error {
	return handleLoadMoreReports(c, models.TableCrimeReports)
}

// HandleSearchCrimes filters the loaded crime reports locally.
func HandleSearchCrimes(c *fiber.Ctx) error {
	return handleSearchReports(c, models.TableCrimeReports)
}

// HandleUpdateCrimeStatus moves a crime report through its lifecycle.
func HandleUpdateCrimeStatus(c *fiber.Ctx) error {
	return handleUpdateReportStatus(c, models.TableCrimeReports)
}

// HandleDeleteCrime removes a crime report.
func HandleDeleteCrime(c *fiber.Ctx) error {
	return handleDeleteReport(c, models.TableCrimeReports)
}

type createCrimeRequest struct {
	CrimeType          string     `json:"crime_type"`
	Description        string     `json:"description"`
	Location           string     `json:"location"`
	Suburb             string     `json:"suburb"`
	OccurredAt         *time.Time `json:"occurred_at"`
	SuspectDescription string     `json:"suspect_description"`
	WeaponsInvolved    bool       `json:"weapons_involved"`
	Injuries           bool       `json:"injuries"`
	SAPSCaseNumber     string     `json:"saps_case_number"`
	StationName        string     `json:"station_name"`
	Latitude           *float64   `json:"latitude"`
	Longitude          *float64   `json:"longitude"`
	ImageURLs          []string   `json:"image_urls"`
}

// HandleCreateCrime files a new crime report.
func HandleCreateCrime(c *fiber.Ctx) error {
	actor := actorFromSession(c)
	if !authz.CanFile(actor) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "Account not yet approved for filing reports",
		})
	}

	var req createCrimeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	report := &models.CrimeReport{
		OBNumber:           models.NewOBNumber(time.Now()),
		CrimeType:          req.CrimeType,
		Description:        req.Description,
		Location:           req.Location,
		Suburb:             req.Suburb,
		OccurredAt:         req.OccurredAt,
		SuspectDescription: req.SuspectDescription,
		WeaponsInvolved:    req.WeaponsInvolved,
		Injuries:           req.Injuries,
		SAPSCaseNumber:     req.SAPSCaseNumber,
		StationName:        req.StationName,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		HasImages:          len(req.ImageURLs) > 0,
		ImageURLs:          req.ImageURLs,
		UserID:             actor.UserID,
		Status:             models.STATUS_PENDING,
	}

	if err := report.Validate(); err != nil {
		return errorResponse(c, err)
	}

	repo := repository.GetGlobalFactory().GetRepositories().CrimeReport
	if err := repo.Create(report); err != nil {
		return errorResponse(c, err)
	}

	deps.Feeds.Cache().ClearByPrefix(listcache.Prefix(models.TableCrimeReports))
	statistics.InvalidateTable(models.TableCrimeReports)
	publishChange(c, models.TableCrimeReports, realtime.EventInsert, &reportRecord{
		ID:       report.ID,
		OBNumber: report.OBNumber,
		OwnerID:  report.UserID,
		Status:   report.Status,
	}, "Crime report filed in "+report.Suburb)

	log.Infof("[Crimes] user %d filed report %s", actor.UserID, report.OBNumber)
	return c.Status(fiber.StatusCreated).JSON(report)
}

// HandleGetCrime returns one crime report.
func HandleGetCrime(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	report, err := repository.GetGlobalFactory().GetRepositories().CrimeReport.GetByID(id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(report)
}

type patchCrimeRequest struct {
	CrimeType          *string    `json:"crime_type"`
	Description        *string    `json:"description"`
	Location           *string    `json:"location"`
	Suburb             *string    `json:"suburb"`
	OccurredAt         *time.Time `json:"occurred_at"`
	SuspectDescription *string    `json:"suspect_description"`
	WeaponsInvolved    *bool      `json:"weapons_involved"`
	Injuries           *bool      `json:"injuries"`
	SAPSCaseNumber     *string    `json:"saps_case_number"`
	StationName        *string    `json:"station_name"`
	Latitude           *float64   `json:"latitude"`
	Longitude          *float64   `json:"longitude"`
}

// HandlePatchCrime edits the mutable fields of a crime report.
func HandlePatchCrime(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	var req patchCrimeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	actor := actorFromSession(c)
	repo := repository.GetGlobalFactory().GetRepositories().CrimeReport
	report, err := repo.GetByID(id)
	if err != nil {
		return errorResponse(c, err)
	}
	if !authz.CanMutate(actor, report.UserID) {
		// Same answer as a missing record, no existence leak.
		return errorResponse(c, repository.ErrNotFoundOrForbidden)
	}

	patch := applyCrimePatch(report, req)
	if len(patch) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Nothing to update"})
	}
	// Validate the merged record so a patch cannot break the geo pair or
	// image invariants.
	if err := report.Validate(); err != nil {
		return errorResponse(c, err)
	}

	scope := repository.MutationScope{UserID: actor.UserID, Elevated: authz.IsElevated(actor.Role)}
	if err := repo.UpdateFields(id, scope, patch); err != nil {
		return errorResponse(c, err)
	}

	deps.Feeds.Cache().ClearByPrefix(listcache.Prefix(models.TableCrimeReports))

	report, err = repo.GetByID(id)
	if err != nil {
		return errorResponse(c, err)
	}
	publishChange(c, models.TableCrimeReports, realtime.EventUpdate, &reportRecord{
		ID:       report.ID,
		OBNumber: report.OBNumber,
		OwnerID:  report.UserID,
		Status:   report.Status,
	}, "Crime report updated")
	return c.JSON(report)
}

// applyCrimePatch merges the request into the loaded report and returns the
// column map for the row update. Mutating the struct first lets the handler
// validate the merged result before anything is written.
func applyCrimePatch(report *models.CrimeReport, req patchCrimeRequest) map[string]any {
	patch := map[string]any{}
	if req.CrimeType != nil {
		report.CrimeType = *req.CrimeType
		patch["crime_type"] = *req.CrimeType
	}
	if req.Description != nil {
		report.Description = *req.Description
		patch["description"] = *req.Description
	}
	if req.Location != nil {
		report.Location = *req.Location
		patch["location"] = *req.Location
	}
	if req.Suburb != nil {
		report.Suburb = *req.Suburb
		patch["suburb"] = *req.Suburb
	}
	if req.OccurredAt != nil {
		report.OccurredAt = req.OccurredAt
		patch["occurred_at"] = *req.OccurredAt
	}
	if req.SuspectDescription != nil {
		report.SuspectDescription = *req.SuspectDescription
		patch["suspect_description"] = *req.SuspectDescription
	}
	if req.WeaponsInvolved != nil {
		report.WeaponsInvolved = *req.WeaponsInvolved
		patch["weapons_involved"] = *req.WeaponsInvolved
	}
	if req.Injuries != nil {
		report.Injuries = *req.Injuries
		patch["injuries"] = *req.Injuries
	}
	if req.SAPSCaseNumber != nil {
		report.SAPSCaseNumber = *req.SAPSCaseNumber
		patch["saps_case_number"] = *req.SAPSCaseNumber
	}
	if req.StationName != nil {
		report.StationName = *req.StationName
		patch["station_name"] = *req.StationName
	}
	if req.Latitude != nil {
		report.Latitude = req.Latitude
		patch["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		report.Longitude = req.Longitude
		patch["longitude"] = *req.Longitude
	}
	return patch
}
