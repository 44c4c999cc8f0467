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

// HandleListAlerts serves a page of the vehicle alert dashboard.
func HandleListAlerts(c *fiber.Ctx) error {
	return handleListReports(c, models.TableVehicleAlerts)
}

// HandleLoadMoreAlerts appends the next page of vehicle alerts.
func HandleLoadMoreAlerts(c *fiber.Ctx) error {
	return handleLoadMoreReports(c, models.TableVehicleAlerts)
}

// HandleSearchAlerts filters the loaded vehicle alerts locally.
func HandleSearchAlerts(c *fiber.Ctx) error {
	return handleSearchReports(c, models.TableVehicleAlerts)
}

// HandleUpdateAlertStatus moves a vehicle alert through its lifecycle.
func HandleUpdateAlertStatus(c *fiber.Ctx) error {
	return handleUpdateReportStatus(c, models.TableVehicleAlerts)
}

// HandleDeleteAlert removes a vehicle alert.
func HandleDeleteAlert(c *fiber.Ctx) error {
	return handleDeleteReport(c, models.TableVehicleAlerts)
}

type createAlertRequest struct {
	Plate          string     `json:"plate"`
	Make           string     `json:"make"`
	Model          string     `json:"model"`
	Color          string     `json:"color"`
	Reason         string     `json:"reason"`
	SAPSCaseNumber string     `json:"saps_case_number"`
	StationName    string     `json:"station_name"`
	IncidentDate   *time.Time `json:"incident_date"`
	Latitude       *float64   `json:"latitude"`
	Longitude      *float64   `json:"longitude"`
	ImageURLs      []string   `json:"image_urls"`
}

// HandleCreateAlert files a new vehicle theft alert. The account must be
// approved; new alerts start out pending until a moderator activates them.
func HandleCreateAlert(c *fiber.Ctx) error {
	actor := actorFromSession(c)
	if !authz.CanFile(actor) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "Account not yet approved for filing reports",
		})
	}

	var req createAlertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	alert := &models.VehicleAlert{
		OBNumber:       models.NewOBNumber(time.Now()),
		Plate:          req.Plate,
		Make:           req.Make,
		Model:          req.Model,
		Color:          req.Color,
		Reason:         req.Reason,
		SAPSCaseNumber: req.SAPSCaseNumber,
		StationName:    req.StationName,
		IncidentDate:   req.IncidentDate,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		HasImages:      len(req.ImageURLs) > 0,
		ImageURLs:      req.ImageURLs,
		UserID:         actor.UserID,
		Status:         models.STATUS_PENDING,
	}

	if err := alert.Validate(); err != nil {
		return errorResponse(c, err)
	}

	repo := repository.GetGlobalFactory().GetRepositories().VehicleAlert
	if err := repo.Create(alert); err != nil {
		return errorResponse(c, err)
	}

	deps.Feeds.Cache().ClearByPrefix(listcache.Prefix(models.TableVehicleAlerts))
	statistics.InvalidateTable(models.TableVehicleAlerts)
	publishChange(c, models.TableVehicleAlerts, realtime.EventInsert, &reportRecord{
		ID:       alert.ID,
		OBNumber: alert.OBNumber,
		OwnerID:  alert.UserID,
		Status:   alert.Status,
	}, "Vehicle alert filed: "+alert.Plate)

	log.Infof("[Alerts] user %d filed alert %s", actor.UserID, alert.OBNumber)
	return c.Status(fiber.StatusCreated).JSON(alert)
}

// HandleGetAlert returns one vehicle alert.
func HandleGetAlert(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	alert, err := repository.GetGlobalFactory().GetRepositories().VehicleAlert.GetByID(id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(alert)
}

type patchAlertRequest struct {
	Make           *string    `json:"make"`
	Model          *string    `json:"model"`
	Color          *string    `json:"color"`
	Reason         *string    `json:"reason"`
	SAPSCaseNumber *string    `json:"saps_case_number"`
	StationName    *string    `json:"station_name"`
	IncidentDate   *time.Time `json:"incident_date"`
	Latitude       *float64   `json:"latitude"`
	Longitude      *float64   `json:"longitude"`
}

// HandlePatchAlert edits the mutable fields of a vehicle alert. Identity
// fields (plate, OB number, owner) never change after filing.
func HandlePatchAlert(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	var req patchAlertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	actor := actorFromSession(c)
	repo := repository.GetGlobalFactory().GetRepositories().VehicleAlert
	alert, err := repo.GetByID(id)
	if err != nil {
		return errorResponse(c, err)
	}
	if !authz.CanMutate(actor, alert.UserID) {
		// Same answer as a missing record, no existence leak.
		return errorResponse(c, repository.ErrNotFoundOrForbidden)
	}

	patch := applyAlertPatch(alert, req)
	if len(patch) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Nothing to update"})
	}
	// Validate the merged record, not the patch in isolation: a patch must
	// not be able to break the geo pair or image invariants.
	if err := alert.Validate(); err != nil {
		return errorResponse(c, err)
	}

	scope := repository.MutationScope{UserID: actor.UserID, Elevated: authz.IsElevated(actor.Role)}
	if err := repo.UpdateFields(id, scope, patch); err != nil {
		return errorResponse(c, err)
	}

	deps.Feeds.Cache().ClearByPrefix(listcache.Prefix(models.TableVehicleAlerts))

	alert, err = repo.GetByID(id)
	if err != nil {
		return errorResponse(c, err)
	}
	publishChange(c, models.TableVehicleAlerts, realtime.EventUpdate, &reportRecord{
		ID:       alert.ID,
		OBNumber: alert.OBNumber,
		OwnerID:  alert.UserID,
		Status:   alert.Status,
	}, "Vehicle alert updated")
	return c.JSON(alert)
}

// applyAlertPatch merges the request into the loaded alert and returns the
// column map for the row update. Mutating the struct first lets the handler
// validate the merged result before anything is written.
func applyAlertPatch(alert *models.VehicleAlert, req patchAlertRequest) map[string]any {
	patch := map[string]any{}
	if req.Make != nil {
		alert.Make = *req.Make
		patch["make"] = *req.Make
	}
	if req.Model != nil {
		alert.Model = *req.Model
		patch["model"] = *req.Model
	}
	if req.Color != nil {
		alert.Color = *req.Color
		patch["color"] = *req.Color
	}
	if req.Reason != nil {
		alert.Reason = *req.Reason
		patch["reason"] = *req.Reason
	}
	if req.SAPSCaseNumber != nil {
		alert.SAPSCaseNumber = *req.SAPSCaseNumber
		patch["saps_case_number"] = *req.SAPSCaseNumber
	}
	if req.StationName != nil {
		alert.StationName = *req.StationName
		patch["station_name"] = *req.StationName
	}
	if req.IncidentDate != nil {
		alert.IncidentDate = req.IncidentDate
		patch["incident_date"] = *req.IncidentDate
	}
	if req.Latitude != nil {
		alert.Latitude = req.Latitude
		patch["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		alert.Longitude = req.Longitude
		patch["longitude"] = *req.Longitude
	}
	return patch
}
