package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/LwandleM/SafeSuburb/app/models"
	"github.com/LwandleM/SafeSuburb/app/repository"
	"github.com/LwandleM/SafeSuburb/internal/pkg/authz"
	"github.com/LwandleM/SafeSuburb/internal/pkg/feed"
	"github.com/LwandleM/SafeSuburb/internal/pkg/jobqueue"
	"github.com/LwandleM/SafeSuburb/internal/pkg/listcache"
	"github.com/LwandleM/SafeSuburb/internal/pkg/realtime"
	"github.com/LwandleM/SafeSuburb/internal/pkg/statistics"
	"github.com/LwandleM/SafeSuburb/internal/pkg/storage"
	"github.com/LwandleM/SafeSuburb/internal/pkg/usercontext"
)

// reportRecord is the kind-independent view the shared handlers need.
type reportRecord struct {
	ID        uint
	OBNumber  string
	OwnerID   uint
	Status    string
	HasImages bool
	ImageURLs []string
}

// reportLookup fetches a record's shared view by table and id.
func reportLookup(table string, id uint) (*reportRecord, error) {
	repos := repository.GetGlobalFactory().GetRepositories()
	if table == models.TableCrimeReports {
		r, err := repos.CrimeReport.GetByID(id)
		if err != nil {
			return nil, err
		}
		return &reportRecord{ID: r.ID, OBNumber: r.OBNumber, OwnerID: r.UserID, Status: r.Status, HasImages: r.HasImages, ImageURLs: r.ImageURLs}, nil
	}
	a, err := repos.VehicleAlert.GetByID(id)
	if err != nil {
		return nil, err
	}
	return &reportRecord{ID: a.ID, OBNumber: a.OBNumber, OwnerID: a.UserID, Status: a.Status, HasImages: a.HasImages, ImageURLs: a.ImageURLs}, nil
}

// feedControllerFor returns the session user's live feed controller.
func feedControllerFor(c *fiber.Ctx, table string) *feed.Controller {
	uc := usercontext.GetUserContext(c)
	return deps.Feeds.ControllerFor(uc.UserID, authz.IsElevated(uc.Role), table, parseViewMode(c))
}

// handleListReports serves one page of the dashboard list, cache-first.
func handleListReports(c *fiber.Ctx, table string) error {
	ctrl := feedControllerFor(c, table)
	page := c.QueryInt("page", 1)
	if err := ctrl.Load(c.Context(), page, false); err != nil {
		return errorResponse(c, err)
	}
	return feedItemsResponse(c, ctrl, ctrl.Items())
}

// handleLoadMoreReports appends the next page to the session's list.
func handleLoadMoreReports(c *fiber.Ctx, table string) error {
	ctrl := feedControllerFor(c, table)
	if err := ctrl.LoadMore(c.Context()); err != nil {
		return errorResponse(c, err)
	}
	return feedItemsResponse(c, ctrl, ctrl.Items())
}

// handleSearchReports filters the already loaded pages locally. It never
// issues a new fetch; the search scope is what the dashboard has loaded.
func handleSearchReports(c *fiber.Ctx, table string) error {
	ctrl := feedControllerFor(c, table)
	if ctrl.State() == feed.StateUninitialized {
		if err := ctrl.Load(c.Context(), 1, false); err != nil {
			return errorResponse(c, err)
		}
	}
	return feedItemsResponse(c, ctrl, ctrl.Search(c.Query("q")))
}

type statusRequest struct {
	Status string `json:"status"`
}

// handleUpdateReportStatus moves a report through its status lifecycle.
func handleUpdateReportStatus(c *fiber.Ctx, table string) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}

	var req statusRequest
	if err := c.BodyParser(&req); err != nil || !models.IsValidStatus(req.Status) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": "Unknown status",
		})
	}

	record, err := reportLookup(table, id)
	if err != nil {
		return errorResponse(c, err)
	}

	actor := actorFromSession(c)
	if !authz.CanMutate(actor, record.OwnerID) {
		// Same answer as a missing record, no existence leak.
		return errorResponse(c, repository.ErrNotFoundOrForbidden)
	}
	if !authz.CanTransition(actor, record.OwnerID, record.Status, req.Status) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": "Status change from " + record.Status + " to " + req.Status + " is not allowed",
		})
	}

	ctrl := feedControllerFor(c, table)
	_, err = ctrl.UpdateStatus(c.Context(), id, req.Status)
	if errors.Is(err, feed.ErrNoSuchItem) || errors.Is(err, feed.ErrUnauthenticated) {
		// Not in the loaded list (direct API call); mutate through the
		// repository with the same row scoping.
		err = updateStatusDirect(table, id, actor, req.Status)
	}
	if err != nil {
		return errorResponse(c, err)
	}

	statistics.InvalidateTable(table)
	publishChange(c, table, realtime.EventUpdate, record, "Status changed to "+req.Status)
	return c.JSON(fiber.Map{"id": id, "status": req.Status})
}

func updateStatusDirect(table string, id uint, actor authz.Actor, status string) error {
	repos := repository.GetGlobalFactory().GetRepositories()
	scope := repository.MutationScope{UserID: actor.UserID, Elevated: authz.IsElevated(actor.Role)}
	if table == models.TableCrimeReports {
		if err := repos.CrimeReport.UpdateStatus(id, scope, status); err != nil {
			return err
		}
	} else {
		if err := repos.VehicleAlert.UpdateStatus(id, scope, status); err != nil {
			return err
		}
	}
	deps.Feeds.Cache().ClearByPrefix(listcache.Prefix(table))
	return nil
}

// handleDeleteReport removes a report. Deletion requires an explicit
// ?confirm=true; evidence images are cleaned up asynchronously.
func handleDeleteReport(c *fiber.Ctx, table string) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid id"})
	}
	confirmed := c.Query("confirm") == "true"
	if !confirmed {
		return errorResponse(c, feed.ErrConfirmationRequired)
	}

	record, err := reportLookup(table, id)
	if err != nil {
		return errorResponse(c, err)
	}

	actor := actorFromSession(c)
	if !authz.CanMutate(actor, record.OwnerID) {
		return errorResponse(c, repository.ErrNotFoundOrForbidden)
	}

	ctrl := feedControllerFor(c, table)
	_, err = ctrl.Delete(c.Context(), id, true)
	if errors.Is(err, feed.ErrNoSuchItem) || errors.Is(err, feed.ErrUnauthenticated) {
		err = deleteDirect(table, id, actor)
	}
	if err != nil {
		return errorResponse(c, err)
	}

	statistics.InvalidateTable(table)
	enqueueEvidenceCleanup(table, record)
	publishChange(c, table, realtime.EventDelete, record, "Report removed")
	return c.JSON(fiber.Map{"id": id, "deleted": true})
}

func deleteDirect(table string, id uint, actor authz.Actor) error {
	repos := repository.GetGlobalFactory().GetRepositories()
	scope := repository.MutationScope{UserID: actor.UserID, Elevated: authz.IsElevated(actor.Role)}
	if table == models.TableCrimeReports {
		if err := repos.CrimeReport.Delete(id, scope); err != nil {
			return err
		}
	} else {
		if err := repos.VehicleAlert.Delete(id, scope); err != nil {
			return err
		}
	}
	deps.Feeds.Cache().ClearByPrefix(listcache.Prefix(table))
	return nil
}

// enqueueEvidenceCleanup schedules S3 deletion of a removed report's images.
func enqueueEvidenceCleanup(table string, record *reportRecord) {
	if !record.HasImages || deps.Jobs == nil {
		return
	}

	keys := make([]string, 0, len(record.ImageURLs))
	for _, u := range record.ImageURLs {
		if k := storage.KeyFromURL(u); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return
	}

	payload := jobqueue.EvidenceDeleteJobPayload{Table: table, RecordID: record.ID, ObjectKeys: keys}
	if _, err := deps.Jobs.EnqueueJob(jobqueue.JobTypeEvidenceDelete, payload.ToMap()); err != nil {
		log.Errorf("[Reports] enqueueing evidence cleanup for %s/%d: %v", table, record.ID, err)
	}
}

// publishChange pushes a change event onto the table's changefeed.
func publishChange(c *fiber.Ctx, table, eventType string, record *reportRecord, summary string) {
	if deps.Events == nil {
		return
	}
	ev := realtime.ChangeEvent{
		Table:      table,
		Type:       eventType,
		RecordID:   record.ID,
		OBNumber:   record.OBNumber,
		UserID:     usercontext.GetUserID(c),
		Summary:    summary,
		OccurredAt: time.Now(),
	}
	if err := deps.Events.Publish(c.Context(), ev); err != nil {
		log.Warnf("[Reports] publishing %s event for %s/%d: %v", eventType, table, record.ID, err)
	}
}
