package realtime

import (
	"time"

	"github.com/LwandleM/SafeSuburb/app/models"
)

// Change types mirrored from the database changefeed.
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// replayWindow bounds how far back events are accepted after a reconnect.
const replayWindow = 24 * time.Hour

// ChangeEvent is one row change on a report table, published by the
// repositories' write paths and fanned out to dashboards.
type ChangeEvent struct {
	Table      string    `json:"table"`
	Type       string    `json:"type"`
	RecordID   uint      `json:"record_id"`
	OBNumber   string    `json:"ob_number"`
	UserID     uint      `json:"user_id"`
	Summary    string    `json:"summary"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ChannelFor returns the pub/sub channel carrying a table's changefeed.
func ChannelFor(table string) string {
	return "realtime:" + table
}

// Tables lists every table with a changefeed.
func Tables() []string {
	return []string{models.TableVehicleAlerts, models.TableCrimeReports}
}
