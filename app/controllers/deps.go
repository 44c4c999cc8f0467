package controllers

import (
	"github.com/LwandleM/SafeSuburb/internal/pkg/feed"
	"github.com/LwandleM/SafeSuburb/internal/pkg/jobqueue"
	"github.com/LwandleM/SafeSuburb/internal/pkg/presence"
	"github.com/LwandleM/SafeSuburb/internal/pkg/realtime"
)

// Deps holds the shared services handlers need. Wired once at startup.
type Deps struct {
	Feeds    *feed.Registry
	Events   *realtime.Publisher
	Toasts   *realtime.ToastCenter
	Jobs     *jobqueue.Queue
	Presence *presence.Tracker
	WSSecret string
}

var deps Deps

// Init wires the controller package's shared services.
func Init(d Deps) {
	deps = d
}
