package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/LwandleM/SafeSuburb/app/controllers"
	"github.com/LwandleM/SafeSuburb/app/repository"
	"github.com/LwandleM/SafeSuburb/internal/pkg/cache"
	"github.com/LwandleM/SafeSuburb/internal/pkg/database"
	"github.com/LwandleM/SafeSuburb/internal/pkg/env"
	"github.com/LwandleM/SafeSuburb/internal/pkg/feed"
	"github.com/LwandleM/SafeSuburb/internal/pkg/jobqueue"
	"github.com/LwandleM/SafeSuburb/internal/pkg/listcache"
	"github.com/LwandleM/SafeSuburb/internal/pkg/presence"
	"github.com/LwandleM/SafeSuburb/internal/pkg/realtime"
	"github.com/LwandleM/SafeSuburb/internal/pkg/router"
	"github.com/LwandleM/SafeSuburb/internal/pkg/storage"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, queue := NewApplication(ctx)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("shutting down...")
		cancel()
		queue.Stop()
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	addr := fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000"))
	if err := app.Listen(addr); err != nil {
		log.Fatal(err)
	}
}

func NewApplication(ctx context.Context) (*fiber.App, *jobqueue.Queue) {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	repository.InitGlobalFactory(database.GetDB())
	repos := repository.GetGlobalFactory().GetRepositories()

	// S3 evidence storage is optional; without it image cleanup is a no-op.
	var s3Client *storage.Client
	if cfg, err := storage.LoadConfig(); err != nil {
		log.Printf("S3 storage config: %v", err)
	} else if cfg.IsEnabled() {
		if client, cerr := storage.NewClient(cfg); cerr != nil {
			log.Printf("S3 storage unavailable: %v", cerr)
		} else {
			s3Client = client
		}
	}

	queue := jobqueue.NewQueue(env.GetEnvInt("JOB_WORKERS", 3), s3Client)
	queue.Start()

	// The shared response cache and the per-session feed controllers.
	responses := listcache.New(listcache.DefaultCapacity, listcache.DefaultTTL)
	feeds := feed.NewRegistry(repos, responses)

	// Realtime: publisher on the write path, hub fanning out to websocket
	// clients, listener turning changefeed events into cache invalidations,
	// debounced refetches and toasts.
	publisher := realtime.NewPublisher(cache.GetClient())
	toasts := realtime.NewToastCenter(realtime.DefaultToastTTL)
	hub := realtime.NewHub(ctx)
	go hub.Start()

	listener := realtime.NewListener(cache.GetClient(), toasts, realtime.ListenerHooks{
		Invalidate: func(table string) {
			responses.ClearByPrefix(listcache.Prefix(table))
		},
		Refetch:   feeds.RefreshTable,
		Broadcast: hub.BroadcastEvent,
	}, realtime.DefaultDebounce)
	go func() {
		if err := listener.Start(ctx); err != nil {
			log.Printf("realtime listener stopped: %v", err)
		}
	}()

	wsSecret := env.GetEnv("WS_TICKET_SECRET", "")
	wsServer := realtime.NewServer(hub, fmt.Sprintf("%s:%s",
		env.GetEnv("APP_HOST", "localhost"), env.GetEnv("WS_PORT", "4001")), wsSecret)
	go func() {
		if err := wsServer.Start(ctx); err != nil {
			log.Printf("websocket server stopped: %v", err)
		}
	}()

	controllers.Init(controllers.Deps{
		Feeds:    feeds,
		Events:   publisher,
		Toasts:   toasts,
		Jobs:     queue,
		Presence: presence.NewTracker(cache.GetClient(), presence.DefaultWindow),
		WSSecret: wsSecret,
	})

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName: "SafeSuburb",
	})

	// recovery and logging
	app.Use(recover.New())
	if env.IsDev() {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${status} ${latency} ${method} ${path}\n",
		}))
	} else {
		app.Use(logger.New())
	}

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			"admin": env.GetEnv("METRICS_PASSWORD", "test"),
		},
	}), monitor.New())

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: "./public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	return app, queue
}
