// @title Friendflix API
// @version 1.0
// @description Social media backend: media uploads, posts, follows, notifications, messages, stories and bookmarks.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"

	"github.com/limitedgamerz39-afk/friendflix/bookmarks"
	bookmarkhandlers "github.com/limitedgamerz39-afk/friendflix/bookmarks/handlers"
	bookmarkrepo "github.com/limitedgamerz39-afk/friendflix/bookmarks/repository"
	bookmarkservices "github.com/limitedgamerz39-afk/friendflix/bookmarks/services"
	_ "github.com/limitedgamerz39-afk/friendflix/docs"
	"github.com/limitedgamerz39-afk/friendflix/follows"
	followhandlers "github.com/limitedgamerz39-afk/friendflix/follows/handlers"
	followrepo "github.com/limitedgamerz39-afk/friendflix/follows/repository"
	followservices "github.com/limitedgamerz39-afk/friendflix/follows/services"
	"github.com/limitedgamerz39-afk/friendflix/internal/cache"
	"github.com/limitedgamerz39-afk/friendflix/internal/database/mongodb"
	"github.com/limitedgamerz39-afk/friendflix/internal/events"
	"github.com/limitedgamerz39-afk/friendflix/internal/metrics"
	"github.com/limitedgamerz39-afk/friendflix/internal/middleware/authjwt"
	"github.com/limitedgamerz39-afk/friendflix/internal/middleware/requestid"
	"github.com/limitedgamerz39-afk/friendflix/internal/pkg/log"
	"github.com/limitedgamerz39-afk/friendflix/internal/server"
	platformconfig "github.com/limitedgamerz39-afk/friendflix/internal/platform/config"
	"github.com/limitedgamerz39-afk/friendflix/media"
	mediahandlers "github.com/limitedgamerz39-afk/friendflix/media/handlers"
	mediarepo "github.com/limitedgamerz39-afk/friendflix/media/repository"
	mediaservices "github.com/limitedgamerz39-afk/friendflix/media/services"
	"github.com/limitedgamerz39-afk/friendflix/messages"
	messagehandlers "github.com/limitedgamerz39-afk/friendflix/messages/handlers"
	messagerepo "github.com/limitedgamerz39-afk/friendflix/messages/repository"
	messageservices "github.com/limitedgamerz39-afk/friendflix/messages/services"
	"github.com/limitedgamerz39-afk/friendflix/notifications"
	notificationhandlers "github.com/limitedgamerz39-afk/friendflix/notifications/handlers"
	"github.com/limitedgamerz39-afk/friendflix/notifications/push"
	notificationrepo "github.com/limitedgamerz39-afk/friendflix/notifications/repository"
	notificationservices "github.com/limitedgamerz39-afk/friendflix/notifications/services"
	"github.com/limitedgamerz39-afk/friendflix/posts"
	posthandlers "github.com/limitedgamerz39-afk/friendflix/posts/handlers"
	postrepo "github.com/limitedgamerz39-afk/friendflix/posts/repository"
	postservices "github.com/limitedgamerz39-afk/friendflix/posts/services"
	"github.com/limitedgamerz39-afk/friendflix/profile"
	profilerepo "github.com/limitedgamerz39-afk/friendflix/profile/repository"
	profileservices "github.com/limitedgamerz39-afk/friendflix/profile/services"
	"github.com/limitedgamerz39-afk/friendflix/realtime"
	"github.com/limitedgamerz39-afk/friendflix/storage/provider"
	"github.com/limitedgamerz39-afk/friendflix/stories"
	storyhandlers "github.com/limitedgamerz39-afk/friendflix/stories/handlers"
	storyrepo "github.com/limitedgamerz39-afk/friendflix/stories/repository"
	storyservices "github.com/limitedgamerz39-afk/friendflix/stories/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Error("server stopped: %v", err)
		log.Sync()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := platformconfig.LoadFromEnv()
	if err != nil {
		return err
	}
	if cfg.Log.Format == "json" {
		if err := log.UseJSON(cfg.Server.Debug); err != nil {
			return err
		}
	}
	log.SetDebug(cfg.Server.Debug)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := mongodb.Connect(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.EnsureIndexes(ctx,
		mediarepo.Indexes(),
		postrepo.Indexes(),
		profilerepo.Indexes(),
		followrepo.Indexes(),
		notificationrepo.Indexes(),
		notificationrepo.PushIndexes(),
		messagerepo.Indexes(),
		storyrepo.Indexes(),
		bookmarkrepo.Indexes(),
	); err != nil {
		return err
	}

	blobs, err := provider.New(cfg.Storage)
	if err != nil {
		return err
	}
	provider.Bootstrap(ctx, blobs, cfg.Storage)

	feedCache, err := cache.NewFromConfig(cfg.Cache)
	if err != nil {
		return err
	}
	defer feedCache.Close()

	publisher := events.NewPublisher(cfg.Events)
	defer publisher.Close()

	m := metrics.New()
	hub := realtime.NewHub(m)
	if cfg.Realtime.RelayEnabled {
		relay, err := realtime.NewRedisRelay(ctx, cfg.Realtime, hub)
		if err != nil {
			return err
		}
		defer relay.Close()
		hub.UseRelay(relay)
	}

	// services
	profileSvc := profileservices.NewService(profilerepo.NewMongoProfileRepository(client), nil)

	var sender push.Sender
	if cfg.Push.Enabled {
		sender = push.NewWebPushSender(cfg.Push)
	}
	notificationSvc := notificationservices.NewService(notificationservices.Dependencies{
		Repo:    notificationrepo.NewMongoRepository(client),
		Push:    notificationrepo.NewMongoPushRepository(client),
		Sender:  sender,
		Emitter: hub,
		Events:  publisher,
		Metrics: m,
	})

	followSvc := followservices.NewService(followservices.Dependencies{
		Repo:     followrepo.NewMongoRepository(client),
		Users:    profileSvc,
		Notifier: notificationSvc,
		Emitter:  hub,
		Events:   publisher,
	})
	profileSvc.SetGraphCounter(followSvc)

	mediaSvc := mediaservices.NewService(mediaservices.Dependencies{
		Repo:    mediarepo.NewMongoRepository(client),
		Storage: blobs,
		Emitter: hub,
		Events:  publisher,
		Metrics: m,
		Upload:  cfg.Upload,
	})

	postSvc := postservices.NewPostService(postservices.Dependencies{
		Repo:     postrepo.NewMongoPostRepository(client),
		Media:    mediaSvc,
		Graph:    followSvc,
		Notifier: notificationSvc,
		Emitter:  hub,
		Events:   publisher,
		Cache:    feedCache,
	})
	mediaSvc.SetListingInvalidator(postSvc)

	messageSvc := messageservices.NewService(messageservices.Dependencies{
		Repo:     messagerepo.NewMongoRepository(client),
		Profiles: profileSvc,
		Notifier: notificationSvc,
		Emitter:  hub,
		Events:   publisher,
	})

	storySvc := storyservices.NewService(storyservices.Dependencies{
		Repo:    storyrepo.NewMongoRepository(client),
		Storage: blobs,
		Users:   profileSvc,
		Emitter: hub,
		Events:  publisher,
		MaxSize: cfg.Upload.MaxStorySize,
	})

	bookmarkSvc := bookmarkservices.NewService(bookmarkrepo.NewMongoRepository(client), postSvc)

	app := server.New(cfg.Server)

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, OPTIONS",
	}))
	app.Use(m.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		pingCtx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "database": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", m.Handler())
	app.Get("/swagger/*", swagger.HandlerDefault)

	realtime.RegisterRoutes(app, realtime.NewHandler(hub, realtime.HandlerConfig{
		PublicKey:    cfg.JWT.PublicKey,
		PingInterval: cfg.Realtime.PingInterval,
		SendBuffer:   cfg.Realtime.SendBuffer,
	}))

	api := app.Group(cfg.Server.BaseRoute,
		authjwt.Soft(authjwt.Config{PublicKey: cfg.JWT.PublicKey}),
		profile.EnsureMiddleware(profileSvc),
	)

	profile.RegisterRoutes(api, &profile.ProfileHandlers{ProfileHandler: profile.NewProfileHandler(profileSvc)}, cfg)
	media.RegisterRoutes(api, &media.Handlers{MediaHandler: mediahandlers.NewMediaHandler(mediaSvc)}, cfg)
	posts.RegisterRoutes(api, &posts.PostsHandlers{PostHandler: posthandlers.NewPostHandler(postSvc)}, cfg)
	follows.RegisterRoutes(api, &follows.Handlers{FollowHandler: followhandlers.NewFollowHandler(followSvc)}, cfg)
	notifications.RegisterRoutes(api, &notifications.Handlers{
		NotificationHandler: notificationhandlers.NewNotificationHandler(notificationSvc, cfg.Push.VAPIDPublicKey),
	}, cfg)
	messages.RegisterRoutes(api, &messages.Handlers{MessageHandler: messagehandlers.NewMessageHandler(messageSvc)}, cfg)
	stories.RegisterRoutes(api, &stories.Handlers{StoryHandler: storyhandlers.NewStoryHandler(storySvc)}, cfg)
	bookmarks.RegisterRoutes(api, &bookmarks.Handlers{BookmarkHandler: bookmarkhandlers.NewBookmarkHandler(bookmarkSvc)}, cfg)

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting Friendflix API on %s", cfg.Server.Address())
		errCh <- app.Listen(cfg.Server.Address())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Warn("shutdown: %v", err)
	}
	return nil
}
