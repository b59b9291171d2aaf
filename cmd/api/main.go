package main

import (
	"context"
	"fmt"
	common_api "hobby-lobby/internal/common/api"
	"hobby-lobby/internal/config"
	"hobby-lobby/internal/database"
	"hobby-lobby/internal/features/auth"
	"hobby-lobby/internal/features/chat"
	"hobby-lobby/internal/features/friend"
	"hobby-lobby/internal/features/group"
	"hobby-lobby/internal/features/meeting"
	"hobby-lobby/internal/features/notification"
	"hobby-lobby/internal/features/place"
	"hobby-lobby/internal/features/system"
	"hobby-lobby/internal/features/user"
	"hobby-lobby/internal/logger"
	"hobby-lobby/internal/middleware"
	"hobby-lobby/pkg/utils"
	"log"

	_ "hobby-lobby/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d routes\n", len(routes))
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// @title           Hobby Lobby API
// @version         1.0
// @description     Hobby coordination backend: groups, meeting votes, chats and places.

// @host            localhost:8000
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repository
			user.NewUserRepository,
			friend.NewFriendRequestRepository,
			group.NewGroupRepository,
			meeting.NewMeetingRepository,
			place.NewPlaceRepository,
			chat.NewChatRepository,
			notification.NewNotificationRepository,

			notification.NewNotificationService,
			auth.NewAuthService,
			user.NewUserService,
			friend.NewFriendService,
			group.NewGroupService,
			meeting.NewMeetingService,
			place.NewPlaceService,
			chat.NewChatService,

			meeting.NewExpiryScheduler,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(s notification.NotificationService) notification.Dispatcher { return s },
			func(r group.GroupRepository) meeting.GroupDirectory { return r },
			func(r meeting.MeetingRepository) group.MeetingManager { return r },
			func(s chat.ChatService) group.ChatManager { return s },

			// Initialize Controller
			auth.NewAuthController,
			user.NewUserController,
			friend.NewFriendController,
			group.NewGroupController,
			meeting.NewMeetingController,
			place.NewPlaceController,
			chat.NewChatController,
			notification.NewNotificationController,

			// Initialize API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(user.NewUserApi),
			AsRoute(friend.NewFriendApi),
			AsRoute(group.NewGroupApi),
			AsRoute(meeting.NewMeetingApi),
			AsRoute(place.NewPlaceApi),
			AsRoute(chat.NewChatApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},

			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,

			func(lc fx.Lifecycle, scheduler *meeting.ExpiryScheduler) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return scheduler.Start()
					},
					OnStop: func(ctx context.Context) error {
						scheduler.Stop()
						return nil
					},
				})
			},
		),
	)

	app.Run()
}
