package main

import (
	"context"

	"hobby-lobby/internal/config"
	"hobby-lobby/internal/database"
	"hobby-lobby/internal/features/group"
	"hobby-lobby/internal/features/place"
	"hobby-lobby/internal/features/user"
	"hobby-lobby/internal/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type demoUser struct {
	UniqueName  string
	DisplayName string
	Email       string
	Hobbies     []string
}

var demoUsers = []demoUser{
	{"alice", "Alice", "alice@example.com", []string{"bouldering", "board games"}},
	{"bob", "Bob", "bob@example.com", []string{"bouldering", "chess"}},
	{"carol", "Carol", "carol@example.com", []string{"hiking", "photography"}},
}

// Seed runs the database seeding
func Seed(
	lc fx.Lifecycle,
	userRepo user.UserRepository,
	groupRepo group.GroupRepository,
	placeRepo place.PlaceRepository,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				logger.Info("🌱 Starting demo data seeding...")

				// All demo accounts share one password.
				hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
				if err != nil {
					logger.Fatal("Failed to hash demo password", zap.Error(err))
				}

				userIDs := make([]primitive.ObjectID, 0, len(demoUsers))
				for _, du := range demoUsers {
					if existing, err := userRepo.FindByUniqueName(ctx, du.UniqueName); err == nil {
						logger.Info("User exists, skipping", zap.String("uniqueName", du.UniqueName))
						userIDs = append(userIDs, existing.ID)
						continue
					}

					u := &user.User{
						UniqueName:  du.UniqueName,
						DisplayName: du.DisplayName,
						Email:       du.Email,
						Password:    string(hash),
						IsVerified:  true,
						Role:        "user",
						Hobbies:     du.Hobbies,
						IsPublic:    true,
					}
					if err := userRepo.Create(ctx, u); err != nil {
						logger.Fatal("Failed to create user", zap.String("uniqueName", du.UniqueName), zap.Error(err))
					}
					logger.Info("User created", zap.String("uniqueName", du.UniqueName))
					userIDs = append(userIDs, u.ID)
				}

				// One demo group owned by the first user, with everyone as member.
				groups, err := groupRepo.FindByMember(ctx, userIDs[0])
				if err != nil {
					logger.Fatal("Failed to look up groups", zap.Error(err))
				}
				if len(groups) == 0 {
					g := &group.Group{
						GroupName:    "Thursday Boulder Crew",
						Description:  "Weekly bouldering, beginners welcome",
						Duration:     "2h",
						Frequency:    "weekly",
						IsRecruiting: true,
						Tags:         []string{"bouldering", "sports"},
						CreatedBy:    userIDs[0],
						Members:      userIDs,
					}
					if err := groupRepo.Create(ctx, g); err != nil {
						logger.Fatal("Failed to create group", zap.Error(err))
					}
					logger.Info("Group created", zap.String("groupName", g.GroupName))
				} else {
					logger.Info("Groups exist, skipping group seeding")
				}

				demoPlaces := []place.Place{
					{
						PlaceName:   "Boulderwelt East",
						Address:     "Climbing Street 1",
						OpeningTime: "08:00",
						ClosingTime: "23:00",
						Activity:    "bouldering",
						Tags:        []string{"indoor", "sports"},
						Description: "Large bouldering gym with a beginner area",
					},
					{
						PlaceName:   "Riverside Chess Pavilion",
						Address:     "Park Lane 5",
						OpeningTime: "10:00",
						ClosingTime: "20:00",
						Activity:    "chess",
						Tags:        []string{"outdoor", "quiet"},
						Description: "Open-air chess boards by the river",
					},
				}
				for i := range demoPlaces {
					p := &demoPlaces[i]
					if _, err := placeRepo.FindByNameAndAddress(ctx, p.PlaceName, p.Address); err == nil {
						logger.Info("Place exists, skipping", zap.String("placeName", p.PlaceName))
						continue
					}
					if err := placeRepo.Create(ctx, p); err != nil {
						logger.Fatal("Failed to create place", zap.String("placeName", p.PlaceName), zap.Error(err))
					}
					logger.Info("Place created", zap.String("placeName", p.PlaceName))
				}

				logger.Info("✅ Seeding complete")
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,

			user.NewUserRepository,
			group.NewGroupRepository,
			place.NewPlaceRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
