package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"taskflow/internal/auth"
	"taskflow/internal/config"
	"taskflow/internal/db"
	"taskflow/internal/logging"
	"taskflow/internal/password"
	"taskflow/internal/repository"
	"taskflow/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		fixturesPath string
		tokenFor     string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed TaskFlow with fixture users and tasks",
		Long: `Loads users and their tasks through the same use-cases the API runs.
Existing users are left untouched. With --token a development bearer
token is printed for the named user.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), fixturesPath, tokenFor)
		},
	}

	cmd.Flags().StringVarP(&fixturesPath, "file", "f", "", "fixtures JSON file (defaults to the embedded set)")
	cmd.Flags().StringVar(&tokenFor, "token", "", "print an access token for this seeded username")
	return cmd
}

func run(ctx context.Context, fixturesPath, tokenFor string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)

	fixtures, err := loadFixtures(fixturesPath)
	if err != nil {
		return err
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	logger.Info("connected to database", "driver", cfg.DBDriver)

	userRepo := repository.NewUserRepository(gormDB)
	users := service.NewUserService(userRepo, password.NewBcryptHasher(cfg.BcryptCost), nil, logger)
	tasks := service.NewTaskService(repository.NewTaskRepository(gormDB), userRepo, logger)

	summary, err := seed(ctx, users, tasks, fixtures, logger)
	if err != nil {
		return err
	}
	logger.Info("seed completed",
		"users_created", summary.UsersCreated,
		"users_existing", summary.UsersExisting,
		"tasks_created", summary.TasksCreated)

	if tokenFor == "" {
		return nil
	}
	token, err := issueToken(auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL), summary, fixtures, tokenFor)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

// issueToken mints a bearer token for a user known to the seed run.
func issueToken(jwtService *auth.JWTService, summary *SeedSummary, fixtures []SeedUser, username string) (string, error) {
	id, ok := summary.Users[username]
	if !ok {
		return "", fmt.Errorf("user %q is not part of the fixtures", username)
	}
	var email string
	for _, f := range fixtures {
		if f.Username == username {
			email = f.Email
			break
		}
	}
	return jwtService.GenerateAccessToken(id, username, email)
}
