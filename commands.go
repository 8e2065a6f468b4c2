package main

import (
	"context"
	"fmt"
	"leadboard/handlers/api"
	"leadboard/models"
	"leadboard/service"
	"leadboard/storage"
	"leadboard/utils"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := storage.Migrate(cfg.Database); err != nil {
			return err
		}
		fmt.Println("Migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back every migration (drops all data)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := storage.MigrateDown(cfg.Database); err != nil {
			return err
		}
		fmt.Println("Migrations rolled back")
		return nil
	},
}

var (
	seedEmail string
	seedCount int
	seedValue int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create sample campaigns and fake leads for a user",
	RunE:  runSeed,
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var (
	userName     string
	userEmail    string
	userPassword string
)

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	RunE:  runUserCreate,
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)

	seedCmd.Flags().StringVar(&seedEmail, "email", "", "Email of the user to seed (required)")
	seedCmd.Flags().IntVar(&seedCount, "count", service.DefaultSeedLeads, "Number of leads to create")
	seedCmd.Flags().Int64Var(&seedValue, "seed", 0, "Fake data seed (0 = random)")
	seedCmd.MarkFlagRequired("email")

	userCreateCmd.Flags().StringVar(&userName, "name", "", "Display name")
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "Email address (required)")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "Password, at least 8 characters (required)")
	userCreateCmd.MarkFlagRequired("email")
	userCreateCmd.MarkFlagRequired("password")
	userCmd.AddCommand(userCreateCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	utils.Log.Info("Initializing Leadboard...")

	if err := storage.Migrate(cfg.Database); err != nil {
		return err
	}
	db, err := storage.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := storage.NewSessionStorage(cfg.Session.Path)
	if err != nil {
		return err
	}
	defer sessions.Close()

	app := api.NewApp(api.Deps{
		Config:   cfg,
		DB:       db,
		Sessions: api.NewSessionStore(cfg, sessions),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go purgeSessions(ctx, sessions)

	errc := make(chan error, 1)
	go func() {
		utils.Log.Info("Starting server on port %d...", cfg.Server.Port)
		errc <- app.Listen(fmt.Sprintf(":%d", cfg.Server.Port))
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	utils.Log.Info("Shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		utils.Log.Error("Error during shutdown: %v", err)
	}
	return nil
}

// purgeSessions removes expired sessions every 10 minutes until ctx ends
func purgeSessions(ctx context.Context, sessions *storage.SessionStorage) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.PurgeExpired()
			if err != nil {
				utils.Log.Warn("Failed to purge sessions: %v", err)
				continue
			}
			if n > 0 {
				utils.Log.Debug("Purged %d expired sessions", n)
			}
		}
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	db, err := storage.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	user, err := storage.NewUserStorage(db).GetUserByEmail(cmd.Context(), seedEmail)
	if err != nil {
		return fmt.Errorf("find user %s: %w", seedEmail, err)
	}

	seeder := service.NewSeeder(storage.NewCampaignStorage(db), storage.NewLeadStorage(db), seedValue)
	res, err := seeder.Seed(cmd.Context(), user.ID, seedCount)
	if err != nil {
		return err
	}

	fmt.Println(utils.TPlural(utils.Localizer, "seed_result", res.Leads, map[string]interface{}{
		"Campaigns": res.Campaigns,
	}))
	return nil
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	req := models.RegisterRequest{Name: userName, Email: userEmail, Password: userPassword}
	if req.Name == "" {
		req.Name = userEmail
	}
	if err := req.Validate(); err != nil {
		return err
	}

	db, err := storage.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	user := &models.User{Name: req.Name, Email: req.Email}
	if err := storage.NewUserStorage(db).CreateUser(cmd.Context(), user, req.Password); err != nil {
		return err
	}
	fmt.Printf("Created user %s (%s)\n", user.Email, user.ID)
	return nil
}
