package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"facilitydesk/backend/internal/api/middleware"
	"facilitydesk/backend/internal/complaint"
	"facilitydesk/backend/internal/config"
	"facilitydesk/backend/internal/hub"
	"facilitydesk/backend/internal/logger"
	"facilitydesk/backend/internal/mailer"
	"facilitydesk/backend/internal/notify"
	"facilitydesk/backend/internal/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var seedDepartments = []struct{ Name, Code string }{
	{"MEP", "MEP"},
	{"Janitorial", "JAN"},
	{"Building", "BLD"},
}

func main() {
	_ = godotenv.Load()

	var cfg *config.Config
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Facility desk maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(); err != nil {
				return err
			}
			logger.InitLogger(cfg.AppName + "-admin")
			return nil
		},
	}

	root.AddCommand(
		migrateCmd(&cfg),
		seedCmd(&cfg),
		tokenCmd(&cfg),
		recomputeCmd(&cfg),
		workerCmd(&cfg),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openStorage connects to PostgreSQL and, when configured, Redis.
func openStorage(ctx context.Context, cfg *config.Config) (*storage.Service, error) {
	db, err := storage.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	rdb, err := storage.OpenRedis(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return storage.NewStorageService(db, rdb), nil
}

func migrateCmd(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := storage.Open(*cfg)
			if err != nil {
				return err
			}
			if err := storage.Migrate(db); err != nil {
				return err
			}
			fmt.Println("Schema is up to date.")
			return nil
		},
	}
}

func seedCmd(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert roles, departments and notification templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openStorage(ctx, *cfg)
			if err != nil {
				return err
			}
			if err := storage.Migrate(s.DB); err != nil {
				return err
			}

			for _, role := range []string{
				config.RoleAdmin, config.RoleManager, config.RoleSupervisor,
				config.RoleBookkeeper, config.RoleTechnician, config.RoleTenant,
			} {
				if _, err := s.EnsureRole(ctx, role); err != nil {
					return fmt.Errorf("role %s: %w", role, err)
				}
			}
			for _, d := range seedDepartments {
				if _, err := s.EnsureDepartment(ctx, d.Name, d.Code); err != nil {
					return fmt.Errorf("department %s: %w", d.Name, err)
				}
			}
			if _, err := s.EnsureTemplate(ctx, config.TemplateJobSlipCreated, "A job slip was created"); err != nil {
				return err
			}
			if _, err := s.EnsureTemplate(ctx, config.TemplateJanitorialCreated, "A janitorial report was created"); err != nil {
				return err
			}

			fmt.Println("Reference data seeded.")
			return nil
		},
	}
}

func tokenCmd(cfg **config.Config) *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token <user_id>",
		Short: "Print a bearer token for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			if ttl == 0 {
				ttl = (*cfg).TokenTTL
			}
			tok, err := middleware.IssueToken((*cfg).JWTSecret, uint(id), ttl)
			if err != nil {
				return err
			}
			fmt.Println(tok)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to TOKEN_TTL)")
	return cmd
}

func recomputeCmd(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "recompute-complaint <complain_no>",
		Short: "Resolve a complaint if all of its job slips are Completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStorage(cmd.Context(), *cfg)
			if err != nil {
				return err
			}
			resolved, err := complaint.NewService(s, nil).RecomputeComplaint(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if resolved {
				fmt.Printf("Complaint %s is now %s.\n", args[0], config.ComplaintResolved)
			} else {
				fmt.Printf("Complaint %s still has open job slips.\n", args[0])
			}
			return nil
		},
	}
}

func workerCmd(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "notify-worker",
		Short: "Process queued notification events until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openStorage(ctx, *cfg)
			if err != nil {
				return err
			}
			if s.Redis == nil {
				return fmt.Errorf("notify-worker requires REDIS_ADDR")
			}
			mail, err := mailer.New(*cfg)
			if err != nil {
				return err
			}

			// Live pushes go through Redis to whichever API instance holds the socket.
			relay := hub.NewRelay(s, nil, config.NotifyChannel)
			svc := notify.NewService(s, mail, relay, (*cfg).AppURL)
			return notify.NewWorker(s, config.NotifyQueueKey, svc).Run(ctx)
		},
	}
}
