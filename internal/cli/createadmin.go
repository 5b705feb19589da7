package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"compboard/internal/auth"
	"compboard/internal/config"
	"compboard/internal/domain"
	"compboard/internal/infra/postgres"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

// NewCreateAdminCmd provisions the initial admin account. Safe to re-run:
// an existing team just gets its password reset.
func NewCreateAdminCmd(configPath *string) *cobra.Command {
	var name, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create or reset the admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return createAdmin(cmd.Context(), *configPath, name, password)
		},
	}
	cmd.Flags().StringVar(&name, "name", "admin", "admin team name")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	cmd.MarkFlagRequired("password")
	return cmd
}

func createAdmin(ctx context.Context, configPath, name, password string) error {
	if len([]rune(password)) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	teams := postgres.NewTeamRepository(pool)
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	existing, err := teams.GetByName(ctx, name)
	switch {
	case err == nil:
		if err := teams.UpdatePasswordHash(ctx, existing.ID, hash); err != nil {
			return err
		}
		log.Printf("admin team %q already exists, password reset", name)
	case errors.Is(err, domain.ErrTeamNotFound):
		if _, err := teams.Create(ctx, name, hash, true); err != nil {
			return err
		}
		log.Printf("admin team %q created", name)
	default:
		return err
	}
	return nil
}
