package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"sales_crm_backend/internal/auth"
	"sales_crm_backend/internal/auth/transport"
	"sales_crm_backend/platform/config"
	"sales_crm_backend/platform/db"
	"sales_crm_backend/platform/logger"
	"sales_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const hireDateLayout = "2006-01-02"

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withPool(cmd.Context(), func(_ *config.Config, _ *logger.Logger, pool *pgxpool.Pool) error {
			applied, err := db.RunMigrations(cmd.Context(), pool)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", len(applied))
			return nil
		})
	},
}

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Manage agent accounts",
}

var createAgentFlags struct {
	name       string
	email      string
	password   string
	phone      string
	department string
	hireDate   string
	role       string
}

var agentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a single agent",
	RunE: func(cmd *cobra.Command, _ []string) error {
		req, err := createRequestFromFlags()
		if err != nil {
			return err
		}
		return withAuth(cmd.Context(), func(m *auth.Module) error {
			agent, err := m.Service().CreateAgent(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s agent %s (%s)\n", agent.Role, agent.Email, agent.ID)
			return nil
		})
	},
}

var importFile string

var agentsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Create agents from a YAML file, skipping existing emails",
	Long: `Create agents from a YAML file. The file holds a list of agents:

  - name: Dana Reyes
    email: dana@example.com
    password: "Str0ng!Passw0rd"
    department: Sales
    role: agent`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f, err := os.Open(importFile)
		if err != nil {
			return err
		}
		defer f.Close()

		reqs, err := parseAgentFile(f)
		if err != nil {
			return err
		}
		return withAuth(cmd.Context(), func(m *auth.Module) error {
			result, err := m.Service().ImportAgents(cmd.Context(), reqs)
			for _, email := range result.Created {
				fmt.Fprintln(cmd.OutOrStdout(), "created", email)
			}
			for _, email := range result.Skipped {
				fmt.Fprintln(cmd.OutOrStdout(), "skipped", email)
			}
			return err
		})
	},
}

func init() {
	flags := agentsCreateCmd.Flags()
	flags.StringVar(&createAgentFlags.name, "name", "", "full name")
	flags.StringVar(&createAgentFlags.email, "email", "", "login email")
	flags.StringVar(&createAgentFlags.password, "password", "", "initial password")
	flags.StringVar(&createAgentFlags.phone, "phone", "", "phone number")
	flags.StringVar(&createAgentFlags.department, "department", "", "department (default Sales)")
	flags.StringVar(&createAgentFlags.hireDate, "hire-date", "", "hire date as YYYY-MM-DD (default today)")
	flags.StringVar(&createAgentFlags.role, "role", "agent", "agent or admin")
	_ = agentsCreateCmd.MarkFlagRequired("name")
	_ = agentsCreateCmd.MarkFlagRequired("email")
	_ = agentsCreateCmd.MarkFlagRequired("password")

	agentsImportCmd.Flags().StringVarP(&importFile, "file", "f", "", "YAML file with agents")
	_ = agentsImportCmd.MarkFlagRequired("file")

	agentsCmd.AddCommand(agentsCreateCmd)
	agentsCmd.AddCommand(agentsImportCmd)
}

func createRequestFromFlags() (transport.CreateAgentRequest, error) {
	req := transport.CreateAgentRequest{
		Name:       createAgentFlags.name,
		Email:      createAgentFlags.email,
		Password:   createAgentFlags.password,
		Phone:      createAgentFlags.phone,
		Department: createAgentFlags.department,
		Role:       createAgentFlags.role,
	}
	if createAgentFlags.hireDate != "" {
		hired, err := time.Parse(hireDateLayout, createAgentFlags.hireDate)
		if err != nil {
			return transport.CreateAgentRequest{}, fmt.Errorf("invalid --hire-date: %w", err)
		}
		req.HireDate = &hired
	}
	return req, nil
}

// parseAgentFile decodes a YAML list of agents.
func parseAgentFile(r io.Reader) ([]transport.CreateAgentRequest, error) {
	var reqs []transport.CreateAgentRequest
	if err := yaml.NewDecoder(r).Decode(&reqs); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("agent file is empty")
		}
		return nil, fmt.Errorf("parse agent file: %w", err)
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("agent file has no agents")
	}
	return reqs, nil
}

func withPool(ctx context.Context, fn func(cfg *config.Config, log *logger.Logger, pool *pgxpool.Pool) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Env)

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(cfg, log, pool)
}

func withAuth(ctx context.Context, fn func(m *auth.Module) error) error {
	return withPool(ctx, func(cfg *config.Config, log *logger.Logger, pool *pgxpool.Pool) error {
		m, err := auth.NewModule(pool, cfg, validator.New(), log)
		if err != nil {
			return err
		}
		return fn(m)
	})
}
