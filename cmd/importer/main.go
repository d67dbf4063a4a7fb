package main

import (
	"context"
	"fmt"
	"os"

	"vet-hospital-api/internal/config"
	"vet-hospital-api/internal/dataset"
	"vet-hospital-api/internal/logging"
	"vet-hospital-api/internal/repository"
	"vet-hospital-api/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := newRootCmd(cfg).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:          "importer",
		Short:        "Convert the veterinary hospital registry export",
		SilenceUsage: true,
	}
	root.AddCommand(newConvertCmd(cfg), newLoadCmd(cfg), newSearchCmd(cfg))
	return root
}

func newConvertCmd(cfg config.Config) *cobra.Command {
	var file, out, projection string
	var workers int

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Write the hospital dataset as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg.Projection = projection
			cfg.Workers = workers
			if err := cfg.Validate(); err != nil {
				return err
			}

			svc := service.NewIngestService(cfg.Pipeline(), dataset.JSONFileSink{Path: out})
			_, summary, err := svc.Ingest(cmd.Context(), file)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Processed %d lines.\n", summary.Lines)
			fmt.Fprintf(w, "Valid hospitals found: %d\n", summary.Valid)
			fmt.Fprintf(w, "Saved to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", cfg.InputPath, "Path to the registry CSV export")
	cmd.Flags().StringVar(&out, "out", cfg.OutputPath, "Path of the JSON dataset to write")
	cmd.Flags().StringVar(&projection, "projection", cfg.Projection, "Source grid projection")
	cmd.Flags().IntVar(&workers, "workers", cfg.Workers, "Rows normalized concurrently")
	return cmd
}

func newLoadCmd(cfg config.Config) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Replace the hospitals table with the registry contents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.DBSource == "" {
				return fmt.Errorf("DB_SOURCE is not configured")
			}

			ctx := cmd.Context()
			conn, err := pgxpool.New(ctx, cfg.DBSource)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer conn.Close()

			repo := repository.NewRepository(conn)
			svc := service.NewIngestService(cfg.Pipeline(), service.StoreSink{Store: repo})
			_, summary, err := svc.Ingest(ctx, file)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Successfully imported %d records\n", summary.Valid)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", cfg.InputPath, "Path to the registry CSV export")
	return cmd
}

func newSearchCmd(cfg config.Config) *cobra.Command {
	var keywords []string
	var limit int

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Query loaded hospitals by name or address keyword",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.DBSource == "" {
				return fmt.Errorf("DB_SOURCE is not configured")
			}
			if len(keywords) == 0 {
				return fmt.Errorf("--keyword is required")
			}

			ctx := cmd.Context()
			conn, err := pgxpool.New(ctx, cfg.DBSource)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer conn.Close()

			hospitals, err := repository.NewRepository(conn).SearchHospitals(ctx, keywords, limit)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, h := range hospitals {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", h.ID, h.Name, h.Address, h.Phone)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&keywords, "keyword", nil, "Keyword to match (repeatable)")
	cmd.Flags().IntVar(&limit, "limit", cfg.ResultLimit, "Maximum rows printed")
	return cmd
}
