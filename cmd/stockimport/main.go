package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/epeers/stockdata/config"
	"github.com/epeers/stockdata/internal/csvimport"
	"github.com/epeers/stockdata/internal/middleware"
	"github.com/epeers/stockdata/internal/models"
	"github.com/epeers/stockdata/internal/repository"
	"github.com/epeers/stockdata/internal/services"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	sqlitePath string
	logLevel   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "stockimport",
		Short:         "Import, export and migrate stock data tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.SetupLogging(opts.logLevel, "text")
		},
	}
	cmd.PersistentFlags().StringVar(&opts.sqlitePath, "sqlite", "", "Use the SQLite database at this path instead of PG_URL")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newImportCmd(&opts),
		newExportCmd(&opts),
		newMigrateCmd(&opts),
		newTokenCmd(),
	)
	return cmd
}

// openBackend opens the store named by --sqlite, or the one configured in the environment
func openBackend(ctx context.Context, opts *rootOptions) (*repository.Backend, int, error) {
	if opts.sqlitePath != "" {
		b, err := repository.OpenBackend(ctx, repository.BackendOptions{
			Driver:     config.DriverSQLite,
			SQLitePath: opts.sqlitePath,
			Migrate:    true,
		})
		return b, services.DefaultLookupChunk, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, 0, err
	}
	b, err := repository.OpenBackend(ctx, repository.BackendOptions{
		Driver:     cfg.DBDriver,
		PGURL:      cfg.PGURL,
		SQLitePath: cfg.SQLitePath,
		Migrate:    true,
	})
	return b, cfg.SymbolLookupChunk, err
}

func lookupSpec(domain string) (*models.ImportRowSpec, error) {
	spec, ok := csvimport.Lookup(domain)
	if !ok {
		names := make([]string, 0, len(csvimport.Specs))
		for _, s := range csvimport.All() {
			names = append(names, s.Domain)
		}
		return nil, fmt.Errorf("unknown domain %q (one of: %s)", domain, strings.Join(names, ", "))
	}
	return spec, nil
}

func newImportCmd(root *rootOptions) *cobra.Command {
	var domain, file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a CSV file into a domain table",
		Long: "Import a CSV file into a domain table.\n\n" +
			"Rows are upserted on their natural key. Existing rows get every non-key column\n" +
			"overwritten, so an empty cell replaces a stored value with NULL.",
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := lookupSpec(domain)
			if err != nil {
				return err
			}

			backend, chunk, err := openBackend(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer backend.Close()

			// the pipeline deletes its input, so it gets a copy
			staged, err := stageCopy(file)
			if err != nil {
				return err
			}

			svc := services.NewImportService(services.NewSymbolLookup(backend.Symbols, chunk), backend.Rows)
			result, err := svc.ImportFile(cmd.Context(), spec, staged)
			if result != nil {
				if perr := printJSON(cmd.OutOrStdout(), result); perr != nil {
					return perr
				}
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "imported %d of %d rows into %s (%d duplicate, %d rejected)\n",
				result.ImportedCount, result.TotalRows, spec.Domain, result.DuplicateRows, len(result.RejectedRows))
			fmt.Fprintln(cmd.ErrOrStderr(), "note: empty cells overwrite existing values with NULL")
			return nil
		},
	}

	cmd.Flags().StringVar(&domain, "domain", "", "Domain name or route, e.g. stock_pe (required)")
	cmd.Flags().StringVar(&file, "file", "", "CSV file to import (required)")
	_ = cmd.MarkFlagRequired("domain")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newExportCmd(root *rootOptions) *cobra.Command {
	var domain, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a domain table as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := lookupSpec(domain)
			if err != nil {
				return err
			}

			backend, _, err := openBackend(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer backend.Close()

			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			n, err := services.NewExportService(backend.Rows).ExportCSV(cmd.Context(), spec, w)
			if err != nil {
				return err
			}
			log.Infof("Exported %d %s rows", n, spec.Domain)
			return nil
		},
	}

	cmd.Flags().StringVar(&domain, "domain", "", "Domain name or route (required)")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output file, - for stdout")
	_ = cmd.MarkFlagRequired("domain")
	return cmd
}

func newMigrateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, _, err := openBackend(cmd.Context(), root)
			if err != nil {
				return err
			}
			backend.Close()
			log.Infof("Schema is up to date (%s)", backend.Driver)
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	var sub, role string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				if cfg, err := config.Load(); err == nil {
					secret = cfg.JWTSecret
				}
			}
			if secret == "" {
				return errors.New("JWT_SECRET environment variable is required")
			}

			token, err := middleware.GenerateToken(secret, sub, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&sub, "sub", "admin", "Token subject")
	cmd.Flags().StringVar(&role, "role", middleware.RoleAdmin, "Role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

// stageCopy copies src to a fresh temp file and returns its path
func stageCopy(src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.CreateTemp("", "stockimport-*.csv")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", err
	}
	return out.Name(), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
