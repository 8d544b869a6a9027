package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/khata-dev/khata/internal/buildinfo"
	"github.com/khata-dev/khata/internal/config"
	"github.com/khata-dev/khata/internal/sqlite"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "khata",
		Short:   "Household ledger built from bank statement exports",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newLoadCommand())
	rootCmd.AddCommand(newTransfersCommand())
	rootCmd.AddCommand(newBalancesCommand())
	rootCmd.AddCommand(newAdjustCommand())
	rootCmd.AddCommand(newValidateCommand())

	return rootCmd
}

// openLedger reads khata.yaml from dir and opens its database.
func openLedger(dir string) (*config.Config, *sqlite.Store, error) {
	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	if err != nil {
		return nil, nil, fmt.Errorf("not a khata ledger (run khata init first): %w", err)
	}
	store, err := sqlite.Open(filepath.Join(dir, cfg.Database))
	if err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}

// parseDay parses a YYYY-MM-DD command line value.
func parseDay(value string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: expected YYYY-MM-DD", value)
	}
	return day, nil
}
