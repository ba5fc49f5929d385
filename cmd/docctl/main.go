// Command docctl is the operator tool of the document verifier. It talks
// to the database directly and is meant for maintenance tasks that have
// no HTTP endpoint: migrations, role changes and quota resets.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-doc-verifier/internal/config"
	"github.com/MKhiriev/go-doc-verifier/internal/crypto"
	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// app is shared by the subcommands once the persistent flags are parsed.
type app struct {
	out    io.Writer
	dsn    string
	logger *logger.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, logger: logger.Nop()}
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "docctl",
		Short:         "Document verifier maintenance tool",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				a.logger = logger.NewLogger("docctl", "debug")
			}
			if a.dsn != "" {
				return nil
			}
			cfg, err := config.GetToolConfig()
			if err != nil {
				return err
			}
			a.dsn = cfg.Storage.DB.DSN
			return nil
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)

	rootCmd.PersistentFlags().StringVar(&a.dsn, "dsn", "", "database DSN (or set STORAGE_DB_DATABASE_URI)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stdout")

	rootCmd.AddCommand(
		a.migrateCmd(),
		a.userCmd(),
		a.quotaCmd(),
		a.maskCmd(),
		a.versionCmd(),
	)

	return rootCmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		// version needs no configuration
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(a.out, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))
		},
	}
}

// maskCmd shows how a document number appears in list responses.
func (a *app) maskCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "mask <value>",
		Short:             "Print the masked form of a document number",
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(a.out, crypto.Mask(args[0]))
		},
	}
}
