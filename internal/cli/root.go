package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/evantbyrne/sqldialect"
	_ "github.com/evantbyrne/sqldialect/cockroachdialect"
	_ "github.com/evantbyrne/sqldialect/db2dialect"
	_ "github.com/evantbyrne/sqldialect/derbydialect"
	_ "github.com/evantbyrne/sqldialect/firebirddialect"
	_ "github.com/evantbyrne/sqldialect/gaussdbdialect"
	_ "github.com/evantbyrne/sqldialect/h2dialect"
	_ "github.com/evantbyrne/sqldialect/informixdialect"
	_ "github.com/evantbyrne/sqldialect/oracledialect"
	_ "github.com/evantbyrne/sqldialect/singlestoredialect"
	_ "github.com/evantbyrne/sqldialect/sqlitedialect"
	_ "github.com/evantbyrne/sqldialect/sqlserverdialect"
)

// Version information (set by build flags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the full dialectctl command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "dialectctl",
		Short: "Inspect the SQL each database dialect generates",
		Long: `dialectctl - Inspect the SQL each database dialect generates

Renders column types, casts, temporal arithmetic, locking clauses, function
invocations and table DDL for a named dialect at a chosen version, and can
detect the version of a live database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "YAML file with dialect options")
	root.PersistentFlags().String("dialect-version", "", "Database version (e.g., 15.0.2000)")
	root.PersistentFlags().CountP("verbose", "v", "Verbosity level (repeat for more)")

	root.AddCommand(
		newVersionCmd(),
		newListCmd(),
		newColumnTypeCmd(),
		newCastTypeCmd(),
		newExtractCmd(),
		newTimestampaddCmd(),
		newTimestampdiffCmd(),
		newLockCmd(),
		newFunctionsCmd(),
		newDDLCmd(),
		newDetectCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dialectctl %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

// logLevel maps the -v count to a slog level.
func logLevel(verbose int) slog.Level {
	switch {
	case verbose <= 0:
		return slog.LevelError
	case verbose == 1:
		return slog.LevelWarn
	case verbose == 2:
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetCount("verbose")
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logLevel(verbose)}))
}

// loadOptions reads --config and applies --dialect-version on top of it.
func loadOptions(cmd *cobra.Command) (sqldialect.Options, error) {
	var options sqldialect.Options
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		loaded, err := sqldialect.LoadOptions(path)
		if err != nil {
			return options, err
		}
		options = loaded
	}
	raw, _ := cmd.Flags().GetString("dialect-version")
	if raw != "" {
		parsed, err := sqldialect.ParseVersion(raw)
		if err != nil {
			return options, err
		}
		options.Version = parsed
	}
	return options, nil
}

func openDialect(cmd *cobra.Command, name string) (sqldialect.Dialect, error) {
	options, err := loadOptions(cmd)
	if err != nil {
		return nil, err
	}
	dialect, err := sqldialect.Open(name, options)
	if err != nil {
		return nil, err
	}
	newLogger(cmd).Debug("opened dialect", "dialect", dialect.Name(), "version", dialect.DatabaseVersion().String())
	return dialect, nil
}
