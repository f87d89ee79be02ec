package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/evantbyrne/sqldialect"
)

func newDetectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect <dialect>",
		Short: "Resolve a dialect at the version a live database reports",
		Long: `Detect connects to a database, runs the dialect's version query and prints
the resolved dialect. Drivers: postgres, pgx, mysql, sqlserver, sqlite.`,
		Args: cobra.ExactArgs(1),
		RunE: runDetect,
	}
	cmd.Flags().String("driver", "", "database/sql driver name")
	cmd.Flags().String("dsn", "", "Data source name")
	cmd.Flags().Duration("timeout", 30*time.Second, "Connection timeout")
	return cmd
}

func runDetect(cmd *cobra.Command, args []string) error {
	driver, _ := cmd.Flags().GetString("driver")
	if driver == "" {
		return fmt.Errorf("driver is required (use --driver)")
	}
	dsn, _ := cmd.Flags().GetString("dsn")
	if dsn == "" {
		return fmt.Errorf("data source is required (use --dsn)")
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	options, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("open %s: %w", driver, err)
	}
	defer db.Close()

	logger := newLogger(cmd)
	dialect, err := sqldialect.NewResolver(logger).Resolve(ctx, db, args[0], options)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", dialect.Name(), dialect.DatabaseVersion())
	return nil
}
