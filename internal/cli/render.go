package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evantbyrne/sqldialect"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered dialect names",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range sqldialect.Registered() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

func addSizeFlags(cmd *cobra.Command) {
	cmd.Flags().Int("length", 0, "Column length (0 uses the dialect default)")
	cmd.Flags().Int("precision", 0, "Numeric or temporal precision")
	cmd.Flags().Int("scale", 0, "Numeric scale")
}

func sizeFlags(cmd *cobra.Command) sqldialect.Size {
	length, _ := cmd.Flags().GetInt("length")
	precision, _ := cmd.Flags().GetInt("precision")
	scale, _ := cmd.Flags().GetInt("scale")
	return sqldialect.Size{Length: length, Precision: precision, Scale: scale}
}

func newColumnTypeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column-type <dialect> <type>",
		Short: "Print the DDL column type for a SQL type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dialect, err := openDialect(cmd, args[0])
			if err != nil {
				return err
			}
			code, err := sqldialect.ParseSQLType(args[1])
			if err != nil {
				return err
			}
			ddl, err := sqldialect.ColumnDDL(dialect, code, sizeFlags(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ddl)
			return nil
		},
	}
	addSizeFlags(cmd)
	return cmd
}

func newCastTypeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cast-type <dialect> <type>",
		Short: "Print the cast target type for a SQL type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dialect, err := openDialect(cmd, args[0])
			if err != nil {
				return err
			}
			code, err := sqldialect.ParseSQLType(args[1])
			if err != nil {
				return err
			}
			ddl, err := sqldialect.CastDDL(dialect, code, sizeFlags(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ddl)
			return nil
		},
	}
	addSizeFlags(cmd)
	return cmd
}

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <dialect> <unit> <expr>",
		Short: "Render extract() of a temporal unit",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			dialect, err := openDialect(cmd, args[0])
			if err != nil {
				return err
			}
			unit, err := sqldialect.ParseTemporalUnit(args[1])
			if err != nil {
				return err
			}
			pattern := dialect.ExtractPattern(unit)
			fmt.Fprintln(cmd.OutOrStdout(), sqldialect.Render(pattern, dialect.TranslateExtractField(unit), args[2]))
			return nil
		},
	}
}

func newTimestampaddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timestampadd <dialect> <unit> <magnitude> <expr>",
		Short: "Render adding a magnitude of unit to a temporal value",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			dialect, err := openDialect(cmd, args[0])
			if err != nil {
				return err
			}
			unit, err := sqldialect.ParseTemporalUnit(args[1])
			if err != nil {
				return err
			}
			typeName, _ := cmd.Flags().GetString("type")
			temporalType, err := sqldialect.ParseTemporalType(typeName)
			if err != nil {
				return err
			}
			interval, _ := cmd.Flags().GetBool("interval")
			pattern, err := dialect.TimestampaddPattern(unit, temporalType, interval)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sqldialect.Render(pattern, unit.String(), args[2], args[3]))
			return nil
		},
	}
	cmd.Flags().String("type", "timestamp", "Temporal type of the value (date, time, timestamp)")
	cmd.Flags().Bool("interval", false, "Magnitude is a duration rather than a count")
	return cmd
}

func newTimestampdiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timestampdiff <dialect> <unit> <from> <to>",
		Short: "Render the difference between two temporal values in unit",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			dialect, err := openDialect(cmd, args[0])
			if err != nil {
				return err
			}
			unit, err := sqldialect.ParseTemporalUnit(args[1])
			if err != nil {
				return err
			}
			fromName, _ := cmd.Flags().GetString("from-type")
			from, err := sqldialect.ParseTemporalType(fromName)
			if err != nil {
				return err
			}
			toName, _ := cmd.Flags().GetString("to-type")
			to, err := sqldialect.ParseTemporalType(toName)
			if err != nil {
				return err
			}
			pattern, err := dialect.TimestampdiffPattern(unit, from, to)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sqldialect.Render(pattern, unit.String(), args[2], args[3]))
			return nil
		},
	}
	cmd.Flags().String("from-type", "timestamp", "Temporal type of from")
	cmd.Flags().String("to-type", "timestamp", "Temporal type of to")
	return cmd
}

func newLockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock <dialect>",
		Short: "Render a locking select",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dialect, err := openDialect(cmd, args[0])
			if err != nil {
				return err
			}
			options, err := lockFlags(cmd)
			if err != nil {
				return err
			}
			table, _ := cmd.Flags().GetString("table")
			query, _, err := sqldialect.From(table).ForUpdate(options).Build(dialect)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), query)
			return nil
		},
	}
	cmd.Flags().String("table", "t", "Table to select from")
	cmd.Flags().String("mode", "upgrade", "Lock mode (e.g., upgrade, pessimistic_read, upgrade_nowait)")
	cmd.Flags().String("timeout", "", "Lock timeout in milliseconds, nowait or skip_locked")
	cmd.Flags().StringSlice("aliases", nil, "Per-alias lock modes (e.g., u=upgrade,o=pessimistic_write)")
	return cmd
}

func lockFlags(cmd *cobra.Command) (sqldialect.LockOptions, error) {
	var options sqldialect.LockOptions
	modeName, _ := cmd.Flags().GetString("mode")
	mode, err := sqldialect.ParseLockMode(modeName)
	if err != nil {
		return options, err
	}
	options.Mode = mode

	timeoutName, _ := cmd.Flags().GetString("timeout")
	timeout, err := sqldialect.ParseTimeout(timeoutName)
	if err != nil {
		return options, err
	}
	options.Timeout = timeout

	aliases, _ := cmd.Flags().GetStringSlice("aliases")
	for _, alias := range aliases {
		name, modeName, ok := strings.Cut(alias, "=")
		if !ok {
			modeName = "upgrade"
		}
		mode, err := sqldialect.ParseLockMode(modeName)
		if err != nil {
			return options, err
		}
		if options.Aliases == nil {
			options.Aliases = make(map[string]sqldialect.LockMode)
		}
		options.Aliases[strings.TrimSpace(name)] = mode
	}
	return options, nil
}

func newFunctionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "functions <dialect>",
		Short: "List the functions a dialect can render",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dialect, err := openDialect(cmd, args[0])
			if err != nil {
				return err
			}
			registry := sqldialect.Functions(dialect)
			for _, name := range registry.Names() {
				function, ok := registry.Lookup(name)
				if !ok {
					continue
				}
				if function.Name != name {
					fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", name, function.Signature())
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), function.Signature())
			}
			return nil
		},
	}
}

func newDDLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ddl <dialect> <table.yaml>",
		Short: "Render create table from a YAML table definition",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dialect, err := openDialect(cmd, args[0])
			if err != nil {
				return err
			}
			table, err := sqldialect.LoadTable(args[1])
			if err != nil {
				return err
			}
			ifNotExists, _ := cmd.Flags().GetBool("if-not-exists")
			query, err := sqldialect.BuildTableCreate(dialect, table, sqldialect.TableCreateConfig{IfNotExists: ifNotExists})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), query)
			return nil
		},
	}
	cmd.Flags().Bool("if-not-exists", false, "Add if not exists when the dialect supports it")
	return cmd
}
