package cockroachdialect

import "github.com/evantbyrne/sqldialect"

func (dialect CockroachDialect) RegisterFunctions(registry *sqldialect.FunctionRegistry) {
	dialect.Base.RegisterFunctions(registry)

	functions := sqldialect.NewCommonFunctions(registry)
	functions.Ascii()
	functions.CharChr()
	functions.Overlay()
	functions.Position()
	functions.SubstringFromFor()
	functions.LocatePositionSubstring()
	functions.ConcatPipeOperator()
	functions.Trim2()
	functions.Substr()
	functions.Reverse()
	functions.Repeat()
	functions.Md5()
	functions.Sha1()
	functions.OctetLength()
	functions.BitLength()
	functions.Cbrt()
	functions.Cot()
	functions.Degrees()
	functions.Radians()
	functions.Pi()
	functions.Log()
	functions.Log10Log()
	functions.Round()

	functions.BitandorxornotOperator()
	functions.BitAndOr()
	functions.EveryAnyBoolAndOr()
	registry.RegisterAggregate("median", "percentile_cont(0.5) within group (order by cast(?1 as double precision))", 1, sqldialect.DOUBLE)
	functions.Stddev()
	functions.StddevPopSamp()
	functions.Variance()
	functions.VarPopSamp()
	functions.CovarPopSamp()
	functions.Corr()
	functions.RegrLinearRegressionAggregates()

	functions.Format("experimental_strftime")
	functions.WindowFunctions()
	functions.ListaggStringAgg("string")

	// # is xor, ^ is exponentiation.
	registry.RegisterPattern("bitxor", "(?1#?2)", 2, 2, 0)

	if dialect.DatabaseVersion().IsSameOrAfter(22, 2) {
		functions.Trunc()
	} else {
		registry.Register(&sqldialect.Function{
			Name:     "trunc",
			Kind:     sqldialect.PatternFunction,
			Patterns: map[int]string{1: "trunc(?1)", 2: "(trunc(?1*power(10,?2))/power(10,?2))"},
			MinArgs:  1,
			MaxArgs:  2,
			Returns:  sqldialect.DOUBLE,
		})
	}
	registry.RegisterAlternateKey("truncate", "trunc")
}
