package gaussdbdialect

import "github.com/evantbyrne/sqldialect"

func (dialect GaussDBDialect) RegisterFunctions(registry *sqldialect.FunctionRegistry) {
	dialect.Base.RegisterFunctions(registry)

	functions := sqldialect.NewCommonFunctions(registry)
	functions.Cot()
	functions.Radians()
	functions.Degrees()
	functions.Trunc()
	functions.Log()
	functions.Cbrt()
	functions.Soundex()
	functions.Trim2()
	functions.Repeat()
	functions.Md5()
	functions.Initcap()
	functions.Substr()
	functions.SubstringFromFor()
	functions.Translate()
	functions.ToCharNumberDateTimestamp()
	functions.ConcatPipeOperator()
	functions.LocaltimeLocaltimestamp()
	functions.DateTrunc()
	functions.BitLength()
	functions.OctetLength()
	functions.Ascii()
	functions.CharChr()
	functions.Position()
	functions.LocatePositionSubstring()
	functions.Overlay()
	functions.Reverse()
	functions.Pi()
	functions.Log10()
	functions.Sinh()
	functions.Cosh()
	functions.Tanh()

	functions.BitandorxornotOperator()
	registry.RegisterPattern("bitxor", "(?1#?2)", 2, 2, 0)
	functions.BitAndOr()
	functions.EveryAnyBoolAndOr()
	functions.MedianPercentileCont(false)
	functions.Stddev()
	functions.StddevPopSamp()
	functions.Variance()
	functions.VarPopSamp()
	functions.CovarPopSamp()
	functions.Corr()
	functions.RegrLinearRegressionAggregates()

	functions.Format("to_char")
	functions.WindowFunctions()
	functions.ListaggStringAgg("varchar")

	registry.RegisterAlternateKey("truncate", "trunc")
}
