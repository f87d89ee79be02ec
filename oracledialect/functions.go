package oracledialect

import "github.com/evantbyrne/sqldialect"

func (dialect OracleDialect) RegisterFunctions(registry *sqldialect.FunctionRegistry) {
	dialect.Base.RegisterFunctions(registry)
	version := dialect.DatabaseVersion()

	functions := sqldialect.NewCommonFunctions(registry)
	functions.Ascii()
	functions.CharChr()
	functions.Cosh()
	functions.Sinh()
	functions.Tanh()
	functions.Log()
	functions.Log10Log()
	functions.Soundex()
	functions.Trim2()
	functions.Initcap()
	functions.Instr()
	functions.Substr()
	functions.SubstringSubstr()
	functions.LeftRightSubstr()
	functions.Translate()
	functions.Bitand()
	functions.LastDay()
	functions.ToCharNumberDateTimestamp()
	functions.Format("to_char")
	functions.CeilingCeil()
	functions.ConcatPipeOperator()
	functions.RownumRowid()
	functions.Sysdate()
	functions.Systimestamp()
	functions.AddMonths()
	functions.MonthsBetween()
	functions.EveryAnyMinMaxCase()
	functions.RepeatRpad()
	functions.RadiansAcos()
	functions.DegreesAcos()
	functions.Median()
	functions.Stddev()
	functions.StddevPopSamp()
	functions.Variance()
	functions.VarPopSamp()
	functions.CovarPopSamp()
	functions.Corr()
	functions.RegrLinearRegressionAggregates()
	functions.CharacterLengthPattern("length(?1)")
	// clobs would need dbms_lob.getlength, so lengths are approximate for them
	functions.OctetLengthPattern("lengthb(?1)")
	functions.BitLengthPattern("lengthb(?1)*8")

	if version.IsBefore(9) {
		functions.CoalesceNvl()
	} else {
		functions.Coalesce()
	}

	registry.RegisterPattern("bitor", "(?1+?2-bitand(?1,?2))", 2, 2, 0)
	registry.RegisterPattern("bitxor", "(?1+?2-2*bitand(?1,?2))", 2, 2, 0)
	registry.RegisterBinaryTernary("locate", "instr(?2,?1)", "instr(?2,?1,?3)", sqldialect.INTEGER)

	// within group became optional in 18
	if version.IsSameOrAfter(18) {
		functions.Listagg("")
	} else {
		functions.Listagg("within group (order by rownum)")
	}
	functions.WindowFunctions()

	registry.RegisterAggregate("mode", "stats_mode(?1)", 1, 0)
	functions.Trunc()
	registry.RegisterAlternateKey("truncate", "trunc")
}
