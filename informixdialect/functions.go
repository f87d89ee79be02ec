package informixdialect

import "github.com/evantbyrne/sqldialect"

func (dialect InformixDialect) RegisterFunctions(registry *sqldialect.FunctionRegistry) {
	dialect.Base.RegisterFunctions(registry)

	functions := sqldialect.NewCommonFunctions(registry)
	functions.Instr()
	functions.Substr()
	functions.SubstringFromFor()
	functions.Trunc()
	functions.Trim2()
	functions.Space()
	functions.Reverse()
	functions.OctetLength()
	functions.Degrees()
	functions.Radians()
	functions.Sinh()
	functions.Tanh()
	functions.Cosh()
	functions.MoreHyperbolic()
	functions.Log10()
	functions.Initcap()
	functions.YearMonthDay()
	functions.CeilingCeil()
	functions.ConcatPipeOperator()
	functions.Ascii()
	functions.CharChr()
	functions.AddMonths()
	functions.MonthsBetween()
	functions.Stddev()
	functions.Variance()
	functions.BitLengthPattern("length(?1)*8")
	if dialect.DatabaseVersion().IsSameOrAfter(12) {
		functions.LocateCharindex()
	}
	functions.LeastGreatestCase()
	registry.RegisterNamed("matches", 2, 2, sqldialect.VARCHAR)
	if dialect.Features().WindowFunctions {
		functions.WindowFunctions()
	}
}
