package h2dialect

import "github.com/evantbyrne/sqldialect"

func (dialect H2Dialect) RegisterFunctions(registry *sqldialect.FunctionRegistry) {
	dialect.Base.RegisterFunctions(registry)
	version := dialect.DatabaseVersion()

	// avg takes the argument type, so integers are cast first
	registry.RegisterAggregate("avg", "avg(cast(?1 as double))", 1, sqldialect.DOUBLE)

	functions := sqldialect.NewCommonFunctions(registry)
	functions.Pi()
	functions.Cot()
	functions.Radians()
	functions.Degrees()
	functions.Log10()
	functions.ModOperator()
	functions.Rand()
	functions.Soundex()
	functions.Translate()
	functions.Bitand()
	functions.Bitor()
	functions.Bitxor()
	functions.Bitnot()
	functions.BitAndOr()
	functions.YearMonthDay()
	functions.HourMinuteSecond()
	functions.DayOfWeekMonthYear()
	functions.WeekQuarter()
	functions.DaynameMonthname()
	if dialect.localTime() {
		functions.LocaltimeLocaltimestamp()
	}
	functions.Trunc()
	functions.DateTrunc()
	functions.BitLength()
	functions.OctetLength()
	functions.Ascii()
	functions.Space()
	functions.Repeat()
	functions.ChrChar()
	functions.Instr()
	functions.Substr()
	functions.Position()
	functions.Trim1()
	functions.ConcatPipeOperator()
	functions.NowCurdateCurtime()
	functions.Sysdate()
	functions.Insert()
	functions.EveryAnyBoolAndOr()
	functions.Median()
	functions.StddevPopSamp()
	functions.VarPopSamp()
	if version.IsSame(1, 4, 200) {
		functions.Format("to_char")
	} else {
		functions.Format("formatdatetime")
	}
	functions.Rownum()

	switch {
	case version.IsSameOrAfter(2):
		functions.WindowFunctions()
		functions.Listagg("")
	case version.IsSameOrAfter(1, 4, 200):
		functions.WindowFunctions()
		// listagg was unreliable before 2.0
		functions.ListaggGroupConcat()
	default:
		functions.ListaggGroupConcat()
	}
}
