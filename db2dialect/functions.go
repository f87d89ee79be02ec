package db2dialect

import "github.com/evantbyrne/sqldialect"

func (dialect DB2Dialect) RegisterFunctions(registry *sqldialect.FunctionRegistry) {
	dialect.Base.RegisterFunctions(registry)

	functions := sqldialect.NewCommonFunctions(registry)
	functions.Cot()
	functions.Degrees()
	functions.Log()
	functions.Log10()
	functions.Radians()
	functions.Rand()
	functions.Soundex()
	functions.Trim2()
	functions.Space()
	functions.Repeat()
	// substr and substring both take an optional string units argument
	registry.RegisterNamed("substr", 2, 4, sqldialect.VARCHAR)
	registry.RegisterNamed("substring", 2, 4, sqldialect.VARCHAR)
	functions.Translate()
	functions.Bitand()
	functions.Bitor()
	functions.Bitxor()
	functions.Bitnot()
	functions.YearMonthDay()
	functions.HourMinuteSecond()
	functions.DayofweekMonthYear()
	functions.WeekQuarter()
	functions.DaynameMonthname()
	functions.LastDay()
	functions.ToCharNumberDateTimestamp()
	functions.DateTimeTimestamp()
	functions.ConcatPipeOperator()
	functions.OctetLength()
	functions.Ascii()
	functions.CharChr()
	functions.Position()
	functions.Trunc()
	functions.Truncate()
	functions.Insert()
	functions.OverlayCharacterLength()
	functions.Median()
	functions.Stddev()
	functions.StddevPopSamp()
	functions.RegrLinearRegressionAggregates()
	functions.Variance()
	functions.StdevVarianceSamp()
	functions.AddYearsMonthsDaysHoursMinutesSeconds()
	functions.YearsMonthsDaysHoursMinutesSecondsBetween()
	functions.DateTrunc()
	functions.BitLengthPattern("length(?1)*8")

	functions.Format("varchar_format")
	registry.RegisterNamed("posstr", 2, 2, sqldialect.INTEGER)

	functions.WindowFunctions()
	if dialect.DatabaseVersion().IsSameOrAfter(9, 5) {
		functions.Listagg("")
	}
	if dialect.DatabaseVersion().IsBefore(9, 7) {
		registry.RegisterNamedAs("lower", "lcase", 1, 1, sqldialect.VARCHAR)
	}
}
