package singlestoredialect

import "github.com/evantbyrne/sqldialect"

func (dialect SingleStoreDialect) RegisterFunctions(registry *sqldialect.FunctionRegistry) {
	dialect.Base.RegisterFunctions(registry)

	functions := sqldialect.NewCommonFunctions(registry)
	functions.Cot()
	functions.Log()
	functions.Log2()
	functions.Log10()
	functions.Trim2()
	functions.OctetLength()
	functions.Reverse()
	functions.PadSpace()
	functions.Md5()
	functions.YearMonthDay()
	functions.HourMinuteSecond()
	functions.DayofweekMonthYear()
	functions.WeekQuarter()
	functions.DaynameMonthname()
	functions.LastDay()
	functions.DateTimeTimestamp()
	functions.UtcDateTimeTimestamp()
	functions.Rand()
	functions.Crc32()
	functions.Sha1()
	functions.Sha2()
	functions.Sha()
	functions.Ascii()
	functions.Instr()
	functions.Substr()
	functions.Position()
	functions.NowCurdateCurtime()
	functions.TruncTruncate()
	functions.BitandorxornotOperator()
	functions.BitAndOr()
	functions.Stddev()
	functions.StddevPopSamp()
	functions.Variance()
	functions.VarPopSamp()
	functions.Datediff()
	functions.AdddateSubdateAddtimeSubtime()
	functions.Format("date_format")
	functions.MakedateMaketime()
	functions.LocaltimeLocaltimestamp()
	functions.ListaggGroupConcat()
	functions.WindowFunctions()
	functions.Radians()
	functions.Degrees()
	functions.LeastGreatest()
	functions.LeftRightSubstr()

	registry.RegisterAggregate("median", "median(?1) over ()", 1, sqldialect.DOUBLE)
	registry.RegisterNoArgsAs("pi", "pi() :> double", false, sqldialect.DOUBLE)
	registry.RegisterPattern("chr", "char(?1 using utf8mb4)", 1, 1, sqldialect.CHAR)
	registry.RegisterAlternateKey("char", "chr")
	registry.RegisterBinaryTernary("locate", "locate(?1,?2)", "locate(?1,?2,?3)", sqldialect.INTEGER)
	registry.RegisterNamed("json_extract_string", 2, sqldialect.Unbounded, sqldialect.VARCHAR)
	registry.RegisterNamed("json_extract_double", 2, sqldialect.Unbounded, sqldialect.DOUBLE)
	registry.RegisterNamed("json_extract_bigint", 2, sqldialect.Unbounded, sqldialect.BIGINT)
	registry.RegisterNamed("json_extract_json", 2, sqldialect.Unbounded, sqldialect.JSON)
}
