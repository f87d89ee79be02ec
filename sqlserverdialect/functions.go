package sqlserverdialect

import "github.com/evantbyrne/sqldialect"

func (dialect SQLServerDialect) RegisterFunctions(registry *sqldialect.FunctionRegistry) {
	dialect.Base.RegisterFunctions(registry)
	version := dialect.DatabaseVersion()

	// count returns int and overflows, count_big does not
	registry.RegisterAggregate("count", "count_big(?1)", 1, sqldialect.BIGINT)
	// avg keeps the argument type, so integers would average to integers
	registry.RegisterAggregate("avg", "avg(cast(?1 as float))", 1, sqldialect.DOUBLE)
	registry.RegisterPattern("concat", "(?1+?2...)", 2, sqldialect.Unbounded, sqldialect.VARCHAR)
	registry.RegisterBinaryTernary("substring", "substring(?1,?2,len(?1))", "substring(?1,?2,?3)", sqldialect.VARCHAR)
	registry.RegisterPattern("character_length", "len(?1)", 1, 1, sqldialect.INTEGER)
	registry.RegisterNoArgsAs("current_date", "convert(date,getdate())", false, sqldialect.DATE)
	registry.RegisterNoArgsAs("current_time", "convert(time,getdate())", false, sqldialect.TIME)

	functions := sqldialect.NewCommonFunctions(registry)
	functions.LogLog()
	functions.RoundRound()
	functions.EveryAnyMinMaxIif()
	functions.OctetLengthPattern("datalength(?1)")
	functions.BitLengthPattern("datalength(?1)*8")

	if version.IsSameOrAfter(10) {
		functions.LocateCharindex()
		functions.StddevPopSampStdevp()
		functions.VarPopSampVarp()
	}

	if version.IsSameOrAfter(11) {
		functions.Format("format")
		// translate arrived in 2017
		functions.Translate()
		functions.MedianPercentileCont(true)

		registry.RegisterNamed("datefromparts", 3, 3, sqldialect.DATE)
		registry.RegisterNamed("timefromparts", 5, 5, sqldialect.TIME)
		registry.RegisterNamed("smalldatetimefromparts", 5, 5, sqldialect.TIMESTAMP)
		registry.RegisterNamed("datetimefromparts", 7, 7, sqldialect.TIMESTAMP)
		registry.RegisterNamed("datetime2fromparts", 8, 8, sqldialect.TIMESTAMP)
		registry.RegisterNamed("datetimeoffsetfromparts", 10, 10, sqldialect.TIMESTAMP_WITH_TIMEZONE)
	}
	functions.WindowFunctions()

	if version.IsSameOrAfter(13) {
		registry.RegisterNamed("json_value", 2, 2, sqldialect.VARCHAR)
		registry.RegisterNamed("json_query", 2, 2, sqldialect.JSON)
	}

	if version.IsSameOrAfter(14) {
		registry.RegisterAggregate("listagg", "string_agg(cast(?1 as varchar(max)),?2) within group (order by ?1)", 2, sqldialect.VARCHAR)
	}

	if version.IsSameOrAfter(16) {
		functions.LeastGreatest()
		functions.DateTruncDatetrunc()
	}

	// round with a non-zero third argument truncates
	registry.Register(&sqldialect.Function{
		Name:     "trunc",
		Kind:     sqldialect.PatternFunction,
		Patterns: map[int]string{1: "round(?1,0,1)", 2: "round(?1,?2,1)"},
		MinArgs:  1,
		MaxArgs:  2,
		Returns:  sqldialect.DOUBLE,
	})
	registry.RegisterAlternateKey("truncate", "trunc")
}
