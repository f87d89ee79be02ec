package sqlitedialect

import "github.com/evantbyrne/sqldialect"

func (dialect SqliteDialect) RegisterFunctions(registry *sqldialect.FunctionRegistry) {
	dialect.Base.RegisterFunctions(registry)

	functions := sqldialect.NewCommonFunctions(registry)
	functions.ModOperator()
	functions.LeftRightSubstrLength()
	functions.CharacterLengthLength()
	functions.OctetLengthPattern("length(cast(?1 as blob))")
	functions.BitLengthPattern("length(cast(?1 as blob))*8")
	functions.Substr()
	functions.SubstringSubstr()
	functions.Instr()
	functions.Trim2()
	functions.RadiansAcos()
	functions.DegreesAcos()
	functions.EveryAnyMinMaxCase()

	registry.RegisterBinaryTernary("locate", "instr(?2,?1)", "(instr(substr(?2,?3),?1)+?3-1)", sqldialect.INTEGER)
	registry.RegisterPattern("position", "instr(?2,?1)", 2, 2, sqldialect.INTEGER)
	// the scalar min and max take any number of arguments
	registry.RegisterNamedAs("least", "min", 2, sqldialect.Unbounded, 0)
	registry.RegisterNamedAs("greatest", "max", 2, sqldialect.Unbounded, 0)
	registry.RegisterPattern("ceiling", "(cast(?1 as integer)+(?1>cast(?1 as integer)))", 1, 1, sqldialect.BIGINT)
	registry.RegisterPattern("floor", "(cast(?1 as integer)-(?1<cast(?1 as integer)))", 1, 1, sqldialect.BIGINT)
	registry.RegisterPattern("trunc", "cast(?1 as integer)", 1, 1, sqldialect.BIGINT)
	registry.RegisterAlternateKey("truncate", "trunc")
	registry.RegisterNoArgsAs("pi", "acos(-1)", false, sqldialect.DOUBLE)
	registry.RegisterPattern("repeat", "replace(hex(zeroblob(?2)),'00',?1)", 2, 2, sqldialect.VARCHAR)
	registry.RegisterPattern("space", "replace(hex(zeroblob(?1)),'00',' ')", 1, 1, sqldialect.VARCHAR)
	registry.RegisterPattern("rpad", "substr(?1||replace(hex(zeroblob(?2)),'00',' '),1,?2)", 2, 2, sqldialect.VARCHAR)
	registry.RegisterPattern("lpad", "substr(replace(hex(zeroblob(?2)),'00',' ')||?1,-?2)", 2, 2, sqldialect.VARCHAR)
	registry.RegisterNamed("hex", 1, 1, sqldialect.VARCHAR)
	registry.RegisterNamed("unhex", 1, 2, sqldialect.VARBINARY)
	registry.RegisterNamed("quote", 1, 1, sqldialect.VARCHAR)
	registry.RegisterNamed("randomblob", 1, 1, sqldialect.VARBINARY)
	registry.RegisterNamed("zeroblob", 1, 1, sqldialect.VARBINARY)
	registry.RegisterNoArgs("random", true, sqldialect.BIGINT)
	registry.RegisterNoArgs("last_insert_rowid", true, sqldialect.BIGINT)
	registry.RegisterNamed("date", 1, sqldialect.Unbounded, sqldialect.DATE)
	registry.RegisterNamed("time", 1, sqldialect.Unbounded, sqldialect.TIME)
	registry.RegisterNamed("datetime", 1, sqldialect.Unbounded, sqldialect.TIMESTAMP)
	registry.RegisterNamed("julianday", 1, sqldialect.Unbounded, sqldialect.DOUBLE)
	registry.RegisterNamed("strftime", 2, sqldialect.Unbounded, sqldialect.VARCHAR)
	registry.RegisterNamed("printf", 1, sqldialect.Unbounded, sqldialect.VARCHAR)
	registry.RegisterNamed("ifnull", 2, 2, 0)
	registry.RegisterNamed("iif", 3, 3, 0)
	registry.RegisterNamed("typeof", 1, 1, sqldialect.VARCHAR)
	registry.RegisterAggregate("listagg", "group_concat(?1,?2)", 2, sqldialect.VARCHAR)
	registry.RegisterAggregate("total", "", 1, sqldialect.DOUBLE)

	if dialect.Features().WindowFunctions {
		functions.WindowFunctions()
	}
}
