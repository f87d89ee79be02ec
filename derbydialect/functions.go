package derbydialect

import "github.com/evantbyrne/sqldialect"

func (dialect DerbyDialect) RegisterFunctions(registry *sqldialect.FunctionRegistry) {
	dialect.Base.RegisterFunctions(registry)

	functions := sqldialect.NewCommonFunctions(registry)
	functions.ConcatPipeOperator()
	functions.Cot()
	functions.Degrees()
	functions.Radians()
	functions.Log10()
	functions.Sinh()
	functions.Cosh()
	functions.Tanh()
	functions.Pi()
	functions.Rand()
	functions.Trim1()
	functions.HourMinuteSecond()
	functions.YearMonthDay()
	functions.VarPopSamp()
	functions.StddevPopSamp()
	functions.SubstringSubstr()
	functions.LeftRightSubstrLength()
	functions.CharacterLengthLength()
	functions.PowerExpLn()
	functions.RoundFloor()
	functions.TruncFloor()
	functions.OctetLengthPattern("length(?1)")
	functions.BitLengthPattern("length(?1)*8")
	functions.LeastGreatestCase()

	// Only spaces can be used for padding.
	registry.RegisterPattern("lpad", "case when length(?1)<?2 then substr(char('',?2),1,?2-length(?1))||?1 else ?1 end", 2, 2, sqldialect.VARCHAR)
	registry.RegisterPattern("rpad", "case when length(?1)<?2 then ?1||substr(char('',?2),1,?2-length(?1)) else ?1 end", 2, 2, sqldialect.VARCHAR)
	registry.RegisterTernaryQuaternary("overlay",
		"(substr(?1,1,?3-1)||?2||substr(?1,?3+length(?2)))",
		"(substr(?1,1,?3-1)||?2||substr(?1,?3+?4))",
		sqldialect.VARCHAR)

	if dialect.Features().WindowFunctions {
		registry.RegisterNoArgs("row_number", true, sqldialect.BIGINT)
	}
}
