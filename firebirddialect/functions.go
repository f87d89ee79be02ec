package firebirddialect

import "github.com/evantbyrne/sqldialect"

func (dialect FirebirdDialect) RegisterFunctions(registry *sqldialect.FunctionRegistry) {
	dialect.Base.RegisterFunctions(registry)

	version := dialect.DatabaseVersion()
	functions := sqldialect.NewCommonFunctions(registry)
	functions.ConcatPipeOperator()
	functions.Cot()
	functions.Cosh()
	functions.Sinh()
	functions.Tanh()
	if version.IsSameOrAfter(3) {
		functions.MoreHyperbolic()
		functions.StddevPopSamp()
		functions.VarPopSamp()
		functions.CovarPopSamp()
		functions.Corr()
		functions.RegrLinearRegressionAggregates()
	}
	functions.Log()
	functions.Log10()
	functions.Pi()
	functions.Rand()
	functions.Trunc()
	functions.OctetLength()
	functions.BitLength()
	functions.SubstringFromFor()
	functions.Overlay()
	functions.Position()
	functions.Reverse()
	functions.BitandorxornotBinAndOrXorNot()
	functions.LeastGreatestMinMaxValue()

	registry.RegisterBinaryTernary("locate", "position(?1 in ?2)", "position(?1,?2,?3)", sqldialect.INTEGER)
	registry.RegisterNamed("ascii_val", 1, 1, sqldialect.SMALLINT)
	registry.RegisterAlternateKey("ascii", "ascii_val")
	registry.RegisterNamed("ascii_char", 1, 1, sqldialect.CHAR)
	registry.RegisterAlternateKey("chr", "ascii_char")
	registry.RegisterAlternateKey("char", "ascii_char")
	registry.RegisterPattern("radians", "((?1)*pi()/180e0)", 1, 1, sqldialect.DOUBLE)
	registry.RegisterPattern("degrees", "((?1)*180e0/pi())", 1, 1, sqldialect.DOUBLE)

	if version.IsSameOrAfter(3) {
		functions.WindowFunctions()
		if version.IsSameOrAfter(4) {
			for _, hash := range []string{"md5", "sha1", "sha256", "sha512"} {
				registry.RegisterPattern(hash, "crypt_hash(?1 using "+hash+")", 1, 1, sqldialect.VARBINARY)
			}
			registry.RegisterAlternateKey("sha", "sha1")
			registry.RegisterPattern("crc32", "hash(?1 using crc32)", 1, 1, sqldialect.INTEGER)
		}
	}

	functions.ListaggList("varchar")
}
