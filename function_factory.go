package sqldialect

// CommonFunctions registers the function families shared by several
// databases. A suffix on a method name is the vendor spelling the family
// renders as: LocateCharindex registers locate as charindex.
type CommonFunctions struct {
	registry *FunctionRegistry
}

func NewCommonFunctions(registry *FunctionRegistry) CommonFunctions {
	return CommonFunctions{registry: registry}
}

func (f CommonFunctions) unary(returns SQLType, names ...string) {
	for _, name := range names {
		f.registry.RegisterNamed(name, 1, 1, returns)
	}
}

func (f CommonFunctions) aggregate(returns SQLType, args int, names ...string) {
	for _, name := range names {
		f.registry.RegisterAggregate(name, "", args, returns)
	}
}

// Standard registers the functions every database understands.
func (f CommonFunctions) Standard() {
	f.Aggregates()
	f.Coalesce()
	f.registry.RegisterNamed("nullif", 2, 2, 0)
	f.unary(0, "abs", "floor")
	f.registry.RegisterNamed("ceiling", 1, 1, 0)
	f.unary(INTEGER, "sign")
	f.unary(DOUBLE, "sqrt", "ln", "exp", "sin", "cos", "tan", "asin", "acos", "atan")
	f.registry.RegisterNamed("atan2", 2, 2, DOUBLE)
	f.registry.RegisterNamed("power", 2, 2, DOUBLE)
	f.registry.RegisterNamed("mod", 2, 2, INTEGER)
	f.registry.RegisterNamed("round", 1, 2, 0)
	f.unary(VARCHAR, "lower", "upper")
	f.registry.RegisterNamed("character_length", 1, 1, INTEGER)
	f.registry.RegisterNamed("replace", 3, 3, VARCHAR)
	f.registry.RegisterPattern("concat", "(?1||?2...)", 2, Unbounded, VARCHAR)
	f.registry.RegisterBinaryTernary("substring", "substring(?1 from ?2)", "substring(?1 from ?2 for ?3)", VARCHAR)
	f.registry.RegisterPattern("position", "position(?1 in ?2)", 2, 2, INTEGER)
	f.LocatePositionSubstring()
	f.registry.RegisterBinaryTernary("lpad", "lpad(?1,?2)", "lpad(?1,?2,?3)", VARCHAR)
	f.registry.RegisterBinaryTernary("rpad", "rpad(?1,?2)", "rpad(?1,?2,?3)", VARCHAR)
	f.registry.RegisterNamed("left", 2, 2, VARCHAR)
	f.registry.RegisterNamed("right", 2, 2, VARCHAR)
	f.registry.RegisterNoArgs("current_date", false, DATE)
	f.registry.RegisterNoArgs("current_time", false, TIME)
	f.registry.RegisterNoArgs("current_timestamp", false, TIMESTAMP)
}

func (f CommonFunctions) Aggregates() {
	f.aggregate(BIGINT, 1, "count")
	f.aggregate(0, 1, "sum", "min", "max")
	f.aggregate(DOUBLE, 1, "avg")
}

func (f CommonFunctions) Coalesce() {
	f.registry.RegisterNamed("coalesce", 1, Unbounded, 0)
}

// CoalesceNvl emulates two argument coalesce with nvl.
func (f CommonFunctions) CoalesceNvl() {
	f.registry.RegisterPattern("coalesce", "nvl(?1,?2)", 2, 2, 0)
}

func (f CommonFunctions) Ascii() {
	f.unary(INTEGER, "ascii")
}

func (f CommonFunctions) CharChr() {
	f.unary(CHAR, "chr")
	f.registry.RegisterAlternateKey("char", "chr")
}

func (f CommonFunctions) ChrChar() {
	f.unary(CHAR, "char")
	f.registry.RegisterAlternateKey("chr", "char")
}

func (f CommonFunctions) ConcatPipeOperator() {
	f.registry.RegisterPattern("concat", "(?1||?2...)", 2, Unbounded, VARCHAR)
}

func (f CommonFunctions) Cot() {
	f.unary(DOUBLE, "cot")
}

func (f CommonFunctions) Degrees() {
	f.unary(DOUBLE, "degrees")
}

func (f CommonFunctions) Radians() {
	f.unary(DOUBLE, "radians")
}

func (f CommonFunctions) DegreesAcos() {
	f.registry.RegisterPattern("degrees", "(?1*180/acos(-1))", 1, 1, DOUBLE)
}

func (f CommonFunctions) RadiansAcos() {
	f.registry.RegisterPattern("radians", "(?1*acos(-1)/180)", 1, 1, DOUBLE)
}

func (f CommonFunctions) Pi() {
	f.registry.RegisterNoArgs("pi", true, DOUBLE)
}

func (f CommonFunctions) Log() {
	f.registry.RegisterNamed("log", 1, 2, DOUBLE)
}

// LogLog swaps the arguments of log(base,x) into log(x,base).
func (f CommonFunctions) LogLog() {
	f.registry.Register(&Function{
		Name:     "log",
		Kind:     PatternFunction,
		Patterns: map[int]string{1: "log(?1)", 2: "log(?2,?1)"},
		MinArgs:  1,
		MaxArgs:  2,
		Returns:  DOUBLE,
	})
}

func (f CommonFunctions) Log2() {
	f.unary(DOUBLE, "log2")
}

func (f CommonFunctions) Log10() {
	f.unary(DOUBLE, "log10")
}

func (f CommonFunctions) Log10Log() {
	f.registry.RegisterPattern("log10", "log(10,?1)", 1, 1, DOUBLE)
}

func (f CommonFunctions) Rand() {
	f.registry.RegisterNamed("rand", 0, 1, DOUBLE)
}

func (f CommonFunctions) Soundex() {
	f.unary(VARCHAR, "soundex")
}

func (f CommonFunctions) Trim1() {
	f.unary(VARCHAR, "ltrim", "rtrim")
}

func (f CommonFunctions) Trim2() {
	f.registry.RegisterNamed("ltrim", 1, 2, VARCHAR)
	f.registry.RegisterNamed("rtrim", 1, 2, VARCHAR)
}

func (f CommonFunctions) Space() {
	f.unary(VARCHAR, "space")
}

func (f CommonFunctions) Repeat() {
	f.registry.RegisterNamed("repeat", 2, 2, VARCHAR)
}

func (f CommonFunctions) RepeatRpad() {
	f.registry.RegisterPattern("repeat", "rpad(?1,length(?1)*?2,?1)", 2, 2, VARCHAR)
}

func (f CommonFunctions) Reverse() {
	f.unary(VARCHAR, "reverse")
}

func (f CommonFunctions) Substr() {
	f.registry.RegisterNamed("substr", 2, 3, VARCHAR)
}

func (f CommonFunctions) SubstringFromFor() {
	f.registry.RegisterBinaryTernary("substring", "substring(?1 from ?2)", "substring(?1 from ?2 for ?3)", VARCHAR)
}

func (f CommonFunctions) SubstringSubstr() {
	f.registry.RegisterNamedAs("substring", "substr", 2, 3, VARCHAR)
}

func (f CommonFunctions) Overlay() {
	f.registry.RegisterTernaryQuaternary("overlay", "overlay(?1 placing ?2 from ?3)", "overlay(?1 placing ?2 from ?3 for ?4)", VARCHAR)
}

func (f CommonFunctions) OverlayCharacterLength() {
	f.registry.RegisterTernaryQuaternary("overlay", "overlay(?1 placing ?2 from ?3 for character_length(?2))", "overlay(?1 placing ?2 from ?3 for ?4)", VARCHAR)
}

func (f CommonFunctions) Position() {
	f.registry.RegisterPattern("position", "position(?1 in ?2)", 2, 2, INTEGER)
}

func (f CommonFunctions) LocatePositionSubstring() {
	f.registry.RegisterBinaryTernary("locate", "position(?1 in ?2)", "(position(?1 in substring(?2 from ?3))+(?3)-1)", INTEGER)
}

func (f CommonFunctions) LocateCharindex() {
	f.registry.RegisterNamed("charindex", 2, 3, INTEGER)
	f.registry.RegisterAlternateKey("locate", "charindex")
}

func (f CommonFunctions) Translate() {
	f.registry.RegisterNamed("translate", 3, 3, VARCHAR)
}

func (f CommonFunctions) Bitand() {
	f.registry.RegisterNamed("bitand", 2, 2, 0)
}

func (f CommonFunctions) Bitor() {
	f.registry.RegisterNamed("bitor", 2, 2, 0)
}

func (f CommonFunctions) Bitxor() {
	f.registry.RegisterNamed("bitxor", 2, 2, 0)
}

func (f CommonFunctions) Bitnot() {
	f.registry.RegisterNamed("bitnot", 1, 1, 0)
}

func (f CommonFunctions) BitandorxornotOperator() {
	f.registry.RegisterPattern("bitand", "(?1&?2)", 2, 2, 0)
	f.registry.RegisterPattern("bitor", "(?1|?2)", 2, 2, 0)
	f.registry.RegisterPattern("bitxor", "(?1^?2)", 2, 2, 0)
	f.registry.RegisterPattern("bitnot", "~?1", 1, 1, 0)
}

func (f CommonFunctions) BitandorxornotBinAndOrXorNot() {
	for _, pair := range [][2]string{{"bitand", "bin_and"}, {"bitor", "bin_or"}, {"bitxor", "bin_xor"}} {
		f.registry.RegisterNamed(pair[1], 1, Unbounded, 0)
		f.registry.RegisterAlternateKey(pair[0], pair[1])
	}
	f.registry.RegisterNamed("bin_not", 1, 1, 0)
	f.registry.RegisterAlternateKey("bitnot", "bin_not")
}

func (f CommonFunctions) BitAndOr() {
	f.aggregate(0, 1, "bit_and", "bit_or")
}

func (f CommonFunctions) YearMonthDay() {
	f.unary(INTEGER, "day", "month", "year")
}

func (f CommonFunctions) HourMinuteSecond() {
	f.unary(INTEGER, "hour", "minute", "second", "microsecond")
}

// DayofweekMonthYear registers dayofweek, dayofmonth and dayofyear.
func (f CommonFunctions) DayofweekMonthYear() {
	f.unary(INTEGER, "dayofweek", "dayofmonth", "dayofyear")
	f.registry.RegisterAlternateKey("day", "dayofmonth")
}

// DayOfWeekMonthYear registers day_of_week, day_of_month and day_of_year.
func (f CommonFunctions) DayOfWeekMonthYear() {
	f.unary(INTEGER, "day_of_week", "day_of_month", "day_of_year")
	f.registry.RegisterAlternateKey("day", "day_of_month")
}

func (f CommonFunctions) WeekQuarter() {
	f.unary(INTEGER, "week", "quarter")
}

func (f CommonFunctions) DaynameMonthname() {
	f.unary(VARCHAR, "monthname", "dayname")
}

func (f CommonFunctions) LastDay() {
	f.unary(DATE, "last_day")
}

func (f CommonFunctions) AddMonths() {
	f.registry.RegisterNamed("add_months", 2, 2, 0)
}

func (f CommonFunctions) MonthsBetween() {
	f.registry.RegisterNamed("months_between", 2, 2, INTEGER)
}

func (f CommonFunctions) AddYearsMonthsDaysHoursMinutesSeconds() {
	for _, name := range []string{"add_years", "add_months", "add_days", "add_hours", "add_minutes", "add_seconds"} {
		f.registry.RegisterNamed(name, 2, 2, 0)
	}
}

func (f CommonFunctions) YearsMonthsDaysHoursMinutesSecondsBetween() {
	for _, name := range []string{"years_between", "months_between", "days_between", "hours_between", "minutes_between", "seconds_between"} {
		f.registry.RegisterNamed(name, 2, 2, INTEGER)
	}
}

func (f CommonFunctions) Datediff() {
	f.registry.RegisterNamed("datediff", 2, 2, INTEGER)
}

func (f CommonFunctions) AdddateSubdateAddtimeSubtime() {
	for _, name := range []string{"adddate", "subdate", "addtime", "subtime"} {
		f.registry.RegisterNamed(name, 2, 2, 0)
	}
}

func (f CommonFunctions) MakedateMaketime() {
	f.registry.RegisterNamed("makedate", 2, 2, DATE)
	f.registry.RegisterNamed("maketime", 3, 3, TIME)
}

func (f CommonFunctions) DateTimeTimestamp() {
	f.unary(DATE, "date")
	f.unary(TIME, "time")
	f.registry.RegisterNamed("timestamp", 1, 2, TIMESTAMP)
}

func (f CommonFunctions) UtcDateTimeTimestamp() {
	f.registry.RegisterNoArgs("utc_date", true, DATE)
	f.registry.RegisterNoArgs("utc_time", true, TIME)
	f.registry.RegisterNoArgs("utc_timestamp", true, TIMESTAMP)
}

func (f CommonFunctions) DateTrunc() {
	f.registry.RegisterNamed("date_trunc", 2, 2, TIMESTAMP)
}

func (f CommonFunctions) DateTruncDatetrunc() {
	f.registry.RegisterNamedAs("date_trunc", "datetrunc", 2, 2, TIMESTAMP)
}

func (f CommonFunctions) Instr() {
	f.registry.RegisterNamed("instr", 2, 4, INTEGER)
}

func (f CommonFunctions) Insert() {
	f.registry.RegisterNamed("insert", 4, 4, VARCHAR)
}

func (f CommonFunctions) Initcap() {
	f.unary(VARCHAR, "initcap")
}

func (f CommonFunctions) Median() {
	f.aggregate(DOUBLE, 1, "median")
}

func (f CommonFunctions) MedianPercentileCont(over bool) {
	pattern := "percentile_cont(0.5) within group (order by ?1)"
	if over {
		pattern += " over()"
	}
	f.registry.RegisterAggregate("median", pattern, 1, DOUBLE)
}

func (f CommonFunctions) Stddev() {
	f.aggregate(DOUBLE, 1, "stddev")
}

func (f CommonFunctions) StddevPopSamp() {
	f.aggregate(DOUBLE, 1, "stddev_pop", "stddev_samp")
}

func (f CommonFunctions) StddevPopSampStdevp() {
	f.aggregate(DOUBLE, 1, "stdev", "stdevp")
	f.registry.RegisterAlternateKey("stddev_samp", "stdev")
	f.registry.RegisterAlternateKey("stddev_pop", "stdevp")
}

func (f CommonFunctions) Variance() {
	f.aggregate(DOUBLE, 1, "variance")
}

func (f CommonFunctions) VarPopSamp() {
	f.aggregate(DOUBLE, 1, "var_pop", "var_samp")
}

func (f CommonFunctions) VarPopSampVarp() {
	f.aggregate(DOUBLE, 1, "var", "varp")
	f.registry.RegisterAlternateKey("var_samp", "var")
	f.registry.RegisterAlternateKey("var_pop", "varp")
}

func (f CommonFunctions) StdevVarianceSamp() {
	f.aggregate(DOUBLE, 1, "stddev_samp", "variance_samp")
}

func (f CommonFunctions) CovarPopSamp() {
	f.aggregate(DOUBLE, 2, "covar_pop", "covar_samp")
}

func (f CommonFunctions) Corr() {
	f.aggregate(DOUBLE, 2, "corr")
}

func (f CommonFunctions) RegrLinearRegressionAggregates() {
	f.aggregate(DOUBLE, 2, "regr_avgx", "regr_avgy", "regr_count", "regr_intercept", "regr_r2",
		"regr_slope", "regr_sxx", "regr_sxy", "regr_syy")
}

func (f CommonFunctions) Sysdate() {
	f.registry.RegisterNoArgs("sysdate", false, TIMESTAMP)
}

func (f CommonFunctions) Systimestamp() {
	f.registry.RegisterNoArgs("systimestamp", false, TIMESTAMP_WITH_TIMEZONE)
}

func (f CommonFunctions) NowCurdateCurtime() {
	f.registry.RegisterNoArgs("curtime", true, TIME)
	f.registry.RegisterNoArgs("curdate", true, DATE)
	f.registry.RegisterNoArgs("now", true, TIMESTAMP)
}

func (f CommonFunctions) LocaltimeLocaltimestamp() {
	f.registry.RegisterNoArgs("localtime", false, TIME)
	f.registry.RegisterNoArgs("localtimestamp", false, TIMESTAMP)
	f.registry.RegisterNoArgsAs("local_time", "localtime", false, TIME)
	f.registry.RegisterNoArgsAs("local_datetime", "localtimestamp", false, TIMESTAMP)
}

func (f CommonFunctions) OctetLength() {
	f.unary(INTEGER, "octet_length")
}

func (f CommonFunctions) OctetLengthPattern(pattern string) {
	f.registry.RegisterPattern("octet_length", pattern, 1, 1, INTEGER)
}

func (f CommonFunctions) BitLength() {
	f.unary(INTEGER, "bit_length")
}

func (f CommonFunctions) BitLengthPattern(pattern string) {
	f.registry.RegisterPattern("bit_length", pattern, 1, 1, INTEGER)
}

func (f CommonFunctions) CharacterLengthLength() {
	f.unary(INTEGER, "length")
	f.registry.RegisterAlternateKey("character_length", "length")
}

func (f CommonFunctions) CharacterLengthPattern(pattern string) {
	f.registry.RegisterPattern("character_length", pattern, 1, 1, INTEGER)
}

func (f CommonFunctions) CeilingCeil() {
	f.unary(0, "ceil")
	f.registry.RegisterAlternateKey("ceiling", "ceil")
}

func (f CommonFunctions) Trunc() {
	f.registry.RegisterNamed("trunc", 1, 2, DOUBLE)
}

func (f CommonFunctions) Truncate() {
	f.registry.RegisterNamed("truncate", 2, 2, DOUBLE)
}

// TruncTruncate renders trunc through truncate, which always wants a scale.
func (f CommonFunctions) TruncTruncate() {
	f.registry.Register(&Function{
		Name:     "trunc",
		Kind:     PatternFunction,
		Patterns: map[int]string{1: "truncate(?1,0)", 2: "truncate(?1,?2)"},
		MinArgs:  1,
		MaxArgs:  2,
		Returns:  DOUBLE,
	})
	f.registry.RegisterAlternateKey("truncate", "trunc")
}

// TruncRound renders trunc as round with a non-zero third argument.
func (f CommonFunctions) TruncRound() {
	f.registry.Register(&Function{
		Name:     "trunc",
		Kind:     PatternFunction,
		Patterns: map[int]string{1: "round(?1,0,1)", 2: "round(?1,?2,1)"},
		MinArgs:  1,
		MaxArgs:  2,
		Returns:  DOUBLE,
	})
	f.registry.RegisterAlternateKey("truncate", "trunc")
}

func (f CommonFunctions) TruncFloor() {
	f.registry.Register(&Function{
		Name:     "trunc",
		Kind:     PatternFunction,
		Patterns: map[int]string{1: "sign(?1)*floor(abs(?1))", 2: "sign(?1)*floor(abs(?1)*1e?2)/1e?2"},
		MinArgs:  1,
		MaxArgs:  2,
		Returns:  DOUBLE,
	})
	f.registry.RegisterAlternateKey("truncate", "trunc")
}

func (f CommonFunctions) Round() {
	f.registry.RegisterNamed("round", 1, 2, 0)
}

// RoundRound always passes a scale, which the one argument round lacks.
func (f CommonFunctions) RoundRound() {
	f.registry.Register(&Function{
		Name:     "round",
		Kind:     PatternFunction,
		Patterns: map[int]string{1: "round(?1,0)", 2: "round(?1,?2)"},
		MinArgs:  1,
		MaxArgs:  2,
	})
}

func (f CommonFunctions) RoundFloor() {
	f.registry.Register(&Function{
		Name:     "round",
		Kind:     PatternFunction,
		Patterns: map[int]string{1: "floor(?1+0.5)", 2: "floor(?1*1e?2+0.5)/1e?2"},
		MinArgs:  1,
		MaxArgs:  2,
	})
}

func (f CommonFunctions) Sinh() {
	f.unary(DOUBLE, "sinh")
}

func (f CommonFunctions) Cosh() {
	f.unary(DOUBLE, "cosh")
}

func (f CommonFunctions) Tanh() {
	f.unary(DOUBLE, "tanh")
}

func (f CommonFunctions) MoreHyperbolic() {
	f.unary(DOUBLE, "acosh", "asinh", "atanh")
}

func (f CommonFunctions) Cbrt() {
	f.unary(DOUBLE, "cbrt")
}

func (f CommonFunctions) Md5() {
	f.unary(VARCHAR, "md5")
}

func (f CommonFunctions) Sha1() {
	f.unary(VARCHAR, "sha1")
}

func (f CommonFunctions) Sha2() {
	f.registry.RegisterNamed("sha2", 2, 2, VARCHAR)
}

func (f CommonFunctions) Sha() {
	f.unary(VARCHAR, "sha")
}

func (f CommonFunctions) Crc32() {
	f.unary(BIGINT, "crc32")
}

func (f CommonFunctions) ModOperator() {
	f.registry.RegisterPattern("mod", "(?1%?2)", 2, 2, INTEGER)
}

func (f CommonFunctions) PowerExpLn() {
	f.registry.RegisterPattern("power", "exp(ln(?1)*?2)", 2, 2, DOUBLE)
}

func (f CommonFunctions) LeastGreatest() {
	f.registry.RegisterNamed("least", 2, Unbounded, 0)
	f.registry.RegisterNamed("greatest", 2, Unbounded, 0)
}

func (f CommonFunctions) LeastGreatestMinMaxValue() {
	f.registry.RegisterNamedAs("least", "minvalue", 2, Unbounded, 0)
	f.registry.RegisterNamedAs("greatest", "maxvalue", 2, Unbounded, 0)
}

// LeastGreatestCase emulates two argument least and greatest with case.
func (f CommonFunctions) LeastGreatestCase() {
	f.registry.RegisterPattern("least", "(case when ?1<=?2 then ?1 else ?2 end)", 2, 2, 0)
	f.registry.RegisterPattern("greatest", "(case when ?1>=?2 then ?1 else ?2 end)", 2, 2, 0)
}

func (f CommonFunctions) LeftRightSubstr() {
	f.registry.RegisterPattern("left", "substr(?1,1,?2)", 2, 2, VARCHAR)
	f.registry.RegisterPattern("right", "substr(?1,-?2)", 2, 2, VARCHAR)
}

func (f CommonFunctions) LeftRightSubstrLength() {
	f.registry.RegisterPattern("left", "substr(?1,1,?2)", 2, 2, VARCHAR)
	f.registry.RegisterPattern("right", "substr(?1,length(?1)-?2+1)", 2, 2, VARCHAR)
}

func (f CommonFunctions) PadSpace() {
	f.registry.RegisterBinaryTernary("lpad", "lpad(?1,?2,' ')", "lpad(?1,?2,?3)", VARCHAR)
	f.registry.RegisterBinaryTernary("rpad", "rpad(?1,?2,' ')", "rpad(?1,?2,?3)", VARCHAR)
}

func (f CommonFunctions) ToCharNumberDateTimestamp() {
	f.registry.RegisterNamed("to_number", 1, 3, NUMERIC)
	f.registry.RegisterNamed("to_char", 1, 3, VARCHAR)
	f.registry.RegisterNamed("to_date", 1, 3, DATE)
	f.registry.RegisterNamed("to_timestamp", 1, 3, TIMESTAMP)
}

// Format registers format(datetime, pattern) as invocation(datetime, pattern).
func (f CommonFunctions) Format(invocation string) {
	f.registry.RegisterNamedAs("format", invocation, 2, 2, VARCHAR)
}

func (f CommonFunctions) Rownum() {
	f.registry.RegisterNoArgs("rownum", true, BIGINT)
}

func (f CommonFunctions) RownumRowid() {
	f.registry.RegisterNoArgs("rowid", false, BIGINT)
	f.registry.RegisterNoArgs("rownum", false, BIGINT)
}

func (f CommonFunctions) WindowFunctions() {
	f.registry.RegisterNoArgs("row_number", true, BIGINT)
	f.registry.RegisterNamed("lag", 1, 3, 0)
	f.registry.RegisterNamed("lead", 1, 3, 0)
	f.registry.RegisterNamed("first_value", 1, 1, 0)
	f.registry.RegisterNamed("last_value", 1, 1, 0)
	f.registry.RegisterNamed("nth_value", 2, 2, 0)
}

// Listagg registers listagg(value, separator). A non-empty withinGroup is
// appended for databases that require an ordering clause.
func (f CommonFunctions) Listagg(withinGroup string) {
	pattern := "listagg(?1,?2)"
	if withinGroup != "" {
		pattern += " " + withinGroup
	}
	f.registry.RegisterAggregate("listagg", pattern, 2, VARCHAR)
}

func (f CommonFunctions) ListaggStringAgg(castType string) {
	f.registry.RegisterAggregate("listagg", "string_agg(cast(?1 as "+castType+"),?2)", 2, VARCHAR)
}

func (f CommonFunctions) ListaggGroupConcat() {
	f.registry.RegisterAggregate("listagg", "group_concat(?1 separator ?2)", 2, VARCHAR)
}

func (f CommonFunctions) ListaggList(castType string) {
	f.registry.RegisterAggregate("listagg", "list(cast(?1 as "+castType+"),?2)", 2, VARCHAR)
}

func (f CommonFunctions) EveryAny() {
	f.aggregate(BOOLEAN, 1, "every", "any")
}

func (f CommonFunctions) EveryAnyBoolAndOr() {
	f.aggregate(BOOLEAN, 1, "bool_and", "bool_or")
	f.registry.RegisterAlternateKey("every", "bool_and")
	f.registry.RegisterAlternateKey("any", "bool_or")
}

func (f CommonFunctions) EveryAnyMinMaxCase() {
	f.registry.RegisterAggregate("every", "(min(case when ?1 then 1 else 0 end)=1)", 1, BOOLEAN)
	f.registry.RegisterAggregate("any", "(max(case when ?1 then 1 else 0 end)=1)", 1, BOOLEAN)
}

func (f CommonFunctions) EveryAnyMinMaxIif() {
	f.registry.RegisterAggregate("every", "(min(iif(?1,1,0))=1)", 1, BOOLEAN)
	f.registry.RegisterAggregate("any", "(max(iif(?1,1,0))=1)", 1, BOOLEAN)
}
