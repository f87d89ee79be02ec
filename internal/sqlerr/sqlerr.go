// Package sqlerr pulls vendor codes out of database driver errors.
package sqlerr

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	mssql "github.com/denisenkom/go-mssqldb"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
)

// Info is the driver-independent part of a database error.
type Info struct {
	SQLState   string
	Code       int
	Message    string
	Constraint string
}

// sqlStateError is implemented by pq.Error, pgconn.PgError and most drivers
// that speak SQLSTATE.
type sqlStateError interface {
	SQLState() string
}

type stringCoder interface {
	Code() string
}

// intCoder is implemented by modernc.org/sqlite and godror style errors.
type intCoder interface {
	Code() int
}

type errorNumberer interface {
	Number() uint16
}

// sqlErrorNumberer is implemented by go-mssqldb.
type sqlErrorNumberer interface {
	SQLErrorNumber() int32
}

var (
	sqlStatePattern = regexp.MustCompile(`(?i)SQLSTATE[=:\s]+([0-9A-Z]{5})`)
	sqlCodePattern  = regexp.MustCompile(`(?i)SQLCODE[=:\s]*(-?\d+)`)
	oraclePattern   = regexp.MustCompile(`\bORA-(\d{5})\b`)
	gdsPattern      = regexp.MustCompile(`\b(33[56]\d{6})\b`)
	h2Pattern       = regexp.MustCompile(`\[([0-9A-Z]{5})-\d+\]`)
)

// Extract reports the vendor codes carried by err. The second result is false
// when nothing identifying could be found.
func Extract(err error) (Info, bool) {
	if err == nil {
		return Info{}, false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return Info{
			SQLState:   string(pqErr.Code),
			Message:    pqErr.Message,
			Constraint: pqErr.Constraint,
		}, true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return Info{
			SQLState:   pgErr.Code,
			Message:    pgErr.Message,
			Constraint: pgErr.ConstraintName,
		}, true
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		info := Info{Code: int(mysqlErr.Number), Message: mysqlErr.Message}
		if mysqlErr.SQLState != [5]byte{} {
			info.SQLState = string(mysqlErr.SQLState[:])
		}
		return info, true
	}

	var mssqlErr mssql.Error
	if errors.As(err, &mssqlErr) {
		return Info{Code: int(mssqlErr.Number), Message: mssqlErr.Message}, true
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return Info{Code: sqliteErr.Code(), Message: sqliteErr.Error()}, true
	}

	info := Info{Message: err.Error()}
	found := false
	if e, ok := asError[sqlStateError](err); ok && e.SQLState() != "" {
		info.SQLState = e.SQLState()
		found = true
	} else if e, ok := asError[stringCoder](err); ok && e.Code() != "" {
		info.SQLState = e.Code()
		found = true
	}
	if e, ok := asError[intCoder](err); ok {
		info.Code = e.Code()
		found = true
	} else if e, ok := asError[errorNumberer](err); ok {
		info.Code = int(e.Number())
		found = true
	} else if e, ok := asError[sqlErrorNumberer](err); ok {
		info.Code = int(e.SQLErrorNumber())
		found = true
	}
	if found {
		return info, true
	}
	return fromMessage(info)
}

// fromMessage recognizes the codes drivers embed in their error text
// ("ORA-00001", "SQLCODE=-803, SQLSTATE=23505", "GDS Exception. 335544665",
// "[23505-200]").
func fromMessage(info Info) (Info, bool) {
	found := false
	if match := sqlStatePattern.FindStringSubmatch(info.Message); match != nil {
		info.SQLState = strings.ToUpper(match[1])
		found = true
	}
	// H2 reports its error code, which doubles as the SQLSTATE, with the build number.
	if match := h2Pattern.FindStringSubmatch(info.Message); match != nil {
		if info.SQLState == "" {
			info.SQLState = match[1]
		}
		if code, err := strconv.Atoi(match[1]); err == nil {
			info.Code = code
		}
		found = true
	}
	for _, pattern := range []*regexp.Regexp{oraclePattern, sqlCodePattern, gdsPattern} {
		if match := pattern.FindStringSubmatch(info.Message); match != nil {
			if code, err := strconv.Atoi(match[1]); err == nil {
				info.Code = code
				return info, true
			}
		}
	}
	return info, found
}

// asError finds the first error in err's chain that implements T.
func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}
