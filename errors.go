package sqldialect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/evantbyrne/sqldialect/internal/sqlerr"
)

// ErrorKind classifies a database error independently of the vendor.
type ErrorKind int

const (
	Unknown ErrorKind = iota
	UniqueViolation
	ForeignKeyViolation
	NotNullViolation
	CheckViolation
	ConstraintViolation
	LockTimeout
	LockAcquisition
	PessimisticLock
	QueryTimeout
	DataException
)

var errorKindNames = map[ErrorKind]string{
	Unknown:             "unknown",
	UniqueViolation:     "unique violation",
	ForeignKeyViolation: "foreign key violation",
	NotNullViolation:    "not null violation",
	CheckViolation:      "check violation",
	ConstraintViolation: "constraint violation",
	LockTimeout:         "lock timeout",
	LockAcquisition:     "lock acquisition",
	PessimisticLock:     "pessimistic lock",
	QueryTimeout:        "query timeout",
	DataException:       "data exception",
}

func (kind ErrorKind) String() string {
	if name, ok := errorKindNames[kind]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(kind))
}

// IsConstraint reports whether kind is one of the integrity violations.
func (kind ErrorKind) IsConstraint() bool {
	switch kind {
	case UniqueViolation, ForeignKeyViolation, NotNullViolation, CheckViolation, ConstraintViolation:
		return true
	}
	return false
}

var (
	ErrUniqueViolation     = errors.New("sqldialect: unique violation")
	ErrForeignKeyViolation = errors.New("sqldialect: foreign key violation")
	ErrNotNullViolation    = errors.New("sqldialect: not null violation")
	ErrCheckViolation      = errors.New("sqldialect: check violation")
	ErrConstraintViolation = errors.New("sqldialect: constraint violation")
	ErrLockTimeout         = errors.New("sqldialect: lock timeout")
	ErrLockAcquisition     = errors.New("sqldialect: lock acquisition")
	ErrPessimisticLock     = errors.New("sqldialect: pessimistic lock")
	ErrQueryTimeout        = errors.New("sqldialect: query timeout")
	ErrDataException       = errors.New("sqldialect: data exception")
)

var errorKindSentinels = map[ErrorKind]error{
	UniqueViolation:     ErrUniqueViolation,
	ForeignKeyViolation: ErrForeignKeyViolation,
	NotNullViolation:    ErrNotNullViolation,
	CheckViolation:      ErrCheckViolation,
	ConstraintViolation: ErrConstraintViolation,
	LockTimeout:         ErrLockTimeout,
	LockAcquisition:     ErrLockAcquisition,
	PessimisticLock:     ErrPessimisticLock,
	QueryTimeout:        ErrQueryTimeout,
	DataException:       ErrDataException,
}

// Error is a classified database error. The driver error stays reachable
// through errors.As and errors.Unwrap.
type Error struct {
	Kind       ErrorKind
	Constraint string
	SQLState   string
	Code       int
	Err        error
}

func (e *Error) Error() string {
	var message strings.Builder
	message.WriteString("sqldialect: ")
	message.WriteString(e.Kind.String())
	if e.Constraint != "" {
		message.WriteString(" on '")
		message.WriteString(e.Constraint)
		message.WriteString("'")
	}
	if e.Err != nil {
		message.WriteString(": ")
		message.WriteString(e.Err.Error())
	}
	return message.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind. ErrConstraintViolation also
// matches the specific integrity violations.
func (e *Error) Is(target error) bool {
	if target == ErrConstraintViolation {
		return e.Kind.IsConstraint()
	}
	sentinel, ok := errorKindSentinels[e.Kind]
	return ok && sentinel == target
}

// ErrorInfo is the vendor state and code carried by a driver error.
type ErrorInfo struct {
	SQLState   string
	Code       int
	Message    string
	Constraint string
}

// StateClass is the two character SQLSTATE class ("23" for integrity violations).
func (info ErrorInfo) StateClass() string {
	if len(info.SQLState) < 2 {
		return ""
	}
	return info.SQLState[:2]
}

// ExtractErrorInfo reads the SQLSTATE, vendor code and constraint name out of
// the errors returned by lib/pq, pgx, go-sql-driver/mysql, go-mssqldb and
// modernc.org/sqlite, and out of any driver error exposing SQLState(),
// Code() or Number().
func ExtractErrorInfo(err error) (ErrorInfo, bool) {
	info, ok := sqlerr.Extract(err)
	return ErrorInfo(info), ok
}

// ErrorTranslator turns driver errors into *Error values.
type ErrorTranslator interface {
	// TranslateError returns an *Error when the database reports a known
	// condition, err itself otherwise, and nil for nil.
	TranslateError(err error) error
}

// Classifier maps extracted error info to a kind. Unknown means the
// classifier has no opinion.
type Classifier func(info ErrorInfo) ErrorKind

// TranslateWith runs classifiers in order and wraps err with the first kind
// found. constraint may be nil; it names the violated constraint for kinds
// where the driver did not.
func TranslateWith(err error, constraint func(info ErrorInfo) string, classifiers ...Classifier) error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return err
	}
	info, ok := ExtractErrorInfo(err)
	if !ok {
		return err
	}
	for _, classify := range classifiers {
		kind := classify(info)
		if kind == Unknown {
			continue
		}
		name := info.Constraint
		if name == "" && constraint != nil && kind.IsConstraint() {
			name = constraint(info)
		}
		return &Error{
			Kind:       kind,
			Constraint: name,
			SQLState:   info.SQLState,
			Code:       info.Code,
			Err:        err,
		}
	}
	return err
}

// StandardClassifier applies the SQLSTATE classes shared by every database.
func StandardClassifier(info ErrorInfo) ErrorKind {
	switch info.SQLState {
	case "23505":
		return UniqueViolation
	case "23503":
		return ForeignKeyViolation
	case "23502":
		return NotNullViolation
	case "23514":
		return CheckViolation
	case "40001":
		return LockAcquisition
	case "57014", "HYT00", "HY008":
		return QueryTimeout
	}
	switch info.StateClass() {
	case "23", "27", "44":
		return ConstraintViolation
	case "22":
		return DataException
	case "40":
		return LockAcquisition
	}
	return Unknown
}

// ExtractUsingTemplate returns the text of message between prefix and the
// next occurrence of suffix, or "" when either is missing.
func ExtractUsingTemplate(message, prefix, suffix string) string {
	start := strings.Index(message, prefix)
	if start < 0 {
		return ""
	}
	start += len(prefix)
	end := strings.Index(message[start:], suffix)
	if end < 0 {
		return ""
	}
	return message[start : start+end]
}
