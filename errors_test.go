package sqldialect

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardClassifier(t *testing.T) {
	tests := map[string]ErrorKind{
		"23505": UniqueViolation,
		"23503": ForeignKeyViolation,
		"23502": NotNullViolation,
		"23514": CheckViolation,
		"23000": ConstraintViolation,
		"27000": ConstraintViolation,
		"40001": LockAcquisition,
		"40P01": LockAcquisition,
		"57014": QueryTimeout,
		"HYT00": QueryTimeout,
		"22003": DataException,
		"42P01": Unknown,
		"":      Unknown,
	}
	for state, expected := range tests {
		if actual := StandardClassifier(ErrorInfo{SQLState: state}); actual != expected {
			t.Errorf("Expected %s for '%s', got %s", expected, state, actual)
		}
	}
}

func TestTranslateWith(t *testing.T) {
	assert.Nil(t, TranslateWith(nil, nil, StandardClassifier))

	plain := errors.New("boom")
	assert.Same(t, plain, TranslateWith(plain, nil, StandardClassifier))

	driverErr := &pq.Error{Code: "23505", Message: "duplicate key", Constraint: "users_email_key"}
	err := TranslateWith(fmt.Errorf("insert: %w", driverErr), nil, StandardClassifier)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUniqueViolation))
	assert.True(t, errors.Is(err, ErrConstraintViolation))
	assert.False(t, errors.Is(err, ErrNotNullViolation))
	var classified *Error
	require.True(t, errors.As(err, &classified))
	assert.Equal(t, "users_email_key", classified.Constraint)
	assert.Equal(t, "23505", classified.SQLState)
	var original *pq.Error
	assert.True(t, errors.As(err, &original))

	// already classified errors pass through untouched
	assert.Same(t, err, TranslateWith(err, nil, StandardClassifier))

	pgErr := &pgconn.PgError{Code: "23514", Message: "violates check constraint"}
	err = TranslateWith(pgErr, func(info ErrorInfo) string { return "ck_from_message" }, StandardClassifier)
	require.True(t, errors.As(err, &classified))
	assert.Equal(t, CheckViolation, classified.Kind)
	assert.Equal(t, "ck_from_message", classified.Constraint)

	first := func(info ErrorInfo) ErrorKind {
		if info.SQLState == "23505" {
			return PessimisticLock
		}
		return Unknown
	}
	err = TranslateWith(driverErr, nil, first, StandardClassifier)
	assert.True(t, errors.Is(err, ErrPessimisticLock))

	err = TranslateWith(&pq.Error{Code: "42P01"}, nil, StandardClassifier)
	assert.False(t, errors.As(err, &classified))
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Kind: UniqueViolation, Constraint: "pk_users", Err: errors.New("duplicate")}
	assert.EqualError(t, err, "sqldialect: unique violation on 'pk_users': duplicate")
	assert.EqualError(t, &Error{Kind: QueryTimeout}, "sqldialect: query timeout")
	assert.Equal(t, "ErrorKind(99)", ErrorKind(99).String())
	assert.False(t, LockTimeout.IsConstraint())
	assert.True(t, NotNullViolation.IsConstraint())
}

func TestExtractUsingTemplate(t *testing.T) {
	message := `duplicate key value violates unique constraint "users_email_key"`
	assert.Equal(t, "users_email_key", ExtractUsingTemplate(message, `constraint "`, `"`))
	assert.Equal(t, "", ExtractUsingTemplate(message, "index '", "'"))
	assert.Equal(t, "", ExtractUsingTemplate("constraint \"open", `constraint "`, `"`))
}
