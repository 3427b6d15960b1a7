package utils

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var ErrorRecordNotFound = errors.New("record not found")

type ErrorKind string

const (
	ErrorKindNotFound     ErrorKind = "NotFound"
	ErrorKindBusinessRule ErrorKind = "BusinessRule"
	ErrorKindValidation   ErrorKind = "Validation"
	ErrorKindUnauthorized ErrorKind = "Unauthorized"
	ErrorKindDatabase     ErrorKind = "Database"
)

// AppError carries the kind used by the HTTP layer to pick a status code.
// Message is safe to show to the caller; Err is the underlying cause.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Kind == ErrorKindDatabase && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e.Kind == ErrorKindNotFound && e.Err == nil {
		return ErrorRecordNotFound
	}
	return e.Err
}

func NotFoundError(entity string) error {
	return &AppError{Kind: ErrorKindNotFound, Message: entity + " not found"}
}

func BusinessRuleError(format string, args ...any) error {
	return &AppError{Kind: ErrorKindBusinessRule, Message: fmt.Sprintf(format, args...)}
}

func ValidationError(format string, args ...any) error {
	return &AppError{Kind: ErrorKindValidation, Message: fmt.Sprintf(format, args...)}
}

func UnauthorizedError(message string) error {
	return &AppError{Kind: ErrorKindUnauthorized, Message: message}
}

const mysqlDuplicateEntry = 1062

// DatabaseError wraps a persistence failure. Its Message never contains the
// cause. A unique key violation becomes a Validation error.
func DatabaseError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	var mysqlErr *mysql.MySQLError
	if (errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return &AppError{Kind: ErrorKindValidation, Message: "a record with the same unique value already exists", Err: err}
	}
	return &AppError{Kind: ErrorKindDatabase, Message: "database error", Err: err}
}

// ErrorKindOf classifies any error. Unknown errors are treated as Database errors.
func ErrorKindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrorRecordNotFound) {
		return ErrorKindNotFound
	}
	return ErrorKindDatabase
}

// PublicMessage is the text returned to API callers for err.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Kind == ErrorKindDatabase {
			return "internal server error"
		}
		return appErr.Message
	}
	if ErrorKindOf(err) == ErrorKindNotFound {
		return ErrorRecordNotFound.Error()
	}
	return "internal server error"
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && ErrorKindOf(err) == kind
}
