package utils

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestErrorKindOf(t *testing.T) {
	assert.Equal(t, ErrorKindNotFound, ErrorKindOf(NotFoundError("invoice")))
	assert.Equal(t, ErrorKindNotFound, ErrorKindOf(gorm.ErrRecordNotFound))
	assert.Equal(t, ErrorKindNotFound, ErrorKindOf(fmt.Errorf("load: %w", gorm.ErrRecordNotFound)))
	assert.Equal(t, ErrorKindBusinessRule, ErrorKindOf(BusinessRuleError("no")))
	assert.Equal(t, ErrorKindValidation, ErrorKindOf(ValidationError("bad %s", "x")))
	assert.Equal(t, ErrorKindUnauthorized, ErrorKindOf(UnauthorizedError("who")))
	assert.Equal(t, ErrorKindDatabase, ErrorKindOf(errors.New("boom")))
}

func TestDatabaseError_DuplicateKeyIsValidation(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'W-1' for key 'idx_products_tenant_sku'"}
	err := DatabaseError(fmt.Errorf("create product: %w", dup))
	assert.True(t, IsKind(err, ErrorKindValidation))
	assert.NotContains(t, PublicMessage(err), "W-1")

	lockWait := &mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}
	assert.True(t, IsKind(DatabaseError(lockWait), ErrorKindDatabase))
}

func TestDatabaseError_KeepsAppErrors(t *testing.T) {
	rule := BusinessRuleError("cannot ship")
	assert.Same(t, rule, DatabaseError(rule))
	assert.Nil(t, DatabaseError(nil))

	cause := errors.New("deadlock")
	err := DatabaseError(cause)
	assert.True(t, IsKind(err, ErrorKindDatabase))
	assert.ErrorIs(t, err, cause)
}

func TestPublicMessage_HidesDatabaseCause(t *testing.T) {
	assert.Equal(t, "internal server error", PublicMessage(DatabaseError(errors.New("password=secret"))))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("raw")))
	assert.Equal(t, "invoice not found", PublicMessage(NotFoundError("invoice")))
	assert.Equal(t, "cannot ship", PublicMessage(BusinessRuleError("cannot ship")))
}

func TestNotFoundError_IsRecordNotFound(t *testing.T) {
	assert.ErrorIs(t, NotFoundError("product"), ErrorRecordNotFound)
}

func TestRequirePositive(t *testing.T) {
	assert.NoError(t, RequirePositive("qty", decimal.NewFromInt(1)))
	assert.True(t, IsKind(RequirePositive("qty", decimal.Zero), ErrorKindValidation))
	assert.True(t, IsKind(RequirePositive("qty", decimal.NewFromInt(-1)), ErrorKindValidation))
}

func TestDaysBetween_UsesWholeUTCDays(t *testing.T) {
	due := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	asOf := time.Date(2024, 2, 15, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 45, DaysBetween(due, asOf))
	assert.Equal(t, -45, DaysBetween(asOf, due))
	assert.Equal(t, 0, DaysBetween(due, due.Add(30*time.Minute)))
}

func TestParseTenantId(t *testing.T) {
	_, err := ParseTenantId("not-a-uuid")
	assert.True(t, IsKind(err, ErrorKindValidation))
	id, err := ParseTenantId("6F9619FF-8B86-D011-B42D-00C04FC964FF")
	assert.NoError(t, err)
	assert.Equal(t, "6f9619ff-8b86-d011-b42d-00c04fc964ff", id)
}
