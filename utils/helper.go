package utils

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
)

var validate = validator.New()

func ValidatePhoneNumber(phoneNumber, countryCode string) error {
	p, err := libphonenumber.Parse(phoneNumber, countryCode)
	if err != nil {
		return err // Phone number is invalid
	}

	if !libphonenumber.IsValidNumber(p) {
		return fmt.Errorf("phone number is not valid")
	}

	return nil
}

// NormalizePhoneNumber validates the number and returns it in E.164 form.
func NormalizePhoneNumber(phoneNumber, countryCode string) (string, error) {
	if strings.TrimSpace(phoneNumber) == "" {
		return "", nil
	}
	if err := ValidatePhoneNumber(phoneNumber, countryCode); err != nil {
		return "", ValidationError("invalid phone number %q", phoneNumber)
	}
	p, _ := libphonenumber.Parse(phoneNumber, countryCode)
	return libphonenumber.Format(p, libphonenumber.E164), nil
}

func ProcessValidationErrors(err error) map[string]string {
	errorResponse := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errorResponse
	}
	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}

// ValidateStruct runs the struct's validate tags and folds failures into a
// single Validation error listing field=tag pairs.
func ValidateStruct(input any) error {
	if err := validate.Struct(input); err != nil {
		fields := ProcessValidationErrors(err)
		if len(fields) == 0 {
			return ValidationError("invalid input")
		}
		parts := make([]string, 0, len(fields))
		for field, tag := range fields {
			parts = append(parts, field+"="+tag)
		}
		sort.Strings(parts)
		return ValidationError("invalid input: %s", strings.Join(parts, ", "))
	}
	return nil
}

// RequirePositive fails with a Validation error when value is not > 0.
func RequirePositive(field string, value decimal.Decimal) error {
	if !value.IsPositive() {
		return ValidationError("%s must be greater than zero", field)
	}
	return nil
}

// ParseId parses a path identifier.
func ParseId(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, ValidationError("invalid id %q", raw)
	}
	return id, nil
}

// ParseTenantId parses a tenant identifier, which must be a UUID.
func ParseTenantId(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ValidationError("invalid tenant id %q", raw)
	}
	return id.String(), nil
}

// ParseDate parses a YYYY-MM-DD query value. Empty input returns nil.
func ParseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, ValidationError("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return &d, nil
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween is the number of whole calendar days from `from` to `to`.
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}

func NewTrue() *bool {
	b := true
	return &b
}
