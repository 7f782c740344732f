package validation

import (
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ClockSkew is the tolerance applied by the notfuture tag.
const ClockSkew = 5 * time.Minute

// Timestamper is implemented by date wrappers that notfuture should accept.
type Timestamper interface {
	Timestamp() time.Time
}

// New returns a validator that understands decimal amounts and the notfuture tag.
func New() *validator.Validate {
	return NewWithClock(time.Now)
}

// NewWithClock is New with an explicit time source for the notfuture tag.
func NewWithClock(now func() time.Time) *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{}, decimal.NullDecimal{})

	_ = validate.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		var value time.Time
		switch field := fl.Field().Interface().(type) {
		case time.Time:
			value = field
		case Timestamper:
			value = field.Timestamp()
		default:
			return false
		}
		return !value.After(now().Add(ClockSkew))
	})

	return validate
}

// decimalValue exposes decimals as float64 so numeric tags (gt, gte, lte) apply.
func decimalValue(field reflect.Value) interface{} {
	switch value := field.Interface().(type) {
	case decimal.Decimal:
		return value.InexactFloat64()
	case decimal.NullDecimal:
		if !value.Valid {
			return nil
		}
		return value.Decimal.InexactFloat64()
	}
	return nil
}
