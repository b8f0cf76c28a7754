package nodes

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"time"
)

// Reveal classifies a driving value. It peels a NullableValue, dereferences
// pointers and calls driver.Valuer, then reports the value to bind and
// whether the clause it drives should render.
//
// A nil revealed value is absent unless it was wrapped with Nullable, in
// which case it is present and binds SQL NULL. Types that cannot be bound
// as a single SQL parameter produce a *UsageError.
func Reveal(driving any) (value any, present bool, err error) {
	nullable := false
	if nv, ok := driving.(NullableValue); ok {
		nullable = true
		driving = nv.Value
	}
	value, err = revealScalar(driving)
	if err != nil {
		return nil, false, err
	}
	if value == nil {
		return nil, nullable, nil
	}
	return value, true, nil
}

func revealScalar(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case NullableValue:
		return nil, usageErrorf("nested Nullable is not a bindable value")
	case string, bool, []byte, time.Time,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return val, nil
	case driver.Valuer:
		rv := reflect.ValueOf(val)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil, nil
		}
		out, err := val.Value()
		if err != nil {
			return nil, &UsageError{Msg: fmt.Sprintf("driver.Valuer %T failed", val), Err: err}
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
		return revealScalar(rv.Elem().Interface())
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		// named scalar types (e.g. type Mode int) bind as their kind
		return v, nil
	}
	return nil, usageErrorf("unsupported driving value type %T", v)
}

// BindableValue reports an error when v cannot be bound as a single SQL
// parameter. nil is bindable and means SQL NULL.
func BindableValue(v any) (any, error) {
	if nv, ok := v.(NullableValue); ok {
		v = nv.Value
	}
	return revealScalar(v)
}
