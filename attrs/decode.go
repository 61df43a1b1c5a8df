package attrs

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// Decode binds the entries of t into the struct pointed to by out. Field names
// match keys case-insensitively or through an `attr:"name"` tag. Values must
// already have the field's type; use DecodeRelaxed to allow coercion.
func Decode(t *Table, out any) error {
	return decode(t, out, false)
}

// DecodeRelaxed is like Decode but lets mapstructure weakly convert values,
// e.g. Integer into a bool field.
func DecodeRelaxed(t *Table, out any) error {
	return decode(t, out, true)
}

func decode(t *Table, out any, weak bool) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "attr",
		WeaklyTypedInput: weak,
		ErrorUnused:      true,
		DecodeHook:       dateTimeHook,
	})
	if err != nil {
		return fmt.Errorf("building decoder: %w", err)
	}
	if err := dec.Decode(t.Native()); err != nil {
		return fmt.Errorf("decoding table: %w", err)
	}
	return nil
}

// dateTimeHook passes Date, Time and DateTime values through untouched and
// widens a Date into a DateTime field.
func dateTimeHook(from, to reflect.Type, data any) (any, error) {
	if from == dateType && to == dateTimeType {
		return data.(Date).WithTime(Time{}), nil
	}
	if to == attributeType {
		return Of(data)
	}
	return data, nil
}
