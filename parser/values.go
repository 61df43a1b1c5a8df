package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Nadi-System/nadi-core-sub000/attrs"
)

// Attribute converts a literal token into its attribute value.
func (t Token) Attribute() (attrs.Attribute, error) {
	switch t.Kind {
	case TokenBool:
		return attrs.Bool(t.Text == "true"), nil

	case TokenString:
		return attrs.String(t.Value), nil

	case TokenInteger:
		n, err := strconv.ParseInt(numberText(t.Text), 10, 64)
		if err != nil {
			return attrs.Attribute{}, fmt.Errorf("invalid integer %q", t.Text)
		}
		return attrs.Int(n), nil

	case TokenFloat:
		f, err := strconv.ParseFloat(numberText(t.Text), 64)
		if err != nil {
			return attrs.Attribute{}, fmt.Errorf("invalid float %q", t.Text)
		}
		return attrs.Float(f), nil

	case TokenDate:
		d, err := attrs.ParseDate(t.Text)
		if err != nil {
			return attrs.Attribute{}, err
		}
		return attrs.DateValue(d), nil

	case TokenTime:
		tm, err := attrs.ParseTime(t.Text)
		if err != nil {
			return attrs.Attribute{}, err
		}
		return attrs.TimeValue(tm), nil

	case TokenDateTime:
		dt, err := attrs.ParseDateTime(t.Text)
		if err != nil {
			return attrs.Attribute{}, err
		}
		return attrs.DateTimeValue(dt), nil
	}
	return attrs.Attribute{}, fmt.Errorf("%s is not a value", t.Kind)
}

// numberText strips visual underscores and a leading plus sign.
func numberText(s string) string {
	return strings.TrimPrefix(strings.ReplaceAll(s, "_", ""), "+")
}
