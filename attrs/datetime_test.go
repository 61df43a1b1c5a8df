package attrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2022-01-31")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2022, Month: 1, Day: 31}, d)

	// No calendar validation: month 13 and day 40 are accepted.
	d, err = ParseDate("2022-13-40")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2022, Month: 13, Day: 40}, d)

	tests := []struct {
		in   string
		want string
	}{
		{"", "Year not present"},
		{"abc", "Invalid Year"},
		{"2022", "Month not present"},
		{"2022-x", "Invalid Month"},
		{"2022-01", "Day not present"},
		{"2022-01-999", "Invalid Day"},
		{"70000-01-01", "Invalid Year"},
		{"2022-01-01-01", "Invalid Date"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseDate(tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestParseTime(t *testing.T) {
	tm, err := ParseTime("10:30")
	require.NoError(t, err)
	assert.Equal(t, Time{Hour: 10, Min: 30}, tm)

	tm, err = ParseTime("23:59:59.25")
	require.NoError(t, err)
	assert.Equal(t, Time{Hour: 23, Min: 59, Sec: 59, Nanosecond: 250_000_000}, tm)

	tests := []struct {
		in   string
		want string
	}{
		{"24:00", "Invalid Hour (use 0-23)"},
		{"10:60", "Invalid Minute (use 0-59)"},
		{"10:00:60", "Invalid Second (use 0-59)"},
		{"10", "Minute not present"},
		{"10:00:00:00", "Invalid Time"},
		{"10:00:00.", "Invalid Second"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseTime(tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestParseDateTime(t *testing.T) {
	dt, err := ParseDateTime("2022-01-02 03:04:05")
	require.NoError(t, err)
	assert.Equal(t, DateTime{Date: Date{2022, 1, 2}, Time: Time{Hour: 3, Min: 4, Sec: 5}}, dt)

	dt, err = ParseDateTime("2022-01-02T03:04")
	require.NoError(t, err)
	assert.Equal(t, Time{Hour: 3, Min: 4}, dt.Time)

	dt, err = ParseDateTime("2022-01-02T03:04Z")
	require.NoError(t, err)
	require.NotNil(t, dt.Offset)
	assert.Equal(t, Offset{East: true}, *dt.Offset)

	dt, err = ParseDateTime("2022-01-02 03:04:00-05:30")
	require.NoError(t, err)
	require.NotNil(t, dt.Offset)
	assert.Equal(t, Offset{Hour: 5, Min: 30}, *dt.Offset)
	assert.Equal(t, "2022-01-02 03:04:00-05:30", dt.String())

	_, err = ParseDateTime("2022-01-02")
	require.Error(t, err)
	assert.Equal(t, "Invalid DateTime use YYYY-mm-dd HH:MM[:SS]", err.Error())
}

func TestDateHelpers(t *testing.T) {
	assert.True(t, IsLeapYear(2000))
	assert.False(t, IsLeapYear(1900))
	assert.True(t, IsLeapYear(2024))
	assert.Equal(t, 29, DaysInMonth(2024, 2))
	assert.Equal(t, 28, DaysInMonth(2023, 2))
	assert.Equal(t, 30, DaysInMonth(2023, 4))
	assert.Equal(t, 0, DaysInMonth(2023, 13))

	assert.Equal(t, 1, Date{2023, 1, 1}.DayOfYear())
	assert.Equal(t, 60, Date{2024, 2, 29}.DayOfYear())
	assert.Equal(t, 365, Date{2023, 12, 31}.DayOfYear())
	assert.True(t, Date{2024, 5, 1}.IsLeap())
}

func TestTimeSeconds(t *testing.T) {
	tm := Time{Hour: 1, Min: 2, Sec: 3}
	assert.Equal(t, uint32(3723), tm.SecondsSinceMidnight())
	assert.Equal(t, tm, TimeFromSeconds(3723))
	assert.Equal(t, Time{}, TimeFromSeconds(86400))
}

func TestDateTimeCompare(t *testing.T) {
	utc := DateTime{Date: Date{2022, 1, 1}, Time: Time{Hour: 10}, Offset: &Offset{East: true}}
	east := DateTime{Date: Date{2022, 1, 1}, Time: Time{Hour: 12}, Offset: &Offset{Hour: 2, East: true}}
	assert.Equal(t, 0, utc.Compare(east))

	later := DateTime{Date: Date{2022, 1, 2}}
	assert.Equal(t, -1, DateTime{Date: Date{2022, 1, 1}, Time: Time{Hour: 23}}.Compare(later))
	assert.False(t, utc.Equal(east))
}
