package functions

import (
	"github.com/Nadi-System/nadi-core-sub000/attrs"
)

// Date arguments also accept a DateTime, whose time is ignored.
func registerDatetime(r *Registry) {
	r.RegisterEnv("datetime", EnvFunc{Info{"day_of_year",
		"Day of the year of the date, starting at 1",
		"(date: Date)"}, dayOfYear})
	r.RegisterEnv("datetime", EnvFunc{Info{"is_leap",
		"Check if the date falls in a leap year",
		"(date: Date)"}, isLeap})
	r.RegisterEnv("datetime", EnvFunc{Info{"days_in_month",
		"Number of days in the month of the date",
		"(date: Date)"}, daysInMonth})
	r.RegisterEnv("datetime", EnvFunc{Info{"seconds_since_midnight",
		"Whole seconds elapsed since midnight",
		"(time: Time)"}, secondsSinceMidnight})
	r.RegisterEnv("datetime", EnvFunc{Info{"time_from_seconds",
		"Time of day the given seconds after midnight\n\nSeconds past a day wrap around.",
		"(seconds: Integer)"}, timeFromSeconds})
}

func dateArg(ctx *Ctx) (attrs.Date, error) {
	dt, err := RequiredRelaxed[attrs.DateTime](ctx, 0, "date")
	return dt.Date, err
}

func dayOfYear(ctx *Ctx) (Ret, error) {
	d, err := dateArg(ctx)
	if err != nil {
		return Ret{}, err
	}
	return Return(attrs.Int(int64(d.DayOfYear()))), nil
}

func isLeap(ctx *Ctx) (Ret, error) {
	d, err := dateArg(ctx)
	if err != nil {
		return Ret{}, err
	}
	return Return(attrs.Bool(d.IsLeap())), nil
}

func daysInMonth(ctx *Ctx) (Ret, error) {
	d, err := dateArg(ctx)
	if err != nil {
		return Ret{}, err
	}
	return Return(attrs.Int(int64(attrs.DaysInMonth(int(d.Year), int(d.Month))))), nil
}

func secondsSinceMidnight(ctx *Ctx) (Ret, error) {
	t, err := Required[attrs.Time](ctx, 0, "time")
	if err != nil {
		return Ret{}, err
	}
	return Return(attrs.Int(int64(t.SecondsSinceMidnight()))), nil
}

func timeFromSeconds(ctx *Ctx) (Ret, error) {
	secs, err := Required[uint32](ctx, 0, "seconds")
	if err != nil {
		return Ret{}, err
	}
	return Return(attrs.TimeValue(attrs.TimeFromSeconds(secs))), nil
}
