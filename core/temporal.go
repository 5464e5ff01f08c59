package core

import "fmt"

// Date is a calendar date without a time zone.
type Date struct {
	Year  int16
	Month int8
	Day   int8
}

func (d Date) String() string { return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day) }

// Time is a wall-clock time of day in UTC.
type Time struct {
	Hour        int8
	Minute      int8
	Sec         int8
	Microsecond int32
}

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%06d", t.Hour, t.Minute, t.Sec, t.Microsecond)
}

// DateTime combines a Date and a Time.
type DateTime struct {
	Date
	Time
}

func (dt DateTime) String() string { return dt.Date.String() + "T" + dt.Time.String() }
