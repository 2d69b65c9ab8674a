package model

import (
	"time"

	"github.com/jinzhu/now"
)

// DateLayout は API で扱う日付の形式
const DateLayout = "2006-01-02"

// CalendarDate は loc におけるその日の暦日を、UTCの0時として返す。
// DBの date カラムにはこの形で保存する。
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := now.With(t.In(loc)).BeginningOfDay().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateOnly はDBから読んだ日付を UTC 0時にそろえる
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween は from から to までの日数 (to が前なら負)
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}

// ParseDate は "2006-01-02" を UTC 0時として読む
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// MonthRange は date を含む月の初日と末日
func MonthRange(date time.Time) (time.Time, time.Time) {
	n := now.With(DateOnly(date))
	return DateOnly(n.BeginningOfMonth()), DateOnly(n.EndOfMonth())
}
