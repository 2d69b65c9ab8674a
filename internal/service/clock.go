package service

import (
	"time"

	"study_tracker/internal/model"
)

// Clock は「今日」を決める。テストでは固定値を渡す
type Clock interface {
	Now() time.Time
	// Today は設定タイムゾーンでの暦日 (UTC 0時)
	Today() time.Time
}

type systemClock struct {
	loc *time.Location
}

func NewSystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &systemClock{loc: loc}
}

func (c *systemClock) Now() time.Time {
	return time.Now()
}

func (c *systemClock) Today() time.Time {
	return model.CalendarDate(time.Now(), c.loc)
}
