package model

import "time"

type Period int

const (
	PeriodCurrentFY Period = iota
	PeriodPreviousFY
)

func (p Period) String() string {
	switch p {
	case PeriodCurrentFY:
		return "Current Financial Year"
	case PeriodPreviousFY:
		return "Previous Financial Year"
	}
	return "Unknown Period"
}

// DateRange is an inclusive calendar-date window.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}
