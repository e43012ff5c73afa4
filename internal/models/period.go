package models

import "time"

// Period is a reporting granularity for revenue bucketing.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"

	// PeriodLookback is the number of buckets a revenue series spans,
	// current bucket included.
	PeriodLookback = 12
)

// ResolvePeriod maps a caller-supplied period keyword to a known
// granularity. Unrecognized or empty values fall back to monthly rather
// than erroring; callers rely on this permissive default.
func ResolvePeriod(raw string) Period {
	switch Period(raw) {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return Period(raw)
	default:
		return PeriodMonthly
	}
}

// GroupExpr returns the MySQL expression that buckets a timestamp column
// into this period.
func (p Period) GroupExpr(column string) string {
	switch p {
	case PeriodDaily:
		return "DATE_FORMAT(" + column + ", '%Y-%m-%d')"
	case PeriodWeekly:
		return "YEARWEEK(" + column + ", 1)"
	default:
		return "DATE_FORMAT(" + column + ", '%Y-%m')"
	}
}

// LabelExpr returns the MySQL expression producing a display label for a
// bucket. It is applied to MIN(column) so grouped selects stay valid under
// ONLY_FULL_GROUP_BY.
func (p Period) LabelExpr(column string) string {
	switch p {
	case PeriodDaily:
		return "DATE_FORMAT(MIN(" + column + "), '%d %b')"
	case PeriodWeekly:
		return "DATE_FORMAT(MIN(" + column + "), '%x-W%v')"
	default:
		return "DATE_FORMAT(MIN(" + column + "), '%b %Y')"
	}
}

// WindowStart returns the inclusive lower bound of the lookback window
// ending at now: the start of the bucket PeriodLookback-1 units back, so a
// series never exceeds PeriodLookback buckets.
func (p Period) WindowStart(now time.Time) time.Time {
	now = now.UTC()
	switch p {
	case PeriodDaily:
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return day.AddDate(0, 0, -(PeriodLookback - 1))
	case PeriodWeekly:
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		// ISO weeks start on Monday.
		offset := (int(day.Weekday()) + 6) % 7
		weekStart := day.AddDate(0, 0, -offset)
		return weekStart.AddDate(0, 0, -7*(PeriodLookback-1))
	default:
		month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return month.AddDate(0, -(PeriodLookback - 1), 0)
	}
}
