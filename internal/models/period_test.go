package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolvePeriod(t *testing.T) {
	assert.Equal(t, PeriodDaily, ResolvePeriod("daily"))
	assert.Equal(t, PeriodWeekly, ResolvePeriod("weekly"))
	assert.Equal(t, PeriodMonthly, ResolvePeriod("monthly"))

	assert.Equal(t, PeriodMonthly, ResolvePeriod(""))
	assert.Equal(t, PeriodMonthly, ResolvePeriod("hourly"))
	assert.Equal(t, PeriodMonthly, ResolvePeriod("Daily"))
}

func TestWindowStartDaily(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 30, 0, 0, time.UTC)
	start := PeriodDaily.WindowStart(now)

	assert.Equal(t, time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), start.AddDate(0, 0, PeriodLookback-1))
}

func TestWindowStartWeeklyAlignsToMonday(t *testing.T) {
	// Sunday: the last day of an ISO week.
	sunday := time.Date(2024, 5, 19, 23, 59, 0, 0, time.UTC)
	start := PeriodWeekly.WindowStart(sunday)
	assert.Equal(t, time.Monday, start.Weekday())
	assert.Equal(t, time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC), start)

	// Monday: the first day of an ISO week.
	monday := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	start = PeriodWeekly.WindowStart(monday)
	assert.Equal(t, time.Monday, start.Weekday())
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), start)

	// The start bucket plus the lookback lands on the current week.
	assert.Equal(t, monday, start.AddDate(0, 0, 7*(PeriodLookback-1)))
}

func TestWindowStartMonthly(t *testing.T) {
	now := time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC)
	start := PeriodMonthly.WindowStart(now)

	assert.Equal(t, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), start.AddDate(0, PeriodLookback-1, 0))
}

func TestWindowStartNormalizesZone(t *testing.T) {
	zone := time.FixedZone("UTC+5", 5*3600)
	local := time.Date(2024, 5, 20, 2, 0, 0, 0, zone)
	start := PeriodDaily.WindowStart(local)

	// 02:00 at UTC+5 is still the 19th in UTC.
	assert.Equal(t, time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC), start)
}

func TestGroupExprSelection(t *testing.T) {
	assert.Equal(t, "DATE_FORMAT(payment_date, '%Y-%m-%d')", PeriodDaily.GroupExpr("payment_date"))
	assert.Equal(t, "YEARWEEK(payment_date, 1)", PeriodWeekly.GroupExpr("payment_date"))
	assert.Equal(t, "DATE_FORMAT(payment_date, '%Y-%m')", PeriodMonthly.GroupExpr("payment_date"))
	assert.Equal(t, PeriodMonthly.GroupExpr("payment_date"), Period("bogus").GroupExpr("payment_date"))
}

func TestLabelExprSelection(t *testing.T) {
	assert.Equal(t, "DATE_FORMAT(MIN(recorded_at), '%d %b')", PeriodDaily.LabelExpr("recorded_at"))
	assert.Equal(t, "DATE_FORMAT(MIN(recorded_at), '%x-W%v')", PeriodWeekly.LabelExpr("recorded_at"))
	assert.Equal(t, "DATE_FORMAT(MIN(recorded_at), '%b %Y')", PeriodMonthly.LabelExpr("recorded_at"))
}
