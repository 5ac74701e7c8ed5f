package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Tuesday, so weekday arithmetic is easy to eyeball
var baseRun = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestNextRunSingle(t *testing.T) {
	next, err := NextRun(Schedule{Type: TypeSingle, NextRunAt: &baseRun}, baseRun)
	require.NoError(t, err)
	require.Nil(t, next)
}

func TestNextRunDaily(t *testing.T) {
	next, err := NextRun(Schedule{
		Type:      TypeDaily,
		TimeOfDay: "09:00:00",
		NextRunAt: &baseRun,
	}, baseRun)
	require.NoError(t, err)
	require.NotNil(t, next)
	require.Equal(t, time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC), *next)
}

func TestNextRunDailyZeroesSeconds(t *testing.T) {
	late := time.Date(2026, 3, 10, 9, 0, 42, 999, time.UTC)
	next, err := NextRun(Schedule{
		Type:      TypeDaily,
		TimeOfDay: "21:30:00",
		NextRunAt: &late,
	}, late)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 11, 21, 30, 0, 0, time.UTC), *next)
}

func TestNextRunDailyFallsBackFromNow(t *testing.T) {
	// no stored run time: the calculator anchors on now
	next, err := NextRun(Schedule{Type: TypeDaily, TimeOfDay: "07:15:00"}, baseRun)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 11, 7, 15, 0, 0, time.UTC), *next)
}

func TestNextRunWeeklyPicksNextSelectedDay(t *testing.T) {
	// Tuesday run with Monday(1) and Wednesday(3) selected lands on Wednesday
	next, err := NextRun(Schedule{
		Type:       TypeWeekly,
		TimeOfDay:  "09:00:00",
		DaysOfWeek: []int{1, 3},
		NextRunAt:  &baseRun,
	}, baseRun)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC), *next)
	require.Equal(t, time.Wednesday, next.Weekday())
}

func TestNextRunWeeklyWrapsToNextWeek(t *testing.T) {
	// Tuesday run with only Monday(1) selected waits six days
	next, err := NextRun(Schedule{
		Type:       TypeWeekly,
		TimeOfDay:  "09:00:00",
		DaysOfWeek: []int{1},
		NextRunAt:  &baseRun,
	}, baseRun)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC), *next)
	require.Equal(t, time.Monday, next.Weekday())
}

func TestNextRunWeeklySameDaySelected(t *testing.T) {
	// only the current weekday selected: next run is a full week out
	next, err := NextRun(Schedule{
		Type:       TypeWeekly,
		TimeOfDay:  "09:00:00",
		DaysOfWeek: []int{2}, // Tuesday
		NextRunAt:  &baseRun,
	}, baseRun)
	require.NoError(t, err)
	require.Equal(t, baseRun.AddDate(0, 0, 7), *next)
}

func TestNextRunWeeklySundayIsZero(t *testing.T) {
	next, err := NextRun(Schedule{
		Type:       TypeWeekly,
		TimeOfDay:  "09:00:00",
		DaysOfWeek: []int{0},
		NextRunAt:  &baseRun,
	}, baseRun)
	require.NoError(t, err)
	require.Equal(t, time.Sunday, next.Weekday())
	require.Equal(t, time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC), *next)
}

func TestNextRunWeeklyEmptySelection(t *testing.T) {
	next, err := NextRun(Schedule{
		Type:      TypeWeekly,
		TimeOfDay: "09:00:00",
		NextRunAt: &baseRun,
	}, baseRun)
	require.NoError(t, err)
	require.Equal(t, baseRun.AddDate(0, 0, 7), *next)
}

func TestNextRunCustomCronUnsupported(t *testing.T) {
	next, err := NextRun(Schedule{Type: TypeCustomCron, NextRunAt: &baseRun}, baseRun)
	require.ErrorIs(t, err, ErrUnsupportedRecurrence)
	require.Nil(t, next)
}

func TestNextRunUnknownType(t *testing.T) {
	next, err := NextRun(Schedule{Type: Type("fortnightly"), NextRunAt: &baseRun}, baseRun)
	require.NoError(t, err)
	require.Nil(t, next)
}

func TestNextRunMalformedTimeOfDayFallsBack(t *testing.T) {
	next, err := NextRun(Schedule{
		Type:      TypeDaily,
		TimeOfDay: "not-a-time",
		NextRunAt: &baseRun,
	}, baseRun)
	require.NoError(t, err)
	require.Equal(t, 9, next.Hour())
	require.Equal(t, 0, next.Minute())
}

func TestNextRunHonorsTimezone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	next, nerr := NextRun(Schedule{
		Type:      TypeDaily,
		TimeOfDay: "09:00:00",
		NextRunAt: &baseRun,
		Timezone:  "Asia/Tokyo",
	}, baseRun)
	require.NoError(t, nerr)

	// baseRun 09:00 UTC is 18:00 Tokyo on the 10th, so the next run is
	// 09:00 Tokyo on the 11th
	require.Equal(t, time.Date(2026, 3, 11, 9, 0, 0, 0, tokyo), *next)
}
