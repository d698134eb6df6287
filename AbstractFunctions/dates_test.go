package AbstractFunctions_test

import (
	"testing"
	"time"

	"TapirTwins/AbstractFunctions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateHelpers(t *testing.T) {
	today := AbstractFunctions.GetTodayDate()
	yesterday := AbstractFunctions.GetYesterdayDate()

	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, today)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, yesterday)
	assert.True(t, yesterday < today)

	_, err := time.Parse(time.RFC3339, AbstractFunctions.NowTimestamp())
	assert.NoError(t, err)
}

func TestMonthOf(t *testing.T) {
	assert.Equal(t, "2026-08", AbstractFunctions.MonthOf("2026-08-30"))
	assert.Equal(t, "x", AbstractFunctions.MonthOf("x"))
}

func TestDaysInMonth(t *testing.T) {
	days, err := AbstractFunctions.DaysInMonth("2020-02")
	require.NoError(t, err)
	require.Len(t, days, 29)
	assert.Equal(t, "2020-02-01", days[0])
	assert.Equal(t, "2020-02-29", days[28])

	_, err = AbstractFunctions.DaysInMonth("February")
	assert.Error(t, err)
}

func TestDaysInMonthStopsAtToday(t *testing.T) {
	month := AbstractFunctions.MonthOf(AbstractFunctions.GetTodayDate())
	days, err := AbstractFunctions.DaysInMonth(month)
	require.NoError(t, err)
	for _, day := range days {
		assert.True(t, day < AbstractFunctions.GetTodayDate())
	}
}
