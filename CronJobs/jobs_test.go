package CronJobs_test

import (
	"testing"

	"TapirTwins/CronJobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsRollerLifecycle(t *testing.T) {
	roller := CronJobs.NewStatsRoller(false)
	require.NoError(t, roller.Start())
	defer roller.Stop()

	assert.NoError(t, roller.UpdateSchedule("0 0 2 * * *"))
	assert.Error(t, roller.UpdateSchedule("not a schedule"))
}
