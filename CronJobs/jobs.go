package CronJobs

import (
	"fmt"
	"log"

	"TapirTwins/Models"

	"github.com/robfig/cron/v3"
)

// StatsRoller computes the failed-task rollup for yesterday on a nightly
// schedule
type StatsRoller struct {
	cronScheduler  *cron.Cron
	runImmediately bool
	jobID          cron.EntryID
}

// NewStatsRoller creates a new stats roller
func NewStatsRoller(runImmediately bool) *StatsRoller {
	return &StatsRoller{
		cronScheduler:  cron.New(cron.WithSeconds()),
		runImmediately: runImmediately,
	}
}

// Start schedules the nightly roll at 00:30
func (s *StatsRoller) Start() error {
	var err error
	s.jobID, err = s.cronScheduler.AddFunc("0 30 0 * * *", func() {
		log.Println("Running scheduled nightly stats roll")
		s.runRoll()
	})
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	s.cronScheduler.Start()
	log.Println("Stats roller started - will run daily at 00:30")

	if s.runImmediately {
		log.Println("Running initial stats roll")
		s.runRoll()
	}

	return nil
}

// Stop terminates the scheduler. A roll already in flight finishes on its own;
// its upsert is transactional so no partial state is left behind.
func (s *StatsRoller) Stop() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
		log.Println("Stats roller stopped")
	}
}

// UpdateSchedule changes the roll schedule
// Format: "0 30 0 * * *" = at 00:30:00 every day
func (s *StatsRoller) UpdateSchedule(schedule string) error {
	s.cronScheduler.Remove(s.jobID)

	var err error
	s.jobID, err = s.cronScheduler.AddFunc(schedule, func() {
		log.Println("Running scheduled stats roll")
		s.runRoll()
	})
	if err != nil {
		return fmt.Errorf("error updating schedule: %w", err)
	}

	log.Printf("Stats roll schedule updated to: %s\n", schedule)
	return nil
}

// RunManualRoll executes the same computation as the nightly job
func (s *StatsRoller) RunManualRoll() {
	log.Println("Running manual stats roll")
	s.runRoll()
}

func (s *StatsRoller) runRoll() {
	stat, err := Models.RollStatsForYesterday(Models.DB)
	if err != nil {
		log.Printf("Error in stats roll: %v\n", err)
		return
	}
	log.Printf("Stats roll completed for %s: %d failed tasks\n", stat.Date, stat.FailedTasksCount)
}
