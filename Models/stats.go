package Models

import (
	"fmt"

	"TapirTwins/AbstractFunctions"

	"gorm.io/gorm"
)

// DailyTaskStat holds the failure rollup for one calendar day: the number of
// tasks that existed on that day without an approved record dated that day.
type DailyTaskStat struct {
	Date             string `json:"date" gorm:"primaryKey"`
	Month            string `json:"-" gorm:"index"`
	FailedTasksCount int    `json:"failed_tasks_count"`
}

// RollStatsForYesterday recomputes and upserts yesterday's failed-task count.
// Re-running it for the same day replaces the existing entry, so both the
// nightly schedule and the manual trigger are idempotent.
func RollStatsForYesterday(db *gorm.DB) (DailyTaskStat, error) {
	yesterday := AbstractFunctions.GetYesterdayDate()

	var tasks []Task
	if err := db.Where("substr(created_at, 1, 10) <= ?", yesterday).Find(&tasks).Error; err != nil {
		return DailyTaskStat{}, fmt.Errorf("failed to load tasks for stats roll: %w", err)
	}

	var approved []TaskRecord
	if err := db.Select("task_id").
		Where("date = ? AND status = ?", yesterday, TaskStatusApproved).
		Find(&approved).Error; err != nil {
		return DailyTaskStat{}, fmt.Errorf("failed to load approved records for stats roll: %w", err)
	}

	approvedTasks := make(map[string]bool, len(approved))
	for _, record := range approved {
		approvedTasks[record.TaskId] = true
	}

	failed := 0
	for _, task := range tasks {
		if !approvedTasks[task.Id] {
			failed++
		}
	}

	stat := DailyTaskStat{
		Date:             yesterday,
		Month:            AbstractFunctions.MonthOf(yesterday),
		FailedTasksCount: failed,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var existing DailyTaskStat
		result := tx.Where("date = ?", yesterday).First(&existing)
		if result.Error == nil {
			return tx.Model(&existing).Update("failed_tasks_count", failed).Error
		}
		if result.Error != gorm.ErrRecordNotFound {
			return result.Error
		}
		return tx.Create(&stat).Error
	})
	if err != nil {
		return DailyTaskStat{}, fmt.Errorf("failed to save stats for %s: %w", yesterday, err)
	}

	return stat, nil
}

// MonthlyStats returns the stored per-day entries for a YYYY-MM month. When
// nothing is stored for the month, it synthesizes zero-valued entries for
// every elapsed day as a display fallback (not persisted).
func MonthlyStats(db *gorm.DB, month string) ([]DailyTaskStat, error) {
	var stats []DailyTaskStat
	if err := db.Where("month = ?", month).Order("date").Find(&stats).Error; err != nil {
		return nil, err
	}

	if len(stats) > 0 {
		return stats, nil
	}

	days, err := AbstractFunctions.DaysInMonth(month)
	if err != nil {
		return nil, err
	}
	for _, day := range days {
		stats = append(stats, DailyTaskStat{Date: day, Month: month})
	}
	return stats, nil
}
