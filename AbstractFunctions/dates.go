package AbstractFunctions

import (
	"fmt"
	"time"
)

// GetTodayDate returns the server-local calendar date as YYYY-MM-DD
func GetTodayDate() string {
	return time.Now().Format("2006-01-02")
}

// GetYesterdayDate returns the server-local date one day ago as YYYY-MM-DD
func GetYesterdayDate() string {
	return time.Now().AddDate(0, 0, -1).Format("2006-01-02")
}

// NowTimestamp returns the current time as an RFC3339 timestamp string
func NowTimestamp() string {
	return time.Now().Format(time.RFC3339)
}

// MonthOf extracts the YYYY-MM month bucket from a YYYY-MM-DD date
func MonthOf(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// DaysInMonth lists every calendar date of a YYYY-MM month that falls
// strictly before today
func DaysInMonth(month string) ([]string, error) {
	first, err := time.ParseInLocation("2006-01", month, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid month format: %s", month)
	}

	today := GetTodayDate()
	var days []string
	for d := first; d.Format("2006-01") == month; d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		if date >= today {
			break
		}
		days = append(days, date)
	}
	return days, nil
}
