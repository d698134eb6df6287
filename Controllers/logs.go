package Controllers

import (
	"encoding/json"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"TapirTwins/middleware"

	"github.com/gofiber/fiber/v2"
)

const requestLogPath = "logs/requests.log"

// logWindow parses the date_from/date_to query range, defaulting to today
func logWindow(c *fiber.Ctx) (time.Time, time.Time, error) {
	fromStr := c.Query("date_from", "")
	toStr := c.Query("date_to", "")

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := now

	if fromStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", fromStr, time.Local)
		if err != nil {
			return from, to, err
		}
		from = parsed
	}
	if toStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", toStr, time.Local)
		if err != nil {
			return from, to, err
		}
		to = parsed.AddDate(0, 0, 1)
	}
	return from, to, nil
}

func readRequestLog(from, to time.Time) ([]middleware.LogData, error) {
	content, err := os.ReadFile(requestLogPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []middleware.LogData
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var entry middleware.LogData
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if entry.Timestamp.Before(from) || !entry.Timestamp.Before(to) {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// GetLogs pages through the request log, newest first, with optional
// path/method/status filters
func GetLogs(c *fiber.Ctx) error {
	from, to, err := logWindow(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Dates must be in YYYY-MM-DD format"})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "50"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 1000 {
		pageSize = 50
	}

	entries, err := readRequestLog(from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read logs"})
	}

	pathFilter := strings.ToLower(c.Query("path", ""))
	methodFilter := strings.ToUpper(c.Query("method", ""))
	statusFilter := c.Query("status", "")

	filtered := make([]middleware.LogData, 0, len(entries))
	for _, entry := range entries {
		if pathFilter != "" && !strings.Contains(strings.ToLower(entry.Path), pathFilter) {
			continue
		}
		if methodFilter != "" && entry.Method != methodFilter {
			continue
		}
		if statusFilter != "" && strconv.Itoa(entry.Status) != statusFilter {
			continue
		}
		filtered = append(filtered, entry)
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.After(filtered[j].Timestamp)
	})

	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return c.JSON(fiber.Map{
		"logs":        filtered[start:end],
		"total_logs":  total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": totalPages,
		"date_from":   from,
		"date_to":     to,
	})
}

// GetLogStats summarizes the request log over the queried window
func GetLogStats(c *fiber.Ctx) error {
	from, to, err := logWindow(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Dates must be in YYYY-MM-DD format"})
	}

	entries, err := readRequestLog(from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read logs"})
	}

	var successful, failed int
	var totalLatency, minLatency, maxLatency time.Duration
	methodStats := make(map[string]int)
	statusStats := make(map[int]int)

	for i, entry := range entries {
		if entry.Status >= 200 && entry.Status < 300 {
			successful++
		} else if entry.Status >= 400 {
			failed++
		}

		totalLatency += entry.Latency
		if i == 0 || entry.Latency < minLatency {
			minLatency = entry.Latency
		}
		if entry.Latency > maxLatency {
			maxLatency = entry.Latency
		}

		methodStats[entry.Method]++
		statusStats[entry.Status]++
	}

	total := len(entries)
	avgLatency := time.Duration(0)
	successRate := 0.0
	if total > 0 {
		avgLatency = totalLatency / time.Duration(total)
		successRate = float64(successful) / float64(total) * 100
	}

	return c.JSON(fiber.Map{
		"total_requests":      total,
		"successful_requests": successful,
		"error_requests":      failed,
		"success_rate":        successRate,
		"avg_latency_ms":      float64(avgLatency.Microseconds()) / 1000.0,
		"min_latency_ms":      float64(minLatency.Microseconds()) / 1000.0,
		"max_latency_ms":      float64(maxLatency.Microseconds()) / 1000.0,
		"method_stats":        methodStats,
		"status_stats":        statusStats,
		"date_from":           from,
		"date_to":             to,
	})
}
