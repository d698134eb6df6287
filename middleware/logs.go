package middleware

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"TapirTwins/Models"

	"github.com/gofiber/fiber/v2"
)

// LogConfig holds configuration for the logging middleware
type LogConfig struct {
	// Enable console logging
	Console bool
	// Enable file logging
	File bool
	// Log file path
	LogFilePath string
	// Include user ID in logs
	IncludeUser bool
	// Skip logging for specific paths
	SkipPaths []string
}

// LogData contains all the information that will be logged
type LogData struct {
	Timestamp     time.Time     `json:"timestamp"`
	Method        string        `json:"method"`
	Path          string        `json:"path"`
	URL           string        `json:"url"`
	Status        int           `json:"status"`
	Latency       time.Duration `json:"latency"`
	IP            string        `json:"ip"`
	UserAgent     string        `json:"user_agent"`
	Error         string        `json:"error,omitempty"`
	UserId        string        `json:"user_id,omitempty"`
	Username      string        `json:"username,omitempty"`
	ContentLength int64         `json:"content_length"`
}

// DefaultLogConfig returns a default configuration for the logging middleware
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Console:     true,
		File:        true,
		LogFilePath: "logs/requests.log",
		IncludeUser: true,
		SkipPaths:   []string{"/health"},
	}
}

// LoggingMiddleware creates a new logging middleware with the given configuration
func LoggingMiddleware(config ...LogConfig) fiber.Handler {
	cfg := DefaultLogConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	// Ensure logs directory exists
	if cfg.File {
		if err := os.MkdirAll("logs", 0755); err != nil {
			log.Printf("Error creating logs directory: %v\n", err)
		}
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()

		for _, skipPath := range cfg.SkipPaths {
			if c.Path() == skipPath {
				return c.Next()
			}
		}

		err := c.Next()

		latency := time.Since(start)

		var userId, username string
		if cfg.IncludeUser {
			if user, ok := c.Locals("user").(Models.User); ok {
				userId = user.Id
				username = user.Username
			}
		}

		logData := LogData{
			Timestamp:     start,
			Method:        c.Method(),
			Path:          c.Path(),
			URL:           c.OriginalURL(),
			Status:        c.Response().StatusCode(),
			Latency:       latency,
			IP:            c.IP(),
			UserAgent:     c.Get("User-Agent"),
			UserId:        userId,
			Username:      username,
			ContentLength: int64(len(c.Response().Body())),
		}

		if err != nil {
			logData.Error = err.Error()
		}

		logRequest(cfg, logData)

		return err
	}
}

// logRequest handles the actual logging based on configuration
func logRequest(cfg LogConfig, data LogData) {
	jsonData, _ := json.Marshal(data)
	logMessage := string(jsonData)

	if cfg.Console {
		log.Println(logMessage)
	}

	if cfg.File {
		logToFile(cfg.LogFilePath, logMessage)
	}
}

// logToFile writes the log message to a file
func logToFile(filePath, message string) {
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Error opening log file: %v\n", err)
		return
	}
	defer file.Close()

	if len(message) > 0 && message[len(message)-1] != '\n' {
		message += "\n"
	}

	if _, err = file.WriteString(message); err != nil {
		log.Printf("Error writing to log file: %v\n", err)
	}
}

// RequestLogger creates a middleware that logs detailed request information
func RequestLogger() fiber.Handler {
	return LoggingMiddleware(LogConfig{
		Console:     true,
		File:        true,
		LogFilePath: "logs/requests.log",
		IncludeUser: true,
		SkipPaths:   []string{"/health", "/api/images"},
	})
}

// ErrorLogger creates a middleware that only logs errors
func ErrorLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		// Only log if there's an error or status code >= 400
		if err != nil || c.Response().StatusCode() >= 400 {
			var userId, username string
			if user, ok := c.Locals("user").(Models.User); ok {
				userId = user.Id
				username = user.Username
			}

			logData := LogData{
				Timestamp: start,
				Method:    c.Method(),
				Path:      c.Path(),
				URL:       c.OriginalURL(),
				Status:    c.Response().StatusCode(),
				Latency:   time.Since(start),
				IP:        c.IP(),
				UserAgent: c.Get("User-Agent"),
				UserId:    userId,
				Username:  username,
			}

			if err != nil {
				logData.Error = err.Error()
			}

			jsonData, _ := json.Marshal(logData)
			logToFile("logs/errors.log", string(jsonData))
		}

		return err
	}
}
