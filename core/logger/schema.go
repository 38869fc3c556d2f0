package logger

import "strings"

const (
	// LevelDebug represents the debug severity level name.
	LevelDebug = "DEBUG"
	// LevelInfo represents the info severity level name.
	LevelInfo = "INFO"
	// LevelWarn represents the warning severity level name.
	LevelWarn = "WARN"
	// LevelError represents the error severity level name.
	LevelError = "ERROR"
)

var allowedLevels = map[string]string{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

var allowedStatus = map[string]string{
	"ok":       "ok",
	"fail":     "fail",
	"skip":     "skip",
	"retry":    "retry",
	"rejected": "rejected",
}

func normalizeLevel(level string) string {
	if level == "" {
		return LevelInfo
	}
	if mapped, ok := allowedLevels[strings.ToLower(level)]; ok {
		return mapped
	}
	return strings.ToUpper(level)
}

func normalizeStatus(status string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	if mapped, ok := allowedStatus[status]; ok {
		return mapped
	}
	return status
}

var defaultKeyOrder = []string{
	"ts",
	"level",
	"component",
	"event",
	"status",
	"rid",
	"ts_unix_nano",
	"method",
	"path",
	"http_code",
	"handler",
	"user",
	"channel",
	"step",
	"action",
	"value",
	"attachments",
	"terminal",
	"options",
	"endpoint",
	"duration_ms",
	"elapsed_ms",
	"attempt",
	"attempts",
	"backoff_ms",
	"queue",
	"payload",
	"mode",
	"listen",
	"port",
	"err",
	"err_code",
	"cause",
}
