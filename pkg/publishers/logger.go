package publishers

import "github.com/samvad-hq/rover-photos/internal/logger"

// Logger is the structured logging surface publishers rely on.
type Logger = logger.Logger

func ensureLogger(log Logger) Logger {
	return logger.Ensure(log)
}
