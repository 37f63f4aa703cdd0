package msglog

import (
	"fmt"
	"log/slog"
	"os"

	"summy.bot/utils"
)

// Log is the append-only record of delivered (or attempted) replies.
// One line per processed message; lines are immutable once written.
type Log struct {
	path   string
	logger *slog.Logger
}

func New(path string, logger *slog.Logger) *Log {
	return &Log{
		path:   path,
		logger: logger.With(slog.String("component", "MessageLog")),
	}
}

func (l *Log) Path() string { return l.path }

// Append writes one log line. I/O errors are reported to the operator
// and swallowed: the processing pipeline never fails on log errors.
func (l *Log) Append(username, messageText, replyText string) {
	line := fmt.Sprintf("[%s] FROM: %s | MESSAGE: %s | REPLY: %s\n",
		utils.UTCTimestamp(), username, messageText, replyText)

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.logger.Error("open message log failed", slog.Any("err", err))
		return
	}
	defer f.Close()

	// Single write call per line, O_APPEND keeps concurrent writers whole.
	if _, err := f.WriteString(line); err != nil {
		l.logger.Error("append to message log failed", slog.Any("err", err))
		return
	}
	l.logger.Info("message logged", slog.String("from", username))
}
