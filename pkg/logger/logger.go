package logger

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dreschagin/fleet-status/internal/application/port"
)

type Logger struct {
	logger    *log.Logger
	level     Level
	publisher port.LogPublisher
}

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func New(level string) *Logger {
	l := &Logger{
		logger: log.New(os.Stdout, "", 0),
		level:  parseLevel(level),
	}
	return l
}

func parseLevel(level string) Level {
	switch level {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

// SetLogPublisher подключает внешний publisher (CloudWatch Logs).
// Каждая запись дублируется туда в дополнение к stdout.
func (l *Logger) SetLogPublisher(publisher port.LogPublisher) {
	l.publisher = publisher
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.level <= DEBUG {
		l.log(port.LogLevelDebug, msg, args...)
	}
}

func (l *Logger) Info(msg string, args ...interface{}) {
	if l.level <= INFO {
		l.log(port.LogLevelInfo, msg, args...)
	}
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	if l.level <= WARN {
		l.log(port.LogLevelWarn, msg, args...)
	}
}

func (l *Logger) Error(msg string, err error, args ...interface{}) {
	if l.level <= ERROR {
		if err != nil {
			args = append(args, "error", err.Error())
		}
		l.log(port.LogLevelError, msg, args...)
	}
}

func (l *Logger) log(level port.LogLevel, msg string, args ...interface{}) {
	now := time.Now()
	message := fmt.Sprintf("[%s] [%s] %s", now.Format("2006-01-02 15:04:05"), level, msg)

	fields := make(map[string]interface{})
	if len(args) > 0 {
		message += " |"
		for i := 0; i < len(args); i += 2 {
			if i+1 < len(args) {
				message += fmt.Sprintf(" %v=%v", args[i], args[i+1])
				fields[fmt.Sprintf("%v", args[i])] = args[i+1]
			}
		}
	}

	l.logger.Println(message)

	if l.publisher != nil {
		entry := port.LogEntry{
			Timestamp: now,
			Level:     level,
			Message:   msg,
			Fields:    fields,
		}
		if err := l.publisher.Publish(context.Background(), entry); err != nil {
			l.logger.Println(fmt.Sprintf("[%s] [WARN] Failed to publish log entry | error=%v", now.Format("2006-01-02 15:04:05"), err))
		}
	}
}
