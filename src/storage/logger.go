package storage

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// LogLevel orders log severities.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARNING
	ERROR
	FATAL
)

// Logger writes leveled entries to a file and fans them out to any
// subscribers. Safe for concurrent use.
type Logger struct {
	path        string
	file        *os.File
	maxSize     int64 // rotation threshold in bytes, 0 disables rotation
	mu          sync.Mutex
	subscribers []chan string
}

// NewLogger opens (or creates) the log file at path. maxSize is the size in
// bytes past which CheckRotate renames the file aside; pass 0 to never
// rotate.
func NewLogger(path string, maxSize int64) (*Logger, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &Logger{path: path, file: file, maxSize: maxSize}, nil
}

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Log records one entry: [time] LEVEL: message. Subscribers with full
// channels are skipped rather than blocked on.
func (l *Logger) Log(level LogLevel, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := fmt.Sprintf("[%s] %s: %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		level.String(),
		message)

	l.file.WriteString(entry)

	for _, ch := range l.subscribers {
		select {
		case ch <- entry:
		default:
		}
	}
}

// CheckRotate renames the log file aside once it grows past the configured
// threshold and reopens a fresh one.
func (l *Logger) CheckRotate() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.maxSize <= 0 {
		return nil
	}
	info, err := l.file.Stat()
	if err != nil {
		return err
	}
	if info.Size() <= l.maxSize {
		return nil
	}

	l.file.Close()
	rotated := fmt.Sprintf("%s.%s", l.path, time.Now().Format("20060102150405"))
	if err := os.Rename(l.path, rotated); err != nil {
		return err
	}
	l.file, err = os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	return err
}

// Subscribe returns a channel receiving every entry logged after the call.
// The channel is buffered; slow readers miss entries instead of stalling
// the pipeline.
func (l *Logger) Subscribe() <-chan string {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch := make(chan string, 100)
	l.subscribers = append(l.subscribers, ch)
	return ch
}

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l *Logger) Debug(msg string)   { l.Log(DEBUG, msg) }
func (l *Logger) Info(msg string)    { l.Log(INFO, msg) }
func (l *Logger) Warning(msg string) { l.Log(WARNING, msg) }
func (l *Logger) Error(msg string)   { l.Log(ERROR, msg) }
func (l *Logger) Fatal(msg string)   { l.Log(FATAL, msg) }
