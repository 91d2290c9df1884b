package log

import (
	"fmt"
	"sync"

	"github.com/splitio/go-toolkit/v5/logging"
)

const logLevelCount = (logging.LevelVerbose - logging.LevelError) + 1

var levelNames = [logLevelCount]string{"error", "warning", "info", "debug", "verbose"}

// historicBuffer is a fixed size ring of the last messages logged at one level
type historicBuffer struct {
	enabled bool
	buffer  []string
	start   int
	count   int
	total   int64
	mutex   sync.Mutex
}

func newHistoricBuffer(enabled bool, size int) *historicBuffer {
	return &historicBuffer{
		enabled: enabled,
		buffer:  make([]string, size),
	}
}

func (b *historicBuffer) record(message string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.total++
	if !b.enabled || len(b.buffer) == 0 {
		return
	}

	if b.count < len(b.buffer) {
		b.buffer[(b.start+b.count)%len(b.buffer)] = message
		b.count++
		return
	}

	// full: overwrite the oldest entry and move the start forward
	b.buffer[b.start] = message
	b.start = (b.start + 1) % len(b.buffer)
}

func (b *historicBuffer) messages() []string {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	messages := make([]string, 0, b.count)
	for idx := 0; idx < b.count; idx++ {
		messages = append(messages, b.buffer[(b.start+idx)%len(b.buffer)])
	}
	return messages
}

func (b *historicBuffer) totalCount() int64 {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.total
}

// HistoricLogger is a logger that keeps the last N messages of each level around for inspection
type HistoricLogger interface {
	logging.LoggerInterface
	Messages(level int) []string
	TotalCount(level int) int64
}

// LevelHistory is the per-level view exposed by the admin server
type LevelHistory struct {
	Total    int64    `json:"total"`
	Messages []string `json:"messages"`
}

// HistoricLoggerWrapper decorates a logger, recording messages before forwarding them
type HistoricLoggerWrapper struct {
	logging.LoggerInterface
	buffers [logLevelCount]*historicBuffer
}

// NewHistoricLoggerWrapper constructs a new historic logger. enabled is indexed by level, starting at LevelError.
func NewHistoricLoggerWrapper(l logging.LoggerInterface, enabled [logLevelCount]bool, size int) *HistoricLoggerWrapper {
	wrapper := &HistoricLoggerWrapper{LoggerInterface: l}
	for idx := range wrapper.buffers {
		wrapper.buffers[idx] = newHistoricBuffer(enabled[idx], size)
	}
	return wrapper
}

func (l *HistoricLoggerWrapper) buffer(level int) *historicBuffer {
	idx := level - logging.LevelError
	if idx < 0 || idx >= logLevelCount {
		return nil
	}
	return l.buffers[idx]
}

func (l *HistoricLoggerWrapper) toHistory(level int, m ...interface{}) {
	l.buffer(level).record(fmt.Sprint(m...))
}

// Error writes a log message with Error level
func (l *HistoricLoggerWrapper) Error(msg ...interface{}) {
	l.toHistory(logging.LevelError, msg...)
	l.LoggerInterface.Error(msg...)
}

// Warning writes a log message with Warning level
func (l *HistoricLoggerWrapper) Warning(msg ...interface{}) {
	l.toHistory(logging.LevelWarning, msg...)
	l.LoggerInterface.Warning(msg...)
}

// Info writes a log message with info level
func (l *HistoricLoggerWrapper) Info(msg ...interface{}) {
	l.toHistory(logging.LevelInfo, msg...)
	l.LoggerInterface.Info(msg...)
}

// Debug writes a log message with debug level
func (l *HistoricLoggerWrapper) Debug(msg ...interface{}) {
	l.toHistory(logging.LevelDebug, msg...)
	l.LoggerInterface.Debug(msg...)
}

// Verbose writes a log message with verbose level
func (l *HistoricLoggerWrapper) Verbose(msg ...interface{}) {
	l.toHistory(logging.LevelVerbose, msg...)
	l.LoggerInterface.Verbose(msg...)
}

// Messages returns the buffered messages for a specific level, oldest first
func (l *HistoricLoggerWrapper) Messages(level int) []string {
	if b := l.buffer(level); b != nil {
		return b.messages()
	}
	return nil
}

// TotalCount returns the total number of messages logged for a specific level
func (l *HistoricLoggerWrapper) TotalCount(level int) int64 {
	if b := l.buffer(level); b != nil {
		return b.totalCount()
	}
	return 0
}

// Snapshot returns the history of every buffered level, keyed by level name
func (l *HistoricLoggerWrapper) Snapshot() map[string]LevelHistory {
	toReturn := make(map[string]LevelHistory, logLevelCount)
	for idx, b := range l.buffers {
		if !b.enabled {
			continue
		}
		toReturn[levelNames[idx]] = LevelHistory{Total: b.totalCount(), Messages: b.messages()}
	}
	return toReturn
}

var _ HistoricLogger = (*HistoricLoggerWrapper)(nil)
