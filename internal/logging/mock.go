package logging

import "sync"

// MockLogger captures entries for assertions in tests. Loggers derived with
// WithError/WithField share the parent's entry store.
type MockLogger struct {
	store         *entryStore
	pendingError  error
	pendingFields []Field
}

type LogEntry struct {
	Level   string
	Message string
	Fields  []Field
	Error   error
}

type entryStore struct {
	mu      sync.Mutex
	entries []LogEntry
}

func NewMockLogger() *MockLogger {
	return &MockLogger{store: &entryStore{}}
}

func (m *MockLogger) record(level, msg string, fields []Field) {
	if m.store == nil {
		m.store = &entryStore{}
	}
	all := make([]Field, 0, len(m.pendingFields)+len(fields))
	all = append(all, m.pendingFields...)
	all = append(all, fields...)

	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.entries = append(m.store.entries, LogEntry{Level: level, Message: msg, Fields: all, Error: m.pendingError})
}

func (m *MockLogger) Debug(msg string, fields ...Field) { m.record("DEBUG", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...Field) { m.record("INFO", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...Field) { m.record("WARN", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...Field) { m.record("ERROR", msg, fields) }

func (m *MockLogger) WithError(err error) Logger {
	if m.store == nil {
		m.store = &entryStore{}
	}
	return &MockLogger{store: m.store, pendingError: err, pendingFields: m.pendingFields}
}

func (m *MockLogger) WithField(key string, value interface{}) Logger {
	return m.WithFields(Field{Key: key, Value: value})
}

func (m *MockLogger) WithFields(fields ...Field) Logger {
	if m.store == nil {
		m.store = &entryStore{}
	}
	merged := make([]Field, 0, len(m.pendingFields)+len(fields))
	merged = append(merged, m.pendingFields...)
	merged = append(merged, fields...)
	return &MockLogger{store: m.store, pendingError: m.pendingError, pendingFields: merged}
}

func (m *MockLogger) Entries() []LogEntry {
	if m.store == nil {
		return nil
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	out := make([]LogEntry, len(m.store.entries))
	copy(out, m.store.entries)
	return out
}

// HasEntry reports whether a message was logged at the given level.
func (m *MockLogger) HasEntry(level, msg string) bool {
	for _, e := range m.Entries() {
		if e.Level == level && e.Message == msg {
			return true
		}
	}
	return false
}
