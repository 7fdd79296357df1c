package testutil

import (
	"agd/internal/providers"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (e LogEntry) Message() string {
	return fmt.Sprintf(e.Format, e.Args...)
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// HasLog reports whether a message at level contains substr.
func (m *MockLogger) HasLog(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Logs {
		if e.Level == level && strings.Contains(e.Message(), substr) {
			return true
		}
	}
	return false
}

// MockMetrics implements providers.MetricsProviderInterface and records the
// sync related calls.
type MockMetrics struct {
	mu            sync.Mutex
	SyncResults   []string
	Dropped       map[string]int
	Entries       map[string]int
	Requests      int
	CacheHits     map[string]int
	CacheMisses   map[string]int
	Persistences  int
	SyncDurations int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Dropped:     make(map[string]int),
		Entries:     make(map[string]int),
		CacheHits:   make(map[string]int),
		CacheMisses: make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits[kind]++
}
func (m *MockMetrics) IncCacheMisses(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses[kind]++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persistences++
}
func (m *MockMetrics) IncSyncTotal(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SyncResults = append(m.SyncResults, result)
}
func (m *MockMetrics) ObserveSyncDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SyncDurations++
}
func (m *MockMetrics) AddDroppedEntries(table string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Dropped[table] += count
}
func (m *MockMetrics) SetEntriesTotal(table string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries[table] = count
}

func (m *MockMetrics) DroppedFor(table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Dropped[table]
}

func (m *MockMetrics) Results() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.SyncResults...)
}

// MockCache implements providers.CacheProviderInterface. Data is keyed by CacheKey.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func CacheKey(revision, kind string, id uint32) string {
	return fmt.Sprintf("%s:%s:%d", revision, kind, id)
}

func (m *MockCache) Get(revision, kind string, id uint32) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[CacheKey(revision, kind, id)]
	return val, ok
}

func (m *MockCache) Set(revision, kind string, id uint32, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[CacheKey(revision, kind, id)] = body
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {
	m.Closed = true
}
