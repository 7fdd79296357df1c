package source

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrUnknownRevision = errors.New("unknown revision")
	ErrMissingTable    = errors.New("table not found")
)

// FixtureSource serves fixed payloads for a single revision.
// It counts every call so callers can assert on remote traffic.
type FixtureSource struct {
	mu             sync.Mutex
	revision       string
	tables         map[string][]byte
	failures       map[string]error
	revisionErr    error
	fetches        map[string]int
	revisionChecks int
}

func NewFixtureSource(revision string, tables map[string][]byte) *FixtureSource {
	return &FixtureSource{
		revision: revision,
		tables:   tables,
		failures: make(map[string]error),
		fetches:  make(map[string]int),
	}
}

// SetRevision publishes a new revision with its tables.
func (f *FixtureSource) SetRevision(revision string, tables map[string][]byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revision = revision
	f.tables = tables
}

// FailOn makes every fetch of path fail with err; a nil err clears it.
func (f *FixtureSource) FailOn(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failures, path)
		return
	}
	f.failures[path] = err
}

func (f *FixtureSource) FailRevision(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revisionErr = err
}

func (f *FixtureSource) LatestRevision(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revisionChecks++
	if f.revisionErr != nil {
		return "", &TransportError{Op: "latest revision", Err: f.revisionErr}
	}
	return f.revision, nil
}

func (f *FixtureSource) Fetch(ctx context.Context, revision, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &TransportError{Op: "fetch", URL: path, Err: err}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches[path]++
	if err, ok := f.failures[path]; ok {
		return nil, &TransportError{Op: "fetch", URL: path, Err: err}
	}
	if revision != f.revision {
		return nil, &TransportError{Op: "fetch", URL: path, Err: fmt.Errorf("%w %s", ErrUnknownRevision, revision)}
	}
	data, ok := f.tables[path]
	if !ok {
		return nil, &TransportError{Op: "fetch", URL: path, Err: ErrMissingTable}
	}
	return data, nil
}

// Fetches returns the total number of Fetch calls.
func (f *FixtureSource) Fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.fetches {
		total += n
	}
	return total
}

func (f *FixtureSource) FetchCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches[path]
}

func (f *FixtureSource) RevisionChecks() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revisionChecks
}
