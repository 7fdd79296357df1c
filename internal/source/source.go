package source

import (
	"agd/internal/models"
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// SourceInterface is a remote copy of the game data repository.
type SourceInterface interface {
	// LatestRevision returns the id of the newest revision. Fails with *TransportError.
	LatestRevision(ctx context.Context) (string, error)
	// Fetch returns the raw payload of path at revision. Fails with *TransportError.
	Fetch(ctx context.Context, revision, path string) ([]byte, error)
}

// TransportError is a failure to reach the source or to read its answer.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is a payload that does not have the shape of its table.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %s", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// FetchTable fetches path and decodes it into T. A null document, or a null
// member of a top-level object, is a DecodeError rather than a zero value.
func FetchTable[T any](ctx context.Context, src SourceInterface, revision, path string) (T, error) {
	var out T
	data, err := src.Fetch(ctx, revision, path)
	if err != nil {
		return out, err
	}

	doc := gjson.ParseBytes(data)
	if doc.Type == gjson.Null {
		return out, &DecodeError{Path: path, Err: errors.New("document is null")}
	}
	if doc.IsObject() {
		var nullKey string
		doc.ForEach(func(key, value gjson.Result) bool {
			if value.Type == gjson.Null {
				nullKey = key.String()
				return false
			}
			return true
		})
		if nullKey != "" {
			return out, &DecodeError{Path: path, Err: fmt.Errorf("key %q is null", nullKey)}
		}
	}

	if err := json.Unmarshal(data, &out); err != nil {
		return out, &DecodeError{Path: path, Err: err}
	}
	return out, nil
}

// FetchRows fetches an ExcelBinOutput table. The document must be an array.
// Unknown keys are ignored, but a row missing one of R's required keys, or
// holding null in one, fails the whole table.
func FetchRows[R models.Row](ctx context.Context, src SourceInterface, revision, path string) ([]R, error) {
	data, err := src.Fetch(ctx, revision, path)
	if err != nil {
		return nil, err
	}

	if !gjson.ParseBytes(data).IsArray() {
		return nil, &DecodeError{Path: path, Err: errors.New("document is not an array")}
	}

	var rows []R
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	var zero R
	for _, field := range zero.RequiredFields() {
		// #.field only yields elements that carry the key
		got := 0
		for _, v := range gjson.GetBytes(data, "#."+field).Array() {
			if v.Type != gjson.Null {
				got++
			}
		}
		if got != len(rows) {
			return nil, &DecodeError{
				Path: path,
				Err:  fmt.Errorf("field %q set in %d of %d rows", field, got, len(rows)),
			}
		}
	}
	return rows, nil
}
