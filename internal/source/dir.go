package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RevisionFile names the file in a DirSource root holding the checked out revision.
const RevisionFile = "REVISION"

// DirSource reads a local checkout of the data repository. The checkout holds
// exactly one revision, recorded in RevisionFile.
type DirSource struct {
	root string
}

func NewDirSource(root string) *DirSource {
	return &DirSource{root: root}
}

func (d *DirSource) LatestRevision(_ context.Context) (string, error) {
	path := filepath.Join(d.root, RevisionFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &TransportError{Op: "latest revision", URL: path, Err: err}
	}
	rev := strings.TrimSpace(string(data))
	if rev == "" {
		return "", &TransportError{Op: "latest revision", URL: path, Err: errors.New("empty revision file")}
	}
	return rev, nil
}

func (d *DirSource) Fetch(ctx context.Context, revision, path string) ([]byte, error) {
	// the checkout may have moved on since the revision check
	current, err := d.LatestRevision(ctx)
	if err != nil {
		return nil, err
	}
	full := filepath.Join(d.root, filepath.FromSlash(path))
	if current != revision {
		return nil, &TransportError{Op: "fetch", URL: full, Err: fmt.Errorf("%w %s (checkout is at %s)", ErrUnknownRevision, revision, current)}
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, &TransportError{Op: "fetch", URL: full, Err: err}
	}
	return data, nil
}
