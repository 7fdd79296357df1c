package snapshot

import (
	"agd/internal/models"
	"agd/internal/providers"
	"agd/internal/snapshot/interfaces"
	"agd/internal/structures"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

var (
	ErrVersionMismatch = errors.New("snapshot version mismatch")
	ErrMissingRevision = errors.New("snapshot has no revision")
)

// FileManager stores snapshots as a single JSON document, zstd framed when
// compression is enabled. Both forms load regardless of the setting.
type FileManager struct {
	compress   bool
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compress:   conf.Persistence.Compress,
		compressor: compressor,
		logger:     logger,
	}
}

// NewPersisterProvider adapts FileManager to the service's persister port.
func NewPersisterProvider(fm *FileManager) interfaces.PersisterInterface {
	return fm
}

func (f *FileManager) SaveToFile(fileName string, snap *models.Snapshot) error {
	if snap == nil {
		return errors.New("nothing to persist")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if f.compress {
		if data, err = f.compressor.Compress(data); err != nil {
			return fmt.Errorf("compress snapshot: %w", err)
		}
	}

	if dir := filepath.Dir(fileName); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile returns (nil, nil) when fileName does not exist.
func (f *FileManager) LoadFromFile(fileName string) (*models.Snapshot, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	if isZstd(data) {
		if data, err = f.compressor.Decompress(data); err != nil {
			return nil, fmt.Errorf("decompress %s: %w", fileName, err)
		}
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode %s: %w", fileName, err)
	}
	if snap.Version != models.SnapshotVersion {
		return nil, fmt.Errorf("%w: file has %d, want %d", ErrVersionMismatch, snap.Version, models.SnapshotVersion)
	}
	if snap.GitHash == "" {
		return nil, ErrMissingRevision
	}
	snap.EnsureMaps()

	f.logger.Debugf(providers.TypeApp, "Loaded snapshot %s from %s", snap.GitHash, fileName)
	return &snap, nil
}
