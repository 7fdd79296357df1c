package services

import (
	"agd/internal/models"
	"agd/internal/providers"
	"agd/internal/snapshot/interfaces"
	"agd/internal/source"
	"agd/internal/structures"
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"
)

type GameDataServiceInterface interface {
	HasData() bool
	Revision() string
	Current() *models.Snapshot
	Stats() map[string]int
	NeedsUpdate(ctx context.Context) (bool, error)
	Update(ctx context.Context) (bool, error)
	GetAffix(id uint32) (models.Affix, error)
	GetArtifact(id uint32) (models.Artifact, error)
	GetCharacter(id uint32) (string, error)
	GetMaterial(id uint32) (string, error)
	GetProperty(id uint32) (models.Property, error)
	GetSet(id uint32) (string, error)
	GetSkillType(id uint32) (models.SkillType, error)
	GetWeapon(id uint32) (models.Weapon, error)
	IDs(kind string, from uint32, limit int) (IDPage, error)
}

// installed pairs a snapshot with the id index built from it so readers
// never see one without the other.
type installed struct {
	snap *models.Snapshot
	ids  *models.IDIndex
}

type GameDataService struct {
	source    source.SourceInterface
	deriver   *Deriver
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	persister interfaces.PersisterInterface
	cachePath string

	current atomic.Pointer[installed]
	syncMu  sync.Mutex
}

// NewGameDataService returns a service without data. The first Update fills it.
func NewGameDataService(src source.SourceInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *GameDataService {
	return &GameDataService{
		source:  src,
		deriver: NewDeriver(src, logger, metrics),
		logger:  logger,
		metrics: metrics,
	}
}

// NewGameDataServiceWithCache restores the snapshot stored at path and writes
// every later snapshot back to it. A missing or unreadable file leaves the
// service without data.
func NewGameDataServiceWithCache(path string, persister interfaces.PersisterInterface, src source.SourceInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *GameDataService {
	s := NewGameDataService(src, logger, metrics)
	s.persister = persister
	s.cachePath = path

	snap, err := persister.LoadFromFile(path)
	switch {
	case err != nil:
		logger.Warnf(providers.TypeApp, "Ignoring snapshot cache %s: %s", path, err)
	case snap == nil:
		logger.Infof(providers.TypeApp, "No snapshot cache at %s", path)
	default:
		s.install(snap)
		logger.Infof(providers.TypeApp, "Restored snapshot %s from %s", snap.GitHash, path)
	}
	return s
}

// NewGameDataServiceProvider picks the cached variant when a persistence file is configured.
func NewGameDataServiceProvider(conf *structures.Config, persister interfaces.PersisterInterface, src source.SourceInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) GameDataServiceInterface {
	if conf.Persistence.FilePath == "" {
		return NewGameDataService(src, logger, metrics)
	}
	return NewGameDataServiceWithCache(conf.Persistence.FilePath, persister, src, logger, metrics)
}

func (s *GameDataService) HasData() bool {
	return s.current.Load() != nil
}

func (s *GameDataService) Revision() string {
	if snap := s.Current(); snap != nil {
		return snap.GitHash
	}
	return ""
}

// Current returns the installed snapshot or nil. Callers must not modify it.
func (s *GameDataService) Current() *models.Snapshot {
	if cur := s.current.Load(); cur != nil {
		return cur.snap
	}
	return nil
}

func (s *GameDataService) Stats() map[string]int {
	if snap := s.Current(); snap != nil {
		return snap.Counts()
	}
	return nil
}

// IDPage is a slice of one map's ids taken from a single snapshot.
type IDPage struct {
	Revision string
	IDs      []uint32
	Total    int
}

// IDs lists up to limit ids of one map starting at from, plus the size of
// the whole map.
func (s *GameDataService) IDs(kind string, from uint32, limit int) (IDPage, error) {
	cur := s.current.Load()
	if cur == nil {
		return IDPage{}, ErrNoData
	}
	if !cur.ids.Known(kind) {
		return IDPage{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return IDPage{
		Revision: cur.snap.GitHash,
		IDs:      cur.ids.Page(kind, from, limit),
		Total:    cur.ids.Len(kind),
	}, nil
}

// NeedsUpdate asks the source for its latest revision and fetches no tables.
func (s *GameDataService) NeedsUpdate(ctx context.Context) (bool, error) {
	rev, err := s.source.LatestRevision(ctx)
	if err != nil {
		return false, err
	}
	snap := s.Current()
	return snap == nil || snap.GitHash != rev, nil
}

// Update installs a snapshot of the latest revision if it differs from the
// current one and reports whether it did. On failure the current snapshot
// stays in place.
func (s *GameDataService) Update(ctx context.Context) (bool, error) {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	start := time.Now()
	defer func() {
		s.metrics.ObserveSyncDuration(time.Since(start))
	}()

	rev, err := s.source.LatestRevision(ctx)
	if err != nil {
		s.metrics.IncSyncTotal(providers.SyncResultFailed)
		s.logger.Errorf(providers.TypeSync, "Error while checking latest revision: %s", err)
		return false, fmt.Errorf("check latest revision: %w", err)
	}

	if snap := s.Current(); snap != nil && snap.GitHash == rev {
		s.metrics.IncSyncTotal(providers.SyncResultUnchanged)
		s.logger.Debugf(providers.TypeSync, "Revision %s already installed", rev)
		return false, nil
	}

	s.logger.Infof(providers.TypeSync, "Building snapshot for revision %s...", rev)
	snap, err := s.deriver.Build(ctx, rev)
	if err != nil {
		s.metrics.IncSyncTotal(providers.SyncResultFailed)
		s.logger.Errorf(providers.TypeSync, "Error while building revision %s: %s", rev, err)
		return false, err
	}

	s.replace(snap)
	s.metrics.IncSyncTotal(providers.SyncResultUpdated)
	s.logger.Infof(providers.TypeSync, "Installed revision %s in %s", rev, time.Since(start))
	return true, nil
}

func (s *GameDataService) replace(snap *models.Snapshot) {
	s.install(snap)

	if s.persister == nil {
		return
	}
	start := time.Now()
	if err := s.persister.SaveToFile(s.cachePath, snap); err != nil {
		s.logger.Warnf(providers.TypeSync, "Error while persisting snapshot to %s: %s", s.cachePath, err)
		return
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))
}

func (s *GameDataService) install(snap *models.Snapshot) {
	s.current.Store(&installed{snap: snap, ids: models.NewIDIndex(snap)})
	for table, n := range snap.Counts() {
		s.metrics.SetEntriesTotal(table, n)
	}
}

func lookup[V any](snap *models.Snapshot, kind string, id uint32, pick func(*models.Snapshot) map[uint32]V) (V, error) {
	var zero V
	if snap == nil {
		return zero, &NotFoundError{Kind: kind, ID: id}
	}
	v, ok := pick(snap)[id]
	if !ok {
		return zero, &NotFoundError{Kind: kind, ID: id}
	}
	return v, nil
}

// The *From lookups read one given snapshot, so a caller that also needs the
// revision sees both from the same state. A nil snapshot finds nothing.

func AffixFrom(snap *models.Snapshot, id uint32) (models.Affix, error) {
	return lookup(snap, models.MapAffix, id, func(sn *models.Snapshot) map[uint32]models.Affix { return sn.AffixMap })
}

func ArtifactFrom(snap *models.Snapshot, id uint32) (models.Artifact, error) {
	return lookup(snap, models.MapArtifact, id, func(sn *models.Snapshot) map[uint32]models.Artifact { return sn.ArtifactMap })
}

func CharacterFrom(snap *models.Snapshot, id uint32) (string, error) {
	return lookup(snap, models.MapCharacter, id, func(sn *models.Snapshot) map[uint32]string { return sn.CharacterMap })
}

func MaterialFrom(snap *models.Snapshot, id uint32) (string, error) {
	return lookup(snap, models.MapMaterial, id, func(sn *models.Snapshot) map[uint32]string { return sn.MaterialMap })
}

func PropertyFrom(snap *models.Snapshot, id uint32) (models.Property, error) {
	return lookup(snap, models.MapProperty, id, func(sn *models.Snapshot) map[uint32]models.Property { return sn.PropertyMap })
}

func SetFrom(snap *models.Snapshot, id uint32) (string, error) {
	return lookup(snap, models.MapSet, id, func(sn *models.Snapshot) map[uint32]string { return sn.SetMap })
}

func SkillTypeFrom(snap *models.Snapshot, id uint32) (models.SkillType, error) {
	return lookup(snap, models.MapSkillType, id, func(sn *models.Snapshot) map[uint32]models.SkillType { return sn.SkillTypeMap })
}

func WeaponFrom(snap *models.Snapshot, id uint32) (models.Weapon, error) {
	return lookup(snap, models.MapWeapon, id, func(sn *models.Snapshot) map[uint32]models.Weapon { return sn.WeaponMap })
}

func (s *GameDataService) GetAffix(id uint32) (models.Affix, error) {
	return AffixFrom(s.Current(), id)
}

func (s *GameDataService) GetArtifact(id uint32) (models.Artifact, error) {
	return ArtifactFrom(s.Current(), id)
}

func (s *GameDataService) GetCharacter(id uint32) (string, error) {
	return CharacterFrom(s.Current(), id)
}

func (s *GameDataService) GetMaterial(id uint32) (string, error) {
	return MaterialFrom(s.Current(), id)
}

func (s *GameDataService) GetProperty(id uint32) (models.Property, error) {
	return PropertyFrom(s.Current(), id)
}

func (s *GameDataService) GetSet(id uint32) (string, error) {
	return SetFrom(s.Current(), id)
}

func (s *GameDataService) GetSkillType(id uint32) (models.SkillType, error) {
	return SkillTypeFrom(s.Current(), id)
}

func (s *GameDataService) GetWeapon(id uint32) (models.Weapon, error) {
	return WeaponFrom(s.Current(), id)
}
