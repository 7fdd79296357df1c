package services_test

import (
	"agd/internal/models"
	"agd/internal/providers"
	"agd/internal/services"
	"agd/internal/snapshot"
	"agd/internal/source"
	"agd/internal/structures"
	"agd/internal/testutil"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	src     *source.FixtureSource
	logger  *testutil.MockLogger
	metrics *testutil.MockMetrics
}

func newFixture() *fixture {
	return &fixture{
		src:     source.NewFixtureSource(testutil.FixtureRevision, testutil.GameTables()),
		logger:  &testutil.MockLogger{},
		metrics: testutil.NewMockMetrics(),
	}
}

func (f *fixture) service() *services.GameDataService {
	return services.NewGameDataService(f.src, f.logger, f.metrics)
}

func newFileManager(t *testing.T, compress bool) *snapshot.FileManager {
	t.Helper()
	comp, err := snapshot.NewZstdCompressor()
	require.NoError(t, err)
	fm := snapshot.NewFileManager(&structures.Config{Persistence: structures.Persistence{Compress: compress}}, comp, &testutil.MockLogger{})
	t.Cleanup(fm.Close)
	return fm
}

func TestNewGameDataService_Empty(t *testing.T) {
	svc := newFixture().service()

	assert.False(t, svc.HasData())
	assert.Equal(t, "", svc.Revision())
	assert.Nil(t, svc.Stats())

	_, err := svc.GetCharacter(10000021)
	assert.True(t, errors.Is(err, services.ErrNotFound))
}

func TestUpdate_InstallsSnapshot(t *testing.T) {
	f := newFixture()
	svc := f.service()

	updated, err := svc.Update(context.Background())
	require.NoError(t, err)
	assert.True(t, updated)
	assert.True(t, svc.HasData())
	assert.Equal(t, testutil.FixtureRevision, svc.Revision())

	name, err := svc.GetCharacter(10000021)
	require.NoError(t, err)
	assert.Equal(t, "Amber", name)

	weapon, err := svc.GetWeapon(15501)
	require.NoError(t, err)
	assert.Equal(t, models.Weapon{Name: "Skyward Harp", Rarity: 5}, weapon)

	art, err := svc.GetArtifact(81105)
	require.NoError(t, err)
	assert.Equal(t, models.Artifact{Set: "Gladiator's Finale", Slot: models.SlotCirclet, Rarity: 5}, art)

	set, err := svc.GetSet(15003)
	require.NoError(t, err)
	assert.Equal(t, "Wanderer's Troupe", set)

	prop, err := svc.GetProperty(10002)
	require.NoError(t, err)
	assert.Equal(t, models.PropertyAttackPercent, prop)

	skill, err := svc.GetSkillType(10012)
	require.NoError(t, err)
	assert.Equal(t, models.SkillElemental, skill)

	mat, err := svc.GetMaterial(104001)
	require.NoError(t, err)
	assert.Equal(t, "Mystic Enhancement Ore", mat)

	assert.Equal(t, []string{providers.SyncResultUpdated}, f.metrics.Results())
	assert.Equal(t, 5, f.metrics.Entries[models.MapArtifact])
}

func TestLookups_NotFound(t *testing.T) {
	svc := newFixture().service()
	_, err := svc.Update(context.Background())
	require.NoError(t, err)

	_, err = svc.GetWeapon(19999)
	var nf *services.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, services.NotFoundError{Kind: models.MapWeapon, ID: 19999}, *nf)
	assert.Equal(t, "weapon 19999 not found", err.Error())

	// set 15099 has no resolvable name
	_, err = svc.GetArtifact(81106)
	assert.True(t, errors.Is(err, services.ErrNotFound))
	_, err = svc.GetAffix(501024)
	assert.True(t, errors.Is(err, services.ErrNotFound))
}

func TestAffix_PercentageScaling(t *testing.T) {
	svc := newFixture().service()
	_, err := svc.Update(context.Background())
	require.NoError(t, err)

	crit, err := svc.GetAffix(501023)
	require.NoError(t, err)
	assert.Equal(t, models.PropertyCritRate, crit.Property)
	assert.InDelta(t, 80.0, crit.Value, 1e-9)

	hp, err := svc.GetAffix(501021)
	require.NoError(t, err)
	assert.Equal(t, models.Affix{Property: models.PropertyHp, Value: 239}, hp)

	hpPercent, err := svc.GetAffix(501022)
	require.NoError(t, err)
	assert.InDelta(t, 4.08, hpPercent.Value, 1e-9)
}

func TestUpdate_Idempotent(t *testing.T) {
	f := newFixture()
	svc := f.service()
	ctx := context.Background()

	_, err := svc.Update(ctx)
	require.NoError(t, err)
	first := svc.Current()
	fetches := f.src.Fetches()

	updated, err := svc.Update(ctx)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.Equal(t, fetches, f.src.Fetches())
	assert.Same(t, first, svc.Current())
	assert.Equal(t, []string{providers.SyncResultUpdated, providers.SyncResultUnchanged}, f.metrics.Results())
}

func TestNeedsUpdate(t *testing.T) {
	f := newFixture()
	svc := f.service()
	ctx := context.Background()

	needs, err := svc.NeedsUpdate(ctx)
	require.NoError(t, err)
	assert.True(t, needs)

	_, err = svc.Update(ctx)
	require.NoError(t, err)
	fetches := f.src.Fetches()

	needs, err = svc.NeedsUpdate(ctx)
	require.NoError(t, err)
	assert.False(t, needs)

	f.src.SetRevision("next", testutil.GameTables())
	needs, err = svc.NeedsUpdate(ctx)
	require.NoError(t, err)
	assert.True(t, needs)
	assert.Equal(t, fetches, f.src.Fetches())

	f.src.FailRevision(errors.New("timeout"))
	_, err = svc.NeedsUpdate(ctx)
	var transportErr *source.TransportError
	assert.True(t, errors.As(err, &transportErr))
}

var allTablePaths = []string{
	models.TextMapPath,
	models.AvatarSkillDepotPath,
	models.DisplayItemPath,
	models.ReliquaryPath,
	models.ReliquaryMainPropPath,
	models.ReliquaryAffixPath,
	models.WeaponPath,
	models.MaterialPath,
	models.AvatarPath,
}

func TestUpdate_FailureKeepsPreviousSnapshot(t *testing.T) {
	for _, path := range allTablePaths {
		t.Run(path, func(t *testing.T) {
			f := newFixture()
			svc := f.service()
			ctx := context.Background()

			_, err := svc.Update(ctx)
			require.NoError(t, err)
			before := svc.Current()

			f.src.SetRevision("next", testutil.GameTables())
			f.src.FailOn(path, errors.New("502"))

			updated, err := svc.Update(ctx)
			assert.False(t, updated)
			var transportErr *source.TransportError
			require.True(t, errors.As(err, &transportErr))

			assert.Same(t, before, svc.Current())
			assert.Equal(t, testutil.FixtureRevision, svc.Revision())
			assert.Equal(t, providers.SyncResultFailed, f.metrics.Results()[1])

			// the same revision installs once the table is reachable again
			f.src.FailOn(path, nil)
			updated, err = svc.Update(ctx)
			require.NoError(t, err)
			assert.True(t, updated)
			assert.Equal(t, "next", svc.Revision())
		})
	}
}

func TestUpdate_FailureLeavesFreshServiceEmpty(t *testing.T) {
	f := newFixture()
	f.src.FailOn(models.ReliquaryPath, errors.New("502"))
	svc := f.service()

	_, err := svc.Update(context.Background())
	assert.Error(t, err)
	assert.False(t, svc.HasData())
}

func TestUpdate_NullTableKeepsPreviousSnapshot(t *testing.T) {
	for _, path := range allTablePaths {
		t.Run(path, func(t *testing.T) {
			f := newFixture()
			cachePath := filepath.Join(t.TempDir(), "snapshot.json")
			fm := newFileManager(t, false)
			svc := services.NewGameDataServiceWithCache(cachePath, fm, f.src, f.logger, f.metrics)
			ctx := context.Background()

			_, err := svc.Update(ctx)
			require.NoError(t, err)
			before := svc.Current()

			f.src.SetRevision("next", testutil.WithTable(testutil.GameTables(), path, "null"))

			updated, err := svc.Update(ctx)
			assert.False(t, updated)
			var decodeErr *source.DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, path, decodeErr.Path)

			assert.Same(t, before, svc.Current())
			assert.Equal(t, 5, svc.Stats()[models.MapArtifact])

			persisted, err := fm.LoadFromFile(cachePath)
			require.NoError(t, err)
			assert.Equal(t, testutil.FixtureRevision, persisted.GitHash)
		})
	}
}

func TestUpdate_RevisionCheckFailure(t *testing.T) {
	f := newFixture()
	f.src.FailRevision(errors.New("dns"))
	svc := f.service()

	_, err := svc.Update(context.Background())
	var transportErr *source.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, 0, f.src.Fetches())
	assert.False(t, svc.HasData())
}

func TestUpdate_JoinDependency(t *testing.T) {
	f := newFixture()
	tables := testutil.WithTable(testutil.GameTables(), models.DisplayItemPath, `[
		{"displayType": "RELIQUARY_ITEM", "nameTextMapHash": 100, "param": 15001}
	]`)
	f.src.SetRevision("joins", tables)
	svc := f.service()

	_, err := svc.Update(context.Background())
	require.NoError(t, err)

	for id, art := range svc.Current().ArtifactMap {
		assert.Equal(t, "Gladiator's Finale", art.Set, id)
	}
	_, err = svc.GetArtifact(81103)
	assert.True(t, errors.Is(err, services.ErrNotFound))
	assert.Equal(t, 3, svc.Stats()[models.MapArtifact])
}

func TestCache_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	f := newFixture()
	fm := newFileManager(t, true)

	svc := services.NewGameDataServiceWithCache(path, fm, f.src, f.logger, f.metrics)
	assert.False(t, svc.HasData())
	assert.True(t, f.logger.HasLog("info", "No snapshot cache"))

	_, err := svc.Update(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.metrics.Persistences)

	offline := source.NewFixtureSource("", nil)
	restored := services.NewGameDataServiceWithCache(path, fm, offline, &testutil.MockLogger{}, testutil.NewMockMetrics())
	require.True(t, restored.HasData())
	assert.Equal(t, svc.Current(), restored.Current())
	assert.Equal(t, 0, offline.Fetches())

	name, err := restored.GetCharacter(10000015)
	require.NoError(t, err)
	assert.Equal(t, "Kaeya", name)
}

func TestCache_Supersession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	f := newFixture()
	fm := newFileManager(t, false)

	svc := services.NewGameDataServiceWithCache(path, fm, f.src, f.logger, f.metrics)
	_, err := svc.Update(context.Background())
	require.NoError(t, err)

	renamed := testutil.WithTable(testutil.GameTables(), models.TextMapPath, `{
		"100": "Gladiator's Finale", "101": "Wanderer's Troupe", "200": "Amber (Outrider)",
		"201": "Kaeya", "300": "Mystic Enhancement Ore", "400": "Dull Blade", "401": "Skyward Harp"
	}`)
	f.src.SetRevision("b7e2", renamed)

	restored := services.NewGameDataServiceWithCache(path, fm, f.src, f.logger, f.metrics)
	assert.Equal(t, testutil.FixtureRevision, restored.Revision())

	updated, err := restored.Update(context.Background())
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, "b7e2", restored.Revision())

	name, err := restored.GetCharacter(10000021)
	require.NoError(t, err)
	assert.Equal(t, "Amber (Outrider)", name)

	onDisk, err := fm.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "b7e2", onDisk.GitHash)
}

func TestCache_UnreadableFileMeansNoData(t *testing.T) {
	dir := t.TempDir()
	fm := newFileManager(t, false)
	f := newFixture()

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0o644))
	svc := services.NewGameDataServiceWithCache(corrupt, fm, f.src, f.logger, f.metrics)
	assert.False(t, svc.HasData())
	assert.True(t, f.logger.HasLog("warn", "Ignoring snapshot cache"))

	future := filepath.Join(dir, "future.json")
	require.NoError(t, os.WriteFile(future, []byte(`{"version":3,"git_hash":"x"}`), 0o644))
	svc = services.NewGameDataServiceWithCache(future, fm, f.src, f.logger, f.metrics)
	assert.False(t, svc.HasData())
}

type failingPersister struct {
	saves int
}

func (p *failingPersister) SaveToFile(string, *models.Snapshot) error {
	p.saves++
	return errors.New("disk full")
}

func (p *failingPersister) LoadFromFile(string) (*models.Snapshot, error) { return nil, nil }

func TestUpdate_PersistFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	persister := &failingPersister{}
	svc := services.NewGameDataServiceWithCache("/unused", persister, f.src, f.logger, f.metrics)

	updated, err := svc.Update(context.Background())
	require.NoError(t, err)
	assert.True(t, updated)
	assert.True(t, svc.HasData())
	assert.Equal(t, 1, persister.saves)
	assert.True(t, f.logger.HasLog("warn", "disk full"))
}

func TestConcurrentReadersDuringUpdate(t *testing.T) {
	f := newFixture()
	svc := f.service()
	ctx := context.Background()
	_, err := svc.Update(ctx)
	require.NoError(t, err)

	renamed := testutil.WithTable(testutil.GameTables(), models.TextMapPath, `{
		"100": "G", "101": "W", "200": "A2", "201": "K2", "300": "M", "400": "D", "401": "S"
	}`)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				// each read sees one complete snapshot
				snap := svc.Current()
				if snap.GitHash == testutil.FixtureRevision {
					assert.Equal(t, "Amber", snap.CharacterMap[10000021])
				} else {
					assert.Equal(t, "A2", snap.CharacterMap[10000021])
				}
			}
		}()
	}

	f.src.SetRevision("second", renamed)
	_, err = svc.Update(ctx)
	require.NoError(t, err)
	close(stop)
	wg.Wait()
	assert.Equal(t, "second", svc.Revision())
}

func TestConcurrentUpdatesBuildOnce(t *testing.T) {
	f := newFixture()
	svc := f.service()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Update(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 9, f.src.Fetches())
	assert.Equal(t, 5, f.src.RevisionChecks())
}

func TestNewGameDataServiceProvider(t *testing.T) {
	f := newFixture()
	fm := newFileManager(t, false)

	plain := services.NewGameDataServiceProvider(&structures.Config{}, fm, f.src, f.logger, f.metrics)
	assert.False(t, plain.HasData())

	path := filepath.Join(t.TempDir(), "s.json")
	require.NoError(t, fm.SaveToFile(path, models.NewSnapshot("cached")))
	cached := services.NewGameDataServiceProvider(&structures.Config{Persistence: structures.Persistence{FilePath: path}}, fm, f.src, f.logger, f.metrics)
	assert.Equal(t, "cached", cached.Revision())
}

func TestIDs(t *testing.T) {
	svc := newFixture().service()

	_, err := svc.IDs(models.MapWeapon, 0, 0)
	assert.ErrorIs(t, err, services.ErrNoData)

	_, err = svc.Update(context.Background())
	require.NoError(t, err)

	page, err := svc.IDs(models.MapCharacter, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, services.IDPage{Revision: testutil.FixtureRevision, IDs: []uint32{10000015, 10000021}, Total: 2}, page)

	page, err = svc.IDs(models.MapWeapon, 11102, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint32{15501}, page.IDs)
	assert.Equal(t, 2, page.Total)

	_, err = svc.IDs("dragon", 0, 0)
	assert.ErrorIs(t, err, services.ErrUnknownKind)
}

func TestLookupsFrom_ReadTheGivenSnapshot(t *testing.T) {
	snap := models.NewSnapshot("a")
	snap.CharacterMap[10000021] = "Amber"
	snap.WeaponMap[15501] = models.Weapon{Name: "Skyward Harp", Rarity: 5}

	name, err := services.CharacterFrom(snap, 10000021)
	require.NoError(t, err)
	assert.Equal(t, "Amber", name)

	weapon, err := services.WeaponFrom(snap, 15501)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), weapon.Rarity)

	_, err = services.SetFrom(snap, 15001)
	assert.EqualError(t, err, "set 15001 not found")

	_, err = services.MaterialFrom(nil, 104001)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
