package services

import (
	"agd/internal/models"
	"agd/internal/providers"
	"agd/internal/source"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	StepText       = "text"
	StepSkillTypes = "skill_types"
	StepSets       = "sets"
	StepArtifacts  = "artifacts"
	StepProperties = "properties"
	StepAffixes    = "affixes"
	StepWeapons    = "weapons"
	StepMaterials  = "materials"
	StepCharacters = "characters"
)

var (
	ErrUnknownStep = errors.New("unknown step")
	ErrStepCycle   = errors.New("dependency cycle")
)

// buildState is the work area of one build. Steps of a stage write disjoint
// fields; later stages only read what earlier stages wrote.
type buildState struct {
	text models.TextMap
	snap *models.Snapshot
}

type stepRunner func(ctx context.Context, src source.SourceInterface, revision, path string, st *buildState) (int, error)

type derivationStep struct {
	name  string
	table string
	path  string
	needs []string
	run   stepRunner
}

// rowsStep fetches a row table and hands it to apply, which stores its result
// in the build state and returns the number of dropped entries.
func rowsStep[R models.Row](apply func(rows []R, st *buildState) int) stepRunner {
	return func(ctx context.Context, src source.SourceInterface, revision, path string, st *buildState) (int, error) {
		rows, err := source.FetchRows[R](ctx, src, revision, path)
		if err != nil {
			return 0, err
		}
		return apply(rows, st), nil
	}
}

func defaultPlan() []derivationStep {
	return []derivationStep{
		{
			name: StepText, table: StepText, path: models.TextMapPath,
			run: func(ctx context.Context, src source.SourceInterface, revision, path string, st *buildState) (int, error) {
				text, err := source.FetchTable[models.TextMap](ctx, src, revision, path)
				if err != nil {
					return 0, err
				}
				st.text = text
				return 0, nil
			},
		},
		{
			name: StepSkillTypes, table: models.MapSkillType, path: models.AvatarSkillDepotPath,
			run: rowsStep(func(rows []models.AvatarSkillDepotRow, st *buildState) (dropped int) {
				st.snap.SkillTypeMap, dropped = deriveSkillTypes(rows)
				return
			}),
		},
		{
			name: StepSets, table: models.MapSet, path: models.DisplayItemPath, needs: []string{StepText},
			run: rowsStep(func(rows []models.DisplayItemRow, st *buildState) (dropped int) {
				st.snap.SetMap, dropped = deriveSetNames(rows, st.text)
				return
			}),
		},
		{
			name: StepArtifacts, table: models.MapArtifact, path: models.ReliquaryPath, needs: []string{StepSets},
			run: rowsStep(func(rows []models.ReliquaryRow, st *buildState) (dropped int) {
				st.snap.ArtifactMap, dropped = deriveArtifacts(rows, st.snap.SetMap)
				return
			}),
		},
		{
			name: StepProperties, table: models.MapProperty, path: models.ReliquaryMainPropPath,
			run: rowsStep(func(rows []models.ReliquaryMainPropRow, st *buildState) (dropped int) {
				st.snap.PropertyMap, dropped = deriveProperties(rows)
				return
			}),
		},
		{
			name: StepAffixes, table: models.MapAffix, path: models.ReliquaryAffixPath,
			run: rowsStep(func(rows []models.ReliquaryAffixRow, st *buildState) (dropped int) {
				st.snap.AffixMap, dropped = deriveAffixes(rows)
				return
			}),
		},
		{
			name: StepWeapons, table: models.MapWeapon, path: models.WeaponPath, needs: []string{StepText},
			run: rowsStep(func(rows []models.WeaponRow, st *buildState) (dropped int) {
				st.snap.WeaponMap, dropped = deriveWeapons(rows, st.text)
				return
			}),
		},
		{
			name: StepMaterials, table: models.MapMaterial, path: models.MaterialPath, needs: []string{StepText},
			run: rowsStep(func(rows []models.MaterialRow, st *buildState) (dropped int) {
				st.snap.MaterialMap, dropped = deriveNames(rows, st.text)
				return
			}),
		},
		{
			name: StepCharacters, table: models.MapCharacter, path: models.AvatarPath, needs: []string{StepText},
			run: rowsStep(func(rows []models.AvatarRow, st *buildState) (dropped int) {
				st.snap.CharacterMap, dropped = deriveNames(rows, st.text)
				return
			}),
		},
	}
}

// planStages groups steps into topological levels. Every step of a level
// depends only on steps of earlier levels.
func planStages(steps []derivationStep) ([][]derivationStep, error) {
	byName := make(map[string]derivationStep, len(steps))
	for _, s := range steps {
		if _, dup := byName[s.name]; dup {
			return nil, fmt.Errorf("duplicate step %q", s.name)
		}
		byName[s.name] = s
	}

	pending := make(map[string]int, len(steps))
	dependents := make(map[string][]string)
	for _, s := range steps {
		for _, dep := range s.needs {
			if _, ok := byName[dep]; !ok {
				return nil, fmt.Errorf("step %q needs %q: %w", s.name, dep, ErrUnknownStep)
			}
			dependents[dep] = append(dependents[dep], s.name)
		}
		pending[s.name] = len(s.needs)
	}

	var ready []string
	for _, s := range steps {
		if pending[s.name] == 0 {
			ready = append(ready, s.name)
		}
	}

	var stages [][]derivationStep
	placed := 0
	for len(ready) > 0 {
		stage := make([]derivationStep, 0, len(ready))
		var next []string
		for _, name := range ready {
			stage = append(stage, byName[name])
			for _, d := range dependents[name] {
				pending[d]--
				if pending[d] == 0 {
					next = append(next, d)
				}
			}
		}
		placed += len(stage)
		stages = append(stages, stage)
		ready = next
	}

	if placed != len(steps) {
		var stuck []string
		for name, n := range pending {
			if n > 0 {
				stuck = append(stuck, name)
			}
		}
		sort.Strings(stuck)
		return nil, fmt.Errorf("%w between %s", ErrStepCycle, strings.Join(stuck, ", "))
	}
	return stages, nil
}

// Deriver builds a complete snapshot of one revision from the source tables.
type Deriver struct {
	src     source.SourceInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	stages  [][]derivationStep
}

func NewDeriver(src source.SourceInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *Deriver {
	stages, err := planStages(defaultPlan())
	if err != nil {
		panic(fmt.Sprintf("invalid derivation plan: %s", err))
	}
	return &Deriver{src: src, logger: logger, metrics: metrics, stages: stages}
}

// Stages returns the step names of each stage in execution order.
func (d *Deriver) Stages() [][]string {
	out := make([][]string, len(d.stages))
	for i, stage := range d.stages {
		for _, s := range stage {
			out[i] = append(out[i], s.name)
		}
	}
	return out
}

// Build fetches and derives every table of revision. The first table that
// cannot be fetched or decoded cancels the rest and fails the build.
func (d *Deriver) Build(ctx context.Context, revision string) (*models.Snapshot, error) {
	st := &buildState{snap: models.NewSnapshot(revision)}
	dropped := make(map[string]int)

	for _, stage := range d.stages {
		counts := make([]int, len(stage))
		g, gctx := errgroup.WithContext(ctx)
		for i, step := range stage {
			g.Go(func() error {
				n, err := step.run(gctx, d.src, revision, step.path, st)
				if err != nil {
					return fmt.Errorf("derive %s: %w", step.name, err)
				}
				counts[i] = n
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		for i, step := range stage {
			if counts[i] > 0 {
				dropped[step.table] += counts[i]
			}
		}
	}

	for table, n := range dropped {
		d.logger.Debugf(providers.TypeSync, "Dropped %d unresolved %s entries at %s", n, table, revision)
		d.metrics.AddDroppedEntries(table, n)
	}
	return st.snap, nil
}
