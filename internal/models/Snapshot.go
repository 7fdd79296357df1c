package models

// SnapshotVersion is the schema version written to and expected from cache files.
const SnapshotVersion = 0

// Names of the derived maps, used as metric labels and in stats output.
const (
	MapAffix     = "affix"
	MapArtifact  = "artifact"
	MapCharacter = "character"
	MapMaterial  = "material"
	MapProperty  = "property"
	MapSet       = "set"
	MapSkillType = "skill_type"
	MapWeapon    = "weapon"
)

// Snapshot is one complete, immutable state of the derived game data.
// It is built off to the side during a sync and never mutated once installed.
type Snapshot struct {
	Version      int                  `json:"version"`
	GitHash      string               `json:"git_hash"`
	AffixMap     map[uint32]Affix     `json:"affix_map"`
	ArtifactMap  map[uint32]Artifact  `json:"artifact_map"`
	CharacterMap map[uint32]string    `json:"character_map"`
	MaterialMap  map[uint32]string    `json:"material_map"`
	PropertyMap  map[uint32]Property  `json:"property_map"`
	SetMap       map[uint32]string    `json:"set_map"`
	SkillTypeMap map[uint32]SkillType `json:"skill_type_map"`
	WeaponMap    map[uint32]Weapon    `json:"weapon_map"`
}

func NewSnapshot(gitHash string) *Snapshot {
	s := &Snapshot{Version: SnapshotVersion, GitHash: gitHash}
	s.EnsureMaps()
	return s
}

// EnsureMaps replaces nil maps with empty ones, e.g. after decoding a file
// that omitted a map.
func (s *Snapshot) EnsureMaps() {
	if s.AffixMap == nil {
		s.AffixMap = make(map[uint32]Affix)
	}
	if s.ArtifactMap == nil {
		s.ArtifactMap = make(map[uint32]Artifact)
	}
	if s.CharacterMap == nil {
		s.CharacterMap = make(map[uint32]string)
	}
	if s.MaterialMap == nil {
		s.MaterialMap = make(map[uint32]string)
	}
	if s.PropertyMap == nil {
		s.PropertyMap = make(map[uint32]Property)
	}
	if s.SetMap == nil {
		s.SetMap = make(map[uint32]string)
	}
	if s.SkillTypeMap == nil {
		s.SkillTypeMap = make(map[uint32]SkillType)
	}
	if s.WeaponMap == nil {
		s.WeaponMap = make(map[uint32]Weapon)
	}
}

func (s *Snapshot) Counts() map[string]int {
	return map[string]int{
		MapAffix:     len(s.AffixMap),
		MapArtifact:  len(s.ArtifactMap),
		MapCharacter: len(s.CharacterMap),
		MapMaterial:  len(s.MaterialMap),
		MapProperty:  len(s.PropertyMap),
		MapSet:       len(s.SetMap),
		MapSkillType: len(s.SkillTypeMap),
		MapWeapon:    len(s.WeaponMap),
	}
}
