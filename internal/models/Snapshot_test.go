package models

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshot_AllocatesMaps(t *testing.T) {
	s := NewSnapshot("abc")
	assert.Equal(t, SnapshotVersion, s.Version)
	assert.Equal(t, "abc", s.GitHash)

	counts := s.Counts()
	assert.Len(t, counts, 8)
	for name, n := range counts {
		assert.Zero(t, n, name)
	}
}

func TestSnapshot_JSONLayout(t *testing.T) {
	s := NewSnapshot("deadbeef")
	s.AffixMap[501024] = Affix{Property: PropertyCritRate, Value: 2.7}
	s.ArtifactMap[15001] = Artifact{Set: "Gladiator's Finale", Slot: SlotGoblet, Rarity: 5}
	s.SkillTypeMap[10024] = SkillBurst
	s.PropertyMap[10001] = PropertyHp

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"version", "git_hash", "affix_map", "artifact_map", "character_map",
		"material_map", "property_map", "set_map", "skill_type_map", "weapon_map"} {
		assert.Contains(t, raw, key)
	}

	assert.JSONEq(t, `{"501024":{"property":"CritRate","value":2.7}}`, string(raw["affix_map"]))
	assert.JSONEq(t, `{"15001":{"set":"Gladiator's Finale","slot":"Goblet","rarity":5}}`, string(raw["artifact_map"]))
	assert.JSONEq(t, `{"10024":"Burst"}`, string(raw["skill_type_map"]))
	assert.JSONEq(t, `{"10001":"Hp"}`, string(raw["property_map"]))

	var back Snapshot
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, *s, back)
}

func TestSnapshot_EnsureMapsAfterPartialDecode(t *testing.T) {
	var s Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{"version":0,"git_hash":"x","set_map":{"1":"A"}}`), &s))
	s.EnsureMaps()
	assert.NotNil(t, s.WeaponMap)
	assert.Equal(t, "A", s.SetMap[1])
}
