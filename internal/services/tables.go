package services

import (
	"agd/internal/models"
)

// Every derive function returns the built map and how many entries it dropped.
// Duplicate ids resolve to the last row in source order.

func deriveSkillTypes(rows []models.AvatarSkillDepotRow) (map[uint32]models.SkillType, int) {
	out := make(map[uint32]models.SkillType, len(rows)*3)
	dropped := 0
	for _, row := range rows {
		out[row.EnergySkill] = models.SkillBurst
		if len(row.Skills) > 0 {
			out[row.Skills[0]] = models.SkillAuto
		} else {
			dropped++
		}
		if len(row.Skills) > 1 {
			out[row.Skills[1]] = models.SkillElemental
		} else {
			dropped++
		}
	}
	return out, dropped
}

func deriveSetNames(rows []models.DisplayItemRow, text models.TextMap) (map[uint32]string, int) {
	out := make(map[uint32]string)
	dropped := 0
	for _, row := range rows {
		if row.DisplayType != models.DisplayTypeReliquaryItem {
			continue
		}
		name, ok := text[row.NameTextMapHash]
		if !ok {
			dropped++
			continue
		}
		out[row.Param] = name
	}
	return out, dropped
}

func deriveArtifacts(rows []models.ReliquaryRow, sets map[uint32]string) (map[uint32]models.Artifact, int) {
	out := make(map[uint32]models.Artifact, len(rows))
	dropped := 0
	for _, row := range rows {
		set, ok := sets[row.SetID]
		if !ok {
			dropped++
			continue
		}
		slot, ok := models.SlotFromEquipType(row.EquipType)
		if !ok {
			dropped++
			continue
		}
		out[row.ID] = models.Artifact{Set: set, Slot: slot, Rarity: row.RankLevel}
	}
	return out, dropped
}

func deriveProperties(rows []models.ReliquaryMainPropRow) (map[uint32]models.Property, int) {
	out := make(map[uint32]models.Property, len(rows))
	dropped := 0
	for _, row := range rows {
		prop, err := models.ParseProperty(row.PropType)
		if err != nil {
			dropped++
			continue
		}
		out[row.ID] = prop
	}
	return out, dropped
}

func deriveAffixes(rows []models.ReliquaryAffixRow) (map[uint32]models.Affix, int) {
	out := make(map[uint32]models.Affix, len(rows))
	dropped := 0
	for _, row := range rows {
		prop, err := models.ParseProperty(row.PropType)
		if err != nil {
			dropped++
			continue
		}
		out[row.ID] = models.NewAffix(prop, row.PropValue)
	}
	return out, dropped
}

func deriveWeapons(rows []models.WeaponRow, text models.TextMap) (map[uint32]models.Weapon, int) {
	out := make(map[uint32]models.Weapon, len(rows))
	dropped := 0
	for _, row := range rows {
		name, ok := text[row.NameTextMapHash]
		if !ok {
			dropped++
			continue
		}
		out[row.ID] = models.Weapon{Name: name, Rarity: row.RankLevel}
	}
	return out, dropped
}

// deriveNames maps row ids to their resolved display name. Used for materials
// and characters.
func deriveNames[R models.NamedRow](rows []R, text models.TextMap) (map[uint32]string, int) {
	out := make(map[uint32]string, len(rows))
	dropped := 0
	for _, row := range rows {
		name, ok := text[row.NameHash()]
		if !ok {
			dropped++
			continue
		}
		out[row.RowID()] = name
	}
	return out, dropped
}
