package testutil

import "agd/internal/models"

const FixtureRevision = "4f1c2a9e0b7d"

// GameTables returns a small but complete set of upstream tables. Every table
// carries at least one entry that cannot be resolved.
func GameTables() map[string][]byte {
	return map[string][]byte{
		models.TextMapPath: []byte(`{
			"100": "Gladiator's Finale",
			"101": "Wanderer's Troupe",
			"200": "Amber",
			"201": "Kaeya",
			"300": "Mystic Enhancement Ore",
			"400": "Dull Blade",
			"401": "Skyward Harp"
		}`),
		models.AvatarSkillDepotPath: []byte(`[
			{"id": 101, "energySkill": 10013, "skills": [10011, 10012], "subSkills": []},
			{"id": 102, "energySkill": 10023, "skills": [10021, 10022, 10024]},
			{"id": 103, "energySkill": 10033, "skills": [10031]},
			{"id": 104, "energySkill": 10011, "skills": [10041, 10042]}
		]`),
		models.DisplayItemPath: []byte(`[
			{"id": 1, "displayType": "RELIQUARY_ITEM", "nameTextMapHash": 100, "param": 15001, "icon": "UI_RelicIcon_15001_4"},
			{"id": 2, "displayType": "RELIQUARY_ITEM", "nameTextMapHash": 101, "param": 15003},
			{"id": 3, "displayType": "RELIQUARY_ITEM", "nameTextMapHash": 999, "param": 15099},
			{"id": 4, "displayType": "MATERIAL", "nameTextMapHash": 300, "param": 104001}
		]`),
		models.ReliquaryPath: []byte(`[
			{"id": 81101, "equipType": "EQUIP_BRACER", "rankLevel": 5, "setId": 15001, "mainPropDepotId": 1000},
			{"id": 81102, "equipType": "EQUIP_NECKLACE", "rankLevel": 5, "setId": 15001},
			{"id": 81103, "equipType": "EQUIP_SHOES", "rankLevel": 4, "setId": 15003},
			{"id": 81104, "equipType": "EQUIP_RING", "rankLevel": 5, "setId": 15003},
			{"id": 81105, "equipType": "EQUIP_DRESS", "rankLevel": 5, "setId": 15001},
			{"id": 81106, "equipType": "EQUIP_BRACER", "rankLevel": 5, "setId": 15099},
			{"id": 81107, "equipType": "EQUIP_WEAPON", "rankLevel": 5, "setId": 15001}
		]`),
		models.ReliquaryMainPropPath: []byte(`[
			{"id": 10001, "propDepotId": 1000, "propType": "FIGHT_PROP_HP"},
			{"id": 10002, "propDepotId": 1000, "propType": "FIGHT_PROP_ATTACK_PERCENT"},
			{"id": 10003, "propDepotId": 1000, "propType": "FIGHT_PROP_CRITICAL"},
			{"id": 10004, "propDepotId": 1000, "propType": "FIGHT_PROP_SHIELD_COST_MINUS_RATIO"}
		]`),
		models.ReliquaryAffixPath: []byte(`[
			{"id": 501021, "depotId": 501, "propType": "FIGHT_PROP_HP", "propValue": 239.0},
			{"id": 501022, "depotId": 501, "propType": "FIGHT_PROP_HP_PERCENT", "propValue": 0.0408},
			{"id": 501023, "depotId": 501, "propType": "FIGHT_PROP_CRITICAL", "propValue": 0.8},
			{"id": 501024, "depotId": 501, "propType": "FIGHT_PROP_SHIELD_COST_MINUS_RATIO", "propValue": 0.1}
		]`),
		models.WeaponPath: []byte(`[
			{"id": 11101, "nameTextMapHash": 400, "rankLevel": 1, "weaponType": "WEAPON_SWORD_ONE_HAND"},
			{"id": 15501, "nameTextMapHash": 401, "rankLevel": 5},
			{"id": 19999, "nameTextMapHash": 998, "rankLevel": 3}
		]`),
		models.MaterialPath: []byte(`[
			{"id": 104001, "nameTextMapHash": 300},
			{"id": 104002, "nameTextMapHash": 997}
		]`),
		models.AvatarPath: []byte(`[
			{"id": 10000021, "nameTextMapHash": 200, "qualityType": "QUALITY_PURPLE"},
			{"id": 10000015, "nameTextMapHash": 201},
			{"id": 10000099, "nameTextMapHash": 996}
		]`),
	}
}

// WithTable returns a copy of tables with path replaced by payload.
func WithTable(tables map[string][]byte, path string, payload string) map[string][]byte {
	out := make(map[string][]byte, len(tables))
	for k, v := range tables {
		out[k] = v
	}
	out[path] = []byte(payload)
	return out
}
