package models

import (
	"errors"
	"fmt"
)

var ErrUnknownProperty = errors.New("unknown property")

// Property is a stat kind an artifact main stat or affix can roll.
type Property int

const (
	PropertyHp Property = iota
	PropertyHpPercent
	PropertyAttack
	PropertyAttackPercent
	PropertyDefense
	PropertyDefensePercent
	PropertyElementalMastery
	PropertyEnergyRecharge
	PropertyHealing
	PropertyCritRate
	PropertyCritDamage
	PropertyPhysicalDamage
	PropertyAnemoDamage
	PropertyGeoDamage
	PropertyElectroDamage
	PropertyHydroDamage
	PropertyPyroDamage
	PropertyCryoDamage
	PropertyDendroDamage
)

var propertyNames = [...]string{
	PropertyHp:               "Hp",
	PropertyHpPercent:        "HpPercent",
	PropertyAttack:           "Attack",
	PropertyAttackPercent:    "AttackPercent",
	PropertyDefense:          "Defense",
	PropertyDefensePercent:   "DefensePercent",
	PropertyElementalMastery: "ElementalMastery",
	PropertyEnergyRecharge:   "EnergyRecharge",
	PropertyHealing:          "Healing",
	PropertyCritRate:         "CritRate",
	PropertyCritDamage:       "CritDamage",
	PropertyPhysicalDamage:   "PhysicalDamage",
	PropertyAnemoDamage:      "AnemoDamage",
	PropertyGeoDamage:        "GeoDamage",
	PropertyElectroDamage:    "ElectroDamage",
	PropertyHydroDamage:      "HydroDamage",
	PropertyPyroDamage:       "PyroDamage",
	PropertyCryoDamage:       "CryoDamage",
	PropertyDendroDamage:     "DendroDamage",
}

// GOOD format keys
var propertyGoodNames = [...]string{
	PropertyHp:               "hp",
	PropertyHpPercent:        "hp_",
	PropertyAttack:           "atk",
	PropertyAttackPercent:    "atk_",
	PropertyDefense:          "def",
	PropertyDefensePercent:   "def_",
	PropertyElementalMastery: "eleMas",
	PropertyEnergyRecharge:   "enerRech_",
	PropertyHealing:          "heal_",
	PropertyCritRate:         "critRate_",
	PropertyCritDamage:       "critDMG_",
	PropertyPhysicalDamage:   "physical_dmg_",
	PropertyAnemoDamage:      "anemo_dmg_",
	PropertyGeoDamage:        "geo_dmg_",
	PropertyElectroDamage:    "electro_dmg_",
	PropertyHydroDamage:      "hydro_dmg_",
	PropertyPyroDamage:       "pyro_dmg_",
	PropertyCryoDamage:       "cryo_dmg_",
	PropertyDendroDamage:     "dendro_dmg_",
}

var fightProps = map[string]Property{
	"FIGHT_PROP_HP":                PropertyHp,
	"FIGHT_PROP_HP_PERCENT":        PropertyHpPercent,
	"FIGHT_PROP_ATTACK":            PropertyAttack,
	"FIGHT_PROP_ATTACK_PERCENT":    PropertyAttackPercent,
	"FIGHT_PROP_DEFENSE":           PropertyDefense,
	"FIGHT_PROP_DEFENSE_PERCENT":   PropertyDefensePercent,
	"FIGHT_PROP_ELEMENT_MASTERY":   PropertyElementalMastery,
	"FIGHT_PROP_CHARGE_EFFICIENCY": PropertyEnergyRecharge,
	"FIGHT_PROP_HEAL_ADD":          PropertyHealing,
	"FIGHT_PROP_CRITICAL":          PropertyCritRate,
	"FIGHT_PROP_CRITICAL_HURT":     PropertyCritDamage,
	"FIGHT_PROP_PHYSICAL_ADD_HURT": PropertyPhysicalDamage,
	"FIGHT_PROP_WIND_ADD_HURT":     PropertyAnemoDamage,
	"FIGHT_PROP_ROCK_ADD_HURT":     PropertyGeoDamage,
	"FIGHT_PROP_ELEC_ADD_HURT":     PropertyElectroDamage,
	"FIGHT_PROP_WATER_ADD_HURT":    PropertyHydroDamage,
	"FIGHT_PROP_FIRE_ADD_HURT":     PropertyPyroDamage,
	"FIGHT_PROP_ICE_ADD_HURT":      PropertyCryoDamage,
	"FIGHT_PROP_GRASS_ADD_HURT":    PropertyDendroDamage,
}

// ParseProperty maps a game data FIGHT_PROP_* identifier to a Property.
func ParseProperty(s string) (Property, error) {
	if p, ok := fightProps[s]; ok {
		return p, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownProperty, s)
}

// IsPercentage reports whether values of this kind are fractions in game data.
func (p Property) IsPercentage() bool {
	switch p {
	case PropertyHp, PropertyAttack, PropertyDefense, PropertyElementalMastery:
		return false
	}
	return p.valid()
}

func (p Property) GoodName() string {
	if !p.valid() {
		return ""
	}
	return propertyGoodNames[p]
}

func (p Property) String() string {
	if !p.valid() {
		return fmt.Sprintf("Property(%d)", int(p))
	}
	return propertyNames[p]
}

func (p Property) valid() bool {
	return p >= 0 && int(p) < len(propertyNames)
}

func (p Property) MarshalText() ([]byte, error) {
	if !p.valid() {
		return nil, fmt.Errorf("%w %d", ErrUnknownProperty, int(p))
	}
	return []byte(propertyNames[p]), nil
}

func (p *Property) UnmarshalText(text []byte) error {
	for i, name := range propertyNames {
		if name == string(text) {
			*p = Property(i)
			return nil
		}
	}
	return fmt.Errorf("%w %q", ErrUnknownProperty, string(text))
}
