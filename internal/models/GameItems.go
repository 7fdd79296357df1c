package models

import (
	"errors"
	"fmt"
)

var ErrUnknownSkillType = errors.New("unknown skill type")

type SkillType int

const (
	SkillAuto SkillType = iota
	SkillElemental
	SkillBurst
)

var skillTypeNames = [...]string{
	SkillAuto:      "Auto",
	SkillElemental: "Skill",
	SkillBurst:     "Burst",
}

func (s SkillType) String() string {
	if s < 0 || int(s) >= len(skillTypeNames) {
		return fmt.Sprintf("SkillType(%d)", int(s))
	}
	return skillTypeNames[s]
}

func (s SkillType) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(skillTypeNames) {
		return nil, fmt.Errorf("%w %d", ErrUnknownSkillType, int(s))
	}
	return []byte(skillTypeNames[s]), nil
}

func (s *SkillType) UnmarshalText(text []byte) error {
	for i, name := range skillTypeNames {
		if name == string(text) {
			*s = SkillType(i)
			return nil
		}
	}
	return fmt.Errorf("%w %q", ErrUnknownSkillType, string(text))
}

// Affix is one artifact sub stat roll. Percentage kinds hold percent points.
type Affix struct {
	Property Property `json:"property"`
	Value    float64  `json:"value"`
}

// NewAffix scales fractional game data values of percentage kinds to percent points.
func NewAffix(property Property, sourceValue float64) Affix {
	value := sourceValue
	if property.IsPercentage() {
		value = sourceValue * 100
	}
	return Affix{Property: property, Value: value}
}

type Weapon struct {
	Name   string `json:"name"`
	Rarity uint32 `json:"rarity"`
}
