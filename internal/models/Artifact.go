package models

import (
	"errors"
	"fmt"
)

var ErrUnknownSlot = errors.New("unknown artifact slot")

type ArtifactSlot int

const (
	SlotFlower ArtifactSlot = iota
	SlotPlume
	SlotSands
	SlotGoblet
	SlotCirclet
)

var slotNames = [...]string{
	SlotFlower:  "Flower",
	SlotPlume:   "Plume",
	SlotSands:   "Sands",
	SlotGoblet:  "Goblet",
	SlotCirclet: "Circlet",
}

var slotGoodNames = [...]string{
	SlotFlower:  "flower",
	SlotPlume:   "plume",
	SlotSands:   "sands",
	SlotGoblet:  "goblet",
	SlotCirclet: "circlet",
}

var equipTypes = map[string]ArtifactSlot{
	"EQUIP_BRACER":   SlotFlower,
	"EQUIP_NECKLACE": SlotPlume,
	"EQUIP_SHOES":    SlotSands,
	"EQUIP_RING":     SlotGoblet,
	"EQUIP_DRESS":    SlotCirclet,
}

// SlotFromEquipType maps a reliquary equipType to its slot.
func SlotFromEquipType(equipType string) (ArtifactSlot, bool) {
	slot, ok := equipTypes[equipType]
	return slot, ok
}

func (s ArtifactSlot) GoodName() string {
	if !s.valid() {
		return ""
	}
	return slotGoodNames[s]
}

func (s ArtifactSlot) String() string {
	if !s.valid() {
		return fmt.Sprintf("ArtifactSlot(%d)", int(s))
	}
	return slotNames[s]
}

func (s ArtifactSlot) valid() bool {
	return s >= 0 && int(s) < len(slotNames)
}

func (s ArtifactSlot) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, fmt.Errorf("%w %d", ErrUnknownSlot, int(s))
	}
	return []byte(slotNames[s]), nil
}

func (s *ArtifactSlot) UnmarshalText(text []byte) error {
	for i, name := range slotNames {
		if name == string(text) {
			*s = ArtifactSlot(i)
			return nil
		}
	}
	return fmt.Errorf("%w %q", ErrUnknownSlot, string(text))
}

type Artifact struct {
	Set    string       `json:"set"`
	Slot   ArtifactSlot `json:"slot"`
	Rarity uint32       `json:"rarity"`
}
