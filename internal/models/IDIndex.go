package models

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// IDIndex holds the sorted id set of every map in one snapshot.
type IDIndex struct {
	bitmaps map[string]*roaring.Bitmap
}

func bitmapOf[V any](m map[uint32]V) *roaring.Bitmap {
	bm := roaring.New()
	for id := range m {
		bm.Add(id)
	}
	bm.RunOptimize()
	return bm
}

// NewIDIndex indexes s. s must not change afterwards.
func NewIDIndex(s *Snapshot) *IDIndex {
	return &IDIndex{bitmaps: map[string]*roaring.Bitmap{
		MapAffix:     bitmapOf(s.AffixMap),
		MapArtifact:  bitmapOf(s.ArtifactMap),
		MapCharacter: bitmapOf(s.CharacterMap),
		MapMaterial:  bitmapOf(s.MaterialMap),
		MapProperty:  bitmapOf(s.PropertyMap),
		MapSet:       bitmapOf(s.SetMap),
		MapSkillType: bitmapOf(s.SkillTypeMap),
		MapWeapon:    bitmapOf(s.WeaponMap),
	}}
}

// Known reports whether kind names a map.
func (x *IDIndex) Known(kind string) bool {
	_, ok := x.bitmaps[kind]
	return ok
}

func (x *IDIndex) Len(kind string) int {
	bm, ok := x.bitmaps[kind]
	if !ok {
		return 0
	}
	return int(bm.GetCardinality())
}

// Page returns up to limit ids of kind that are >= from, ascending.
// limit <= 0 means no limit.
func (x *IDIndex) Page(kind string, from uint32, limit int) []uint32 {
	bm, ok := x.bitmaps[kind]
	if !ok {
		return nil
	}

	var out []uint32
	if limit > 0 {
		out = make([]uint32, 0, min(limit, int(bm.GetCardinality())))
	}
	it := bm.Iterator()
	it.AdvanceIfNeeded(from)
	for it.HasNext() && (limit <= 0 || len(out) < limit) {
		out = append(out, it.Next())
	}
	return out
}
