package models

// Logical paths of the upstream tables, relative to a revision root.
const (
	TextMapPath           = "TextMap/TextMapEN.json"
	AvatarSkillDepotPath  = "ExcelBinOutput/AvatarSkillDepotExcelConfigData.json"
	DisplayItemPath       = "ExcelBinOutput/DisplayItemExcelConfigData.json"
	ReliquaryPath         = "ExcelBinOutput/ReliquaryExcelConfigData.json"
	ReliquaryMainPropPath = "ExcelBinOutput/ReliquaryMainPropExcelConfigData.json"
	ReliquaryAffixPath    = "ExcelBinOutput/ReliquaryAffixExcelConfigData.json"
	WeaponPath            = "ExcelBinOutput/WeaponExcelConfigData.json"
	MaterialPath          = "ExcelBinOutput/MaterialExcelConfigData.json"
	AvatarPath            = "ExcelBinOutput/AvatarExcelConfigData.json"
)

const DisplayTypeReliquaryItem = "RELIQUARY_ITEM"

// TextMap resolves nameTextMapHash values to English strings.
type TextMap map[uint32]string

// Row is a single entry of an ExcelBinOutput table. RequiredFields lists the
// JSON keys every row of the table must carry.
type Row interface {
	RequiredFields() []string
}

// NamedRow is a row whose display name is resolved through the text map.
type NamedRow interface {
	Row
	RowID() uint32
	NameHash() uint32
}

type AvatarRow struct {
	ID              uint32 `json:"id"`
	NameTextMapHash uint32 `json:"nameTextMapHash"`
}

func (AvatarRow) RequiredFields() []string { return []string{"id", "nameTextMapHash"} }
func (r AvatarRow) RowID() uint32          { return r.ID }
func (r AvatarRow) NameHash() uint32       { return r.NameTextMapHash }

type AvatarSkillDepotRow struct {
	EnergySkill uint32   `json:"energySkill"`
	Skills      []uint32 `json:"skills"`
}

func (AvatarSkillDepotRow) RequiredFields() []string { return []string{"energySkill", "skills"} }

type DisplayItemRow struct {
	DisplayType     string `json:"displayType"`
	NameTextMapHash uint32 `json:"nameTextMapHash"`
	Param           uint32 `json:"param"`
}

func (DisplayItemRow) RequiredFields() []string {
	return []string{"displayType", "nameTextMapHash", "param"}
}

type MaterialRow struct {
	ID              uint32 `json:"id"`
	NameTextMapHash uint32 `json:"nameTextMapHash"`
}

func (MaterialRow) RequiredFields() []string { return []string{"id", "nameTextMapHash"} }
func (r MaterialRow) RowID() uint32          { return r.ID }
func (r MaterialRow) NameHash() uint32       { return r.NameTextMapHash }

type ReliquaryAffixRow struct {
	ID        uint32  `json:"id"`
	PropType  string  `json:"propType"`
	PropValue float64 `json:"propValue"`
}

func (ReliquaryAffixRow) RequiredFields() []string { return []string{"id", "propType", "propValue"} }

type ReliquaryRow struct {
	ID        uint32 `json:"id"`
	EquipType string `json:"equipType"`
	RankLevel uint32 `json:"rankLevel"`
	SetID     uint32 `json:"setId"`
}

func (ReliquaryRow) RequiredFields() []string {
	return []string{"id", "equipType", "rankLevel", "setId"}
}

type ReliquaryMainPropRow struct {
	ID       uint32 `json:"id"`
	PropType string `json:"propType"`
}

func (ReliquaryMainPropRow) RequiredFields() []string { return []string{"id", "propType"} }

type WeaponRow struct {
	ID              uint32 `json:"id"`
	NameTextMapHash uint32 `json:"nameTextMapHash"`
	RankLevel       uint32 `json:"rankLevel"`
}

func (WeaponRow) RequiredFields() []string { return []string{"id", "nameTextMapHash", "rankLevel"} }
