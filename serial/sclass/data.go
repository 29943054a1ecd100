// Package sclass classifies items from their balance and part category.
//
// Classification is table driven: each table is an ordered list of rules
// evaluated in priority order, and the first matching rule wins.
package sclass

type (
	WeaponType string
	ItemType   string
	Rarity     string

	weaponTypeRule struct {
		marker     string
		weaponType WeaponType
	}
	itemTypeRule struct {
		prefix   string
		itemType ItemType
	}
)

const (
	WeaponTypeNone         = WeaponType("")
	WeaponTypePistol       = WeaponType("pistol")
	WeaponTypeShotgun      = WeaponType("shotgun")
	WeaponTypeSMG          = WeaponType("smg")
	WeaponTypeAssaultRifle = WeaponType("assault_rifle")
	WeaponTypeSniperRifle  = WeaponType("sniper_rifle")
	WeaponTypeHeavy        = WeaponType("heavy")
)

const (
	ItemTypeWeapon     = ItemType("weapon")
	ItemTypeShield     = ItemType("shield")
	ItemTypeGrenadeMod = ItemType("grenade_mod")
	ItemTypeArtifact   = ItemType("artifact")
	ItemTypeClassMod   = ItemType("class_mod")
	ItemTypeOther      = ItemType("other")
)

const (
	RarityUnknown   = Rarity("unknown")
	RarityCommon    = Rarity("common")
	RarityUncommon  = Rarity("uncommon")
	RarityRare      = Rarity("rare")
	RarityVeryRare  = Rarity("very_rare")
	RarityLegendary = Rarity("legendary")
)

// weaponTypeRules match substrings of the balance identifier.
var weaponTypeRules = []weaponTypeRule{
	{"_PS_", WeaponTypePistol},
	{"_SG_", WeaponTypeShotgun},
	{"_SM_", WeaponTypeSMG},
	{"_AR_", WeaponTypeAssaultRifle},
	{"_SR_", WeaponTypeSniperRifle},
	{"_HW_", WeaponTypeHeavy},
}

// itemTypeRules match prefixes of the part category key.
var itemTypeRules = []itemTypeRule{
	{"BPInvPart_Shield", ItemTypeShield},
	{"BPInvPart_GrenadeMod", ItemTypeGrenadeMod},
	{"BPInvPart_Artifact", ItemTypeArtifact},
	{"BPInvPart_ClassMod", ItemTypeClassMod},
}

var rarities = []Rarity{
	RarityUnknown,
	RarityCommon,
	RarityUncommon,
	RarityRare,
	RarityVeryRare,
	RarityLegendary,
}
