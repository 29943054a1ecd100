package sclass

import (
	"strings"
)

// WeaponTypeOf returns the weapon type encoded in a balance identifier, or
// WeaponTypeNone for anything that is not a gun.
func WeaponTypeOf(balance string) WeaponType {
	for _, rule := range weaponTypeRules {
		if strings.Contains(balance, rule.marker) {
			return rule.weaponType
		}
	}
	return WeaponTypeNone
}

// ItemTypeOf classifies an item: guns first, then by part category, then Other.
func ItemTypeOf(balance string, invKey string) ItemType {
	if WeaponTypeOf(balance) != WeaponTypeNone {
		return ItemTypeWeapon
	}
	for _, rule := range itemTypeRules {
		if strings.HasPrefix(invKey, rule.prefix) {
			return rule.itemType
		}
	}
	return ItemTypeOther
}
