// Package sdb stores the inventory serial database: the versioned schema that
// gives meaning to the bit fields of an item serial.
//
// Each category carries an ascending list of (version, bits) thresholds and a
// 1-indexed list of asset identifiers. A DB is immutable once loaded and safe
// to share between goroutines.
package sdb

type (
	VersionBits struct {
		Version int `json:"version"`
		Bits    int `json:"bits"`
	}
	Category struct {
		Versions []VersionBits `json:"versions"`
		Assets   []string      `json:"assets"`
	}
	DB struct {
		categories map[string]Category
		maxVersion int
	}
)

const (
	CategoryBalance      = "InventoryBalanceData"
	CategoryInvData      = "InventoryData"
	CategoryManufacturer = "ManufacturerData"
	CategoryGenericPart  = "InventoryGenericPartData"
)
