package sclass

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

type (
	// BalanceInfo is what the static table knows about a balance.
	BalanceInfo struct {
		Ident  string `yaml:"ident"`
		InvKey string `yaml:"inv_key"`
		Rarity Rarity `yaml:"rarity"`
		Name   string `yaml:"name"`
	}
	tableFile struct {
		Balances      []BalanceInfo     `yaml:"balances"`
		Manufacturers map[string]string `yaml:"manufacturers"`
	}
	// Table maps balances and manufacturers to their static properties.
	// Keys are matched ignoring case.
	Table struct {
		balances      map[string]BalanceInfo
		manufacturers map[string]string
	}
)

//go:embed balances.yaml
var defaultAsset []byte

var (
	bundledOnce  sync.Once
	bundledTable *Table
	activeTable  atomic.Pointer[Table]
)

// Default returns the table behind the package level lookups: the one given
// to Use, or the bundled one.
func Default() *Table {
	if table := activeTable.Load(); table != nil {
		return table
	}
	return Bundled()
}

// Bundled returns the table compiled into the binary. The bundled file is
// part of the binary, so failing to parse it panics.
func Bundled() *Table {
	bundledOnce.Do(func() {
		table, err := LoadTable(bytes.NewReader(defaultAsset))
		if err != nil {
			panic(errors.Wrap(err, "sclass.Bundled error"))
		}
		bundledTable = table
	})
	return bundledTable
}

// Use makes table the one returned by Default. Passing nil goes back to the
// bundled table. Call it at startup, before decoding.
func Use(table *Table) {
	activeTable.Store(table)
}

// LoadTableFile reads a YAML table in the format of the bundled one.
func LoadTableFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, `sclass.LoadTableFile error: open "%s"`, path)
	}
	defer file.Close()

	return LoadTable(file)
}

func LoadTable(r io.Reader) (*Table, error) {
	file := tableFile{}
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, errors.Wrap(err, "sclass.LoadTable error: decode YAML")
	}

	balances := make(map[string]BalanceInfo, len(file.Balances))
	for _, info := range file.Balances {
		if info.Ident == "" || info.InvKey == "" {
			return nil, errors.Errorf(`sclass.LoadTable error: incomplete balance "%s"`, info.Ident)
		}
		if info.Rarity == "" {
			info.Rarity = RarityUnknown
		}
		if !lo.Contains(rarities, info.Rarity) {
			return nil, errors.Errorf(
				`sclass.LoadTable error: balance "%s" has unknown rarity "%s"`,
				info.Ident, info.Rarity,
			)
		}
		key := strings.ToLower(info.Ident)
		if _, ok := balances[key]; ok {
			return nil, errors.Errorf(`sclass.LoadTable error: duplicated balance "%s"`, info.Ident)
		}
		balances[key] = info
	}

	manufacturers := lo.MapKeys(
		file.Manufacturers,
		func(_ string, key string) string { return strings.ToLower(key) },
	)

	return &Table{
		balances:      balances,
		manufacturers: manufacturers,
	}, nil
}

// Balance returns the table entry of a full balance identifier.
func (t *Table) Balance(ident string) (BalanceInfo, bool) {
	info, ok := t.balances[strings.ToLower(ident)]
	return info, ok
}

// InvKey returns the part category of balance, or "" when the balance has no
// parts section.
func (t *Table) InvKey(balance string) string {
	info, _ := t.Balance(balance)
	return info.InvKey
}

func (t *Table) Rarity(balance string) Rarity {
	info, ok := t.Balance(balance)
	if !ok {
		return RarityUnknown
	}
	return info.Rarity
}

// BalanceName returns the display name of balance, "" if it has none.
func (t *Table) BalanceName(balance string) string {
	info, _ := t.Balance(balance)
	return info.Name
}

// ManufacturerName takes a manufacturer short identifier like "Hyperion".
func (t *Table) ManufacturerName(shortIdent string) string {
	return t.manufacturers[strings.ToLower(shortIdent)]
}

func InvKey(balance string) string {
	return Default().InvKey(balance)
}

func RarityOf(balance string) Rarity {
	return Default().Rarity(balance)
}

func BalanceName(balance string) string {
	return Default().BalanceName(balance)
}

func ManufacturerName(shortIdent string) string {
	return Default().ManufacturerName(shortIdent)
}
