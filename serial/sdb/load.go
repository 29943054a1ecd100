package sdb

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// CompressedExt marks database files that need zstd decoding.
const CompressedExt = ".zst"

//go:embed inventory_serial_db.json.zst
var defaultAsset []byte

var (
	defaultOnce sync.Once
	defaultDB   *DB
	defaultErr  error
)

// Default returns the bundled database, loading it on the first call.
// A failure here means the binary itself is broken and should be treated as
// fatal at startup.
func Default() (*DB, error) {
	defaultOnce.Do(func() {
		defaultDB, defaultErr = LoadCompressed(bytes.NewReader(defaultAsset))
		if defaultErr != nil {
			defaultErr = errors.Wrap(defaultErr, "sdb.Default error")
		}
	})
	return defaultDB, defaultErr
}

// Load parses a plain JSON database.
func Load(r io.Reader) (*DB, error) {
	categories := map[string]Category{}
	if err := json.NewDecoder(r).Decode(&categories); err != nil {
		return nil, errors.Wrap(err, "sdb.Load error: decode JSON")
	}
	if len(categories) == 0 {
		return nil, errors.New("sdb.Load error: database has no categories")
	}
	for name, category := range categories {
		if err := validateCategory(name, category); err != nil {
			return nil, errors.Wrap(err, "sdb.Load error")
		}
	}

	maxVersion := lo.Reduce(
		lo.Values(categories),
		func(result int, category Category, _ int) int {
			last := category.Versions[len(category.Versions)-1]
			return max(result, last.Version)
		},
		0,
	)
	db := DB{
		categories: categories,
		maxVersion: maxVersion,
	}
	slog.Debug(
		"loaded inventory serial db",
		"categories", len(categories),
		"max_version", maxVersion,
	)

	return &db, nil
}

// LoadCompressed parses a zstd compressed JSON database.
func LoadCompressed(r io.Reader) (*DB, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "sdb.LoadCompressed error: create zstd reader")
	}
	defer decoder.Close()

	db, err := Load(decoder)
	if err != nil {
		return nil, errors.Wrap(err, "sdb.LoadCompressed error")
	}
	return db, nil
}

// LoadFile reads a database from disk; files ending with CompressedExt are
// zstd decoded first.
func LoadFile(path string) (*DB, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, `sdb.LoadFile error: open "%s"`, path)
	}
	defer file.Close()

	if strings.HasSuffix(path, CompressedExt) {
		return LoadCompressed(file)
	}
	return Load(file)
}

// Pack validates a plain JSON database from r and writes it zstd compressed
// to w, in the format of the bundled asset.
func Pack(w io.Writer, r io.Reader) error {
	plain, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "sdb.Pack error: read input")
	}
	if _, err := Load(bytes.NewReader(plain)); err != nil {
		return errors.Wrap(err, "sdb.Pack error")
	}

	encoder, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return errors.Wrap(err, "sdb.Pack error: create zstd writer")
	}
	if _, err := encoder.Write(plain); err != nil {
		encoder.Close()
		return errors.Wrap(err, "sdb.Pack error: compress")
	}
	return errors.Wrap(encoder.Close(), "sdb.Pack error: flush")
}

func validateCategory(name string, category Category) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("empty category name")
	}
	if len(category.Versions) == 0 {
		return fmt.Errorf(`category "%s" has no versions`, name)
	}
	for i, versionBits := range category.Versions {
		if versionBits.Bits < 1 || versionBits.Bits > 64 {
			return fmt.Errorf(
				`category "%s": invalid width %d at version %d`,
				name, versionBits.Bits, versionBits.Version,
			)
		}
		if i > 0 && versionBits.Version <= category.Versions[i-1].Version {
			return fmt.Errorf(
				`category "%s": versions are not ascending at %d`,
				name, versionBits.Version,
			)
		}
	}
	return nil
}
