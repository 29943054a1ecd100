package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alexflint/go-arg"
	"github.com/pkg/errors"

	"github.com/thanhnguyen2187/bl3-savior/config"
	"github.com/thanhnguyen2187/bl3-savior/ds"
	"github.com/thanhnguyen2187/bl3-savior/serial"
	"github.com/thanhnguyen2187/bl3-savior/serial/sclass"
	"github.com/thanhnguyen2187/bl3-savior/serial/sdb"
	"github.com/thanhnguyen2187/bl3-savior/serial/sitem"
)

type (
	Args struct {
		Config string     `help:"path to the config file" placeholder:"bl3-savior.yaml"`
		Decode *DecodeCmd `arg:"subcommand:decode" help:"decode a serial and print the item"`
		Encode *EncodeCmd `arg:"subcommand:encode" help:"encode a decoded item back to a serial"`
		Batch  *BatchCmd  `arg:"subcommand:batch" help:"decode a file of serials, one per line"`
		PackDB *PackDBCmd `arg:"subcommand:pack-db" help:"compress an inventory serial database"`
	}
	DecodeCmd struct {
		Serial string `arg:"positional,required" placeholder:"BL3(...)"`
		Format string `help:"json, yaml or cbor"`
	}
	EncodeCmd struct {
		From string `arg:"required" help:"path to an item in JSON" placeholder:"item.json"`
		Seed *int32 `help:"seed to encode with, the item's own by default"`
	}
	BatchCmd struct {
		From   string `arg:"required" help:"path to the serials" placeholder:"serials.txt"`
		Format string `help:"json, yaml or cbor"`
	}
	PackDBCmd struct {
		From  string `arg:"required" help:"path to a plain JSON database" placeholder:"db.json"`
		To    string `arg:"required" help:"path to the compressed output" placeholder:"db.json.zst"`
		Force bool   `help:"overwrite the destination file"`
	}
)

func (Args) Description() string {
	des := strings.Join(
		[]string{
			"Decode, inspect and re-encode Borderlands 3 item serials.\n",
			"Serials are read and written in their shareable BL3(...) form.",
		},
		"\n",
	)
	des += "\n"
	return des
}

func CheckExistence(path string) bool {
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false
	}
	return err == nil
}

// LoadSchema returns the database configured by cfg, or the bundled one.
func LoadSchema(cfg config.Config) (*sdb.DB, error) {
	if cfg.SchemaPath == "" {
		return sdb.Default()
	}
	return sdb.LoadFile(cfg.SchemaPath)
}

// LoadBalances switches to the balance table configured by cfg, if any.
func LoadBalances(cfg config.Config) error {
	if cfg.BalancePath == "" {
		return nil
	}
	table, err := sclass.LoadTableFile(cfg.BalancePath)
	if err != nil {
		return err
	}
	sclass.Use(table)
	return nil
}

func StartDecoding(db *sdb.DB, cmd DecodeCmd, format string, w io.Writer) error {
	item, err := serial.DecodeSerial(db, cmd.Serial)
	if err != nil {
		return err
	}
	return Render(w, pickFormat(cmd.Format, format), item)
}

func StartEncoding(db *sdb.DB, cmd EncodeCmd, stripSeed bool, w io.Writer) error {
	bs, err := os.ReadFile(cmd.From)
	if err != nil {
		return errors.Wrap(err, "StartEncoding error: read item")
	}
	item := sitem.Item{}
	if err := json.Unmarshal(bs, &item); err != nil {
		return errors.Wrap(err, "StartEncoding error: parse item")
	}

	seed := item.Seed
	switch {
	case cmd.Seed != nil:
		seed = *cmd.Seed
	case stripSeed:
		seed = 0
	}
	s, err := serial.EncodeSerial(db, &item, seed)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, s)
	return err
}

func StartBatch(ctx context.Context, db *sdb.DB, cmd BatchCmd, cfg config.Config, w io.Writer) error {
	file, err := os.Open(cmd.From)
	if err != nil {
		return errors.Wrap(err, "StartBatch error: open serials")
	}
	defer file.Close()

	serials := make([]string, 0, 64)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		serials = append(serials, line)
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "StartBatch error: read serials")
	}

	result, err := serial.DecodeSerials(ctx, db, serials, cfg.BatchWorkers)
	if err != nil {
		return errors.Wrap(err, "StartBatch error")
	}
	slog.Info("decoded batch", "items", len(result.Items), "failures", len(result.Failures))

	format := pickFormat(cmd.Format, cfg.OutputFormat)
	if format != config.FormatJSON {
		return Render(w, format, result.Items)
	}
	// one item per line
	for _, item := range result.Items {
		if _, err := fmt.Fprintln(w, ds.DumpJSON(item)); err != nil {
			return err
		}
	}
	return nil
}

func StartPacking(cmd PackDBCmd) error {
	if !CheckExistence(cmd.From) {
		return errors.Errorf(`source file "%s" does not exist`, cmd.From)
	}
	if CheckExistence(cmd.To) && !cmd.Force {
		return errors.Errorf(`destination file "%s" exists, pass --force to overwrite it`, cmd.To)
	}

	from, err := os.Open(cmd.From)
	if err != nil {
		return errors.Wrap(err, "StartPacking error")
	}
	defer from.Close()
	// the destination is replaced only once the packed file is complete
	to, err := os.CreateTemp(filepath.Dir(cmd.To), filepath.Base(cmd.To)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "StartPacking error")
	}
	if err := packInto(to, from, cmd.To); err != nil {
		os.Remove(to.Name())
		return err
	}
	return nil
}

func packInto(to *os.File, from io.Reader, dest string) error {
	if err := sdb.Pack(to, from); err != nil {
		to.Close()
		return err
	}
	if err := to.Chmod(0644); err != nil {
		to.Close()
		return errors.Wrap(err, "StartPacking error")
	}
	if err := to.Close(); err != nil {
		return errors.Wrap(err, "StartPacking error")
	}
	return errors.Wrap(os.Rename(to.Name(), dest), "StartPacking error")
}

// Run executes the chosen subcommand.
func Run(ctx context.Context, args Args, cfg config.Config, w io.Writer) error {
	if args.PackDB != nil {
		return StartPacking(*args.PackDB)
	}

	if err := LoadBalances(cfg); err != nil {
		return err
	}
	db, err := LoadSchema(cfg)
	if err != nil {
		return err
	}
	switch {
	case args.Decode != nil:
		return StartDecoding(db, *args.Decode, cfg.OutputFormat, w)
	case args.Encode != nil:
		return StartEncoding(db, *args.Encode, cfg.StripSeed, w)
	case args.Batch != nil:
		return StartBatch(ctx, db, *args.Batch, cfg, w)
	}
	return ds.ErrUnreachableCode{Caller: "cli.Run", Reason: "no subcommand"}
}

func Start() {
	args := Args{}
	parser := arg.MustParse(&args)
	if parser.Subcommand() == nil {
		parser.WriteHelp(os.Stdout)
		return
	}

	configPath := args.Config
	if configPath == "" {
		configPath = config.Path()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		println(err.Error())
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx, args, cfg, os.Stdout); err != nil {
		slog.Error("command failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func pickFormat(flag string, configured string) string {
	if flag != "" {
		return flag
	}
	return configured
}
