package cli

import (
	"encoding/json"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/thanhnguyen2187/bl3-savior/config"
)

// cborMode encodes with Core Deterministic Encoding, so the same item always
// renders to the same bytes. Struct fields follow their json tags.
var cborMode cbor.EncMode

func init() {
	var err error
	cborMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cli: CBOR encoder initialization failed: " + err.Error())
	}
}

// Render writes v to w in format.
func Render(w io.Writer, format string, v any) error {
	switch format {
	case config.FormatJSON:
		bs, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return errors.Wrap(err, "Render error: JSON")
		}
		_, err = w.Write(append(bs, '\n'))
		return err
	case config.FormatYAML:
		return renderYAML(w, v)
	case config.FormatCBOR:
		bs, err := cborMode.Marshal(v)
		if err != nil {
			return errors.Wrap(err, "Render error: CBOR")
		}
		_, err = w.Write(bs)
		return err
	}
	return errors.Errorf(`Render error: unknown format "%s"`, format)
}

// renderYAML goes through JSON so that field names and omitted fields match
// the other formats.
func renderYAML(w io.Writer, v any) error {
	bs, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "Render error: YAML")
	}
	node := yaml.Node{}
	if err := yaml.Unmarshal(bs, &node); err != nil {
		return errors.Wrap(err, "Render error: YAML")
	}
	clearStyle(&node)

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(&node); err != nil {
		return errors.Wrap(err, "Render error: YAML")
	}
	return errors.Wrap(encoder.Close(), "Render error: YAML")
}

// clearStyle turns the flow style parsed from JSON back into block style.
func clearStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		clearStyle(child)
	}
}
