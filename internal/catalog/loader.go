// Package catalog decodes roster documents into a model.Catalog.
//
// A catalog file holds the sets, teams and players an auction starts from.
// JSON and YAML are supported; the format is picked from the file extension.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mcoot/auctionhouse/internal/model"
)

// Format is a catalog document encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Unknown extensions are read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads a catalog file. An empty path yields the empty catalog with default sets.
func Load(path string) (model.Catalog, error) {
	if path == "" {
		return model.EmptyCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Decode(data, FormatFromPath(path))
}

// Decode parses a catalog document. Missing sets fall back to the defaults.
func Decode(data []byte, format Format) (model.Catalog, error) {
	var c model.Catalog
	if err := unmarshal(data, format, &c); err != nil {
		return model.Catalog{}, err
	}
	if len(c.Sets) == 0 {
		c.Sets = append([]string(nil), model.DefaultSets...)
	}
	if c.Teams == nil {
		c.Teams = []model.Team{}
	}
	if c.Players == nil {
		c.Players = []model.Player{}
	}
	return c, nil
}

// DecodeTeams parses a bare list of teams
func DecodeTeams(data []byte, format Format) ([]model.Team, error) {
	var teams []model.Team
	if err := unmarshal(data, format, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// DecodePlayers parses a bare list of players
func DecodePlayers(data []byte, format Format) ([]model.Player, error) {
	var players []model.Player
	if err := unmarshal(data, format, &players); err != nil {
		return nil, err
	}
	return players, nil
}

func unmarshal(data []byte, format Format, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: empty document", model.ErrInvalidCatalog)
	}
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, v)
	case FormatJSON:
		err = json.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: unsupported format %q", model.ErrInvalidCatalog, format)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidCatalog, err)
	}
	return nil
}
