package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Current schema versions. Bump when a file format changes incompatibly and
// add the new identifier to MinTackVersion.
const (
	CurrentCardVersion     = 1
	CurrentBoardVersion    = 1
	CurrentSettingsVersion = 1
)

// Schema type prefixes for TOML files.
const (
	BoardSchemaPrefix    = "board/"
	SettingsSchemaPrefix = "settings/"
)

// MinTackVersion maps schema identifiers to the first tack release that
// understands them.
var MinTackVersion = map[string]string{
	"card/1":     "0.1.0",
	"board/1":    "0.1.0",
	"settings/1": "0.1.0",
}

// FormatBoardSchema creates a board schema string, e.g. "board/1".
func FormatBoardSchema(v int) string {
	return fmt.Sprintf("%s%d", BoardSchemaPrefix, v)
}

// FormatSettingsSchema creates a settings schema string, e.g. "settings/1".
func FormatSettingsSchema(v int) string {
	return fmt.Sprintf("%s%d", SettingsSchemaPrefix, v)
}

func ParseBoardVersion(schema string) (int, error) {
	return parseSchemaVersion(schema, BoardSchemaPrefix, "board")
}

func ParseSettingsVersion(schema string) (int, error) {
	return parseSchemaVersion(schema, SettingsSchemaPrefix, "settings")
}

func parseSchemaVersion(schema, prefix, schemaType string) (int, error) {
	if !strings.HasPrefix(schema, prefix) {
		return 0, fmt.Errorf("invalid %s schema format: %q (expected %sN)", schemaType, schema, prefix)
	}
	v, err := strconv.Atoi(strings.TrimPrefix(schema, prefix))
	if err != nil {
		return 0, fmt.Errorf("invalid %s schema version: %q", schemaType, schema)
	}
	if v < 1 {
		return 0, fmt.Errorf("invalid %s schema version: %d (must be >= 1)", schemaType, v)
	}
	return v, nil
}

func CurrentBoardSchema() string {
	return FormatBoardSchema(CurrentBoardVersion)
}

func CurrentSettingsSchema() string {
	return FormatSettingsSchema(CurrentSettingsVersion)
}
