package version

import "fmt"

// SchemaVersionError indicates a schema version problem during file read/write.
type SchemaVersionError struct {
	FileType    string // "card", "board config", "settings"
	FilePath    string
	Found       string // "missing", "2", "board/2"
	Expected    string
	MinRequired string // tack release needed, when the file is newer
}

func (e *SchemaVersionError) Error() string {
	if e.MinRequired != "" {
		return fmt.Sprintf(
			"%s schema version %s requires tack >= %s (file: %s, supports up to: %s)",
			e.FileType, e.Found, e.MinRequired, e.FilePath, e.Expected,
		)
	}
	if e.Found == "missing" {
		return fmt.Sprintf("%s has no schema version (file: %s)", e.FileType, e.FilePath)
	}
	return fmt.Sprintf(
		"%s has invalid schema version: found %s, expected %s (file: %s)",
		e.FileType, e.Found, e.Expected, e.FilePath,
	)
}

func minRequired(key string) string {
	if v, ok := MinTackVersion[key]; ok {
		return v
	}
	return "a newer version"
}

// InvalidCardVersion creates an error for a card file with an unsupported _v.
func InvalidCardVersion(path string, found int) error {
	e := &SchemaVersionError{
		FileType: "card",
		FilePath: path,
		Found:    fmt.Sprintf("%d", found),
		Expected: fmt.Sprintf("%d", CurrentCardVersion),
	}
	if found == 0 {
		e.Found = "missing"
	} else if found > CurrentCardVersion {
		e.MinRequired = minRequired(fmt.Sprintf("card/%d", found))
	}
	return e
}

// CheckBoardSchema validates the tack_schema value of a board config.
func CheckBoardSchema(path, found string) error {
	return checkSchema("board config", path, found, CurrentBoardSchema(), CurrentBoardVersion, ParseBoardVersion)
}

// CheckSettingsSchema validates the tack_schema value of a settings file.
func CheckSettingsSchema(path, found string) error {
	return checkSchema("settings", path, found, CurrentSettingsSchema(), CurrentSettingsVersion, ParseSettingsVersion)
}

func checkSchema(fileType, path, found, expected string, current int, parse func(string) (int, error)) error {
	if found == "" {
		return &SchemaVersionError{FileType: fileType, FilePath: path, Found: "missing", Expected: expected}
	}
	if found == expected {
		return nil
	}
	e := &SchemaVersionError{FileType: fileType, FilePath: path, Found: found, Expected: expected}
	if v, err := parse(found); err == nil && v > current {
		e.MinRequired = minRequired(found)
	}
	return e
}
