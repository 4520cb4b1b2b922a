package dictbackup

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/rimetools/udbclean/pkg/util"
)

// Format represents the compression format for pre-clean snapshots.
type Format string

const (
	Gzip Format = "gz"
	Zstd Format = "zst"
)

var formatToString = map[Format]string{
	Gzip: "gz",
	Zstd: "zst",
}

var stringToFormat map[string]Format

func init() {
	// Inverting the map at runtime ensures formatToString is fully loaded
	stringToFormat = util.InvertMap(formatToString)
}

func (f Format) String() string {
	if str, ok := formatToString[f]; ok {
		return str
	}
	return fmt.Sprintf("unknown_backup_format(%s)", string(f))
}

func ParseFormat(s string) (Format, error) {
	if format, ok := stringToFormat[s]; ok {
		return format, nil
	}
	return "", fmt.Errorf("invalid backup format: %q. Must be 'gz' or 'zst'", s)
}

// MarshalYAML implements the yaml.Marshaler interface for Format.
func (f Format) MarshalYAML() (interface{}, error) {
	return f.String(), nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Format.
func (f *Format) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("backup format should be a string: %w", err)
	}
	format, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = format
	return nil
}
