package palette

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ErrInvalidColor is returned when a palette file contains something that is not a css hex color
var ErrInvalidColor = errors.New("invalid color")

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// File is the on-disk representation of a palette
//
//	colors:
//	  VVD: "#ff7709"
//	  male: "#0000ff"
//	parties: [VVD, D66]
type File struct {
	Colors  map[string]string `yaml:"colors"`
	Parties []string          `yaml:"parties"`
}

// LoadFile reads and validates a YAML palette file
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading palette file (%s): %w", path, err)
	}

	var parsed File
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("error parsing palette file (%s): %w", path, err)
	}

	if err := ValidateColors(parsed.Colors); err != nil {
		return nil, fmt.Errorf("palette file (%s): %w", path, err)
	}

	return &parsed, nil
}

// ValidateColors checks that every value in the table is a css hex color
func ValidateColors(colors map[string]string) error {
	for label, color := range colors {
		if !hexColor.MatchString(color) {
			return fmt.Errorf("%w %q for label %q", ErrInvalidColor, color, label)
		}
	}
	return nil
}

// Source returns the colors of the file as a static table
func (f *File) Source() *Static {
	return NewStatic(f.Colors)
}
