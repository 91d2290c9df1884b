package conf

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	validator "github.com/splitio/go-toolkit/v5/json-struct-validator"
)

// ErrNoFile is the error to return when an empty config file name is passed
var ErrNoFile = errors.New("no config file provided")

// PopulateConfigFromFile parses a json config file and populates the config struct passed as an argument.
// Keys that don't map to a field of target are rejected.
func PopulateConfigFromFile(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file (%s): %w", path, err)
	}

	if err = json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("error parsing JSON config file (%s): %w", path, err)
	}

	if err = validator.ValidateConfiguration(target, data); err != nil {
		return fmt.Errorf("error validating provided JSON file (%s): %w", path, err)
	}

	return nil
}

// WriteDefaultConfigFile writes the default config definition to a JSON file
func WriteDefaultConfigFile(name string, definition interface{}) error {
	if name == "" {
		return ErrNoFile
	}

	if err := PopulateDefaults(definition); err != nil {
		return fmt.Errorf("error populating defaults: %w", err)
	}

	data, err := json.MarshalIndent(definition, "", "  ")
	if err != nil {
		return fmt.Errorf("error serializing definition: %w", err)
	}

	if err := os.WriteFile(name, data, 0644); err != nil {
		return fmt.Errorf("error writing defaults to file: %w", err)
	}

	return nil
}
