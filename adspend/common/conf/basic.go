package conf

import (
	"flag"
)

// CliFlags defines the basic set of flags that are independent of the config definition
type CliFlags struct {
	ConfigFile             *string
	WriteDefaultConfigFile *string
	VersionInfo            *bool
	RawConfig              ArgMap
}

// ParseCliArgs registers the fixed flags plus one flag per `s-cli` field in definition, and parses os.Args
func ParseCliArgs(definition interface{}) *CliFlags {
	flags := &CliFlags{
		ConfigFile:             flag.String("config", "", "a JSON configuration file"),
		WriteDefaultConfigFile: flag.String("write-default-config", "", "write a default configuration file"),
		VersionInfo:            flag.Bool("version", false, "Print the version"),
		RawConfig:              MakeCliArgMapFor(definition),
	}

	flag.Parse()
	return flags
}
