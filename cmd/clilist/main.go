// clilist prints the dashboard configuration options, used to generate the docs and the docker entrypoint
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/partyads/adspend-dashboard/adspend/dashboard/conf"
)

// ConfigOption describes a single leaf of the config definition
type ConfigOption struct {
	CliArg      string
	JSON        string
	Env         string
	Description string
	Type        string
	Default     string
}

func main() {
	output := flag.String("output", "{cli}\\n", "string containing one or more of `cli,env,json,desc,type,default` in braces")
	flag.Parse()
	render(os.Stdout, collect(conf.Main{}), parseSpecialChars(*output))
}

func render(w io.Writer, options []ConfigOption, format string) {
	for _, option := range options {
		replacer := strings.NewReplacer(
			"{cli}", option.CliArg,
			"{env}", option.Env,
			"{json}", option.JSON,
			"{desc}", option.Description,
			"{type}", option.Type,
			"{default}", option.Default,
		)
		fmt.Fprint(w, replacer.Replace(format))
	}
}

// collect walks the config definition depth first, in field order
func collect(definition interface{}) []ConfigOption {
	var options []ConfigOption
	visit(reflect.TypeOf(definition), nil, func(path []string, field reflect.StructField) {
		cli := field.Tag.Get("s-cli")
		if cli == "" {
			return
		}

		env := ""
		if name := field.Tag.Get("s-env"); name != "" {
			env = conf.EnvPrefix + name
		}

		options = append(options, ConfigOption{
			CliArg:      cli,
			JSON:        strings.Join(append(path, jsonName(field)), "."),
			Env:         env,
			Description: field.Tag.Get("s-desc"),
			Type:        field.Type.String(),
			Default:     field.Tag.Get("s-def"),
		})
	})
	return options
}

func visit(rtype reflect.Type, path []string, visitor func([]string, reflect.StructField)) {
	for _, field := range reflect.VisibleFields(rtype) {
		if field.Type.Kind() == reflect.Struct {
			visit(field.Type, append(path, jsonName(field)), visitor)
			continue
		}
		visitor(path, field)
	}
}

func jsonName(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("json"); ok {
		return strings.Split(tag, ",")[0] // remove `omitempty` and other stuff
	}
	return field.Name
}

func parseSpecialChars(s string) string {
	return strings.NewReplacer("\\n", "\n", "\\t", "\t").Replace(s)
}
