package conf

import (
	"flag"
	"os"
	"reflect"
	"strconv"
	"strings"
)

const (
	tagNested      = "s-nested"
	tagDefault     = "s-def"
	tagCliArgName  = "s-cli"
	tagDescription = "s-desc"
	tagEnv         = "s-env"

	typeString      = "string"
	typeStringSlice = "[]string"
	typeInt64       = "int64"
	typeBool        = "bool"
)

// ArgMap holds the pointers returned by the flag package, indexed by cli argument name
type ArgMap map[string]interface{}

// MakeCliArgMapFor walks the config definition and registers one flag per `s-cli` tagged field
func MakeCliArgMapFor(source interface{}) ArgMap {
	return registerFlagsRecursive(reflect.ValueOf(source).Elem(), flag.CommandLine)
}

// PopulateDefaults iterates the passed structure and populates the fields with the value defined in the `s-def` tag
func PopulateDefaults(target interface{}) error {
	visitFields(reflect.ValueOf(target).Elem(), func(field reflect.Value, meta reflect.StructField) {
		def, ok := meta.Tag.Lookup(tagDefault)
		if !ok {
			return
		}
		// empty lists still default to an empty, non nil slice
		if def != "" || meta.Type.String() == typeStringSlice {
			setFromString(field, meta.Type.String(), def)
		}
	})
	return nil
}

// PopulateFromArguments copies into target every cli value that differs from the field's default
func PopulateFromArguments(target interface{}, argMap ArgMap) {
	visitFields(reflect.ValueOf(target).Elem(), func(field reflect.Value, meta reflect.StructField) {
		name := meta.Tag.Get(tagCliArgName)
		if name == "" {
			return
		}

		def := meta.Tag.Get(tagDefault)
		switch meta.Type.String() {
		case typeString:
			if v, ok := argMap.getString(name); ok && v != def {
				field.SetString(v)
			}
		case typeStringSlice:
			if v, ok := argMap.getStringSlice(name); ok && !strSliceEquals(v, splitList(def)) {
				field.Set(reflect.ValueOf(v))
			}
		case typeInt64:
			if v, ok := argMap.getInt64(name); ok && v != parseInt64(def) {
				field.SetInt(v)
			}
		case typeBool:
			if v, ok := argMap.getBool(name); ok && v != parseBool(def) {
				field.SetBool(v)
			}
		}
	})
}

// PopulateFromEnv overrides fields tagged with `s-env` using PREFIX + tag value environment variables
func PopulateFromEnv(target interface{}, prefix string) {
	visitFields(reflect.ValueOf(target).Elem(), func(field reflect.Value, meta reflect.StructField) {
		name := meta.Tag.Get(tagEnv)
		if name == "" {
			return
		}

		if raw, ok := os.LookupEnv(prefix + name); ok {
			setFromString(field, meta.Type.String(), raw)
		}
	})
}

func visitFields(val reflect.Value, visit func(reflect.Value, reflect.StructField)) {
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		meta := val.Type().Field(i)
		if meta.Tag.Get(tagNested) != "" {
			visitFields(field, visit)
			continue
		}
		visit(field, meta)
	}
}

func setFromString(field reflect.Value, attributeType string, raw string) {
	switch attributeType {
	case typeString:
		field.SetString(raw)
	case typeStringSlice:
		field.Set(reflect.ValueOf(splitList(raw)))
	case typeInt64:
		field.SetInt(parseInt64(raw))
	case typeBool:
		field.SetBool(parseBool(raw))
	}
}

func registerFlagsRecursive(val reflect.Value, flags *flag.FlagSet) ArgMap {
	toReturn := make(ArgMap)
	visitFields(val, func(_ reflect.Value, meta reflect.StructField) {
		name := meta.Tag.Get(tagCliArgName)
		if name == "" {
			return
		}

		def := meta.Tag.Get(tagDefault)
		desc := meta.Tag.Get(tagDescription)
		switch meta.Type.String() {
		case typeString, typeStringSlice: // lists travel as comma separated strings
			toReturn[name] = flags.String(name, def, desc)
		case typeInt64:
			toReturn[name] = flags.Int64(name, parseInt64(def), desc)
		case typeBool:
			toReturn[name] = flags.Bool(name, parseBool(def), desc)
		}
	})
	return toReturn
}

func (m ArgMap) getBool(name string) (bool, bool) {
	asBoolPointer, ok := m[name].(*bool)
	if !ok || asBoolPointer == nil {
		return false, false
	}
	return *asBoolPointer, true
}

func (m ArgMap) getString(name string) (string, bool) {
	asStrPointer, ok := m[name].(*string)
	if !ok || asStrPointer == nil {
		return "", false
	}
	return *asStrPointer, true
}

func (m ArgMap) getInt64(name string) (int64, bool) {
	asIntPointer, ok := m[name].(*int64)
	if !ok || asIntPointer == nil {
		return 0, false
	}
	return *asIntPointer, true
}

func (m ArgMap) getStringSlice(name string) ([]string, bool) {
	str, ok := m.getString(name)
	if !ok {
		return nil, false
	}
	return splitList(str), true
}

func splitList(str string) []string {
	if str == "" {
		return []string{}
	}
	parts := strings.Split(str, ",")
	for idx := range parts {
		parts[idx] = strings.TrimSpace(parts[idx])
	}
	return parts
}

func parseInt64(str string) int64 {
	v, _ := strconv.ParseInt(str, 10, 64)
	return v
}

func parseBool(str string) bool {
	v, _ := strconv.ParseBool(str)
	return v
}

func strSliceEquals(s1, s2 []string) bool {
	if len(s1) != len(s2) {
		return false
	}

	for idx := range s1 {
		if s1[idx] != s2[idx] {
			return false
		}
	}
	return true
}
