package cfgloader

import (
	"log/slog"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

const maskedValue = "********"

func printConfig(config any) {
	out, err := yaml.Marshal(maskedView(reflect.ValueOf(config)))
	if err != nil {
		slog.Error("[cfgloader]: failed to marshal config", "error", err.Error())
		return
	}
	slog.Info("[cfgloader]: loaded config:\n" + string(out))
}

// maskedView converts structs into yaml-keyed maps, replacing the values of
// fields tagged `mask:"true"` unless they are zero.
func maskedView(val reflect.Value) any {
	if !val.IsValid() {
		return nil
	}

	switch val.Kind() { //nolint:exhaustive // scalars are returned as is
	case reflect.Ptr, reflect.Interface:
		if val.IsNil() {
			return nil
		}
		return maskedView(val.Elem())

	case reflect.Struct:
		out := make(map[string]any, val.NumField())
		typ := val.Type()
		for i := range val.NumField() {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			name := yamlName(field)
			if name == "-" {
				continue
			}
			fv := val.Field(i)
			if field.Tag.Get("mask") == "true" && !fv.IsZero() {
				out[name] = maskedValue
				continue
			}
			out[name] = maskedView(fv)
		}
		return out

	default:
		return val.Interface()
	}
}

func yamlName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
	if name == "" {
		return strings.ToLower(field.Name)
	}
	return name
}
