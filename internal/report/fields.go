package report

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Renderings walk record structs with reflection so a new record field shows
// up in every format without touching the renderers. Field order follows
// struct declaration order, which keeps columns stable across rows.

type field struct {
	Label string
	Value string
}

// recordFields returns the exported fields of a record struct as label/value
// pairs in declaration order.
func recordFields(v any) []field {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return []field{{Label: "Value", Value: formatValue(rv)}}
	}

	rt := rv.Type()
	fields := make([]field, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		fields = append(fields, field{
			Label: labelFor(sf),
			Value: formatValue(rv.Field(i)),
		})
	}
	return fields
}

// recordLabels returns just the labels, for table headers.
func recordLabels(v any) []string {
	fields := recordFields(v)
	labels := make([]string, len(fields))
	for i, f := range fields {
		labels[i] = f.Label
	}
	return labels
}

// labelFor derives a display label from the json tag, falling back to the Go
// field name.
func labelFor(sf reflect.StructField) string {
	tag := strings.Split(sf.Tag.Get("json"), ",")[0]
	if tag == "" || tag == "-" {
		tag = sf.Name
	}

	words := strings.Split(tag, "_")
	for i, w := range words {
		if special, ok := labelOverrides[w]; ok {
			words[i] = special
			continue
		}
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

var labelOverrides = map[string]string{
	"nct":  "NCT",
	"id":   "ID",
	"ipc":  "IPC",
	"cagr": "CAGR",
	"url":  "URL",
}

func formatValue(rv reflect.Value) string {
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', 2, 64)
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts[i] = formatValue(rv.Index(i))
		}
		return strings.Join(parts, ", ")
	case reflect.Invalid:
		return ""
	default:
		return fmt.Sprintf("%v", rv.Interface())
	}
}
