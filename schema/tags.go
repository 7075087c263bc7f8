package schema

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FromStruct discovers a schema from the exported fields of a struct type.
//
// Fields are configured with a `dyn` struct tag holding comma separated
// flags and key=value pairs:
//
//	key=name   store the field under name instead of the default key
//	required   the field must be non-null
//	cached     deduplicate values in the binary format
//	meta       keep the value in record metadata
//	-          skip the field
//
// The default key is the field name with its first letter lowered. The
// schema name comes from a `dyn:"schema=name"` tag on a blank field, or
// the lowered type name.
func FromStruct(t reflect.Type) (*Schema, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot discover schema from %s: not a struct", t)
	}
	name := lowerFirst(t.Name())
	var fields []Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		parsed, err := ParseStructTag(sf.Tag.Get("dyn"))
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t.Name(), sf.Name, err)
		}
		if sf.Name == "_" {
			if sn, ok := parsed["schema"]; ok && sn != "" {
				name = sn
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		if _, skip := parsed["-"]; skip {
			continue
		}
		f := Field{Name: lowerFirst(sf.Name), Type: sf.Type}
		if k, ok := parsed["key"]; ok && k != "" {
			f = f.WithKey(k)
		}
		if _, ok := parsed["required"]; ok {
			f = f.Req()
		}
		if _, ok := parsed["cached"]; ok {
			f = f.AsCached()
		}
		if _, ok := parsed["meta"]; ok {
			f = f.AsMeta()
		}
		fields = append(fields, f)
	}
	return New(name, fields...)
}

// FromStructOf is FromStruct(reflect.TypeFor[T]()).
func FromStructOf[T any]() (*Schema, error) {
	return FromStruct(reflect.TypeFor[T]())
}

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}

// ParseStructTag parses a struct tag string and returns a map of key-value pairs.
// Handles comma-separated values: `dyn:"key1=value1,key2=value2,flag"`
// Supports quoted values with spaces: `dyn:"key='value with spaces'"`
func ParseStructTag(tag string) (map[string]string, error) {
	result := make(map[string]string)
	if tag == "" {
		return result, nil
	}
	var parts []string
	var current strings.Builder
	inQuote := false
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			current.WriteByte(c)
		case (c == ',' || c == ' ') && !inQuote:
			if part := strings.TrimSpace(current.String()); part != "" {
				parts = append(parts, part)
			}
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	if inQuote {
		return nil, fmt.Errorf("invalid tag: unterminated quote in %q", tag)
	}
	if part := strings.TrimSpace(current.String()); part != "" {
		parts = append(parts, part)
	}
	for _, part := range parts {
		idx := strings.Index(part, "=")
		if idx < 0 {
			result[part] = ""
			continue
		}
		key := strings.TrimSpace(part[:idx])
		if key == "" {
			return nil, fmt.Errorf("invalid tag: empty key in %q", part)
		}
		value := strings.TrimSpace(part[idx+1:])
		if len(value) >= 2 && value[0] == '\'' && value[len(value)-1] == '\'' {
			value = value[1 : len(value)-1]
		}
		result[key] = value
	}
	return result, nil
}
