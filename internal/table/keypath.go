package table

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// keyPath is a parsed accessor key such as "address.lines[0]".
type keyPath []string

// parseKeyPath splits a dotted/bracket key path into segments.
func parseKeyPath(s string) (keyPath, error) {
	if s == "" {
		return nil, fmt.Errorf("empty key path")
	}

	var segs keyPath
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			segs = append(segs, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '.':
			if cur.Len() == 0 && (i == 0 || s[i-1] != ']') {
				return nil, fmt.Errorf("empty segment at offset %d in %q", i, s)
			}
			flush()
		case '[':
			flush()
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("unclosed bracket in %q", s)
			}
			key := strings.Trim(s[i+1:i+end], `'"`)
			if key == "" {
				return nil, fmt.Errorf("empty bracket in %q", s)
			}
			segs = append(segs, key)
			i += end
		case ']':
			return nil, fmt.Errorf("unexpected ']' in %q", s)
		default:
			cur.WriteByte(c)
		}
	}
	if strings.HasSuffix(s, ".") {
		return nil, fmt.Errorf("trailing '.' in %q", s)
	}
	flush()
	return segs, nil
}

// lookup walks v along the path. Missing keys, out-of-range indexes and nil
// pointers yield nil.
func (p keyPath) lookup(v any) any {
	rv := reflect.ValueOf(v)
	for _, seg := range p {
		rv = indirect(rv)
		if !rv.IsValid() {
			return nil
		}
		switch rv.Kind() {
		case reflect.Map:
			kt := rv.Type().Key()
			if kt.Kind() != reflect.String {
				return nil
			}
			rv = rv.MapIndex(reflect.ValueOf(seg).Convert(kt))
		case reflect.Struct:
			rv = fieldByKey(rv, seg)
		case reflect.Slice, reflect.Array:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= rv.Len() {
				return nil
			}
			rv = rv.Index(i)
		default:
			return nil
		}
		if !rv.IsValid() {
			return nil
		}
	}

	rv = indirect(rv)
	if !rv.IsValid() || !rv.CanInterface() {
		return nil
	}
	return rv.Interface()
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

// fieldByKey matches a struct field by name, then json tag, then
// case-insensitive name.
func fieldByKey(rv reflect.Value, key string) reflect.Value {
	t := rv.Type()
	if f, ok := t.FieldByName(key); ok && f.IsExported() {
		fv, err := rv.FieldByIndexErr(f.Index)
		if err != nil {
			return reflect.Value{}
		}
		return fv
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if tag == key {
			return rv.Field(i)
		}
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.IsExported() && strings.EqualFold(f.Name, key) {
			return rv.Field(i)
		}
	}
	return reflect.Value{}
}
