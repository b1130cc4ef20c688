// Package wire decodes JSON objects into tagged response shapes.
//
// A shape is a Go struct whose json tags describe the wire contract. Fields
// without the omitempty option are required: they must be present and
// non-null. Keys the struct does not declare are returned to the caller so
// they can be kept alongside the typed value and written back on encode.
package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Extra holds object keys that a shape does not declare.
type Extra map[string]json.RawMessage

// FieldError reports a field that does not match its shape.
type FieldError struct {
	Path   string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("field %q: %s", e.Path, e.Reason)
}

type field struct {
	name     string
	index    int
	required bool
}

var fieldCache sync.Map // reflect.Type -> []field

func fieldsOf(t reflect.Type) []field {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]field)
	}

	var fields []field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = sf.Name
		}
		fields = append(fields, field{
			name:     name,
			index:    i,
			required: !strings.Contains(opts, "omitempty"),
		})
	}

	fieldCache.Store(t, fields)
	return fields
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Decode unmarshals the JSON object in data into v, which must be a pointer
// to a struct without its own UnmarshalJSON method (typically a local alias
// of the public type). It returns the keys v does not declare.
func Decode(data []byte, v any) (Extra, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("wire: Decode target must be a pointer to struct, got %T", v)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &FieldError{Reason: "expected JSON object"}
	}
	if raw == nil {
		return nil, &FieldError{Reason: "expected JSON object, got null"}
	}

	elem := rv.Elem()
	known := make(map[string]struct{})
	for _, f := range fieldsOf(elem.Type()) {
		known[f.name] = struct{}{}

		msg, ok := raw[f.name]
		if !ok || isNull(msg) {
			if f.required {
				return nil, &FieldError{Path: f.name, Reason: "missing required field"}
			}
			continue
		}

		if err := json.Unmarshal(msg, elem.Field(f.index).Addr().Interface()); err != nil {
			return nil, fieldError(f.name, err)
		}
	}

	var extra Extra
	for k, msg := range raw {
		if _, ok := known[k]; ok {
			continue
		}
		if extra == nil {
			extra = make(Extra)
		}
		extra[k] = msg
	}
	return extra, nil
}

// fieldError prefixes nested errors with the parent field name.
func fieldError(name string, err error) error {
	var fe *FieldError
	if errors.As(err, &fe) {
		path := name
		if fe.Path != "" {
			path = name + "." + fe.Path
		}
		return &FieldError{Path: path, Reason: fe.Reason}
	}

	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		path := name
		if te.Field != "" {
			path = name + "." + te.Field
		}
		return &FieldError{Path: path, Reason: fmt.Sprintf("expected %s, got %s", te.Type, te.Value)}
	}

	return &FieldError{Path: name, Reason: err.Error()}
}

// Encode marshals v and merges extra back into the resulting object. Keys
// declared by v win over extra keys with the same name.
func Encode(v any, extra Extra) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return data, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("wire: merge extra fields: %w", err)
	}
	for k, msg := range extra {
		if _, ok := obj[k]; !ok {
			obj[k] = msg
		}
	}

	return json.Marshal(obj)
}
