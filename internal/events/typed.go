package events

import (
	"reflect"
	"strings"
)

// Typed wraps a descriptor with the Go type of its payload so that publishing
// code is checked by the compiler.
type Typed[T any] struct {
	*Descriptor
}

// DefineTyped creates a typed descriptor. It reflects on T to record the payload
// type name and its JSON field names for catalog listings.
func DefineTyped[T any](config Config) Typed[T] {
	d := Define(config)

	var zero T
	t := reflect.TypeOf(zero)
	if t != nil {
		// Handle both struct and pointer to struct
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		d.payload.typeName = t.Name()

		if t.Kind() == reflect.Struct {
			for i := 0; i < t.NumField(); i++ {
				field := t.Field(i)
				if !field.IsExported() {
					continue
				}
				jsonTag := field.Tag.Get("json")
				if jsonTag == "-" {
					continue
				}
				// Only the name part of the tag, without omitempty etc.
				name, _, _ := strings.Cut(jsonTag, ",")
				if name == "" {
					name = field.Name
				}
				d.payload.fields = append(d.payload.fields, name)
			}
		}
	}

	return Typed[T]{Descriptor: d}
}
