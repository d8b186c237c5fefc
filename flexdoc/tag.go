package flexdoc

import "strings"

type fieldTag struct {
	name      string
	omitEmpty bool
	skip      bool
}

// parseFieldTag reads a `flex:"name,omitempty"` struct tag, falling back
// to the field's own name when no tag or an empty name is given. A tag
// of "-" skips the field entirely, matching the encoding/json
// convention this package otherwise follows.
func parseFieldTag(structTag, fieldName string) fieldTag {
	if structTag == "-" {
		return fieldTag{skip: true}
	}
	parts := strings.Split(structTag, ",")
	name := parts[0]
	if name == "" {
		name = fieldName
	}
	ft := fieldTag{name: name}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			ft.omitEmpty = true
		}
	}
	return ft
}
