// Package tree renders a decoded FlexBuffers Reference as an indented,
// lipgloss-styled tree, the way strandctl's dashboard styles tabular data
// for a terminal rather than a log file.
package tree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/datatrails/go-datatrails-flexbuffers/flexbuffers"
)

var (
	keyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	scalarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	branchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// Render returns a multi-line tree rendering of ref, rooted at "$".
func Render(ref flexbuffers.Reference) string {
	var sb strings.Builder
	sb.WriteString(keyStyle.Render("$"))
	sb.WriteString(" ")
	writeValue(&sb, ref, "", true)
	return sb.String()
}

func writeValue(sb *strings.Builder, ref flexbuffers.Reference, prefix string, last bool) {
	switch {
	case ref.IsNull():
		sb.WriteString(scalarStyle.Render("null"))
		sb.WriteString(" ")
		sb.WriteString(typeStyle.Render(ref.Type().String()))
		sb.WriteString("\n")
	case ref.Type() == flexbuffers.TypeMap:
		m := ref.AsMap()
		sb.WriteString(typeStyle.Render(fmt.Sprintf("map[%d]", m.Len())))
		sb.WriteString("\n")
		writeMap(sb, m, prefix)
	case ref.Type().IsVector():
		vec := ref.AsVector()
		sb.WriteString(typeStyle.Render(fmt.Sprintf("vector[%d]", vec.Len())))
		sb.WriteString("\n")
		writeVector(sb, vec, prefix)
	case ref.Type() == flexbuffers.TypeString:
		sb.WriteString(scalarStyle.Render(fmt.Sprintf("%q", ref.AsString())))
		sb.WriteString("\n")
	case ref.Type() == flexbuffers.TypeBlob:
		sb.WriteString(scalarStyle.Render(fmt.Sprintf("blob(%d bytes)", len(ref.AsBlob()))))
		sb.WriteString("\n")
	case ref.Type() == flexbuffers.TypeBool:
		sb.WriteString(scalarStyle.Render(fmt.Sprintf("%v", ref.AsBool())))
		sb.WriteString("\n")
	case ref.Type() == flexbuffers.TypeFloat || ref.Type() == flexbuffers.TypeIndirectFloat:
		sb.WriteString(scalarStyle.Render(fmt.Sprintf("%v", ref.AsDouble())))
		sb.WriteString("\n")
	case ref.Type() == flexbuffers.TypeInt || ref.Type() == flexbuffers.TypeIndirectInt:
		sb.WriteString(scalarStyle.Render(fmt.Sprintf("%v", ref.AsInt())))
		sb.WriteString("\n")
	case ref.Type() == flexbuffers.TypeUint || ref.Type() == flexbuffers.TypeIndirectUint:
		sb.WriteString(scalarStyle.Render(fmt.Sprintf("%v", ref.AsUint())))
		sb.WriteString("\n")
	default:
		sb.WriteString(typeStyle.Render(ref.Type().String()))
		sb.WriteString("\n")
	}
}

func writeMap(sb *strings.Builder, m flexbuffers.Map, prefix string) {
	keys := make([]string, m.Len())
	for i := 0; i < m.Len(); i++ {
		keys[i] = string(m.KeyAt(i))
	}
	sort.Strings(keys)

	for i, key := range keys {
		last := i == len(keys)-1
		v, _ := m.Get(key)
		writeChild(sb, prefix, last, keyStyle.Render(key)+": ", v)
	}
}

func writeVector(sb *strings.Builder, vec flexbuffers.Vector, prefix string) {
	for i := 0; i < vec.Len(); i++ {
		last := i == vec.Len()-1
		writeChild(sb, prefix, last, keyStyle.Render(fmt.Sprintf("[%d]", i))+": ", vec.Index(i))
	}
}

func writeChild(sb *strings.Builder, prefix string, last bool, label string, ref flexbuffers.Reference) {
	connector := "├── "
	childPrefix := prefix + "│   "
	if last {
		connector = "└── "
		childPrefix = prefix + "    "
	}
	sb.WriteString(prefix)
	sb.WriteString(branchStyle.Render(connector))
	sb.WriteString(label)
	writeValue(sb, ref, childPrefix, last)
}
