package codegen

import (
	"fmt"
	"strings"
)

const newLineLabel = "new_line_char"

type dataEntry struct {
	label string
	value string
}

// DataSection holds read-only byte strings, deduplicated by encoded value.
// Entries keep insertion order.
type DataSection struct {
	entries []dataEntry
	labels  map[string]string

	nextID int
}

func NewDataSection() *DataSection {
	ds := &DataSection{
		entries: make([]dataEntry, 0),
		labels:  make(map[string]string),
	}
	ds.define(newLineLabel, EncodeBytes([]byte{'\n'}))

	return ds
}

func (ds *DataSection) define(label, value string) {
	ds.entries = append(ds.entries, dataEntry{label: label, value: value})
	ds.labels[value] = label
}

// Add returns the label holding value, creating a rodata<N> entry on first use.
func (ds *DataSection) Add(value string) string {
	if label, ok := ds.labels[value]; ok {
		return label
	}

	label := fmt.Sprintf("rodata%d", ds.nextID)
	ds.nextID++
	ds.define(label, value)

	return label
}

func (ds *DataSection) Len() int {
	return len(ds.entries)
}

func (ds *DataSection) render(out *strings.Builder) {
	out.WriteString("section .rodata\n")
	for _, entry := range ds.entries {
		fmt.Fprintf(out, "%s%s: db %s\n", indent, entry.label, entry.value)
	}
}

// EncodeBytes renders data as a comma separated list of hex bytes, 0x48,0x49.
func EncodeBytes(data []byte) string {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("0x%02X", b)
	}
	return strings.Join(parts, ",")
}

// DecodeString turns every \n of a literal's raw text into a newline byte.
// All other bytes, backslashes included, are kept as written.
func DecodeString(raw string) []byte {
	return []byte(strings.ReplaceAll(raw, `\n`, "\n"))
}
