package bitdb

import (
	"fmt"
	"strings"
)

// writeText renders the database in its normative on-disk form: sections
// in the fixed order .mux, .config, .config_enum, blocks key-sorted
// within each section. Re-saving an unmodified database is byte
// identical. Callers must hold the lock.
func (db *TileBitDatabase) writeText() string {
	var buf strings.Builder
	for _, sink := range sortedKeys(db.muxes) {
		mux := db.muxes[sink]
		fmt.Fprintf(&buf, ".mux %s\n", sink)
		for _, arc := range mux.Arcs {
			fmt.Fprintf(&buf, "%s %s\n", arc.Source, arc.Bits)
		}
		buf.WriteByte('\n')
	}
	for _, name := range sortedKeys(db.words) {
		word := db.words[name]
		if len(word.DefVal) == 0 {
			fmt.Fprintf(&buf, ".config %s\n", name)
		} else {
			fmt.Fprintf(&buf, ".config %s %s\n", name, formatDefVal(word.DefVal))
		}
		for _, g := range word.Bits {
			buf.WriteString(g.String())
			buf.WriteByte('\n')
		}
		buf.WriteByte('\n')
	}
	for _, name := range sortedKeys(db.enums) {
		enum := db.enums[name]
		if enum.DefVal == "" {
			fmt.Fprintf(&buf, ".config_enum %s\n", name)
		} else {
			fmt.Fprintf(&buf, ".config_enum %s %s\n", name, enum.DefVal)
		}
		for _, option := range enum.optionNames() {
			fmt.Fprintf(&buf, "%s %s\n", option, enum.Options[option])
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}

func formatDefVal(defval []bool) string {
	var buf strings.Builder
	for _, b := range defval {
		if b {
			buf.WriteByte('1')
		} else {
			buf.WriteByte('0')
		}
	}
	return buf.String()
}
