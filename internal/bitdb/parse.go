package bitdb

import (
	"fmt"
	"strings"
)

// parse reads the on-disk database format: blocks introduced by a .mux,
// .config or .config_enum directive, separated by blank lines. Top-level
// blocks may appear in any order; duplicate keys are an error.
func (db *TileBitDatabase) parse(data []byte) error {
	db.muxes = make(map[string]MuxBits)
	db.words = make(map[string]WordSettingBits)
	db.enums = make(map[string]EnumSettingBits)

	lines := strings.Split(string(data), "\n")
	i := 0
	for i < len(lines) {
		header := strings.TrimSpace(lines[i])
		if header == "" {
			i++
			continue
		}
		headerLine := i + 1
		body, next := blockBody(lines, i+1)
		fields := strings.Fields(header)
		var err error
		switch fields[0] {
		case ".mux":
			err = db.parseMux(fields, body, headerLine)
		case ".config":
			err = db.parseWord(fields, body, headerLine)
		case ".config_enum":
			err = db.parseEnum(fields, body, headerLine)
		default:
			err = db.parseErr(headerLine, "unrecognized directive %q", fields[0])
		}
		if err != nil {
			return err
		}
		i = next
	}
	return nil
}

// blockBody collects the non-blank lines following a directive, with
// their 1-based line numbers, and returns the index of the line after the
// block.
func blockBody(lines []string, start int) ([]numberedLine, int) {
	var body []numberedLine
	i := start
	for i < len(lines) {
		text := strings.TrimSpace(lines[i])
		if text == "" {
			break
		}
		body = append(body, numberedLine{num: i + 1, text: text})
		i++
	}
	return body, i
}

type numberedLine struct {
	num  int
	text string
}

func (db *TileBitDatabase) parseErr(line int, format string, args ...any) error {
	return &ParseError{Path: db.path, Line: line, Reason: fmt.Sprintf(format, args...)}
}

func (db *TileBitDatabase) parseMux(fields []string, body []numberedLine, headerLine int) error {
	if len(fields) != 2 {
		return db.parseErr(headerLine, ".mux expects a sink name")
	}
	sink := fields[1]
	if _, dup := db.muxes[sink]; dup {
		return db.parseErr(headerLine, "duplicate mux %q", sink)
	}
	mux := MuxBits{Sink: sink}
	seen := make(map[string]bool)
	for _, line := range body {
		parts := strings.Fields(line.text)
		if len(parts) < 2 {
			return db.parseErr(line.num, "mux arc expects a source and a bit group")
		}
		source := parts[0]
		if seen[source] {
			return db.parseErr(line.num, "duplicate source %q in mux %q", source, sink)
		}
		seen[source] = true
		bits, err := ParseBitGroup(strings.Join(parts[1:], " "))
		if err != nil {
			return db.parseErr(line.num, "%v", err)
		}
		mux.Arcs = append(mux.Arcs, ArcData{Source: source, Sink: sink, Bits: bits})
	}
	db.muxes[sink] = mux
	return nil
}

func (db *TileBitDatabase) parseWord(fields []string, body []numberedLine, headerLine int) error {
	if len(fields) < 2 || len(fields) > 3 {
		return db.parseErr(headerLine, ".config expects a name and default bits")
	}
	name := fields[1]
	if _, dup := db.words[name]; dup {
		return db.parseErr(headerLine, "duplicate word %q", name)
	}
	var defval []bool
	if len(fields) == 3 {
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case '0':
				defval = append(defval, false)
			case '1':
				defval = append(defval, true)
			default:
				return db.parseErr(headerLine, "invalid default bits %q for word %q", fields[2], name)
			}
		}
	}
	if len(body) != len(defval) {
		return db.parseErr(headerLine, "word %q has %d bit groups but its default declares %d bits",
			name, len(body), len(defval))
	}
	word := WordSettingBits{Name: name, DefVal: defval}
	for _, line := range body {
		bits, err := ParseBitGroup(line.text)
		if err != nil {
			return db.parseErr(line.num, "%v", err)
		}
		word.Bits = append(word.Bits, bits)
	}
	db.words[name] = word
	return nil
}

func (db *TileBitDatabase) parseEnum(fields []string, body []numberedLine, headerLine int) error {
	if len(fields) < 2 || len(fields) > 3 {
		return db.parseErr(headerLine, ".config_enum expects a name and optional default option")
	}
	name := fields[1]
	if _, dup := db.enums[name]; dup {
		return db.parseErr(headerLine, "duplicate enum %q", name)
	}
	enum := EnumSettingBits{Name: name, Options: make(map[string]BitGroup)}
	if len(fields) == 3 {
		enum.DefVal = fields[2]
	}
	for _, line := range body {
		parts := strings.Fields(line.text)
		if len(parts) < 2 {
			return db.parseErr(line.num, "enum option expects a name and a bit group")
		}
		option := parts[0]
		if _, dup := enum.Options[option]; dup {
			return db.parseErr(line.num, "duplicate option %q in enum %q", option, name)
		}
		bits, err := ParseBitGroup(strings.Join(parts[1:], " "))
		if err != nil {
			return db.parseErr(line.num, "%v", err)
		}
		enum.Options[option] = bits
	}
	if enum.DefVal != "" {
		if _, ok := enum.Options[enum.DefVal]; !ok {
			return db.parseErr(headerLine, "enum %q default %q is not an option", name, enum.DefVal)
		}
	}
	db.enums[name] = enum
	return nil
}
