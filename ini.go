// File: conftree/ini.go
package conftree

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadINI parses INI-style configuration text from r into t.
//
// The format is line oriented: '#' starts a comment, "[prefix]" prepends
// prefix and a dot to all following keys ("[]" clears it), and "key = value"
// stores a value. Unquoted values are trimmed and lose everything from the
// first '#'; values opening with ' or " run to the matching trailing quote,
// across lines if needed, and keep embedded '#' and surrounding whitespace.
// A full key appearing twice in one source is ErrDuplicateKey even when
// overwrite is false; with overwrite false, keys already present in t before
// the parse keep their values.
func ReadINI(r io.Reader, t *Tree, overwrite bool) error {
	return readINI(r, t, "stream", overwrite)
}

// ReadINIString parses INI-style configuration text from s into t.
func ReadINIString(s string, t *Tree, overwrite bool) error {
	return readINI(strings.NewReader(s), t, "string", overwrite)
}

// ReadINIFile parses the INI file at path into t. A file that cannot be
// opened is reported as ErrFileOpen wrapping the underlying error.
func ReadINIFile(path string, t *Tree, overwrite bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrFileOpen, path, err)
	}
	defer f.Close()
	return readINI(f, t, fmt.Sprintf("file %q", path), overwrite)
}

func readINI(r io.Reader, t *Tree, source string, overwrite bool) error {
	sc := bufio.NewScanner(r)
	prefix := ""
	seen := make(map[string]struct{})

	for sc.Scan() {
		line := strings.TrimLeft(sc.Text(), whitespace)
		if line == "" || line[0] == '#' {
			continue
		}
		if line[0] == '[' {
			line = strings.TrimRight(line, whitespace)
			if line[len(line)-1] != ']' {
				continue // no closing bracket, line is ignored
			}
			prefix = trim(line[1 : len(line)-1])
			if prefix != "" {
				// Materialize the section so that empty sections
				// survive a report round trip.
				if _, err := t.Sub(prefix); err != nil {
					return err
				}
				prefix += "."
			}
			continue
		}

		keyPart, valPart, found := strings.Cut(line, "=")
		if !found {
			continue // not a key = value line
		}
		key := prefix + trim(keyPart)
		value := readValue(sc, strings.TrimLeft(valPart, whitespace))

		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w %q in %s", ErrDuplicateKey, key, source)
		}
		seen[key] = struct{}{}

		if err := storeValue(t, key, value, overwrite); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", source, err)
	}
	return nil
}

// readValue finishes reading a value whose text starts at raw, pulling
// further lines from sc while a quoted value remains open.
func readValue(sc *bufio.Scanner, raw string) string {
	if raw == "" || (raw[0] != '\'' && raw[0] != '"') {
		if i := strings.IndexByte(raw, '#'); i >= 0 {
			raw = raw[:i]
		}
		return strings.TrimRight(raw, whitespace)
	}
	quote := raw[0]
	value := raw[1:]
	for {
		trimmed := strings.TrimRight(value, whitespace)
		if trimmed != "" && trimmed[len(trimmed)-1] == quote {
			return trimmed[:len(trimmed)-1]
		}
		if !sc.Scan() {
			// Unterminated at end of input: keep the text as accumulated.
			return value
		}
		value += "\n" + sc.Text()
	}
}
