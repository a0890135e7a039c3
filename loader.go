// File: conftree/loader.go
package conftree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format identifies a configuration text format understood by LoadFile.
type Format string

const (
	FormatUnknown Format = ""
	FormatINI     Format = "ini"
	FormatTOML    Format = "toml"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
)

// DetectFormat guesses the format from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".conf", ".cfg":
		return FormatINI
	case ".toml", ".tml":
		return FormatTOML
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// LoadFile reads the configuration file at path into t. The format comes
// from the extension, or from the content when the extension says nothing:
// strict JSON first, then TOML, then a YAML mapping, with INI as the
// fallback. All formats honor the overwrite flag against keys already in t.
func LoadFile(path string, t *Tree, overwrite bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrFileOpen, path, err)
	}
	format := DetectFormat(path)
	if format == FormatUnknown {
		format = detectContent(data)
	}
	switch format {
	case FormatTOML:
		return ReadTOML(bytes.NewReader(data), t, overwrite)
	case FormatJSON:
		return ReadJSON(bytes.NewReader(data), t, overwrite)
	case FormatYAML:
		return ReadYAML(bytes.NewReader(data), t, overwrite)
	default:
		return readINI(bytes.NewReader(data), t, fmt.Sprintf("file %q", path), overwrite)
	}
}

// detectContent attempts format detection by parsing. JSON is the
// strictest, YAML the most permissive, so YAML is tried late and must
// produce a mapping. Anything else is treated as INI.
func detectContent(data []byte) Format {
	var jsonTest any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		if _, ok := jsonTest.(map[string]any); ok {
			return FormatJSON
		}
	}
	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return FormatTOML
	}
	var yamlTest map[string]any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil && yamlTest != nil {
		return FormatYAML
	}
	return FormatINI
}

// ReadTOML parses TOML from r into t. Tables become subtrees, scalars
// their string form, arrays of scalars one whitespace-joined string, all
// in document order so the tree's key order follows the file. Arrays of
// tables have no tree representation and fail with ErrParse.
func ReadTOML(r io.Reader, t *Tree, overwrite bool) error {
	var data map[string]any
	md, err := toml.NewDecoder(r).Decode(&data)
	if err != nil {
		return fmt.Errorf("%w TOML input: %v", ErrParse, err)
	}
	for _, key := range md.Keys() {
		path := strings.Join(key, ".")
		switch md.Type(key...) {
		case "Hash":
			if _, err := t.Sub(path); err != nil {
				return err
			}
		case "ArrayHash":
			return fmt.Errorf("%w TOML key %q: array of tables has no tree form", ErrParse, path)
		default:
			raw, ok := lookupMap(data, key)
			if !ok {
				continue
			}
			s, err := encodeScalar(raw)
			if err != nil {
				return fmt.Errorf("TOML key %q: %w", path, err)
			}
			if err := storeValue(t, path, s, overwrite); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadJSON parses a JSON object from r into t, walking the token stream so
// that member order is preserved. Nested objects become subtrees, numbers
// keep their source spelling, arrays of scalars are whitespace-joined.
// null and arrays holding arrays or objects have no tree representation
// and fail with ErrParse.
func ReadJSON(r io.Reader, t *Tree, overwrite bool) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w JSON input: %v", ErrParse, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w JSON input: top-level value must be an object", ErrParse)
	}
	return readJSONObject(dec, t, "", overwrite)
}

// readJSONObject consumes the members of an already-opened object
// including its closing brace. path is the dotted prefix, "" at the root.
func readJSONObject(dec *json.Decoder, t *Tree, path string, overwrite bool) error {
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w JSON input: %v", ErrParse, err)
		}
		key, _ := keyTok.(string)
		full := key
		if path != "" {
			full = path + "." + key
		}

		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w JSON input: %v", ErrParse, err)
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{':
				if _, err := t.Sub(full); err != nil {
					return err
				}
				if err := readJSONObject(dec, t, full, overwrite); err != nil {
					return err
				}
			case '[':
				s, err := readJSONArray(dec)
				if err != nil {
					return fmt.Errorf("JSON key %q: %w", full, err)
				}
				if err := storeValue(t, full, s, overwrite); err != nil {
					return err
				}
			}
			continue
		}
		s, err := encodeScalar(tok)
		if err != nil {
			return fmt.Errorf("JSON key %q: %w", full, err)
		}
		if err := storeValue(t, full, s, overwrite); err != nil {
			return err
		}
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w JSON input: %v", ErrParse, err)
	}
	return nil
}

// readJSONArray consumes an already-opened array including its closing
// bracket and joins its scalar elements.
func readJSONArray(dec *json.Decoder) (string, error) {
	var parts []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("%w JSON input: %v", ErrParse, err)
		}
		if _, isDelim := tok.(json.Delim); isDelim {
			return "", fmt.Errorf("%w nested JSON array or object: no tree form", ErrParse)
		}
		s, err := encodeScalar(tok)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	if _, err := dec.Token(); err != nil {
		return "", fmt.Errorf("%w JSON input: %v", ErrParse, err)
	}
	return strings.Join(parts, " "), nil
}

// ReadYAML parses a YAML mapping from r into t. Nested mappings become
// subtrees, scalars keep their literal spelling, sequences of scalars are
// whitespace-joined, aliases are followed. Non-mapping documents and
// nested sequences fail with ErrParse. An empty document is a no-op.
func ReadYAML(r io.Reader, t *Tree, overwrite bool) error {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w YAML input: %v", ErrParse, err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil
		}
		root = root.Content[0]
	}
	root = resolveAlias(root)
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("%w YAML input: top-level mapping required", ErrParse)
	}
	return readYAMLMapping(root, t, "", overwrite)
}

func readYAMLMapping(n *yaml.Node, t *Tree, path string, overwrite bool) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		valNode := resolveAlias(n.Content[i+1])
		full := key
		if path != "" {
			full = path + "." + key
		}

		switch valNode.Kind {
		case yaml.MappingNode:
			if _, err := t.Sub(full); err != nil {
				return err
			}
			if err := readYAMLMapping(valNode, t, full, overwrite); err != nil {
				return err
			}
		case yaml.SequenceNode:
			parts := make([]string, 0, len(valNode.Content))
			for _, e := range valNode.Content {
				e = resolveAlias(e)
				if e.Kind != yaml.ScalarNode {
					return fmt.Errorf("%w YAML key %q: non-scalar sequence element has no tree form", ErrParse, full)
				}
				parts = append(parts, e.Value)
			}
			if err := storeValue(t, full, strings.Join(parts, " "), overwrite); err != nil {
				return err
			}
		case yaml.ScalarNode:
			if err := storeValue(t, full, valNode.Value, overwrite); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w YAML key %q: unsupported node kind", ErrParse, full)
		}
	}
	return nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// WriteTOML writes t as TOML with every leaf as a string value. Keys come
// out in the encoder's alphabetical order; Report is the order-preserving
// serialization.
func WriteTOML(w io.Writer, t *Tree) error {
	if err := toml.NewEncoder(w).Encode(t.toMap()); err != nil {
		return fmt.Errorf("encoding TOML: %w", err)
	}
	return nil
}

// SaveFile writes t's report to path atomically, so a crash mid-write
// never leaves a truncated configuration behind.
func SaveFile(path string, t *Tree) error {
	var buf bytes.Buffer
	if err := t.Report(&buf); err != nil {
		return err
	}
	return atomicWriteFile(path, buf.Bytes())
}

// storeValue applies the overwrite policy shared by the format readers.
func storeValue(t *Tree, key, value string, overwrite bool) error {
	has, err := t.HasKey(key)
	if err != nil {
		return err
	}
	if overwrite || !has {
		return t.Set(key, value)
	}
	return nil
}

// lookupMap walks nested string maps along the key path.
func lookupMap(data map[string]any, key []string) (any, bool) {
	var cur any = data
	for _, seg := range key {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// encodeScalar renders a decoded foreign-format value as a tree string.
// Arrays of scalars become one whitespace-joined string, matching the
// fields convention on the typed read side.
func encodeScalar(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	case json.Number:
		return val.String(), nil
	case time.Time:
		return val.Format(time.RFC3339), nil
	case []any:
		parts := make([]string, len(val))
		for i, e := range val {
			switch e.(type) {
			case []any, map[string]any:
				return "", fmt.Errorf("%w nested array value: no tree form", ErrParse)
			}
			s, err := encodeScalar(e)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return strings.Join(parts, " "), nil
	case nil:
		return "", fmt.Errorf("%w null value: no tree form", ErrParse)
	default:
		return "", fmt.Errorf("%w value of type %T: no tree form", ErrParse, v)
	}
}

// atomicWriteFile writes data beside path and renames it into place, so
// readers never observe a partial file.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %q: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing %q: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing %q: %w", path, err)
	}
	return nil
}
