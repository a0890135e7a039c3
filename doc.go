// File: conftree/doc.go

// Package conftree provides a hierarchical string key-value store for
// configuration, addressed by dotted paths, with typed read access, an
// INI-style text format, and command-line parsing that fills the same
// tree.
//
// Features:
//   - Recursive tree of string values and subtrees with dotted-path access
//   - Value keys and subtree names kept apart, collisions caught eagerly
//   - First-insertion key order preserved at every level
//   - Typed reads for strings, bools, numbers, fixed-size arrays, bit sets
//     and slices, strict whole-string parsing, extensible via RegisterParser
//   - INI reader/writer with comments, [section] prefixes and quoted
//     multiline values; Report output parses back into an equal tree
//   - TOML, JSON and YAML loading into the same tree, document order kept
//   - Simple "-key value" and named "--key=value" command-line parsers
//     with generated usage text
//   - Struct decoding with mapstructure ("ini" tags)
//   - Tree rendering with box-drawing branches for debug output
//
// Quick Start:
//
//	t := conftree.New()
//	if err := conftree.ReadINIFile("app.ini", t, true); err != nil {
//	    log.Fatal(err)
//	}
//	if err := conftree.ReadOptions(os.Args[1:], t); err != nil {
//	    log.Fatal(err)
//	}
//
//	port, err := conftree.Get[int](t, "server.port")
//	hosts, err := conftree.Get[[]string](t, "server.hosts")
//	debug, _ := conftree.GetDefault(t, "debug", false)
//
// Or with the builder:
//
//	t, err := conftree.NewBuilder().
//	    WithFile("defaults.toml").
//	    WithFile("app.ini").
//	    WithArgs(os.Args[1:]).
//	    Build()
//
// Values are stored as raw strings and converted on read, so a value like
// "1 2 3 4 5 6 7 8" can be read as []uint, [8]uint or string as the caller
// prefers. Failed conversions report the raw string, the full dotted key
// and the target type.
//
// Concurrency:
// A Tree is not synchronized. Fill it during startup and hand it to one
// logical owner; wrap access externally if several goroutines need it.
package conftree
