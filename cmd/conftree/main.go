// File: conftree/cmd/conftree/main.go

// Command conftree reads a configuration file, applies command-line
// overrides, and prints the merged tree.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"conftree"
)

var (
	format = flag.String("format", "report", "output format: report, tree or toml")
	out    = flag.String("o", "", "write to file instead of stdout (report writes atomically)")
)

func main() {
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	t := conftree.New()
	if err := conftree.LoadFile(args[0], t, true); err != nil {
		log.Fatal(err)
	}
	if err := conftree.ReadOptions(args[1:], t); err != nil {
		log.Fatal(err)
	}

	if err := emit(t); err != nil {
		log.Fatal(err)
	}
}

func emit(t *conftree.Tree) error {
	if *format == "report" && *out != "" {
		return conftree.SaveFile(*out, t)
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch *format {
	case "report":
		return t.Report(w)
	case "toml":
		return conftree.WriteTOML(w, t)
	case "tree":
		_, err := fmt.Fprint(w, t.Pretty())
		return err
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <config-file> [-key value ...]\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Reads a configuration file (INI, TOML, JSON or YAML), applies -key value")
	fmt.Fprintln(os.Stderr, "overrides, and prints the merged tree.")
	fmt.Fprintln(os.Stderr, "\nFlags:")
	flag.PrintDefaults()
}
