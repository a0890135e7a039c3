// File: conftree/options.go
package conftree

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// ReadOptions stores simple "-key value" pairs from args into t. args is
// in os.Args[1:] form. Each token starting with '-' takes the following
// token as the value for the key spelled after the dash; dotted keys create
// subtrees. Tokens that are not options are skipped. An option at the end
// of the line with no value after it is an error.
func ReadOptions(args []string, t *Tree) error {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if len(arg) < 2 || arg[0] != '-' {
			continue
		}
		if i+1 >= len(args) {
			return fmt.Errorf("%w: last option on command line (%s) does not have an argument", ErrOption, arg)
		}
		if err := t.Set(arg[1:], args[i+1]); err != nil {
			return err
		}
		i++
	}
	return nil
}

// NamedOptions configures ReadNamedOptions and its usage text.
type NamedOptions struct {
	// Keywords are the recognized parameter names in positional order.
	Keywords []string

	// Required is how many leading Keywords must be supplied. Negative
	// values and values above len(Keywords) mean all of them; the zero
	// value means none.
	Required int

	// AllowMore permits --key=value parameters whose key is not in
	// Keywords. They are stored but never count towards Required.
	AllowMore bool

	// Overwrite permits a parameter to be given twice, keeping the last
	// value. When false, repeating a parameter that already holds a
	// non-empty value is an error.
	Overwrite bool

	// Help holds one description per keyword for the usage text. Entries
	// beyond len(Keywords) and empty entries are skipped.
	Help []string

	// Prog is the program name shown in the usage line. Empty means
	// os.Args[0].
	Prog string
}

func (o NamedOptions) required() int {
	if o.Required < 0 || o.Required > len(o.Keywords) {
		return len(o.Keywords)
	}
	return o.Required
}

// Usage returns the help text: a usage line with <kw> for required and
// [kw] for optional positional parameters, then one line per option.
func (o NamedOptions) Usage() string {
	prog := o.Prog
	if prog == "" {
		prog = os.Args[0]
	}
	req := o.required()

	var b strings.Builder
	b.WriteString("Usage: ")
	b.WriteString(prog)
	for i, kw := range o.Keywords {
		if i < req {
			fmt.Fprintf(&b, " <%s>", kw)
		} else {
			fmt.Fprintf(&b, " [%s]", kw)
		}
	}
	b.WriteString("\nOptions:\n-h / --help: this help\n")
	for i, kw := range o.Keywords {
		if i < len(o.Help) && o.Help[i] != "" {
			fmt.Fprintf(&b, "-%s:\t%s\n", kw, o.Help[i])
		}
	}
	return b.String()
}

// ReadNamedOptions stores command-line parameters from args into t.
// Parameters are given positionally, filling Keywords in declaration
// order, or named as --keyword=value at any position. args is in
// os.Args[1:] form.
//
// "-h" or "--help" aborts with an error wrapping ErrHelp whose message is
// the usage text. Every other failure wraps ErrOption and carries the
// usage text after the reason.
func ReadNamedOptions(args []string, t *Tree, opts NamedOptions) error {
	helpstr := opts.Usage()
	done := make([]bool, len(opts.Keywords))
	current := 0

	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return fmt.Errorf("%w\n%s", ErrHelp, helpstr)
		}
		if strings.HasPrefix(arg, "--") {
			key, value, hasEq := strings.Cut(arg[2:], "=")
			if !hasEq {
				return fmt.Errorf("%w: value missing for parameter %s\n%s", ErrOption, arg, helpstr)
			}
			idx := slices.Index(opts.Keywords, key)
			if idx < 0 && !opts.AllowMore {
				return fmt.Errorf("%w: unknown parameter %s\n%s", ErrOption, key, helpstr)
			}
			if !opts.Overwrite {
				set, err := hasNonEmpty(t, key)
				if err != nil {
					return err
				}
				if set {
					return fmt.Errorf("%w: parameter %s already specified\n%s", ErrOption, key, helpstr)
				}
			}
			if err := t.Set(key, value); err != nil {
				return err
			}
			if idx >= 0 {
				done[idx] = true
			}
			continue
		}

		// Unnamed: map to the next unfilled keyword.
		for current < len(done) && done[current] {
			current++
		}
		if current >= len(done) {
			return fmt.Errorf("%w: superfluous unnamed parameter\n%s", ErrOption, helpstr)
		}
		key := opts.Keywords[current]
		if !opts.Overwrite {
			set, err := hasNonEmpty(t, key)
			if err != nil {
				return err
			}
			if set {
				return fmt.Errorf("%w: parameter %s already specified\n%s", ErrOption, key, helpstr)
			}
		}
		if err := t.Set(key, arg); err != nil {
			return err
		}
		done[current] = true
	}

	req := opts.required()
	var missing []string
	for i := 0; i < req; i++ {
		if !done[i] {
			missing = append(missing, opts.Keywords[i])
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing parameter(s) ... %s\n%s", ErrOption, strings.Join(missing, " "), helpstr)
	}
	return nil
}

// hasNonEmpty reports whether key holds a non-empty value, without creating
// anything along the path.
func hasNonEmpty(t *Tree, key string) (bool, error) {
	ok, err := t.HasKey(key)
	if err != nil || !ok {
		return false, err
	}
	v, err := t.Get(key)
	if err != nil {
		return false, err
	}
	return v != "", nil
}
