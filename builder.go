// File: conftree/builder.go
package conftree

import (
	"fmt"
)

// ValidatorFunc checks a fully loaded tree and returns an error to reject
// it. Validators run in the order they were added.
type ValidatorFunc func(t *Tree) error

// Builder assembles a tree from files and command-line arguments with a
// fluent interface. Files load in the order given, then arguments apply on
// top, then validators run.
type Builder struct {
	tree       *Tree
	files      []string
	args       []string
	overwrite  bool
	validators []ValidatorFunc
}

// NewBuilder creates a builder. File merging overwrites by default; later
// sources win.
func NewBuilder() *Builder {
	return &Builder{
		tree:      New(),
		overwrite: true,
	}
}

// WithFile adds a configuration file, format detected by LoadFile. May be
// called multiple times; files load in order.
func (b *Builder) WithFile(path string) *Builder {
	b.files = append(b.files, path)
	return b
}

// WithArgs sets command-line arguments in os.Args[1:] form, applied as
// "-key value" pairs after all files.
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithOverwrite controls whether later files replace keys set by earlier
// ones. Arguments always replace.
func (b *Builder) WithOverwrite(overwrite bool) *Builder {
	b.overwrite = overwrite
	return b
}

// WithValidator adds a validation function run at the end of Build.
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build loads everything and returns the tree.
func (b *Builder) Build() (*Tree, error) {
	for _, path := range b.files {
		if err := LoadFile(path, b.tree, b.overwrite); err != nil {
			return nil, err
		}
	}
	if len(b.args) > 0 {
		if err := ReadOptions(b.args, b.tree); err != nil {
			return nil, err
		}
	}
	for _, validate := range b.validators {
		if err := validate(b.tree); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return b.tree, nil
}

// MustBuild is Build panicking on error, for program setup paths where a
// bad configuration should stop everything.
func (b *Builder) MustBuild() *Tree {
	t, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return t
}

// BuildAndScan builds the tree and decodes it into target via Scan.
func (b *Builder) BuildAndScan(target any) error {
	t, err := b.Build()
	if err != nil {
		return err
	}
	return t.Scan("", target)
}
