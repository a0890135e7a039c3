// File: conftree/print.go
package conftree

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// Pretty renders the tree with box-drawing branches for logs and debug
// output. Values print as key = "value" leaves and subtrees as branches,
// in first-insertion order. The root label is the node's path, "." for an
// unprefixed tree.
func (t *Tree) Pretty() string {
	var root treeprint.Tree
	if t.prefix == "" {
		root = treeprint.New()
	} else {
		root = treeprint.NewWithRoot(t.Path())
	}
	t.addBranch(root)
	return root.String()
}

func (t *Tree) addBranch(b treeprint.Tree) {
	for _, k := range t.valueKeys {
		b.AddNode(fmt.Sprintf("%s = %q", k, t.values[k]))
	}
	for _, k := range t.subKeys {
		t.subs[k].addBranch(b.AddBranch(k))
	}
}
