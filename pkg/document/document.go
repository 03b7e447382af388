// Package document loads, mutates and serializes the XML tree the converter
// produces from a binary profile. Mutation is limited to detaching whole
// subtrees; everything untouched round-trips byte-for-byte semantics:
// attributes, text and sibling order are preserved.
package document

import (
	"fmt"

	"github.com/beevik/etree"
)

// Document wraps the parsed tree. It is owned by a single pipeline run and is
// never shared between goroutines.
type Document struct {
	tree *etree.Document
}

// Load parses the tree document at path.
func Load(path string) (*Document, error) {
	tree := etree.NewDocument()
	// Keep character data exactly as read so serialization does not reflow
	// whitespace the converter may care about.
	tree.ReadSettings.PreserveCData = true
	if err := tree.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("failed to parse tree document: %w", err)
	}
	return &Document{tree: tree}, nil
}

// Prune removes every element with the given tag whose attribute key equals
// value, at any depth, detaching each from its parent's child sequence. It
// returns the number of elements removed. Zero is a normal outcome; whether
// zero is acceptable is the caller's policy, not this package's.
func (d *Document) Prune(tag, key, value string) int {
	root := d.tree.Root()
	if root == nil {
		return 0
	}

	// Collect first, detach after: removing while iterating a child slice
	// skips siblings.
	var matches []*etree.Element
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, child := range el.ChildElements() {
			if child.Tag == tag && child.SelectAttrValue(key, "") == value {
				matches = append(matches, child)
				// A match's subtree is going away wholesale; no need to
				// descend into it.
				continue
			}
			walk(child)
		}
	}
	walk(root)

	// The root is not removable: a pruned node is detached from its parent,
	// and the root has none.
	removed := 0
	for _, el := range matches {
		if parent := el.Parent(); parent != nil {
			parent.RemoveChild(el)
			removed++
		}
	}
	return removed
}

// CountElements returns the number of elements in the document. Used to check
// the removal arithmetic without re-parsing.
func (d *Document) CountElements() int {
	count := 0
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		count++
		for _, child := range el.ChildElements() {
			walk(child)
		}
	}
	if root := d.tree.Root(); root != nil {
		walk(root)
	}
	return count
}

// Save serializes the document to path, overwriting it. The path is expected
// to live inside the run's scratch directory.
func (d *Document) Save(path string) error {
	if err := d.tree.WriteToFile(path); err != nil {
		return fmt.Errorf("failed to serialize tree document: %w", err)
	}
	return nil
}
