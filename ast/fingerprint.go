package ast

import "github.com/cnf/structhash"

// hashable is the structhash-visible projection of a Node: Parent is
// deliberately excluded (structhash.Hash follows pointers and Parent
// points back up the tree, which would turn every fingerprint into a hash
// of the whole ancestor chain instead of the subtree rooted at n).
type hashable struct {
	Kind     Kind
	Lexeme   string
	Children []*hashable
}

func toHashable(n *Node) *hashable {
	if n == nil {
		return nil
	}
	h := &hashable{Kind: n.Kind, Lexeme: n.Lexeme}
	for _, c := range n.Children {
		h.Children = append(h.Children, toHashable(c))
	}
	return h
}

// Fingerprint returns a stable content digest of the subtree rooted at n,
// used by this package's re-parse tests: two trees fingerprint equal iff they are
// structurally identical. Grounded on the teacher's use of structhash in
// lr/earley/earley.go to fingerprint Earley items for set deduplication;
// here it fingerprints AST subtrees for the same reason — cheap equality
// over a recursive structure without hand-writing a tree-equal function.
func Fingerprint(n *Node) (string, error) {
	return structhash.Hash(toHashable(n), 1)
}
