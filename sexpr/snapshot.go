package sexpr

import "github.com/opal-lang/sexpr/snapshot"

// Snapshot renders tree into a snapshot.Node tree for hashing/diffing
// in tests and diagnostics, labeled for the caller's convenience.
func Snapshot(label string, tree *Tree) *snapshot.Snapshot {
	var root snapshot.Node
	if tree.Len() != 0 {
		root = nodeSnapshot(tree, 0)
	}
	return snapshot.Of(label, root)
}

func nodeSnapshot(t *Tree, pos int) snapshot.Node {
	switch tag(t.buf[pos]) {
	case tagData:
		n := readDataLen(t.buf, pos+1)
		data := append([]byte(nil), t.buf[pos+1+lenFieldSize:pos+1+lenFieldSize+n]...)
		return snapshot.Node{Data: data}
	case tagOpen:
		node := snapshot.Node{IsList: true}
		p := pos + 1
		for t.buf[p] != byte(tagClose) {
			node.Children = append(node.Children, nodeSnapshot(t, p))
			p = spanEnd(t.buf, p)
		}
		return node
	default:
		return snapshot.Node{}
	}
}
