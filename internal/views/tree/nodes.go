package tree

import (
	"path"
	"sort"
	"strings"

	"github.com/marcus/treeside/internal/adapter"
)

// Node is one entry of the displayed tree.
type Node struct {
	Item     adapter.TreeItem
	Depth    int
	Parent   *Node
	Children []*Node
	Expanded bool
	// Loaded is true once Children is known.
	Loaded bool
}

// IsDir reports whether the node can have children.
func (n *Node) IsDir() bool { return n.Item.Type == adapter.Tree }

// buildTree turns a flat item listing into a forest. Missing parent
// directories are synthesized. complete marks directories as loaded,
// which holds for recursive listings.
func buildTree(items []adapter.TreeItem, complete bool) []*Node {
	root := &Node{Loaded: true, Depth: -1}
	byPath := map[string]*Node{"": root}

	var ensure func(p string) *Node
	ensure = func(p string) *Node {
		if n, ok := byPath[p]; ok {
			return n
		}
		parent := ensure(parentDir(p))
		n := &Node{
			Item:   adapter.TreeItem{Path: p, Name: path.Base(p), Type: adapter.Tree},
			Depth:  parent.Depth + 1,
			Parent: parent,
			Loaded: true,
		}
		parent.Children = append(parent.Children, n)
		byPath[p] = n
		return n
	}

	for _, it := range items {
		if it.Path == "" {
			continue
		}
		if n, ok := byPath[it.Path]; ok {
			// A synthesized directory seen first; keep its children.
			n.Item = it
			continue
		}
		parent := ensure(parentDir(it.Path))
		n := &Node{
			Item:   it,
			Depth:  parent.Depth + 1,
			Parent: parent,
			Loaded: complete || it.Type != adapter.Tree,
		}
		parent.Children = append(parent.Children, n)
		byPath[it.Path] = n
	}

	for _, n := range byPath {
		sortNodes(n.Children)
	}
	for _, c := range root.Children {
		c.Parent = nil
	}
	return root.Children
}

// attach sets the children of dir from a one-level listing.
func attach(dir *Node, items []adapter.TreeItem) {
	dir.Children = dir.Children[:0]
	for _, it := range items {
		dir.Children = append(dir.Children, &Node{
			Item:   it,
			Depth:  dir.Depth + 1,
			Parent: dir,
			Loaded: it.Type != adapter.Tree,
		})
	}
	sortNodes(dir.Children)
	dir.Loaded = true
}

func parentDir(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[:i]
	}
	return ""
}

// sortNodes orders directories first, then names case-insensitively.
func sortNodes(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.IsDir() != b.IsDir() {
			return a.IsDir()
		}
		return strings.ToLower(a.Item.Name) < strings.ToLower(b.Item.Name)
	})
}

// flatten returns the visible nodes in display order, skipping hidden
// paths and the contents of collapsed directories.
func flatten(nodes []*Node, hidden func(string) bool) []*Node {
	var out []*Node
	var walk func([]*Node)
	walk = func(ns []*Node) {
		for _, n := range ns {
			if hidden != nil && hidden(n.Item.Path) {
				continue
			}
			out = append(out, n)
			if n.IsDir() && n.Expanded {
				walk(n.Children)
			}
		}
	}
	walk(nodes)
	return out
}

// find returns the node at p, or nil.
func find(nodes []*Node, p string) *Node {
	for _, n := range nodes {
		if n.Item.Path == p {
			return n
		}
		if strings.HasPrefix(p, n.Item.Path+"/") {
			return find(n.Children, p)
		}
	}
	return nil
}

// reveal expands every loaded ancestor of p and returns the deepest node
// on the way to p that exists.
func reveal(nodes []*Node, p string) *Node {
	var last *Node
	for _, n := range nodes {
		if n.Item.Path == p {
			return n
		}
		if strings.HasPrefix(p, n.Item.Path+"/") {
			n.Expanded = true
			last = n
			if deeper := reveal(n.Children, p); deeper != nil {
				return deeper
			}
			return last
		}
	}
	return last
}
