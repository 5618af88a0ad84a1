package markup

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// NodePath represents the traversal steps from the root to a target node.
// Example: [0, 1, 3] means root -> child[0] -> child[1] -> child[3]
type NodePath []int

// ParsePath parses a comma separated path such as "0,1,3". The empty string
// is the root itself.
func ParsePath(s string) (NodePath, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NodePath{}, nil
	}
	parts := strings.Split(s, ",")
	path := make(NodePath, 0, len(parts))
	for _, p := range parts {
		i, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || i < 0 {
			return nil, fmt.Errorf("invalid path segment %q", p)
		}
		path = append(path, i)
	}
	return path, nil
}

// String formats the path the way ParsePath reads it.
func (p NodePath) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// GetNode traverses the tree using the provided path to find a specific node.
func GetNode(root *html.Node, path NodePath) (*html.Node, error) {
	current := root
	for i, index := range path {
		child := ChildAt(current, index)
		if child == nil {
			return nil, fmt.Errorf("node not found at path %v (failed at index %d, step %d)", path, index, i)
		}
		current = child
	}
	return current, nil
}

// GetPath finds the path from root to the target node.
func GetPath(root, target *html.Node) (NodePath, error) {
	var path NodePath

	current := target
	for current != root {
		parent := current.Parent
		if parent == nil {
			return nil, errors.New("target node is not a descendant of root")
		}

		index := ChildIndex(parent, current)
		if index == -1 {
			return nil, errors.New("integrity error: child not found in parent's list")
		}

		path = append(NodePath{index}, path...)
		current = parent
	}
	return path, nil
}

// ChildAt finds the Nth child of a node.
func ChildAt(parent *html.Node, index int) *html.Node {
	count := 0
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if count == index {
			return c
		}
		count++
	}
	return nil
}

// ChildIndex returns the index of child within parent, or -1.
func ChildIndex(parent, child *html.Node) int {
	count := 0
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c == child {
			return count
		}
		count++
	}
	return -1
}

// ChildCount returns the number of children of n.
func ChildCount(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	return count
}

// InsertChildAt inserts child before the node currently at index, or appends
// it when index is past the end.
func InsertChildAt(parent, child *html.Node, index int) {
	ref := ChildAt(parent, index)
	if ref != nil {
		parent.InsertBefore(child, ref)
	} else {
		parent.AppendChild(child)
	}
}

// Contains reports whether n is root or one of its descendants.
func Contains(root, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}

// Compare orders a and b in document order under root: -1 when a comes
// first, 1 when b does, 0 when they are the same node. An ancestor sorts
// before its descendants.
func Compare(root, a, b *html.Node) int {
	if a == b {
		return 0
	}
	pa, errA := GetPath(root, a)
	pb, errB := GetPath(root, b)
	if errA != nil || errB != nil {
		return 0
	}
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if pa[i] != pb[i] {
			if pa[i] < pb[i] {
				return -1
			}
			return 1
		}
	}
	if len(pa) < len(pb) {
		return -1
	}
	return 1
}

// Next returns the node after n in a preorder walk bounded by root.
func Next(root, n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil && n != root; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// NextAfter returns the first node after n's subtree in a preorder walk
// bounded by root.
func NextAfter(root, n *html.Node) *html.Node {
	for ; n != nil && n != root; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// TextNodes returns the text nodes of root's subtree in document order.
func TextNodes(root *html.Node) []*html.Node {
	var out []*html.Node
	for n := Next(root, root); n != nil; n = Next(root, n) {
		if n.Type == html.TextNode {
			out = append(out, n)
		}
	}
	return out
}

// FirstText returns the first text node in n's subtree (n included).
func FirstText(n *html.Node) *html.Node {
	if n.Type == html.TextNode {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := FirstText(c); t != nil {
			return t
		}
	}
	return nil
}

// LastText returns the last text node in n's subtree (n included).
func LastText(n *html.Node) *html.Node {
	if n.Type == html.TextNode {
		return n
	}
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		if t := LastText(c); t != nil {
			return t
		}
	}
	return nil
}
