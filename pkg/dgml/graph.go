package dgml

import (
	"errors"
	"fmt"
)

// ErrDanglingLink is returned by [Graph.Validate] when a link references a
// node ID that does not exist in the graph. Assembly never calls Validate;
// dangling endpoints are legal output and the check is opt-in.
var ErrDanglingLink = errors.New("link endpoint references unknown node")

// linkKey is the composite identity of a link.
type linkKey struct {
	source   string
	target   string
	category string
}

// Graph is the top-level document container. It keeps every element kind in
// insertion order and owns the identity indexes, so duplicate handling is
// decided here rather than by each producer.
//
// The zero value is not usable - use [NewGraph]. Graph is not safe for
// concurrent mutation without external synchronization.
type Graph struct {
	// Title is an optional document heading carried into the output.
	Title string

	nodes      []*Node
	links      []*Link
	categories []*Category
	styles     []*Style
	properties []Property

	nodeIndex map[string]*Node
	linkIndex map[linkKey]*Link
	catIndex  map[string]*Category
	propIndex map[string]bool
}

// NewGraph creates an empty graph document.
func NewGraph() *Graph {
	return &Graph{
		nodeIndex: make(map[string]*Node),
		linkIndex: make(map[linkKey]*Link),
		catIndex:  make(map[string]*Category),
		propIndex: make(map[string]bool),
	}
}

// AddNode inserts a node and reports whether it was added. Nodes with an
// empty ID or an ID already present are dropped; the first insertion wins
// and later duplicates are silent no-ops, never updates.
func (g *Graph) AddNode(n Node) bool {
	if n.ID == "" {
		return false
	}
	if _, exists := g.nodeIndex[n.ID]; exists {
		return false
	}
	node := &n
	g.nodes = append(g.nodes, node)
	g.nodeIndex[node.ID] = node
	return true
}

// AddLink inserts a link and reports whether it was added. Duplicate
// (Source, Target, Category) triples are silently dropped. Endpoints are
// not checked against the node set.
func (g *Graph) AddLink(l Link) bool {
	if l.Source == "" || l.Target == "" {
		return false
	}
	key := linkKey{source: l.Source, target: l.Target, category: l.Category}
	if _, exists := g.linkIndex[key]; exists {
		return false
	}
	link := &l
	g.links = append(g.links, link)
	g.linkIndex[key] = link
	return true
}

// AddCategory inserts a category and reports whether it was added.
// Duplicate IDs are silently dropped.
func (g *Graph) AddCategory(c Category) bool {
	if c.ID == "" {
		return false
	}
	if _, exists := g.catIndex[c.ID]; exists {
		return false
	}
	cat := &c
	g.categories = append(g.categories, cat)
	g.catIndex[cat.ID] = cat
	return true
}

// AppendStyle appends a style to the declaration list. Styles are never
// deduplicated; the same rule may appear any number of times.
func (g *Graph) AppendStyle(s Style) *Style {
	style := &s
	g.styles = append(g.styles, style)
	return style
}

// DeclareProperty adds a schema entry and reports whether it was added.
// Entries are unique by ID; redeclaring one is a silent no-op.
func (g *Graph) DeclareProperty(p Property) bool {
	if p.ID == "" || g.propIndex[p.ID] {
		return false
	}
	g.properties = append(g.properties, p)
	g.propIndex[p.ID] = true
	return true
}

// Node returns the node with the given ID and true, or nil and false.
// The pointer refers into the graph, so modifications are visible.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodeIndex[id]
	return n, ok
}

// Link returns the link with the given composite key and true, or nil and
// false. The pointer refers into the graph.
func (g *Graph) Link(source, target, category string) (*Link, bool) {
	l, ok := g.linkIndex[linkKey{source: source, target: target, category: category}]
	return l, ok
}

// Category returns the category with the given ID and true, or nil and false.
func (g *Graph) Category(id string) (*Category, bool) {
	c, ok := g.catIndex[id]
	return c, ok
}

// HasProperty reports whether a schema entry with the given ID is declared.
func (g *Graph) HasProperty(id string) bool { return g.propIndex[id] }

// Nodes returns all nodes in insertion order. The slice is a copy but the
// pointers refer into the graph, so element mutations are visible.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Links returns all links in insertion order, with the same aliasing rules
// as [Graph.Nodes].
func (g *Graph) Links() []*Link {
	out := make([]*Link, len(g.links))
	copy(out, g.links)
	return out
}

// Categories returns all categories in insertion order.
func (g *Graph) Categories() []*Category {
	out := make([]*Category, len(g.categories))
	copy(out, g.categories)
	return out
}

// Styles returns all styles in declaration order.
func (g *Graph) Styles() []*Style {
	out := make([]*Style, len(g.styles))
	copy(out, g.styles)
	return out
}

// Properties returns a copy of the property schema in declaration order.
func (g *Graph) Properties() []Property {
	out := make([]Property, len(g.properties))
	copy(out, g.properties)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// LinkCount returns the number of links.
func (g *Graph) LinkCount() int { return len(g.links) }

// Validate reports the first link whose Source or Target does not reference
// an existing node. Dangling endpoints are permitted by the document model,
// so this is purely advisory.
func (g *Graph) Validate() error {
	for _, l := range g.links {
		if _, ok := g.nodeIndex[l.Source]; !ok {
			return fmt.Errorf("link %s→%s: source: %w", l.Source, l.Target, ErrDanglingLink)
		}
		if _, ok := g.nodeIndex[l.Target]; !ok {
			return fmt.Errorf("link %s→%s: target: %w", l.Source, l.Target, ErrDanglingLink)
		}
	}
	return nil
}
