package dgml

import "maps"

// Document is the JSON/BSON serialization mirror of a [Graph], used by the
// HTTP API and the document store. Unlike Graph it is a plain value with no
// identity indexes; use [FromDocument] to rebuild a graph with the merge
// policy reapplied.
type Document struct {
	Title      string     `json:"title,omitempty" bson:"title,omitempty"`
	Nodes      []Node     `json:"nodes" bson:"nodes"`
	Links      []Link     `json:"links" bson:"links"`
	Categories []Category `json:"categories,omitempty" bson:"categories,omitempty"`
	Styles     []Style    `json:"styles,omitempty" bson:"styles,omitempty"`
	Properties []Property `json:"properties,omitempty" bson:"properties,omitempty"`
}

// Document snapshots the graph into its serialization form. Element order is
// preserved; property maps are copied so later graph mutations do not leak
// into the snapshot.
func (g *Graph) Document() Document {
	doc := Document{
		Title: g.Title,
		Nodes: make([]Node, 0, len(g.nodes)),
		Links: make([]Link, 0, len(g.links)),
	}
	for _, n := range g.nodes {
		cp := *n
		cp.Properties = maps.Clone(n.Properties)
		doc.Nodes = append(doc.Nodes, cp)
	}
	for _, l := range g.links {
		cp := *l
		cp.Properties = maps.Clone(l.Properties)
		doc.Links = append(doc.Links, cp)
	}
	for _, c := range g.categories {
		doc.Categories = append(doc.Categories, *c)
	}
	for _, s := range g.styles {
		doc.Styles = append(doc.Styles, *s)
	}
	doc.Properties = g.Properties()
	return doc
}

// FromDocument rebuilds a graph from its serialization form. Duplicates in
// the document are dropped by the usual first-wins policy.
func FromDocument(doc Document) *Graph {
	g := NewGraph()
	g.Title = doc.Title
	for _, n := range doc.Nodes {
		g.AddNode(n)
	}
	for _, l := range doc.Links {
		g.AddLink(l)
	}
	for _, c := range doc.Categories {
		g.AddCategory(c)
	}
	for _, s := range doc.Styles {
		g.AppendStyle(s)
	}
	for _, p := range doc.Properties {
		g.DeclareProperty(p)
	}
	return g
}
