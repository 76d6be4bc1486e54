package dgml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
)

// Namespace is the XML namespace of the DGML dialect.
const Namespace = "http://schemas.microsoft.com/vs/2009/dgml"

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalDGML converts a graph to DGML bytes. Custom properties are emitted
// as attributes with keys in sorted order, so output is deterministic for a
// given graph.
func MarshalDGML(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDGML(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDGML writes a graph as DGML markup to an io.Writer.
// Use MarshalDGML for in-memory serialization or WriteDGMLFile for files.
func WriteDGML(g *Graph, w io.Writer) error {
	doc := toXML(g)
	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// WriteDGMLFile writes a graph to a DGML file.
// The file is created with 0644 permissions.
func WriteDGMLFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDGML(g, f)
}

// =============================================================================
// XML Document Model
// =============================================================================

// Reserved attribute names on Node and Link elements. Everything else is a
// custom property.
const (
	attrID       = "Id"
	attrLabel    = "Label"
	attrCategory = "Category"
	attrSource   = "Source"
	attrTarget   = "Target"
)

// Group elements are pointers so empty groups disappear from the output
// entirely; a nested path like "Nodes>Node" would still emit the bare
// parent element.
type xmlDocument struct {
	XMLName    xml.Name          `xml:"DirectedGraph"`
	Xmlns      string            `xml:"xmlns,attr"`
	Title      string            `xml:"Title,attr,omitempty"`
	Nodes      *xmlNodeGroup     `xml:"Nodes"`
	Links      *xmlLinkGroup     `xml:"Links"`
	Categories *xmlCategoryGroup `xml:"Categories"`
	Styles     *xmlStyleGroup    `xml:"Styles"`
	Properties *xmlPropertyGroup `xml:"Properties"`
}

type xmlNodeGroup struct {
	Nodes []xmlNode `xml:"Node"`
}

type xmlLinkGroup struct {
	Links []xmlLink `xml:"Link"`
}

type xmlCategoryGroup struct {
	Categories []xmlCategory `xml:"Category"`
}

type xmlStyleGroup struct {
	Styles []xmlStyle `xml:"Style"`
}

type xmlPropertyGroup struct {
	Properties []xmlProperty `xml:"Property"`
}

// Nil-safe group accessors for decoding.

func (d xmlDocument) nodes() []xmlNode {
	if d.Nodes == nil {
		return nil
	}
	return d.Nodes.Nodes
}

func (d xmlDocument) links() []xmlLink {
	if d.Links == nil {
		return nil
	}
	return d.Links.Links
}

func (d xmlDocument) categories() []xmlCategory {
	if d.Categories == nil {
		return nil
	}
	return d.Categories.Categories
}

func (d xmlDocument) styles() []xmlStyle {
	if d.Styles == nil {
		return nil
	}
	return d.Styles.Styles
}

func (d xmlDocument) properties() []xmlProperty {
	if d.Properties == nil {
		return nil
	}
	return d.Properties.Properties
}

type xmlNode struct {
	Attrs []xml.Attr  `xml:",any,attr"`
	Refs  []xmlCatRef `xml:"Category"`
}

type xmlCatRef struct {
	Ref string `xml:"Ref,attr"`
}

type xmlLink struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

type xmlCategory struct {
	ID    string `xml:"Id,attr"`
	Label string `xml:"Label,attr,omitempty"`
}

type xmlStyle struct {
	TargetType string         `xml:"TargetType,attr"`
	GroupLabel string         `xml:"GroupLabel,attr,omitempty"`
	Conditions []xmlCondition `xml:"Condition"`
	Setters    []xmlSetter    `xml:"Setter"`
}

type xmlCondition struct {
	Expression string `xml:"Expression,attr"`
}

type xmlSetter struct {
	Property string `xml:"Property,attr"`
	Value    string `xml:"Value,attr"`
}

type xmlProperty struct {
	ID          string `xml:"Id,attr"`
	DataType    string `xml:"DataType,attr,omitempty"`
	Label       string `xml:"Label,attr,omitempty"`
	Description string `xml:"Description,attr,omitempty"`
}

// =============================================================================
// Conversion
// =============================================================================

func toXML(g *Graph) xmlDocument {
	doc := xmlDocument{
		Xmlns: Namespace,
		Title: g.Title,
	}

	if len(g.nodes) > 0 {
		doc.Nodes = &xmlNodeGroup{}
		for _, n := range g.nodes {
			xn := xmlNode{Attrs: []xml.Attr{attr(attrID, n.ID)}}
			if n.Label != "" {
				xn.Attrs = append(xn.Attrs, attr(attrLabel, n.Label))
			}
			if n.Category != "" {
				xn.Attrs = append(xn.Attrs, attr(attrCategory, n.Category))
			}
			xn.Attrs = append(xn.Attrs, propertyAttrs(n.Properties)...)
			for _, ref := range n.CategoryRefs {
				xn.Refs = append(xn.Refs, xmlCatRef{Ref: ref})
			}
			doc.Nodes.Nodes = append(doc.Nodes.Nodes, xn)
		}
	}

	if len(g.links) > 0 {
		doc.Links = &xmlLinkGroup{}
		for _, l := range g.links {
			xl := xmlLink{Attrs: []xml.Attr{attr(attrSource, l.Source), attr(attrTarget, l.Target)}}
			if l.Label != "" {
				xl.Attrs = append(xl.Attrs, attr(attrLabel, l.Label))
			}
			if l.Category != "" {
				xl.Attrs = append(xl.Attrs, attr(attrCategory, l.Category))
			}
			xl.Attrs = append(xl.Attrs, propertyAttrs(l.Properties)...)
			doc.Links.Links = append(doc.Links.Links, xl)
		}
	}

	if len(g.categories) > 0 {
		doc.Categories = &xmlCategoryGroup{}
		for _, c := range g.categories {
			doc.Categories.Categories = append(doc.Categories.Categories, xmlCategory{ID: c.ID, Label: c.Label})
		}
	}

	if len(g.styles) > 0 {
		doc.Styles = &xmlStyleGroup{}
		for _, s := range g.styles {
			xs := xmlStyle{TargetType: string(s.TargetType), GroupLabel: s.GroupLabel}
			for _, c := range s.Conditions {
				xs.Conditions = append(xs.Conditions, xmlCondition{Expression: c.Expression})
			}
			for _, st := range s.Setters {
				xs.Setters = append(xs.Setters, xmlSetter{Property: st.Property, Value: st.Value})
			}
			doc.Styles.Styles = append(doc.Styles.Styles, xs)
		}
	}

	if len(g.properties) > 0 {
		doc.Properties = &xmlPropertyGroup{}
		for _, p := range g.properties {
			doc.Properties.Properties = append(doc.Properties.Properties, xmlProperty{
				ID:          p.ID,
				DataType:    p.DataType,
				Label:       p.Label,
				Description: p.Description,
			})
		}
	}

	return doc
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

// propertyAttrs converts a property map to attributes with sorted keys.
// The sort keeps encoding deterministic regardless of map iteration order.
func propertyAttrs(props Properties) []xml.Attr {
	if len(props) == 0 {
		return nil
	}
	attrs := make([]xml.Attr, 0, len(props))
	for _, key := range slices.Sorted(maps.Keys(props)) {
		attrs = append(attrs, attr(key, FormatValue(props[key])))
	}
	return attrs
}

// FormatValue renders a property value the way the markup expects it:
// booleans as "true"/"false", numbers without an exponent where possible,
// everything else via fmt.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}
