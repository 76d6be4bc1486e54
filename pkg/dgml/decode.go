package dgml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

// ReadDGML decodes DGML markup from an io.Reader into a graph. Custom
// attributes on nodes and links are restored as string-valued properties;
// the property schema carries their declared types but decoding does not
// coerce values.
func ReadDGML(r io.Reader) (*Graph, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return fromXML(doc), nil
}

// ReadDGMLFile reads a DGML file and returns the decoded graph.
func ReadDGMLFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDGML(f)
}

func fromXML(doc xmlDocument) *Graph {
	g := NewGraph()
	g.Title = doc.Title

	for _, xn := range doc.nodes() {
		var n Node
		for _, a := range xn.Attrs {
			switch a.Name.Local {
			case attrID:
				n.ID = a.Value
			case attrLabel:
				n.Label = a.Value
			case attrCategory:
				n.Category = a.Value
			case "xmlns":
				// namespace declaration, not a property
			default:
				n.SetProperty(a.Name.Local, a.Value)
			}
		}
		for _, ref := range xn.Refs {
			n.CategoryRefs = append(n.CategoryRefs, ref.Ref)
		}
		g.AddNode(n)
	}

	for _, xl := range doc.links() {
		var l Link
		for _, a := range xl.Attrs {
			switch a.Name.Local {
			case attrSource:
				l.Source = a.Value
			case attrTarget:
				l.Target = a.Value
			case attrLabel:
				l.Label = a.Value
			case attrCategory:
				l.Category = a.Value
			case "xmlns":
			default:
				l.SetProperty(a.Name.Local, a.Value)
			}
		}
		g.AddLink(l)
	}

	for _, xc := range doc.categories() {
		g.AddCategory(Category{ID: xc.ID, Label: xc.Label})
	}

	for _, xs := range doc.styles() {
		s := Style{TargetType: StyleTarget(xs.TargetType), GroupLabel: xs.GroupLabel}
		for _, c := range xs.Conditions {
			s.Conditions = append(s.Conditions, Condition{Expression: c.Expression})
		}
		for _, st := range xs.Setters {
			s.Setters = append(s.Setters, Setter{Property: st.Property, Value: st.Value})
		}
		g.AppendStyle(s)
	}

	for _, xp := range doc.properties() {
		g.DeclareProperty(Property{
			ID:          xp.ID,
			DataType:    xp.DataType,
			Label:       xp.Label,
			Description: xp.Description,
		})
	}

	return g
}
