package analysis

import (
	"github.com/matzehuels/dgmlkit/pkg/dgml"
)

// Orphan flags nodes that participate in no link at all. Flagged nodes are
// dimmed by the contributed style so they fade into the background of a
// rendered document.
type Orphan struct{}

func (Orphan) Properties() []dgml.Property {
	return []dgml.Property{
		{ID: "Unreferenced", DataType: dgml.DataTypeBool, Label: "Unreferenced"},
	}
}

func (Orphan) Styles() []dgml.Style {
	return []dgml.Style{{
		TargetType: dgml.StyleTargetNode,
		GroupLabel: "Unreferenced Nodes",
		Conditions: []dgml.Condition{{Expression: "Unreferenced='true'"}},
		Setters: []dgml.Setter{
			{Property: "Background", Value: "#EEEEEE"},
			{Property: "Foreground", Value: "#999999"},
		},
	}}
}

func (Orphan) Analyze(g *dgml.Graph) error {
	connected := make(map[string]bool)
	for _, l := range g.Links() {
		connected[l.Source] = true
		connected[l.Target] = true
	}
	for _, n := range g.Nodes() {
		n.SetProperty("Unreferenced", !connected[n.ID])
	}
	return nil
}
