package analysis

import (
	"github.com/matzehuels/dgmlkit/pkg/dgml"
)

// DefaultHubThreshold is the inbound degree at which a node counts as a hub
// when no explicit threshold is configured.
const DefaultHubThreshold = 3

// Hub annotates every node with its link degree and flags heavily
// referenced nodes. It contributes three custom properties and a style
// group that highlights the flagged nodes.
type Hub struct {
	// Threshold is the minimum inbound link count for a node to be
	// flagged. Zero means DefaultHubThreshold.
	Threshold int
}

func (h Hub) threshold() int {
	if h.Threshold > 0 {
		return h.Threshold
	}
	return DefaultHubThreshold
}

func (Hub) Properties() []dgml.Property {
	return []dgml.Property{
		{ID: "InboundLinkCount", DataType: dgml.DataTypeInt32, Label: "Inbound Links"},
		{ID: "OutboundLinkCount", DataType: dgml.DataTypeInt32, Label: "Outbound Links"},
		{ID: "IsHub", DataType: dgml.DataTypeBool, Label: "Hub"},
	}
}

func (Hub) Styles() []dgml.Style {
	return []dgml.Style{{
		TargetType: dgml.StyleTargetNode,
		GroupLabel: "Hubs",
		Conditions: []dgml.Condition{{Expression: "IsHub='true'"}},
		Setters: []dgml.Setter{
			{Property: "Background", Value: "#FFD700"},
			{Property: "Stroke", Value: "#B8860B"},
		},
	}}
}

func (h Hub) Analyze(g *dgml.Graph) error {
	inbound := make(map[string]int)
	outbound := make(map[string]int)
	for _, l := range g.Links() {
		outbound[l.Source]++
		inbound[l.Target]++
	}

	cutoff := h.threshold()
	for _, n := range g.Nodes() {
		in, out := inbound[n.ID], outbound[n.ID]
		n.SetProperty("InboundLinkCount", in)
		n.SetProperty("OutboundLinkCount", out)
		n.SetProperty("IsHub", in >= cutoff)
	}
	return nil
}
