package dgml

// Well-known DGML data type identifiers for property schema entries.
const (
	DataTypeString = "System.String"
	DataTypeBool   = "System.Boolean"
	DataTypeInt32  = "System.Int32"
	DataTypeDouble = "System.Double"
)

// Properties holds arbitrary named attributes attached to a node or link.
// Keys should have a matching schema entry (see [Property]) when the graph
// is handed to an encoder; the graph itself does not enforce this.
type Properties map[string]any

// Node is a vertex of the graph document. ID is the stable identity key and
// must be non-empty; everything else is presentation data.
type Node struct {
	ID           string     `json:"id" bson:"id"`
	Label        string     `json:"label,omitempty" bson:"label,omitempty"`
	Category     string     `json:"category,omitempty" bson:"category,omitempty"`
	CategoryRefs []string   `json:"category_refs,omitempty" bson:"category_refs,omitempty"`
	Properties   Properties `json:"properties,omitempty" bson:"properties,omitempty"`
}

// SetProperty sets a custom attribute on the node, allocating the map on
// first use. Existing values are overwritten.
func (n *Node) SetProperty(key string, value any) {
	if n.Properties == nil {
		n.Properties = Properties{}
	}
	n.Properties[key] = value
}

// Property returns the custom attribute for key and whether it is set.
func (n *Node) Property(key string) (any, bool) {
	v, ok := n.Properties[key]
	return v, ok
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Link is a directed connection between two node IDs. Identity is the
// (Source, Target, Category) triple; the endpoints are not required to
// reference existing nodes.
type Link struct {
	Source     string     `json:"source" bson:"source"`
	Target     string     `json:"target" bson:"target"`
	Label      string     `json:"label,omitempty" bson:"label,omitempty"`
	Category   string     `json:"category,omitempty" bson:"category,omitempty"`
	Properties Properties `json:"properties,omitempty" bson:"properties,omitempty"`
}

// SetProperty sets a custom attribute on the link, allocating the map on
// first use. Existing values are overwritten.
func (l *Link) SetProperty(key string, value any) {
	if l.Properties == nil {
		l.Properties = Properties{}
	}
	l.Properties[key] = value
}

// Property returns the custom attribute for key and whether it is set.
func (l *Link) Property(key string) (any, bool) {
	v, ok := l.Properties[key]
	return v, ok
}

// Category is a classification tag. It doubles as a grouping mechanism when
// nodes reference it through CategoryRefs.
type Category struct {
	ID    string `json:"id" bson:"id"`
	Label string `json:"label,omitempty" bson:"label,omitempty"`
}

// StyleTarget selects which element kind a style applies to.
type StyleTarget string

// Style targets.
const (
	StyleTargetNode StyleTarget = "Node"
	StyleTargetLink StyleTarget = "Link"
)

// Condition guards a style with an attribute-equality expression, e.g.
// "IsHub='true'". The expression language is interpreted by the viewer, not
// by this package.
type Condition struct {
	Expression string `json:"expression" bson:"expression"`
}

// Setter assigns a visual property (Background, Stroke, FontSize, ...) when
// the owning style's conditions hold.
type Setter struct {
	Property string `json:"property" bson:"property"`
	Value    string `json:"value" bson:"value"`
}

// Style is a declarative visual rule. Styles are not deduplicated; they
// apply in declaration order.
type Style struct {
	TargetType StyleTarget `json:"target_type" bson:"target_type"`
	GroupLabel string      `json:"group_label,omitempty" bson:"group_label,omitempty"`
	Conditions []Condition `json:"conditions,omitempty" bson:"conditions,omitempty"`
	Setters    []Setter    `json:"setters,omitempty" bson:"setters,omitempty"`
}

// Property declares a custom attribute in the graph's schema so that
// encoders and viewers know its type.
type Property struct {
	ID          string `json:"id" bson:"id"`
	DataType    string `json:"data_type,omitempty" bson:"data_type,omitempty"`
	Label       string `json:"label,omitempty" bson:"label,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}
