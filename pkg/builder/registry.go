package builder

// Registry holds the builder rules for the four output element kinds as
// independent ordered lists. Registration order is a contract: it decides
// both which rule maps an object first and which duplicate wins during the
// merge, so rules are never reordered internally.
//
// A Registry is configured up front and read-only during assembly; rules
// must not register further rules. An empty registry is valid and yields an
// empty graph for any input.
type Registry struct {
	nodes      []NodeBuilder
	links      []LinkBuilder
	categories []CategoryBuilder
	styles     []StyleBuilder
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// AddNodeBuilder appends node rules in the given order and returns the
// registry for chaining.
func (r *Registry) AddNodeBuilder(builders ...NodeBuilder) *Registry {
	r.nodes = append(r.nodes, builders...)
	return r
}

// AddLinkBuilder appends link rules in the given order.
func (r *Registry) AddLinkBuilder(builders ...LinkBuilder) *Registry {
	r.links = append(r.links, builders...)
	return r
}

// AddCategoryBuilder appends category rules in the given order.
func (r *Registry) AddCategoryBuilder(builders ...CategoryBuilder) *Registry {
	r.categories = append(r.categories, builders...)
	return r
}

// AddStyleBuilder appends style rules in the given order.
func (r *Registry) AddStyleBuilder(builders ...StyleBuilder) *Registry {
	r.styles = append(r.styles, builders...)
	return r
}

// RuleCount returns the total number of registered rules across all kinds.
func (r *Registry) RuleCount() int {
	return len(r.nodes) + len(r.links) + len(r.categories) + len(r.styles)
}
