package builder

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dgmlkit/pkg/dgml"
	"github.com/matzehuels/dgmlkit/pkg/errors"
)

// Analysis is a post-processing unit applied after the base graph is
// assembled. Its schema and style declarations are merged into the graph
// before any analysis mutation runs, so Analyze may rely on every declared
// property being present. Analyses run in registration order and each one
// observes the effects of its predecessors.
type Analysis interface {
	// Properties declares the custom attributes the analysis may write.
	Properties() []dgml.Property
	// Styles declares presentation rules keyed to those attributes.
	Styles() []dgml.Style
	// Analyze mutates the assembled graph. An error aborts the build.
	Analyze(g *dgml.Graph) error
}

// GraphBuilder is the assembly entry point. It holds a rule registry and an
// ordered list of analyses, both fixed at construction, and no per-build
// state: concurrent Build calls on independent inputs are safe as long as
// the rules and analyses themselves are pure.
type GraphBuilder struct {
	registry *Registry
	analyses []Analysis
	logger   *log.Logger
}

// BuilderOption configures a GraphBuilder.
type BuilderOption func(*GraphBuilder)

// WithAnalyses registers analyses to run after assembly, in the given order.
func WithAnalyses(analyses ...Analysis) BuilderOption {
	return func(b *GraphBuilder) { b.analyses = append(b.analyses, analyses...) }
}

// WithLogger sets the logger used for assembly progress. The default
// discards everything.
func WithLogger(logger *log.Logger) BuilderOption {
	return func(b *GraphBuilder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates a GraphBuilder over the given registry. A nil registry is
// treated as empty.
func New(registry *Registry, opts ...BuilderOption) *GraphBuilder {
	if registry == nil {
		registry = NewRegistry()
	}
	b := &GraphBuilder{
		registry: registry,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build assembles one graph from the given input collections. Collections
// are flattened in order, and each object is dispatched through the node,
// category and link rules in registration order; results merge under the
// graph's first-wins policy. Style rules then run over the assembled
// elements, and finally the analysis phase mutates the result.
//
// The first rule or analysis error aborts the build; no partial graph is
// ever returned. Retrying with identical inputs is pointless: assembly is a
// deterministic function of the rule set, the analyses and the input order.
func (b *GraphBuilder) Build(collections ...[]any) (*dgml.Graph, error) {
	g := dgml.NewGraph()

	total := 0
	for _, objects := range collections {
		for _, obj := range objects {
			if err := b.dispatch(g, obj); err != nil {
				return nil, err
			}
			total++
		}
	}
	b.logger.Debugf("dispatched %d objects: %d nodes, %d links, %d categories",
		total, g.NodeCount(), g.LinkCount(), len(g.Categories()))

	if err := b.applyStyles(g); err != nil {
		return nil, err
	}
	if err := b.runAnalyses(g); err != nil {
		return nil, err
	}

	return g, nil
}

// dispatch maps one domain object through every matching node, category and
// link rule, in registration order per kind.
func (b *GraphBuilder) dispatch(g *dgml.Graph, obj any) error {
	for _, nb := range b.registry.nodes {
		if !nb.rule.matches(obj) {
			continue
		}
		nodes, err := nb.rule.produce(obj)
		if err != nil {
			return errors.Wrap(errors.ErrCodeRuleFailed, err, "node builder for %T", obj)
		}
		for _, n := range nodes {
			g.AddNode(n)
		}
	}

	for _, cb := range b.registry.categories {
		if !cb.rule.matches(obj) {
			continue
		}
		categories, err := cb.rule.produce(obj)
		if err != nil {
			return errors.Wrap(errors.ErrCodeRuleFailed, err, "category builder for %T", obj)
		}
		for _, c := range categories {
			g.AddCategory(c)
		}
	}

	for _, lb := range b.registry.links {
		if !lb.rule.matches(obj) {
			continue
		}
		links, err := lb.rule.produce(obj)
		if err != nil {
			return errors.Wrap(errors.ErrCodeRuleFailed, err, "link builder for %T", obj)
		}
		for _, l := range links {
			g.AddLink(l)
		}
	}

	return nil
}

// applyStyles is the second dispatch pass: style rules inspect the
// assembled nodes and links, never the original inputs. Each element is
// visited in insertion order and offered to the style rules in registration
// order; produced styles append without deduplication.
func (b *GraphBuilder) applyStyles(g *dgml.Graph) error {
	for _, n := range g.Nodes() {
		if err := b.styleElement(g, *n, dgml.StyleTargetNode); err != nil {
			return err
		}
	}
	for _, l := range g.Links() {
		if err := b.styleElement(g, *l, dgml.StyleTargetLink); err != nil {
			return err
		}
	}
	return nil
}

func (b *GraphBuilder) styleElement(g *dgml.Graph, element any, target dgml.StyleTarget) error {
	for _, sb := range b.registry.styles {
		if sb.target != target || !sb.rule.matches(element) {
			continue
		}
		styles, err := sb.rule.produce(element)
		if err != nil {
			return errors.Wrap(errors.ErrCodeRuleFailed, err, "%s style builder", target)
		}
		for _, s := range styles {
			s.TargetType = target
			g.AppendStyle(s)
		}
	}
	return nil
}

// runAnalyses merges every analysis's schema and style declarations first
// (declare-before-use), then runs the mutations in registration order over
// the shared graph.
func (b *GraphBuilder) runAnalyses(g *dgml.Graph) error {
	for _, a := range b.analyses {
		for _, p := range a.Properties() {
			g.DeclareProperty(p)
		}
	}
	for _, a := range b.analyses {
		for _, s := range a.Styles() {
			g.AppendStyle(s)
		}
	}
	for _, a := range b.analyses {
		if err := a.Analyze(g); err != nil {
			return errors.Wrap(errors.ErrCodeAnalysisFailed, err, "analysis %T", a)
		}
		b.logger.Debugf("analysis %T applied", a)
	}
	return nil
}
