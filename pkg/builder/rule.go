package builder

import "github.com/matzehuels/dgmlkit/pkg/dgml"

// Option configures a builder rule for source type T.
type Option[T any] func(*ruleOpts[T])

type ruleOpts[T any] struct {
	pred func(T) bool
}

// Where attaches an acceptance predicate to a rule. Without it a rule
// accepts every object of its source type. Stacked predicates all have
// to hold for the object to match.
func Where[T any](pred func(T) bool) Option[T] {
	return func(o *ruleOpts[T]) {
		prev := o.pred
		if prev == nil {
			o.pred = pred
			return
		}
		o.pred = func(t T) bool { return prev(t) && pred(t) }
	}
}

// elementRule is the untyped face of a rule: a type/predicate match check
// and a mapping from the (already matched) object to output elements.
type elementRule[E any] interface {
	matches(v any) bool
	produce(v any) ([]E, error)
}

// typedRule binds a rule declared for source type T to the untyped dispatch
// path. The type-tag check is a plain assertion: exact for concrete T,
// assignability for interface T.
type typedRule[T any, E any] struct {
	pred func(T) bool
	fn   func(T) ([]E, error)
}

func (r typedRule[T, E]) matches(v any) bool {
	t, ok := v.(T)
	if !ok {
		return false
	}
	return r.pred == nil || r.pred(t)
}

func (r typedRule[T, E]) produce(v any) ([]E, error) {
	return r.fn(v.(T))
}

func newMultiRule[T any, E any](fn func(T) ([]E, error), opts []Option[T]) elementRule[E] {
	var cfg ruleOpts[T]
	for _, o := range opts {
		o(&cfg)
	}
	return typedRule[T, E]{pred: cfg.pred, fn: fn}
}

func newSingleRule[T any, E any](fn func(T) (*E, error), opts []Option[T]) elementRule[E] {
	return newMultiRule(func(t T) ([]E, error) {
		e, err := fn(t)
		if err != nil {
			return nil, err
		}
		if e == nil {
			return nil, nil
		}
		return []E{*e}, nil
	}, opts)
}

// NodeBuilder converts accepted domain objects into nodes.
type NodeBuilder struct {
	rule elementRule[dgml.Node]
}

// NewNodeBuilder creates a single-cardinality node rule for source type T.
// The mapping function may return nil to produce nothing for an accepted
// object.
func NewNodeBuilder[T any](fn func(T) (*dgml.Node, error), opts ...Option[T]) NodeBuilder {
	return NodeBuilder{rule: newSingleRule(fn, opts)}
}

// NewNodesBuilder creates a multi-cardinality node rule for source type T.
func NewNodesBuilder[T any](fn func(T) ([]dgml.Node, error), opts ...Option[T]) NodeBuilder {
	return NodeBuilder{rule: newMultiRule(fn, opts)}
}

// LinkBuilder converts accepted domain objects into links. Cross-object
// structure must already be encoded on the object (source and target IDs);
// link rules never see the rest of the graph.
type LinkBuilder struct {
	rule elementRule[dgml.Link]
}

// NewLinkBuilder creates a single-cardinality link rule for source type T.
func NewLinkBuilder[T any](fn func(T) (*dgml.Link, error), opts ...Option[T]) LinkBuilder {
	return LinkBuilder{rule: newSingleRule(fn, opts)}
}

// NewLinksBuilder creates a multi-cardinality link rule for source type T.
func NewLinksBuilder[T any](fn func(T) ([]dgml.Link, error), opts ...Option[T]) LinkBuilder {
	return LinkBuilder{rule: newMultiRule(fn, opts)}
}

// CategoryBuilder converts accepted domain objects into categories.
type CategoryBuilder struct {
	rule elementRule[dgml.Category]
}

// NewCategoryBuilder creates a single-cardinality category rule for source
// type T.
func NewCategoryBuilder[T any](fn func(T) (*dgml.Category, error), opts ...Option[T]) CategoryBuilder {
	return CategoryBuilder{rule: newSingleRule(fn, opts)}
}

// NewCategoriesBuilder creates a multi-cardinality category rule for source
// type T.
func NewCategoriesBuilder[T any](fn func(T) ([]dgml.Category, error), opts ...Option[T]) CategoryBuilder {
	return CategoryBuilder{rule: newMultiRule(fn, opts)}
}

// StyledElement restricts style rules to the two element kinds they can
// target. Style rules run over assembled output elements, not over the
// original domain objects.
type StyledElement interface {
	dgml.Node | dgml.Link
}

// StyleBuilder converts assembled nodes or links into style declarations.
type StyleBuilder struct {
	target dgml.StyleTarget
	rule   elementRule[dgml.Style]
}

// Target returns which element kind this style rule inspects, derived from
// its source type.
func (b StyleBuilder) Target() dgml.StyleTarget { return b.target }

// NewStyleBuilder creates a single-cardinality style rule over assembled
// elements of type T. Produced styles always carry the TargetType matching
// T, regardless of what the mapping function set.
func NewStyleBuilder[T StyledElement](fn func(T) (*dgml.Style, error), opts ...Option[T]) StyleBuilder {
	return StyleBuilder{target: styleTarget[T](), rule: newSingleRule(fn, opts)}
}

// NewStylesBuilder creates a multi-cardinality style rule over assembled
// elements of type T.
func NewStylesBuilder[T StyledElement](fn func(T) ([]dgml.Style, error), opts ...Option[T]) StyleBuilder {
	return StyleBuilder{target: styleTarget[T](), rule: newMultiRule(fn, opts)}
}

func styleTarget[T StyledElement]() dgml.StyleTarget {
	var zero T
	switch any(zero).(type) {
	case dgml.Link:
		return dgml.StyleTargetLink
	default:
		return dgml.StyleTargetNode
	}
}
