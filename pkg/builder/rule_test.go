package builder

import (
	"testing"

	"github.com/matzehuels/dgmlkit/pkg/dgml"
)

func TestTypedRuleMatchesConcreteType(t *testing.T) {
	r := newSingleRule(func(s service) (*dgml.Node, error) {
		return &dgml.Node{ID: s.Name}, nil
	}, nil)

	if !r.matches(service{Name: "a"}) {
		t.Error("rule should match its declared type")
	}
	if r.matches(queue{Name: "q"}) {
		t.Error("rule must not match a different concrete type")
	}
	if r.matches(&service{Name: "a"}) {
		t.Error("pointer to the type is a distinct type and must not match")
	}
	if r.matches(nil) {
		t.Error("nil input must not match")
	}
}

func TestTypedRulePredicateGatesMatch(t *testing.T) {
	r := newSingleRule(
		func(s service) (*dgml.Node, error) { return &dgml.Node{ID: s.Name}, nil },
		[]Option[service]{Where(func(s service) bool { return s.Name != "hidden" })},
	)

	if !r.matches(service{Name: "visible"}) {
		t.Error("predicate accepting input should match")
	}
	if r.matches(service{Name: "hidden"}) {
		t.Error("predicate rejecting input must not match")
	}
}

func TestTypedRuleMultiplePredicatesAllMustHold(t *testing.T) {
	r := newSingleRule(
		func(s service) (*dgml.Node, error) { return &dgml.Node{ID: s.Name}, nil },
		[]Option[service]{
			Where(func(s service) bool { return len(s.Name) > 1 }),
			Where(func(s service) bool { return s.Name[0] == 'a' }),
		},
	)

	if !r.matches(service{Name: "api"}) {
		t.Error("both predicates hold, should match")
	}
	if r.matches(service{Name: "a"}) || r.matches(service{Name: "db"}) {
		t.Error("a single failing predicate must reject the object")
	}
}

func TestMultiRuleProducesAllElements(t *testing.T) {
	r := newMultiRule(func(s service) ([]dgml.Link, error) {
		out := make([]dgml.Link, 0, len(s.DependsOn))
		for _, d := range s.DependsOn {
			out = append(out, dgml.Link{Source: s.Name, Target: d})
		}
		return out, nil
	}, nil)

	got, err := r.produce(service{Name: "api", DependsOn: []string{"db", "cache"}})
	if err != nil {
		t.Fatalf("produce: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("produced %d links, want 2", len(got))
	}
}

func TestStyleBuilderInfersTarget(t *testing.T) {
	nodeStyle := NewStyleBuilder(func(dgml.Node) (*dgml.Style, error) {
		return &dgml.Style{}, nil
	})
	if nodeStyle.Target() != dgml.StyleTargetNode {
		t.Errorf("Target = %q, want %q", nodeStyle.Target(), dgml.StyleTargetNode)
	}

	linkStyle := NewStyleBuilder(func(dgml.Link) (*dgml.Style, error) {
		return &dgml.Style{}, nil
	})
	if linkStyle.Target() != dgml.StyleTargetLink {
		t.Errorf("Target = %q, want %q", linkStyle.Target(), dgml.StyleTargetLink)
	}
}

func TestRegistryChainingAndCount(t *testing.T) {
	reg := NewRegistry().
		AddNodeBuilder(
			NewNodeBuilder(func(s service) (*dgml.Node, error) { return nil, nil }),
			NewNodeBuilder(func(q queue) (*dgml.Node, error) { return nil, nil }),
		).
		AddLinkBuilder(NewLinksBuilder(func(s service) ([]dgml.Link, error) { return nil, nil })).
		AddCategoryBuilder(NewCategoryBuilder(func(s service) (*dgml.Category, error) { return nil, nil })).
		AddStyleBuilder(NewStyleBuilder(func(dgml.Node) (*dgml.Style, error) { return nil, nil }))

	if got := reg.RuleCount(); got != 5 {
		t.Errorf("RuleCount = %d, want 5", got)
	}
}
