package builder

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/matzehuels/dgmlkit/pkg/dgml"
	"github.com/matzehuels/dgmlkit/pkg/errors"
)

// Test domain types.
type service struct {
	Name      string
	DependsOn []string
}

type queue struct {
	Name string
}

// named is implemented by both test types to exercise interface dispatch.
type named interface{ name() string }

func (s service) name() string { return s.Name }
func (q queue) name() string   { return q.Name }

func serviceRules() *Registry {
	return NewRegistry().
		AddNodeBuilder(NewNodeBuilder(func(s service) (*dgml.Node, error) {
			return &dgml.Node{ID: s.Name, Category: "service"}, nil
		})).
		AddLinkBuilder(NewLinksBuilder(func(s service) ([]dgml.Link, error) {
			links := make([]dgml.Link, 0, len(s.DependsOn))
			for _, dep := range s.DependsOn {
				links = append(links, dgml.Link{Source: s.Name, Target: dep})
			}
			return links, nil
		}))
}

func TestBuildEmptyRegistryYieldsEmptyGraph(t *testing.T) {
	g, err := New(nil).Build([]any{service{Name: "a"}, queue{Name: "q"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.NodeCount() != 0 || g.LinkCount() != 0 {
		t.Errorf("empty registry produced %d nodes, %d links", g.NodeCount(), g.LinkCount())
	}
}

func TestBuildDuplicateNodesFirstProducedWins(t *testing.T) {
	// Two rules both match; the earlier-registered one must win the merge.
	reg := NewRegistry().
		AddNodeBuilder(NewNodeBuilder(func(s service) (*dgml.Node, error) {
			return &dgml.Node{ID: s.Name, Label: "from-first-rule"}, nil
		})).
		AddNodeBuilder(NewNodeBuilder(func(s service) (*dgml.Node, error) {
			return &dgml.Node{ID: s.Name, Label: "from-second-rule"}, nil
		}))

	g, err := New(reg).Build([]any{service{Name: "a"}, service{Name: "a"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if g.NodeCount() != 1 {
		t.Fatalf("NodeCount = %d, want 1", g.NodeCount())
	}
	n, _ := g.Node("a")
	if n.Label != "from-first-rule" {
		t.Errorf("Label = %q, want the first-registered rule's output", n.Label)
	}
}

func TestBuildDeterministic(t *testing.T) {
	inputs := []any{
		service{Name: "api", DependsOn: []string{"db", "cache"}},
		service{Name: "db"},
		service{Name: "cache"},
		queue{Name: "jobs"},
	}
	b := New(serviceRules())

	first, err := b.Build(inputs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	firstBytes, err := dgml.MarshalDGML(first)
	if err != nil {
		t.Fatalf("MarshalDGML: %v", err)
	}

	for range 5 {
		again, err := b.Build(inputs)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		againBytes, err := dgml.MarshalDGML(again)
		if err != nil {
			t.Fatalf("MarshalDGML: %v", err)
		}
		if !bytes.Equal(firstBytes, againBytes) {
			t.Fatal("same rules, analyses and input order must yield an identical graph")
		}
	}
}

func TestBuildAlwaysRejectingPredicate(t *testing.T) {
	reg := NewRegistry().AddNodeBuilder(NewNodeBuilder(
		func(s service) (*dgml.Node, error) { return &dgml.Node{ID: s.Name}, nil },
		Where(func(service) bool { return false }),
	))

	inputs := make([]any, 100)
	for i := range inputs {
		inputs[i] = service{Name: fmt.Sprintf("svc-%d", i)}
	}

	g, err := New(reg).Build(inputs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.NodeCount() != 0 {
		t.Errorf("rejecting predicate produced %d nodes, want 0", g.NodeCount())
	}
}

func TestBuildSingleRuleNilOutput(t *testing.T) {
	reg := NewRegistry().AddNodeBuilder(NewNodeBuilder(func(s service) (*dgml.Node, error) {
		if s.Name == "skip" {
			return nil, nil
		}
		return &dgml.Node{ID: s.Name}, nil
	}))

	g, err := New(reg).Build([]any{service{Name: "keep"}, service{Name: "skip"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount = %d, want 1 (nil output produces nothing)", g.NodeCount())
	}
}

func TestBuildInterfaceDispatch(t *testing.T) {
	// A rule declared for an interface accepts every implementing type.
	reg := NewRegistry().AddNodeBuilder(NewNodeBuilder(func(n named) (*dgml.Node, error) {
		return &dgml.Node{ID: n.name()}, nil
	}))

	g, err := New(reg).Build([]any{service{Name: "svc"}, queue{Name: "q"}, 42})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2 (int does not implement the interface)", g.NodeCount())
	}
}

func TestBuildExactTypeDispatch(t *testing.T) {
	reg := NewRegistry().AddNodeBuilder(NewNodeBuilder(func(q queue) (*dgml.Node, error) {
		return &dgml.Node{ID: q.Name, Category: "queue"}, nil
	}))

	g, err := New(reg).Build([]any{service{Name: "svc"}, queue{Name: "q"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.NodeCount() != 1 {
		t.Fatalf("NodeCount = %d, want 1", g.NodeCount())
	}
	if _, ok := g.Node("q"); !ok {
		t.Error("queue node missing")
	}
}

func TestBuildRuleErrorAbortsAssembly(t *testing.T) {
	cause := stderrors.New("bad object")
	reg := NewRegistry().AddNodeBuilder(NewNodeBuilder(func(s service) (*dgml.Node, error) {
		if s.Name == "poison" {
			return nil, cause
		}
		return &dgml.Node{ID: s.Name}, nil
	}))

	g, err := New(reg).Build([]any{service{Name: "ok"}, service{Name: "poison"}})
	if g != nil {
		t.Error("failed build must not return a partial graph")
	}
	if !errors.Is(err, errors.ErrCodeRuleFailed) {
		t.Errorf("error code = %q, want RULE_FAILED", errors.GetCode(err))
	}
	if !stderrors.Is(err, cause) {
		t.Error("original cause should be preserved in the chain")
	}
}

func TestBuildStyleTargetsDoNotCross(t *testing.T) {
	reg := serviceRules().
		AddStyleBuilder(NewStyleBuilder(func(n dgml.Node) (*dgml.Style, error) {
			return &dgml.Style{GroupLabel: "node-style"}, nil
		})).
		AddStyleBuilder(NewStyleBuilder(func(l dgml.Link) (*dgml.Style, error) {
			return &dgml.Style{GroupLabel: "link-style"}, nil
		}))

	g, err := New(reg).Build([]any{
		service{Name: "api", DependsOn: []string{"db"}},
		service{Name: "db"},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, s := range g.Styles() {
		switch s.GroupLabel {
		case "node-style":
			if s.TargetType != dgml.StyleTargetNode {
				t.Errorf("node style has TargetType %q", s.TargetType)
			}
		case "link-style":
			if s.TargetType != dgml.StyleTargetLink {
				t.Errorf("link style has TargetType %q", s.TargetType)
			}
		}
	}

	// 2 nodes styled once each + 1 link styled once.
	if len(g.Styles()) != 3 {
		t.Errorf("Styles = %d, want 3", len(g.Styles()))
	}
}

func TestBuildStyleDuplicatesAllowed(t *testing.T) {
	reg := serviceRules().AddStyleBuilder(NewStyleBuilder(func(n dgml.Node) (*dgml.Style, error) {
		return &dgml.Style{GroupLabel: "same"}, nil
	}))

	g, err := New(reg).Build([]any{service{Name: "a"}, service{Name: "b"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(g.Styles()) != 2 {
		t.Errorf("Styles = %d, want 2 (one per node, no dedup)", len(g.Styles()))
	}
}

// countingAnalysis records node count in a custom property on every node.
type countingAnalysis struct{}

func (countingAnalysis) Properties() []dgml.Property {
	return []dgml.Property{{ID: "TotalNodes", DataType: dgml.DataTypeInt32}}
}

func (countingAnalysis) Styles() []dgml.Style { return nil }

func (countingAnalysis) Analyze(g *dgml.Graph) error {
	for _, n := range g.Nodes() {
		n.SetProperty("TotalNodes", g.NodeCount())
	}
	return nil
}

func TestAnalysisObservesAssembledGraph(t *testing.T) {
	g, err := New(serviceRules(), WithAnalyses(countingAnalysis{})).
		Build([]any{service{Name: "only"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	n, _ := g.Node("only")
	v, ok := n.Property("TotalNodes")
	if !ok || v != 1 {
		t.Errorf("TotalNodes = %v, want 1", v)
	}
	if !g.HasProperty("TotalNodes") {
		t.Error("analysis schema entry missing from graph")
	}
}

// declaringAnalysis declares schema and styles but never writes anything.
type declaringAnalysis struct{}

func (declaringAnalysis) Properties() []dgml.Property {
	return []dgml.Property{{ID: "NeverUsed", DataType: dgml.DataTypeBool}}
}

func (declaringAnalysis) Styles() []dgml.Style {
	return []dgml.Style{{TargetType: dgml.StyleTargetNode, GroupLabel: "declared"}}
}

func (declaringAnalysis) Analyze(*dgml.Graph) error { return nil }

func TestAnalysisDeclarationsMergedRegardlessOfUse(t *testing.T) {
	g, err := New(serviceRules(), WithAnalyses(declaringAnalysis{})).Build(nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !g.HasProperty("NeverUsed") {
		t.Error("unused schema declaration should still be present")
	}
	if len(g.Styles()) != 1 {
		t.Errorf("Styles = %d, want 1 (declared style present)", len(g.Styles()))
	}
}

// flagAnalysis sets Flag=true on one node. Style rules already ran, so this
// must never grow the style list.
type flagAnalysis struct{ id string }

func (a flagAnalysis) Properties() []dgml.Property {
	return []dgml.Property{{ID: "Flag", DataType: dgml.DataTypeBool}}
}

func (flagAnalysis) Styles() []dgml.Style { return nil }

func (a flagAnalysis) Analyze(g *dgml.Graph) error {
	if n, ok := g.Node(a.id); ok {
		n.SetProperty("Flag", true)
	}
	return nil
}

func TestStyleRulesSeeBuilderTimePropertiesOnly(t *testing.T) {
	// Node "a" gets Flag=true from its builder; node "b" gets it from an
	// analysis. The style pass runs between the two, so only "a" may match.
	reg := NewRegistry().
		AddNodeBuilder(NewNodeBuilder(func(s service) (*dgml.Node, error) {
			n := &dgml.Node{ID: s.Name}
			if s.Name == "a" {
				n.SetProperty("Flag", true)
			}
			return n, nil
		})).
		AddStyleBuilder(NewStyleBuilder(
			func(n dgml.Node) (*dgml.Style, error) {
				return &dgml.Style{
					GroupLabel: "flagged-" + n.ID,
					Conditions: []dgml.Condition{{Expression: "Flag='true'"}},
				}, nil
			},
			Where(func(n dgml.Node) bool {
				v, ok := n.Property("Flag")
				return ok && v == true
			}),
		))

	g, err := New(reg, WithAnalyses(flagAnalysis{id: "b"})).
		Build([]any{service{Name: "a"}, service{Name: "b"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	styles := g.Styles()
	if len(styles) != 1 {
		t.Fatalf("Styles = %d, want 1 (builder-time flag only)", len(styles))
	}
	if styles[0].GroupLabel != "flagged-a" {
		t.Errorf("style = %q, want %q", styles[0].GroupLabel, "flagged-a")
	}

	// The analysis write itself still happened.
	b, _ := g.Node("b")
	if v, _ := b.Property("Flag"); v != true {
		t.Error("analysis property write lost")
	}
}

// failingAnalysis aborts with an error.
type failingAnalysis struct{ err error }

func (failingAnalysis) Properties() []dgml.Property { return nil }
func (failingAnalysis) Styles() []dgml.Style        { return nil }
func (a failingAnalysis) Analyze(*dgml.Graph) error { return a.err }

func TestAnalysisErrorAbortsAssembly(t *testing.T) {
	cause := stderrors.New("analysis blew up")
	g, err := New(serviceRules(), WithAnalyses(failingAnalysis{err: cause})).
		Build([]any{service{Name: "a"}})

	if g != nil {
		t.Error("failed build must not return a partial graph")
	}
	if !errors.Is(err, errors.ErrCodeAnalysisFailed) {
		t.Errorf("error code = %q, want ANALYSIS_FAILED", errors.GetCode(err))
	}
	if !stderrors.Is(err, cause) {
		t.Error("original cause should be preserved in the chain")
	}
}

// orderedAnalysis appends its tag to a shared sequence property on node "a",
// proving sequential composition.
type orderedAnalysis struct{ tag string }

func (orderedAnalysis) Properties() []dgml.Property {
	return []dgml.Property{{ID: "Sequence", DataType: dgml.DataTypeString}}
}

func (orderedAnalysis) Styles() []dgml.Style { return nil }

func (a orderedAnalysis) Analyze(g *dgml.Graph) error {
	n, ok := g.Node("a")
	if !ok {
		return stderrors.New("node a missing")
	}
	prev, _ := n.Property("Sequence")
	s, _ := prev.(string)
	n.SetProperty("Sequence", s+a.tag)
	return nil
}

func TestAnalysesComposeSequentially(t *testing.T) {
	g, err := New(serviceRules(), WithAnalyses(
		orderedAnalysis{tag: "1"},
		orderedAnalysis{tag: "2"},
		orderedAnalysis{tag: "3"},
	)).Build([]any{service{Name: "a"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	n, _ := g.Node("a")
	if v, _ := n.Property("Sequence"); v != "123" {
		t.Errorf("Sequence = %v, want %q (registration order)", v, "123")
	}
}

func TestBuildFlattensCollectionsInOrder(t *testing.T) {
	reg := NewRegistry().AddNodeBuilder(NewNodeBuilder(func(s service) (*dgml.Node, error) {
		return &dgml.Node{ID: "shared", Label: s.Name}, nil
	}))

	g, err := New(reg).Build(
		[]any{service{Name: "first-collection"}},
		[]any{service{Name: "second-collection"}},
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	n, _ := g.Node("shared")
	if n.Label != "first-collection" {
		t.Errorf("Label = %q, want the earlier collection to win", n.Label)
	}
}

func TestObjectMayMatchMultipleRuleKinds(t *testing.T) {
	reg := NewRegistry().
		AddNodeBuilder(NewNodeBuilder(func(s service) (*dgml.Node, error) {
			return &dgml.Node{ID: s.Name, Category: "service"}, nil
		})).
		AddCategoryBuilder(NewCategoryBuilder(func(s service) (*dgml.Category, error) {
			return &dgml.Category{ID: "service", Label: "Service"}, nil
		}))

	g, err := New(reg).Build([]any{service{Name: "a"}, service{Name: "b"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2", g.NodeCount())
	}
	if len(g.Categories()) != 1 {
		t.Errorf("Categories = %d, want 1 (deduped by ID)", len(g.Categories()))
	}
}
