// Package builder assembles graph documents from heterogeneous collections
// of domain objects by dispatching them through typed, predicate-guarded
// builder rules.
//
// # Architecture
//
// Assembly runs in three strictly ordered phases:
//
//  1. Dispatch: every input object is matched, in input order, against the
//     node, category and link builders of a [Registry], in registration
//     order. Matching rules map the object to zero or more elements, which
//     merge into one [dgml.Graph] under its first-wins duplicate policy.
//  2. Styles: style builders run over the already-assembled nodes and links
//     (not the original inputs) and append matching style declarations.
//  3. Analyses: each registered [Analysis] first contributes its property
//     schema and style declarations, then mutates the shared graph in
//     registration order.
//
// A rule is declared for a source type T and matches an object when the
// object's dynamic type is assertable to T - an exact match for concrete
// types, assignability for interfaces - and the optional Where predicate
// accepts it. Domain objects need no common base type.
//
// Mapping functions are pure per object: they see only their input, never
// the graph under construction. Any rule or analysis error aborts the whole
// build with no partial result.
//
// # Usage
//
//	reg := builder.NewRegistry().
//	    AddNodeBuilder(builder.NewNodeBuilder(func(s Service) (*dgml.Node, error) {
//	        return &dgml.Node{ID: s.Name, Category: "service"}, nil
//	    })).
//	    AddLinkBuilder(builder.NewLinksBuilder(func(s Service) ([]dgml.Link, error) {
//	        links := make([]dgml.Link, 0, len(s.DependsOn))
//	        for _, dep := range s.DependsOn {
//	            links = append(links, dgml.Link{Source: s.Name, Target: dep})
//	        }
//	        return links, nil
//	    }))
//
//	g, err := builder.New(reg).Build(objects)
package builder
