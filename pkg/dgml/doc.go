// Package dgml defines the directed-graph document model: nodes, links,
// categories, styles and a property schema, collected in a [Graph] container.
//
// A Graph owns ordered collections of each element kind and enforces the
// merge policy for all of them in one place:
//
//   - Nodes are unique by Id; a duplicate is silently dropped (first wins).
//   - Links are unique by the (Source, Target, Category) triple; duplicates
//     are silently dropped.
//   - Categories are unique by Id.
//   - Styles are append-only and applied in declaration order.
//   - Property schema entries are unique by Id.
//
// Link endpoints are never validated against the node set: dangling
// references are allowed and left to the consumer. [Graph.Validate] reports
// them for callers that want the stricter reading.
//
// The package also implements the output boundary: serialization to the
// DGML markup dialect (see [WriteDGML]) and a JSON/BSON-friendly [Document]
// mirror used by the HTTP API and the document store.
package dgml
