// Package analysis provides ready-made graph analyses that run after
// assembly. Each analysis implements builder.Analysis: it declares the
// custom properties and styles it contributes, then mutates the finished
// graph in place.
//
// Analyses are looked up by name so callers (CLI flags, API requests) can
// enable them without importing concrete types:
//
//	analyses, err := analysis.ByName("hubs", "orphans")
//	g, err := builder.New(rules, builder.WithAnalyses(analyses...)).Build(objects)
package analysis
