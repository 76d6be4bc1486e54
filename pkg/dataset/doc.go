// Package dataset loads graph inputs from JSON or YAML files and provides
// a rule registry that turns the loaded objects into graph elements.
//
// A dataset is a flat list of objects. Three shapes are recognized:
//
//	{"id": "api", "label": "API", "category": "service", "tier": "frontend"}
//	{"link": {"source": "api", "target": "db", "category": "calls"}}
//	{"category": {"id": "service", "label": "Service"}}
//
// Scalar fields of a node object beyond id, label and category become
// custom properties on the node. Objects matching none of the shapes are
// ignored.
package dataset
