package dataset

import (
	"github.com/matzehuels/dgmlkit/pkg/builder"
	"github.com/matzehuels/dgmlkit/pkg/dgml"
)

// Reserved node object fields. Everything else scalar becomes a property.
const (
	fieldID       = "id"
	fieldLabel    = "label"
	fieldCategory = "category"
	fieldLink     = "link"
)

// Rules returns the registry recognizing the dataset object shapes. The
// returned registry can be extended with further rules before building.
func Rules() *builder.Registry {
	return builder.NewRegistry().
		AddNodeBuilder(builder.NewNodeBuilder(buildNode,
			builder.Where(isNodeObject))).
		AddLinkBuilder(builder.NewLinkBuilder(buildLink,
			builder.Where(isLinkObject))).
		AddCategoryBuilder(builder.NewCategoryBuilder(buildNodeCategory,
			builder.Where(isNodeObject))).
		AddCategoryBuilder(builder.NewCategoryBuilder(buildCategory,
			builder.Where(isCategoryObject)))
}

func isNodeObject(m map[string]any) bool {
	return stringField(m, fieldID) != ""
}

func isLinkObject(m map[string]any) bool {
	_, ok := m[fieldLink].(map[string]any)
	return ok
}

func isCategoryObject(m map[string]any) bool {
	_, ok := m[fieldCategory].(map[string]any)
	return ok
}

func buildNode(m map[string]any) (*dgml.Node, error) {
	n := &dgml.Node{
		ID:       stringField(m, fieldID),
		Label:    stringField(m, fieldLabel),
		Category: stringField(m, fieldCategory),
	}
	for key, value := range m {
		switch key {
		case fieldID, fieldLabel, fieldCategory:
			continue
		}
		if isScalar(value) {
			n.SetProperty(key, value)
		}
	}
	return n, nil
}

func buildLink(m map[string]any) (*dgml.Link, error) {
	spec, _ := m[fieldLink].(map[string]any)
	return &dgml.Link{
		Source:   stringField(spec, "source"),
		Target:   stringField(spec, "target"),
		Label:    stringField(spec, fieldLabel),
		Category: stringField(spec, fieldCategory),
	}, nil
}

// buildNodeCategory declares the category a node object names, so datasets
// need no explicit declaration for plain string references.
func buildNodeCategory(m map[string]any) (*dgml.Category, error) {
	id := stringField(m, fieldCategory)
	if id == "" {
		return nil, nil
	}
	return &dgml.Category{ID: id}, nil
}

func buildCategory(m map[string]any) (*dgml.Category, error) {
	spec, _ := m[fieldCategory].(map[string]any)
	return &dgml.Category{
		ID:    stringField(spec, fieldID),
		Label: stringField(spec, fieldLabel),
	}, nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, int, int64, float64, float32:
		return true
	default:
		return false
	}
}
