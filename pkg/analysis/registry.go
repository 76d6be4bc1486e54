package analysis

import (
	"slices"
	"strings"

	"github.com/matzehuels/dgmlkit/pkg/builder"
	"github.com/matzehuels/dgmlkit/pkg/errors"
)

// byName maps the public analysis names to constructors. Constructors
// return a fresh value so configured fields never leak between builds.
var byName = map[string]func() builder.Analysis{
	"hubs":    func() builder.Analysis { return Hub{} },
	"orphans": func() builder.Analysis { return Orphan{} },
}

// Names returns the available analysis names in sorted order.
func Names() []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ByName resolves analysis names (case-insensitive) to instances, in the
// order given. An unknown name fails the whole lookup.
func ByName(names ...string) ([]builder.Analysis, error) {
	analyses := make([]builder.Analysis, 0, len(names))
	for _, name := range names {
		ctor, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"unknown analysis %q (available: %s)", name, strings.Join(Names(), ", "))
		}
		analyses = append(analyses, ctor())
	}
	return analyses, nil
}
