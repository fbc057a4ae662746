package entitlement

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// CatalogSource defines how the feature catalog is loaded into the resolver.
type CatalogSource interface {
	Load(ctx context.Context) (map[FeatureKey]Feature, error)
}

type inMemCatalog struct {
	mu       sync.RWMutex
	features map[FeatureKey]Feature
}

// NewInMemCatalog returns an in-memory CatalogSource with a copy of the given
// features. Panics if no features are provided to ensure the resolver always
// has at least one known feature key.
func NewInMemCatalog(features ...Feature) CatalogSource {
	if len(features) == 0 {
		panic("at least one catalog feature is required")
	}
	featuresCopy := make(map[FeatureKey]Feature, len(features))
	for _, f := range features {
		if f.Key == "" {
			panic("catalog feature key cannot be empty")
		}
		featuresCopy[f.Key] = f
	}
	return &inMemCatalog{features: featuresCopy}
}

// Load returns a copy of the catalog so callers cannot modify the source state.
func (s *inMemCatalog) Load(ctx context.Context) (map[FeatureKey]Feature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.features), nil
}

type fileCatalog struct {
	path string
}

// NewFileCatalog returns a CatalogSource that reads the catalog from a YAML
// file with a top-level "features" list:
//
//	features:
//	  - key: time_tracking
//	    label: Time tracking
//	  - key: guard_patrols
//	    label: Guard patrols
//	    default_enabled: false
func NewFileCatalog(path string) CatalogSource {
	return &fileCatalog{path: path}
}

func (s *fileCatalog) Load(ctx context.Context) (map[FeatureKey]Feature, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}

	var doc struct {
		Features []Feature `yaml:"features"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}

	if len(doc.Features) == 0 {
		return nil, errors.Join(ErrInvalidCatalog, ErrEmptyCatalog)
	}

	features := make(map[FeatureKey]Feature, len(doc.Features))
	for _, f := range doc.Features {
		if f.Key == "" {
			return nil, errors.Join(ErrInvalidCatalog, errors.New("feature key cannot be empty"))
		}
		if _, exists := features[f.Key]; exists {
			return nil, errors.Join(ErrInvalidCatalog, fmt.Errorf("duplicate feature key %q", f.Key))
		}
		features[f.Key] = f
	}
	return features, nil
}
