// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package media

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ManuGH/studioedge/internal/capability"
)

var (
	ErrAssetNotFound      = errors.New("media asset not found")
	ErrMissingFallback    = errors.New("media asset has no fallback image")
	ErrDuplicateAssetName = errors.New("duplicate media asset name")
)

// Asset is a named piece of adaptive media, e.g. the landing page hero.
type Asset struct {
	Name          string
	Candidates    Candidates
	FallbackImage string
	Poster        string
	Alt           string
}

// Catalog is an immutable set of assets. A new Catalog is built on config reload.
type Catalog struct {
	assets map[string]Asset
}

// NewCatalog validates assets. Every asset must carry a fallback image so Resolve
// can always produce a source.
func NewCatalog(assets []Asset) (*Catalog, error) {
	c := &Catalog{assets: make(map[string]Asset, len(assets))}
	for _, a := range assets {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return nil, fmt.Errorf("media asset without name")
		}
		if strings.TrimSpace(a.FallbackImage) == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingFallback, name)
		}
		if _, dup := c.assets[name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAssetName, name)
		}
		candidates := make(Candidates, len(a.Candidates))
		for tier, url := range a.Candidates {
			candidates[capability.ParseQuality(string(tier))] = url
		}
		delete(candidates, capability.QualityNone)
		a.Name = name
		a.Candidates = candidates
		c.assets[name] = a
	}
	return c, nil
}

func (c *Catalog) Get(name string) (Asset, bool) {
	if c == nil {
		return Asset{}, false
	}
	a, ok := c.assets[name]
	return a, ok
}

// Names returns the asset names in lexical order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.assets))
	for n := range c.assets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) Resolve(name string, s Strategy) (Source, error) {
	a, ok := c.Get(name)
	if !ok {
		return Source{}, fmt.Errorf("%w: %s", ErrAssetNotFound, name)
	}
	return PickSource(a.Candidates, a.FallbackImage, s), nil
}
