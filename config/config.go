//  Copyright (c) 2025 Squirelabs, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the static catalogs the tracker matches against and
// the budgets of the reference engine. The catalogs are fixed at startup:
// built-in defaults for the modeled kernel-allocator domain, optionally
// extended from a YAML catalog file. After initialization they are read-only
// and safe for concurrent readers.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults for the engine budgets. Paths beyond these are silently pruned,
// which the tracker observes only as a refused report node.
const (
	DefaultMaxPaths       = 512
	DefaultMaxBlockVisits = 2
)

// _defaultAllocFuncs are callee identifiers whose pointer return value is
// treated as possibly null: generic and platform-specific allocation and
// re-mapping primitives.
var _defaultAllocFuncs = []string{
	"kmalloc",
	"kzalloc",
	"kvmalloc",
	"kvzalloc",
	"kcalloc",
	"krealloc",
	"vmalloc",
	"vzalloc",
	"devm_kzalloc",
	"ioremap",
}

// _defaultMetadataFields are field names whose value, when copied into a new
// location, seeds it as possibly null even without a recognized allocation
// call. Driver-model metadata slots are routinely left unset.
var _defaultMetadataFields = []string{
	"driver_data",
	"platform_data",
	"private_data",
}

// Catalog is the set of recognized allocation calls and maybe-null metadata
// fields.
type Catalog struct {
	// AllocFuncs lists callee identifiers recognized as maybe-null sources.
	AllocFuncs []string `yaml:"alloc-funcs"`
	// MetadataFields lists field names read as maybe-null metadata.
	MetadataFields []string `yaml:"metadata-fields"`

	allocSet    map[string]bool
	metadataSet map[string]bool
}

// Config is the result of the config analyzer, shared by the downstream
// analyzers.
type Config struct {
	// Catalog is the static pattern catalog.
	Catalog *Catalog
	// MaxPaths bounds the number of explored paths per function.
	MaxPaths int
	// MaxBlockVisits bounds repeated visits of one CFG block along a single
	// path (the loop unrolling depth).
	MaxBlockVisits int
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c := &Catalog{
		AllocFuncs:     append([]string(nil), _defaultAllocFuncs...),
		MetadataFields: append([]string(nil), _defaultMetadataFields...),
	}
	c.index()
	return c
}

// LoadCatalog reads a YAML catalog file and merges it into the built-in
// defaults. Entries add to the defaults; there is no way to unrecognize a
// built-in pattern.
func LoadCatalog(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var extra Catalog
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("parse catalog file %q: %w", filename, err)
	}
	for _, name := range append(extra.AllocFuncs, extra.MetadataFields...) {
		if name == "" {
			return nil, fmt.Errorf("catalog file %q contains an empty name", filename)
		}
	}

	c := DefaultCatalog()
	c.AllocFuncs = append(c.AllocFuncs, extra.AllocFuncs...)
	c.MetadataFields = append(c.MetadataFields, extra.MetadataFields...)
	c.index()
	return c, nil
}

// IsAllocFunc reports whether name is a recognized allocation callee.
func (c *Catalog) IsAllocFunc(name string) bool { return c.allocSet[name] }

// IsMetadataField reports whether name is a recognized maybe-null metadata
// field.
func (c *Catalog) IsMetadataField(name string) bool { return c.metadataSet[name] }

func (c *Catalog) index() {
	c.allocSet = make(map[string]bool, len(c.AllocFuncs))
	for _, name := range c.AllocFuncs {
		c.allocSet[name] = true
	}
	c.metadataSet = make(map[string]bool, len(c.MetadataFields))
	for _, name := range c.MetadataFields {
		c.metadataSet[name] = true
	}
}
