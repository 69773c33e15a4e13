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

package config

import (
	"fmt"
	"reflect"

	"golang.org/x/tools/go/analysis"
)

const _doc = "Read the flags and the optional catalog file to assemble the configuration " +
	"for the other analyzers in this module"

var (
	_catalogFile    string
	_maxPaths       int
	_maxBlockVisits int
)

// Analyzer parses the configuration surface once and shares the result with
// the downstream analyzers.
var Analyzer = &analysis.Analyzer{
	Name:       "nulltrack_config",
	Doc:        _doc,
	Run:        run,
	ResultType: reflect.TypeOf((*Config)(nil)),
}

func init() {
	Analyzer.Flags.StringVar(&_catalogFile, "catalog-file", "",
		"path to a YAML file with extra allocation functions and metadata fields")
	Analyzer.Flags.IntVar(&_maxPaths, "max-paths", DefaultMaxPaths,
		"maximum number of explored paths per function")
	Analyzer.Flags.IntVar(&_maxBlockVisits, "max-block-visits", DefaultMaxBlockVisits,
		"maximum visits of one block along a single path")
}

func run(_ *analysis.Pass) (any, error) {
	if _maxPaths <= 0 || _maxBlockVisits <= 0 {
		return nil, fmt.Errorf("engine budgets must be positive, got max-paths=%d max-block-visits=%d",
			_maxPaths, _maxBlockVisits)
	}

	catalog := DefaultCatalog()
	if _catalogFile != "" {
		var err error
		if catalog, err = LoadCatalog(_catalogFile); err != nil {
			return nil, err
		}
	}

	return &Config{
		Catalog:        catalog,
		MaxPaths:       _maxPaths,
		MaxBlockVisits: _maxBlockVisits,
	}, nil
}
