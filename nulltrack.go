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

// Package nulltrack implements the top-level analyzer: it retrieves the
// deferred diagnostics from the path exploration analyzer and reports them.
package nulltrack

import (
	"fmt"

	"golang.org/x/tools/go/analysis"

	"github.com/squirelabs/nulltrack/config"
	"github.com/squirelabs/nulltrack/symexec"
	"github.com/squirelabs/nulltrack/tracker"
	"github.com/squirelabs/nulltrack/util/analysishelper"
)

const _doc = "Track nullability facts through each function's paths and report " +
	"possible nil pointer dereferences"

// Analyzer is the top-level instance: it coordinates the sub-analyzers and
// reports their deferred diagnostics for this package.
var Analyzer = &analysis.Analyzer{
	Name:     tracker.Name,
	Doc:      _doc,
	Run:      run,
	Requires: []*analysis.Analyzer{config.Analyzer, symexec.Analyzer},
}

func run(pass *analysis.Pass) (any, error) {
	result, ok := pass.ResultOf[symexec.Analyzer].(*analysishelper.Result[[]analysis.Diagnostic])
	if !ok {
		return nil, fmt.Errorf("expected *analysishelper.Result, got %T", pass.ResultOf[symexec.Analyzer])
	}
	if result.Err != nil {
		return nil, result.Err
	}

	for _, d := range result.Res {
		pass.Report(d)
	}
	return nil, nil
}
