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

// Package symexec hosts the reference analysis engine: a bounded depth-first
// exploration of each function's CFG that drives the nullability tracker at
// every call return, branch, assignment, access and symbol death along the
// way. The engine owns all mechanism (path enumeration, region resolution,
// the constraint oracle, liveness); the tracker owns all nullability policy.
package symexec

import (
	"fmt"
	"go/ast"
	"reflect"

	"golang.org/x/tools/go/analysis"

	"github.com/squirelabs/nulltrack/config"
	"github.com/squirelabs/nulltrack/facts"
	"github.com/squirelabs/nulltrack/util/analysishelper"
)

const _doc = "Explore each function's paths and collect possible nil pointer dereferences"

// Analyzer explores intra-procedural paths and reports the deferred
// diagnostics of the nullability tracker.
var Analyzer = &analysis.Analyzer{
	Name:       "nulltrack_paths",
	Doc:        _doc,
	Run:        analysishelper.WrapRun(run),
	ResultType: reflect.TypeOf((*analysishelper.Result[[]analysis.Diagnostic])(nil)),
	Requires:   []*analysis.Analyzer{config.Analyzer},
	FactTypes:  []analysis.Fact{&facts.MaybeNullReturns{}},
}

func run(pass *analysis.Pass) ([]analysis.Diagnostic, error) {
	conf, ok := pass.ResultOf[config.Analyzer].(*config.Config)
	if !ok {
		return nil, fmt.Errorf("expected *config.Config, got %T", pass.ResultOf[config.Analyzer])
	}

	// Publish this package's may-return-null summaries first, so that the
	// engine sees its own functions and downstream packages see ours.
	index := facts.Collect(pass, conf.Catalog)

	e := newEngine(pass, conf, index)
	for _, file := range pass.Files {
		for _, decl := range file.Decls {
			if fn, ok := decl.(*ast.FuncDecl); ok && fn.Body != nil {
				e.checkFunction(fn)
			}
		}
	}
	return e.diags.Diagnostics(), nil
}
