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

// Package analysishelper provides helpers for the `go/analysis` framework.
package analysishelper

import (
	"fmt"
	"runtime/debug"

	"golang.org/x/tools/go/analysis"
)

// Result carries a sub-analyzer's actual result together with an optional
// error, so that a failing sub-analyzer never aborts the whole driver: the
// top-level analyzer decides what to do with the error.
type Result[T any] struct {
	// Res is the actual result from the sub-analyzer.
	Res T
	// Err is the optional error from the sub-analyzer.
	Err error
}

// WrapRun wraps the run function of a sub-analyzer to (1) defer its error
// into the Result[T].Err field instead of failing the driver and (2) recover
// from panics, converting them to errors with stack traces. The analyzers in
// this module must never take the build down with them.
func WrapRun[T any](f func(*analysis.Pass) (T, error)) func(*analysis.Pass) (any, error) {
	return func(pass *analysis.Pass) (result any, _ error) {
		result = &Result[T]{}
		name := ""
		if pass != nil && pass.Analyzer != nil {
			name = pass.Analyzer.Name
		}
		defer func() {
			if r := recover(); r != nil {
				result.(*Result[T]).Err = fmt.Errorf("INTERNAL PANIC from %q: %s\n%s", name, r, string(debug.Stack()))
			}
		}()

		r, err := f(pass)
		if err != nil {
			err = fmt.Errorf("%s: %w", name, err)
		}
		result.(*Result[T]).Res = r
		result.(*Result[T]).Err = err
		return result, nil
	}
}
