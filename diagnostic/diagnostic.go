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

// Package diagnostic collects the reports the tracker emits along individual
// paths and turns them into analysis diagnostics. The tracker's Reported
// flag deduplicates within one path; sibling paths reaching the same access
// produce identical reports, which are merged positionally here.
package diagnostic

import (
	"cmp"
	"go/token"
	"slices"

	"golang.org/x/tools/go/analysis"
)

// Report is one tracker finding: a message attributed to the source range of
// the unsafe access.
type Report struct {
	Pos     token.Pos
	End     token.Pos
	Message string
}

// Engine accumulates reports across paths and functions.
type Engine struct {
	category string
	reports  []Report
}

// NewEngine returns an empty diagnostic engine tagging diagnostics with the
// given category.
func NewEngine(category string) *Engine {
	return &Engine{category: category}
}

// Add records one report.
func (e *Engine) Add(r Report) {
	e.reports = append(e.reports, r)
}

// Diagnostics returns the accumulated reports as diagnostics, sorted by
// position and with duplicates from sibling paths collapsed.
func (e *Engine) Diagnostics() []analysis.Diagnostic {
	slices.SortFunc(e.reports, func(a, b Report) int {
		if n := cmp.Compare(a.Pos, b.Pos); n != 0 {
			return n
		}
		return cmp.Compare(a.Message, b.Message)
	})

	diagnostics := make([]analysis.Diagnostic, 0, len(e.reports))
	var prev *Report
	for i := range e.reports {
		r := &e.reports[i]
		if prev != nil && prev.Pos == r.Pos && prev.Message == r.Message {
			continue
		}
		prev = r
		diagnostics = append(diagnostics, analysis.Diagnostic{
			Pos:      r.Pos,
			End:      r.End,
			Category: e.category,
			Message:  r.Message,
		})
	}
	return diagnostics
}
