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

// main builds nulltrack as a standalone checker that can be invoked on other
// packages.
package main

import (
	"flag"

	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/squirelabs/nulltrack"
	"github.com/squirelabs/nulltrack/config"
)

func main() {
	// Lift the flags from config.Analyzer to the top level so that users can
	// pass `-catalog-file <FILE>` instead of `-nulltrack_config.catalog-file
	// <FILE>`.
	config.Analyzer.Flags.VisitAll(func(f *flag.Flag) { flag.Var(f.Value, f.Name, f.Usage) })

	singlechecker.Main(nulltrack.Analyzer)
}
