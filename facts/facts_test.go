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

package facts

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/analysistest"

	"github.com/squirelabs/nulltrack/config"
)

var _testAnalyzer = &analysis.Analyzer{
	Name:      "maynullfacts",
	Doc:       "collect maybe-null return facts for testing",
	FactTypes: []analysis.Fact{&MaybeNullReturns{}},
	Run: func(pass *analysis.Pass) (any, error) {
		Collect(pass, config.DefaultCatalog())
		return nil, nil
	},
}

func TestCollect(t *testing.T) {
	t.Parallel()

	analysistest.Run(t, analysistest.TestData(), _testAnalyzer, "factscan")
}

func TestMaybeNullReturnsGobRoundTrip(t *testing.T) {
	t.Parallel()

	want := &MaybeNullReturns{Results: []int{0, 2}}

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(want))

	got := new(MaybeNullReturns)
	require.NoError(t, gob.NewDecoder(&buf).Decode(got))
	if diff := cmp.Diff(want.Results, got.Results); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMaybeNullReturnsString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "maynull:0", (&MaybeNullReturns{Results: []int{0}}).String())
	require.Equal(t, "maynull:0,1", (&MaybeNullReturns{Results: []int{0, 1}}).String())
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
