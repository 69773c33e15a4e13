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

package symexec

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/analysis"

	"github.com/squirelabs/nulltrack/nullness"
)

// nameRegion keys oracle verdicts by identifier spelling so the tests can
// assert on them without a type checker.
type nameRegion struct{ name string }

func (r nameRegion) Base() nullness.Location { return r }

func verdictsOf(t *testing.T, src string, taken bool) map[string]bool {
	t.Helper()
	cond, err := parser.ParseExpr(src)
	require.NoError(t, err)

	resolve := func(expr ast.Expr) nullness.Location {
		if ident, ok := expr.(*ast.Ident); ok && ident.Name != "nil" {
			return nameRegion{name: ident.Name}
		}
		return nil
	}
	isNull := func(expr ast.Expr) bool {
		switch x := expr.(type) {
		case *ast.Ident:
			return x.Name == "nil"
		case *ast.BasicLit:
			return x.Kind == token.INT && x.Value == "0"
		}
		return false
	}

	got := make(map[string]bool)
	nullVerdicts(cond, taken, resolve, isNull, func(loc nullness.Location, isNull bool) {
		got[loc.(nameRegion).name] = isNull
	})
	return got
}

func TestNullVerdicts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cond  string
		taken bool
		want  map[string]bool
	}{
		{"eq nil true arm", "p == nil", true, map[string]bool{"p": true}},
		{"eq nil false arm", "p == nil", false, map[string]bool{"p": false}},
		{"neq nil true arm", "p != nil", true, map[string]bool{"p": false}},
		{"neq reversed operands", "nil != p", true, map[string]bool{"p": false}},
		{"relational folds to equality", "p <= 0", true, map[string]bool{"p": true}},
		{"negated compare", "!(p == nil)", true, map[string]bool{"p": false}},
		{"double negation", "!!(p == nil)", true, map[string]bool{"p": true}},
		{"conjunction true arm pins both", "p != nil && q != nil", true, map[string]bool{"p": false, "q": false}},
		{"conjunction false arm pins nothing", "p != nil && q != nil", false, map[string]bool{}},
		{"disjunction false arm pins both", "p == nil || q == nil", false, map[string]bool{"p": false, "q": false}},
		{"disjunction true arm pins nothing", "p == nil || q == nil", true, map[string]bool{}},
		{"nested", "!(p == nil || q == nil)", true, map[string]bool{"p": false, "q": false}},
		{"parenthesized", "((p) == (nil))", true, map[string]bool{"p": true}},
		{"null vs null pins nothing", "nil == nil", true, map[string]bool{}},
		{"bare value pins nothing", "p", true, map[string]bool{}},
		{"unrelated compare pins nothing", "p == q", true, map[string]bool{}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, verdictsOf(t, tt.cond, tt.taken)); diff != "" {
				t.Errorf("unexpected verdicts (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAssumeDetectsContradiction(t *testing.T) {
	t.Parallel()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "t.go", `package t

func f(p *int) {
	if p == nil {
		_ = p
	}
	if p != nil {
		_ = p
	}
}
`, 0)
	require.NoError(t, err)

	info := &types.Info{
		Types: make(map[ast.Expr]types.TypeAndValue),
		Defs:  make(map[*ast.Ident]types.Object),
		Uses:  make(map[*ast.Ident]types.Object),
	}
	conf := types.Config{}
	_, err = conf.Check("t", fset, []*ast.File{file}, info)
	require.NoError(t, err)

	var conds []ast.Expr
	ast.Inspect(file, func(n ast.Node) bool {
		if s, ok := n.(*ast.IfStmt); ok {
			conds = append(conds, s.Cond)
		}
		return true
	})
	require.Len(t, conds, 2)

	e := &engine{pass: &analysis.Pass{TypesInfo: info}}
	st := newPathState()

	st, feasible := e.assume(st, conds[0], true) // p == nil
	require.True(t, feasible)
	st, feasible = e.assume(st, conds[1], false) // !(p != nil): consistent
	require.True(t, feasible)
	_, feasible = e.assume(st, conds[1], true) // p != nil: contradiction
	require.False(t, feasible)
}

func TestAssumedLocationsAreStable(t *testing.T) {
	t.Parallel()

	got := verdictsOf(t, "p != nil && (q == nil || !r)", true)
	var names []string
	for name := range got {
		names = append(names, name)
	}
	sort.Strings(names)
	require.Equal(t, []string{"p"}, names)
}
