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

// Package facts propagates maybe-null knowledge across package boundaries
// through the `go/analysis` facts mechanism. A function that can return a
// nil pointer (a nil literal, a recognized allocation call, or a call to
// another maybe-null function) is marked with a MaybeNullReturns object
// fact, so that a downstream package calling it seeds the return value as
// possibly null the same way a catalog allocation call does.
package facts

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"go/ast"
	"go/types"
	"strconv"
	"strings"

	"github.com/klauspost/compress/s2"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/ast/astutil"

	"github.com/squirelabs/nulltrack/config"
	"github.com/squirelabs/nulltrack/util"
)

// MaybeNullReturns records which results of a function may be nil. It is
// exported as an object fact on the function.
type MaybeNullReturns struct {
	// Results holds the indices of the pointer results that may be nil, in
	// increasing order.
	Results []int
}

// AFact marks MaybeNullReturns as a valid analysis fact.
func (*MaybeNullReturns) AFact() {}

func (m *MaybeNullReturns) String() string {
	parts := make([]string, len(m.Results))
	for i, r := range m.Results {
		parts[i] = strconv.Itoa(r)
	}
	return "maynull:" + strings.Join(parts, ",")
}

// GobEncode encodes the fact behind an s2 compressor to keep the build
// output small.
func (m *MaybeNullReturns) GobEncode() (b []byte, err error) {
	var buf bytes.Buffer
	writer := s2.NewWriter(&buf)
	defer func() {
		if cerr := writer.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	if err := gob.NewEncoder(writer).Encode(m.Results); err != nil {
		return nil, fmt.Errorf("encode maybe-null results: %w", err)
	}

	// Close the s2 writer before taking the bytes so the stream is complete.
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close s2 writer: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode decodes the s2-compressed fact.
func (m *MaybeNullReturns) GobDecode(b []byte) error {
	reader := s2.NewReader(bytes.NewReader(b))
	if err := gob.NewDecoder(reader).Decode(&m.Results); err != nil {
		return fmt.Errorf("decode maybe-null results: %w", err)
	}
	return nil
}

// Index answers maybe-null queries about callees, combining the facts
// collected from the current package with the ones imported from upstream
// packages.
type Index struct {
	pass  *analysis.Pass
	local map[*types.Func]*MaybeNullReturns
}

// MayReturnNull reports whether obj is a function with at least one
// maybe-null result.
func (ix *Index) MayReturnNull(obj types.Object) bool {
	fn, ok := obj.(*types.Func)
	if !ok {
		return false
	}
	if m, ok := ix.local[fn]; ok {
		return len(m.Results) > 0
	}
	imported := new(MaybeNullReturns)
	return ix.pass.ImportObjectFact(fn, imported) && len(imported.Results) > 0
}

// Collect scans the package for functions that can return nil pointers,
// exports the findings as object facts and returns an Index over both the
// local findings and the imported upstream facts. Classification runs to a
// fixpoint so that chains of local wrappers are marked too.
func Collect(pass *analysis.Pass, catalog *config.Catalog) *Index {
	ix := &Index{pass: pass, local: make(map[*types.Func]*MaybeNullReturns)}

	decls := packageFuncDecls(pass)
	for changed := true; changed; {
		changed = false
		for fn, decl := range decls {
			found := maybeNullResults(pass, catalog, ix, decl)
			if prev, ok := ix.local[fn]; ok && len(prev.Results) == len(found) {
				continue
			}
			if len(found) > 0 {
				ix.local[fn] = &MaybeNullReturns{Results: found}
				changed = true
			}
		}
	}

	for fn, fact := range ix.local {
		pass.ExportObjectFact(fn, fact)
	}
	return ix
}

func packageFuncDecls(pass *analysis.Pass) map[*types.Func]*ast.FuncDecl {
	decls := make(map[*types.Func]*ast.FuncDecl)
	for _, file := range pass.Files {
		for _, decl := range file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Body == nil {
				continue
			}
			if fn, ok := pass.TypesInfo.Defs[fd.Name].(*types.Func); ok {
				decls[fn] = fd
			}
		}
	}
	return decls
}

// maybeNullResults returns the indices of decl's pointer results that some
// return statement can leave nil.
func maybeNullResults(pass *analysis.Pass, catalog *config.Catalog, ix *Index, decl *ast.FuncDecl) []int {
	sig, ok := pass.TypesInfo.Defs[decl.Name].Type().(*types.Signature)
	if !ok || sig.Results().Len() == 0 {
		return nil
	}

	found := make(map[int]bool)
	forEachReturn(decl.Body, func(ret *ast.ReturnStmt) {
		if len(ret.Results) != sig.Results().Len() {
			// Naked returns and single-call multi-value returns stay
			// unclassified.
			return
		}
		for i, expr := range ret.Results {
			if !util.TypeIsPointerLike(sig.Results().At(i).Type()) {
				continue
			}
			if returnsMaybeNull(pass, catalog, ix, expr) {
				found[i] = true
			}
		}
	})
	if len(found) == 0 {
		return nil
	}
	results := make([]int, 0, len(found))
	for i := 0; i < sig.Results().Len(); i++ {
		if found[i] {
			results = append(results, i)
		}
	}
	return results
}

func returnsMaybeNull(pass *analysis.Pass, catalog *config.Catalog, ix *Index, expr ast.Expr) bool {
	expr = astutil.Unparen(expr)
	if tv, ok := pass.TypesInfo.Types[expr]; ok && tv.IsNil() {
		return true
	}
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		return false
	}
	callee := util.CalleeIdent(call)
	if callee == nil {
		return false
	}
	if catalog.IsAllocFunc(callee.Name) {
		return true
	}
	return ix.MayReturnNull(pass.TypesInfo.ObjectOf(callee))
}

// forEachReturn visits the return statements belonging to body itself,
// without descending into nested function literals.
func forEachReturn(body *ast.BlockStmt, f func(*ast.ReturnStmt)) {
	ast.Inspect(body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FuncLit:
			return false
		case *ast.ReturnStmt:
			f(n)
		}
		return true
	})
}
