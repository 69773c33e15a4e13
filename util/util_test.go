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

package util

import (
	"go/ast"
	"go/parser"
	"go/types"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func parseCall(t *testing.T, src string) *ast.CallExpr {
	t.Helper()
	expr, err := parser.ParseExpr(src)
	require.NoError(t, err)
	call, ok := expr.(*ast.CallExpr)
	require.True(t, ok)
	return call
}

func TestCalleeIdent(t *testing.T) {
	t.Parallel()

	require.Equal(t, "kmalloc", CalleeIdent(parseCall(t, "kmalloc(8)")).Name)
	require.Equal(t, "FindDevice", CalleeIdent(parseCall(t, "registry.FindDevice(0)")).Name)
	require.Nil(t, CalleeIdent(parseCall(t, "func() {}()")))
}

func TestIsLiteral(t *testing.T) {
	t.Parallel()

	nilIdent := &ast.Ident{Name: "nil"}
	require.True(t, IsLiteral(nilIdent, "nil"))
	require.False(t, IsLiteral(nilIdent, "true", "false"))
	require.False(t, IsLiteral(&ast.BasicLit{Value: "0"}, "nil"))
}

func TestTypeIsPointerLike(t *testing.T) {
	t.Parallel()

	intType := types.Typ[types.Int]
	ptr := types.NewPointer(intType)
	require.True(t, TypeIsPointerLike(ptr))
	require.True(t, TypeIsPointerLike(types.Typ[types.UnsafePointer]))
	require.False(t, TypeIsPointerLike(intType))
	require.False(t, TypeIsPointerLike(nil))

	named := types.NewNamed(
		types.NewTypeName(0, nil, "bufptr", nil), ptr, nil)
	require.True(t, TypeIsPointerLike(named))
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
