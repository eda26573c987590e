// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gql

import (
	"strconv"

	"github.com/vektah/gqlparser/v2/ast"
)

// Query returns a named query operation with the given top-level selections.
func Query(name string, selections ...ast.Selection) *ast.QueryDocument {
	return &ast.QueryDocument{
		Operations: ast.OperationList{
			&ast.OperationDefinition{
				Operation:    ast.Query,
				Name:         name,
				SelectionSet: selections,
			},
		},
	}
}

// Field returns a field selection. args may be nil; children form the
// sub-selection and are omitted for scalar fields.
func Field(name string, args ast.ArgumentList, children ...ast.Selection) *ast.Field {
	return &ast.Field{
		Name:         name,
		Arguments:    args,
		SelectionSet: children,
	}
}

// Leaves returns scalar field selections for each name, in order.
func Leaves(names ...string) ast.SelectionSet {
	set := make(ast.SelectionSet, 0, len(names))
	for _, name := range names {
		set = append(set, &ast.Field{Name: name})
	}
	return set
}

// Args collects arguments, dropping nil entries so optional arguments can be
// passed through unconditionally.
func Args(args ...*ast.Argument) ast.ArgumentList {
	list := make(ast.ArgumentList, 0, len(args))
	for _, arg := range args {
		if arg != nil {
			list = append(list, arg)
		}
	}
	return list
}

// Arg returns a named argument. A nil value yields a nil argument, which Args drops.
func Arg(name string, value *ast.Value) *ast.Argument {
	if value == nil {
		return nil
	}
	return &ast.Argument{Name: name, Value: value}
}

// String returns a string literal value. Escaping happens at render time.
func String(s string) *ast.Value {
	return &ast.Value{Kind: ast.StringValue, Raw: s}
}

// Int returns an integer literal value.
func Int(n int) *ast.Value {
	return &ast.Value{Kind: ast.IntValue, Raw: strconv.Itoa(n)}
}

// Enum returns an enum literal value. The name is checked at render time.
func Enum(name string) *ast.Value {
	return &ast.Value{Kind: ast.EnumValue, Raw: name}
}

// Object returns an input object literal with the given fields in order.
func Object(fields ...*ast.ChildValue) *ast.Value {
	return &ast.Value{Kind: ast.ObjectValue, Children: fields}
}

// Child returns a named input object field.
func Child(name string, value *ast.Value) *ast.ChildValue {
	return &ast.ChildValue{Name: name, Value: value}
}
