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
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"unicode"
	"unicode/utf8"

	relaierrors "github.com/sirseerhq/sirseer-discussions/internal/errors"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

var namePattern = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)

// Render checks every argument value in doc and serializes it to query text.
// It fails with ErrInvalidArgument when a value cannot be represented safely.
func Render(doc *ast.QueryDocument) (string, error) {
	for _, op := range doc.Operations {
		if err := checkSelections(op.SelectionSet); err != nil {
			return "", err
		}
	}

	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatQueryDocument(doc)
	return buf.String(), nil
}

func checkSelections(set ast.SelectionSet) error {
	for _, sel := range set {
		field, ok := sel.(*ast.Field)
		if !ok {
			continue
		}
		for _, arg := range field.Arguments {
			if err := checkValue(arg.Value); err != nil {
				return fmt.Errorf("argument %s.%s: %w", field.Name, arg.Name, err)
			}
		}
		if err := checkSelections(field.SelectionSet); err != nil {
			return err
		}
	}
	return nil
}

func checkValue(v *ast.Value) error {
	switch v.Kind {
	case ast.StringValue:
		return CheckString(v.Raw)
	case ast.EnumValue:
		return CheckName(v.Raw)
	case ast.IntValue:
		if _, err := strconv.Atoi(v.Raw); err != nil {
			return fmt.Errorf("%w: %q is not an integer", relaierrors.ErrInvalidArgument, v.Raw)
		}
	case ast.ObjectValue, ast.ListValue:
		for _, child := range v.Children {
			if err := checkValue(child.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

// CheckString reports whether s survives quoting as a GraphQL string literal.
// Quotes and backslashes are escaped on render; control characters other than
// the GraphQL escapes (\b \f \n \r \t), invalid UTF-8 and non-printable runes
// outside the Basic Multilingual Plane have no safe literal form and are rejected.
func CheckString(s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: string is not valid UTF-8", relaierrors.ErrInvalidArgument)
	}
	for i, r := range s {
		switch r {
		case '\b', '\f', '\n', '\r', '\t':
			continue
		}
		if unicode.IsControl(r) || (r > 0xFFFF && !strconv.IsPrint(r)) {
			return fmt.Errorf("%w: string contains control character %U at byte %d", relaierrors.ErrInvalidArgument, r, i)
		}
	}
	return nil
}

// CheckName reports whether name is a valid GraphQL name (enum value, field or argument).
func CheckName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q is not a valid GraphQL name", relaierrors.ErrInvalidArgument, name)
	}
	return nil
}
