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
	"encoding/json"
	"fmt"

	relaierrors "github.com/sirseerhq/sirseer-discussions/internal/errors"
	"github.com/vektah/gqlparser/v2/ast"
)

// Conform checks that the JSON object in raw carries every field selected by
// set, recursing into sub-selections. Null values are accepted at any level;
// nullability is the mapper's concern. path prefixes field names in errors.
func Conform(set ast.SelectionSet, raw json.RawMessage, path string) error {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("%w: %s: %v", relaierrors.ErrMalformedResponse, path, err)
	}
	return conform(set, value, path)
}

func conform(set ast.SelectionSet, value any, path string) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		for i, elem := range v {
			if err := conform(set, elem, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		for _, sel := range set {
			field, ok := sel.(*ast.Field)
			if !ok {
				continue
			}
			key := field.Name
			if field.Alias != "" {
				key = field.Alias
			}
			child, present := v[key]
			if !present {
				return fmt.Errorf("%w: missing field %s.%s", relaierrors.ErrMalformedResponse, path, key)
			}
			if len(field.SelectionSet) > 0 {
				if err := conform(field.SelectionSet, child, path+"."+key); err != nil {
					return err
				}
			}
		}
		return nil
	default:
		if len(set) > 0 {
			return fmt.Errorf("%w: %s is %T, want object", relaierrors.ErrMalformedResponse, path, value)
		}
		return nil
	}
}
