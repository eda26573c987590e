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

package github

import (
	"bytes"
	"encoding/json"
	"fmt"

	relaierrors "github.com/sirseerhq/sirseer-discussions/internal/errors"
	"github.com/sirseerhq/sirseer-discussions/internal/gql"
)

// The Map functions turn the data object of a GraphQL response into domain
// values. Each nesting level is checked before it is projected: an absent key
// is ErrMalformedResponse, a null repository or discussion is ErrNotFound, and
// every field the query selected must be present. They are pure; the same
// payload always maps to the same value.

// MapDiscussionCategories projects the edges of a GetDiscussionCategories
// response to categories, keeping edge order.
func MapDiscussionCategories(data json.RawMessage) ([]DiscussionCategory, error) {
	raw, err := connection(data, "discussionCategories")
	if err != nil {
		return nil, err
	}
	if err := gql.Conform(categoryEdgesSelection().SelectionSet, raw, "repository.discussionCategories"); err != nil {
		return nil, err
	}

	var wire struct {
		Edges []*struct {
			Node *DiscussionCategory `json:"node"`
		} `json:"edges"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, malformed("repository.discussionCategories", err)
	}

	categories := make([]DiscussionCategory, 0, len(wire.Edges))
	for _, edge := range wire.Edges {
		if edge == nil || edge.Node == nil {
			continue
		}
		categories = append(categories, *edge.Node)
	}
	return categories, nil
}

// MapDiscussionCategoryConnection maps a ListDiscussionCategories response.
func MapDiscussionCategoryConnection(data json.RawMessage) (*DiscussionCategoryConnection, error) {
	raw, err := connection(data, "discussionCategories")
	if err != nil {
		return nil, err
	}
	if err := gql.Conform(categoryConnectionSelection(PageOptions{}).SelectionSet, raw, "repository.discussionCategories"); err != nil {
		return nil, err
	}

	var wire struct {
		Nodes      []*DiscussionCategory `json:"nodes"`
		PageInfo   PageInfo              `json:"pageInfo"`
		TotalCount int                   `json:"totalCount"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, malformed("repository.discussionCategories", err)
	}

	conn := &DiscussionCategoryConnection{
		Nodes:      make([]DiscussionCategory, 0, len(wire.Nodes)),
		PageInfo:   wire.PageInfo,
		TotalCount: wire.TotalCount,
	}
	for _, node := range wire.Nodes {
		if node != nil {
			conn.Nodes = append(conn.Nodes, *node)
		}
	}
	return conn, nil
}

// MapDiscussion maps a GetDiscussion response. A null discussion means the
// number does not exist in the repository.
func MapDiscussion(data json.RawMessage) (*Discussion, error) {
	repo, err := repository(data)
	if err != nil {
		return nil, err
	}
	raw, err := field(repo, "discussion", "repository")
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("repository.discussion is null: %w", relaierrors.ErrNotFound)
	}

	const path = "repository.discussion"
	if err := gql.Conform(discussionSelection(), raw, path); err != nil {
		return nil, err
	}

	var d Discussion
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, malformed(path, err)
	}
	if err := d.validate(path); err != nil {
		return nil, err
	}
	return &d, nil
}

// MapDiscussionConnection maps a GetDiscussions response.
func MapDiscussionConnection(data json.RawMessage) (*DiscussionConnection, error) {
	raw, err := connection(data, "discussions")
	if err != nil {
		return nil, err
	}

	const path = "repository.discussions"
	if err := gql.Conform(discussionsField("", PageOptions{}, nil).SelectionSet, raw, path); err != nil {
		return nil, err
	}

	var wire struct {
		Nodes      []*Discussion `json:"nodes"`
		PageInfo   PageInfo      `json:"pageInfo"`
		TotalCount int           `json:"totalCount"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, malformed(path, err)
	}

	conn := &DiscussionConnection{
		Nodes:      make([]Discussion, 0, len(wire.Nodes)),
		PageInfo:   wire.PageInfo,
		TotalCount: wire.TotalCount,
	}
	for i, node := range wire.Nodes {
		if node == nil {
			continue
		}
		if err := node.validate(fmt.Sprintf("%s.nodes[%d]", path, i)); err != nil {
			return nil, err
		}
		conn.Nodes = append(conn.Nodes, *node)
	}
	return conn, nil
}

func (d *Discussion) validate(path string) error {
	if !authorAssociations[d.AuthorAssociation] {
		return fmt.Errorf("%w: %s.authorAssociation: unknown value %q",
			relaierrors.ErrMalformedResponse, path, d.AuthorAssociation)
	}
	for i, group := range d.ReactionGroups {
		if !reactionContents[group.Content] {
			return fmt.Errorf("%w: %s.reactionGroups[%d].content: unknown value %q",
				relaierrors.ErrMalformedResponse, path, i, group.Content)
		}
	}
	return nil
}

// repository returns the repository object of a response's data. A null
// repository means the owner or name does not resolve.
func repository(data json.RawMessage) (map[string]json.RawMessage, error) {
	if isNull(data) {
		return nil, fmt.Errorf("%w: response has no data", relaierrors.ErrMalformedResponse)
	}
	root, err := object(data, "data")
	if err != nil {
		return nil, err
	}
	raw, err := field(root, "repository", "data")
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("repository is null: %w", relaierrors.ErrNotFound)
	}
	return object(raw, "repository")
}

// connection returns a non-null connection field of the repository.
func connection(data json.RawMessage, name string) (json.RawMessage, error) {
	repo, err := repository(data)
	if err != nil {
		return nil, err
	}
	raw, err := field(repo, name, "repository")
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: repository.%s is null", relaierrors.ErrMalformedResponse, name)
	}
	return raw, nil
}

// field returns obj[key], or nil when the value is JSON null. An absent key
// is a malformed response.
func field(obj map[string]json.RawMessage, key, path string) (json.RawMessage, error) {
	raw, ok := obj[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing field %s.%s", relaierrors.ErrMalformedResponse, path, key)
	}
	if isNull(raw) {
		return nil, nil
	}
	return raw, nil
}

func object(raw json.RawMessage, path string) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, malformed(path, err)
	}
	return obj, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func malformed(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", relaierrors.ErrMalformedResponse, path, err)
}
