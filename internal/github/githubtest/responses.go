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

package githubtest

import (
	"encoding/json"
	"fmt"
	"time"
)

// CategoriesResponse is a GetDiscussionCategories data object. Category i
// (from 1) has ID "DIC_i".
func CategoriesResponse(names ...string) string {
	edges := make([]map[string]any, 0, len(names))
	for i, name := range names {
		edges = append(edges, map[string]any{
			"node": map[string]any{"id": fmt.Sprintf("DIC_%d", i+1), "name": name},
		})
	}
	return mustJSON(map[string]any{
		"repository": map[string]any{
			"discussionCategories": map[string]any{"edges": edges},
		},
	})
}

// Discussion is a discussion node with every selected field. Even-numbered
// discussions have a deleted author.
func Discussion(number int) map[string]any {
	var author any
	if number%2 != 0 {
		author = map[string]any{
			"avatarUrl": fmt.Sprintf("https://avatars.githubusercontent.com/u/%d", number),
			"login":     fmt.Sprintf("user%d", number),
			"url":       fmt.Sprintf("https://github.com/user%d", number),
		}
	}

	return map[string]any{
		"author":            author,
		"authorAssociation": "CONTRIBUTOR",
		"bodyHTML":          fmt.Sprintf("<p>Body %d</p>", number),
		"bodyText":          fmt.Sprintf("Body %d", number),
		"category": map[string]any{
			"emoji":        ":bulb:",
			"isAnswerable": false,
			"name":         "Ideas",
			"slug":         "ideas",
		},
		"createdAt": time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, number).Format(time.RFC3339),
		"labels": map[string]any{
			"nodes": []map[string]any{
				{"color": "0e8a16", "description": nil, "name": "proposal"},
			},
			"pageInfo":   pageInfo("", false),
			"totalCount": 1,
		},
		"lastEditedAt": nil,
		"locked":       false,
		"number":       number,
		"reactionGroups": []map[string]any{
			{"content": "THUMBS_UP", "reactors": map[string]any{"totalCount": number}},
		},
		"title":       fmt.Sprintf("Discussion %d", number),
		"upvoteCount": number * 2,
		"url":         fmt.Sprintf("https://github.com/%s/docs/discussions/%d", Organization, number),
	}
}

// DiscussionResponse is a GetDiscussion data object.
func DiscussionResponse(number int) string {
	return mustJSON(map[string]any{
		"repository": map[string]any{"discussion": Discussion(number)},
	})
}

// DiscussionsResponse is a GetDiscussions page holding discussions start
// through end. When hasMore is set the end cursor is "cursor<end>",
// otherwise it is null.
func DiscussionsResponse(start, end int, hasMore bool) string {
	nodes := make([]map[string]any, 0)
	for i := start; i <= end; i++ {
		nodes = append(nodes, Discussion(i))
	}

	var cursor string
	if hasMore {
		cursor = fmt.Sprintf("cursor%d", end)
	}
	return mustJSON(map[string]any{
		"repository": map[string]any{
			"discussions": map[string]any{
				"nodes":      nodes,
				"pageInfo":   pageInfo(cursor, hasMore),
				"totalCount": end,
			},
		},
	})
}

// NullRepositoryResponse is the data object of a query on a repository that
// does not exist or is not visible.
const NullRepositoryResponse = `{"repository": null}`

func pageInfo(endCursor string, hasMore bool) map[string]any {
	var cursor any
	if endCursor != "" {
		cursor = endCursor
	}
	return map[string]any{
		"startCursor":     cursor,
		"endCursor":       cursor,
		"hasPreviousPage": false,
		"hasNextPage":     hasMore,
	}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
