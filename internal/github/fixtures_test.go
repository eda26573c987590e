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
	"fmt"
	"strings"
)

// Response fixtures are GraphQL data objects as GitHub returns them.

const categoriesFixture = `{
  "repository": {
    "discussionCategories": {
      "edges": [
        {"node": {"id": "DIC_kwDOAbc4", "name": "Announcements"}},
        {"node": {"id": "DIC_kwDOAbc5", "name": "Q&A"}}
      ]
    }
  }
}`

const categoryPageFixture = `{
  "repository": {
    "discussionCategories": {
      "nodes": [
        {"id": "DIC_kwDOAbc4", "name": "Announcements"},
        null,
        {"id": "DIC_kwDOAbc5", "name": "Q&A"}
      ],
      "pageInfo": {
        "startCursor": "Y3Vyc29yOjE=",
        "endCursor": "Y3Vyc29yOjI=",
        "hasPreviousPage": false,
        "hasNextPage": true
      },
      "totalCount": 14
    }
  }
}`

const discussionNodeFixture = `{
  "author": {
    "avatarUrl": "https://avatars.githubusercontent.com/u/583231?v=4",
    "login": "octocat",
    "url": "https://github.com/octocat"
  },
  "authorAssociation": "MEMBER",
  "bodyHTML": "<p>Release notes are out.</p>",
  "bodyText": "Release notes are out.",
  "category": {
    "emoji": ":mega:",
    "isAnswerable": false,
    "name": "Announcements",
    "slug": "announcements"
  },
  "createdAt": "2024-03-01T09:30:00Z",
  "labels": {
    "nodes": [
      {"color": "0e8a16", "description": "Shipped", "name": "release"},
      {"color": "d73a4a", "description": null, "name": "docs"}
    ],
    "pageInfo": {
      "startCursor": "MQ",
      "endCursor": "Mg",
      "hasPreviousPage": false,
      "hasNextPage": false
    },
    "totalCount": 2
  },
  "lastEditedAt": null,
  "locked": false,
  "number": %d,
  "reactionGroups": [
    {"content": "THUMBS_UP", "reactors": {"totalCount": 7}},
    {"content": "HOORAY", "reactors": {"totalCount": 2}}
  ],
  "title": "%s",
  "upvoteCount": 12,
  "url": "https://github.com/acme/docs/discussions/%d"
}`

func discussionNode(number int, title string) string {
	return fmt.Sprintf(discussionNodeFixture, number, title, number)
}

func discussionFixture(number int) string {
	return `{"repository": {"discussion": ` + discussionNode(number, "v2 released") + `}}`
}

// discussionsFixture is a page of discussions. A last page has no next page
// and a null end cursor.
func discussionsFixture(last bool, numbers ...int) string {
	nodes := make([]string, 0, len(numbers))
	for _, n := range numbers {
		nodes = append(nodes, discussionNode(n, fmt.Sprintf("Discussion %d", n)))
	}
	pageInfo := `{"startCursor": "Y3Vyc29yOjE=", "endCursor": "Y3Vyc29yOjI=", "hasPreviousPage": false, "hasNextPage": true}`
	if last {
		pageInfo = `{"startCursor": null, "endCursor": null, "hasPreviousPage": true, "hasNextPage": false}`
	}
	return `{"repository": {"discussions": {"nodes": [` + strings.Join(nodes, ",") +
		`], "pageInfo": ` + pageInfo + `, "totalCount": 40}}}`
}
