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

package main

import (
	"strconv"
	"strings"
	"time"

	"github.com/sirseerhq/sirseer-discussions/internal/github"
)

// Records wrap domain values so they serialize as the value itself in
// NDJSON and render as a row in table output.

type categoryRecord struct {
	github.DiscussionCategory
}

func (r categoryRecord) Headers() []string { return []string{"ID", "NAME"} }
func (r categoryRecord) Cells() []string   { return []string{r.ID, r.Name} }

type discussionRecord struct {
	github.Discussion
}

func (r discussionRecord) Headers() []string {
	return []string{"NUMBER", "TITLE", "AUTHOR", "CATEGORY", "CREATED", "UPVOTES", "LABELS"}
}

func (r discussionRecord) Cells() []string {
	author := "ghost"
	if r.Author != nil {
		author = r.Author.Login
	}
	labels := make([]string, 0, len(r.Labels.Nodes))
	for _, l := range r.Labels.Nodes {
		labels = append(labels, l.Name)
	}
	return []string{
		strconv.Itoa(r.Number),
		truncate(r.Title, 60),
		author,
		r.Category.Name,
		r.CreatedAt.Format(time.DateOnly),
		strconv.Itoa(r.UpvoteCount),
		strings.Join(labels, ", "),
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
