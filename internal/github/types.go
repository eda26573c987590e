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
	"time"

	"github.com/shurcooL/githubv4"
)

// AuthorAssociation is the author's relationship to the repository.
// It is a closed set; see authorAssociations.
type AuthorAssociation = githubv4.CommentAuthorAssociation

// ReactionContent is one of the eight reaction emoji GitHub supports.
type ReactionContent = githubv4.ReactionContent

// DiscussionOrderField selects the timestamp discussions are ordered by.
type DiscussionOrderField = githubv4.DiscussionOrderField

// OrderDirection is ASC or DESC.
type OrderDirection = githubv4.OrderDirection

var authorAssociations = map[AuthorAssociation]bool{
	githubv4.CommentAuthorAssociationCollaborator:         true,
	githubv4.CommentAuthorAssociationContributor:          true,
	githubv4.CommentAuthorAssociationFirstTimer:           true,
	githubv4.CommentAuthorAssociationFirstTimeContributor: true,
	githubv4.CommentAuthorAssociationMannequin:            true,
	githubv4.CommentAuthorAssociationMember:               true,
	githubv4.CommentAuthorAssociationNone:                 true,
	githubv4.CommentAuthorAssociationOwner:                true,
}

var reactionContents = map[ReactionContent]bool{
	githubv4.ReactionContentConfused:   true,
	githubv4.ReactionContentEyes:       true,
	githubv4.ReactionContentHeart:      true,
	githubv4.ReactionContentHooray:     true,
	githubv4.ReactionContentLaugh:      true,
	githubv4.ReactionContentRocket:     true,
	githubv4.ReactionContentThumbsDown: true,
	githubv4.ReactionContentThumbsUp:   true,
}

var orderFields = map[DiscussionOrderField]bool{
	githubv4.DiscussionOrderFieldCreatedAt: true,
	githubv4.DiscussionOrderFieldUpdatedAt: true,
}

var orderDirections = map[OrderDirection]bool{
	githubv4.OrderDirectionAsc:  true,
	githubv4.OrderDirectionDesc: true,
}

// Actor identifies the author of a discussion.
type Actor struct {
	AvatarURL string `json:"avatarUrl"`
	Login     string `json:"login"`
	URL       string `json:"url"`
}

// Category is the category a discussion belongs to, as configured on the repository.
type Category struct {
	Emoji        string `json:"emoji"`
	IsAnswerable bool   `json:"isAnswerable"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
}

// DiscussionCategory is the lightweight category identity used to filter
// discussion lists.
type DiscussionCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Label is a repository label attached to a discussion.
type Label struct {
	Color       string  `json:"color"`
	Description *string `json:"description"`
	Name        string  `json:"name"`
}

// PageInfo carries the opaque cursors of a connection page. Cursors are never
// parsed, only passed back as After or Before. A non-nil cursor does not imply
// another page exists; check HasNextPage / HasPreviousPage.
type PageInfo struct {
	StartCursor     *string `json:"startCursor"`
	EndCursor       *string `json:"endCursor"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
	HasNextPage     bool    `json:"hasNextPage"`
}

// LabelConnection is the first page of a discussion's labels.
type LabelConnection struct {
	Nodes      []Label  `json:"nodes"`
	PageInfo   PageInfo `json:"pageInfo"`
	TotalCount int      `json:"totalCount"`
}

// ReactorConnection counts the users who reacted.
type ReactorConnection struct {
	TotalCount int `json:"totalCount"`
}

// ReactionGroup is the reactions of one kind on a discussion.
type ReactionGroup struct {
	Content  ReactionContent   `json:"content"`
	Reactors ReactorConnection `json:"reactors"`
}

// Discussion is a GitHub Discussion as selected by the discussion queries.
// Author is nil when the account has been deleted.
type Discussion struct {
	Author            *Actor            `json:"author"`
	AuthorAssociation AuthorAssociation `json:"authorAssociation"`
	BodyHTML          string            `json:"bodyHTML"`
	BodyText          string            `json:"bodyText"`
	Category          Category          `json:"category"`
	CreatedAt         time.Time         `json:"createdAt"`
	Labels            LabelConnection   `json:"labels"`
	LastEditedAt      *time.Time        `json:"lastEditedAt"`
	Locked            bool              `json:"locked"`
	Number            int               `json:"number"`
	ReactionGroups    []ReactionGroup   `json:"reactionGroups"`
	Title             string            `json:"title"`
	UpvoteCount       int               `json:"upvoteCount"`
	URL               string            `json:"url"`
}

// DiscussionConnection is one page of discussions.
type DiscussionConnection struct {
	Nodes      []Discussion `json:"nodes"`
	PageInfo   PageInfo     `json:"pageInfo"`
	TotalCount int          `json:"totalCount"`
}

// DiscussionCategoryConnection is one page of discussion categories.
type DiscussionCategoryConnection struct {
	Nodes      []DiscussionCategory `json:"nodes"`
	PageInfo   PageInfo             `json:"pageInfo"`
	TotalCount int                  `json:"totalCount"`
}

// DiscussionOrder orders a discussion list.
type DiscussionOrder struct {
	Field     DiscussionOrderField
	Direction OrderDirection
}

// PageOptions selects a page of a connection. Each argument is sent only when
// its field is non-nil. Conflicting combinations (First with Last, After with
// Before) are forwarded as given; GitHub reports them as query errors.
type PageOptions struct {
	First  *int
	Last   *int
	After  *string
	Before *string
}

// ListOptions selects and orders a page of discussions.
type ListOptions struct {
	PageOptions
	OrderBy *DiscussionOrder
}

// Ptr returns a pointer to v, for filling optional fields.
func Ptr[T any](v T) *T {
	return &v
}
