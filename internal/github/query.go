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

	relaierrors "github.com/sirseerhq/sirseer-discussions/internal/errors"
	"github.com/sirseerhq/sirseer-discussions/internal/gql"
	"github.com/vektah/gqlparser/v2/ast"
)

// Operation names, sent as the GraphQL operation name and used in logs and errors.
const (
	OpGetDiscussionCategories  = "GetDiscussionCategories"
	OpListDiscussionCategories = "ListDiscussionCategories"
	OpGetDiscussion            = "GetDiscussion"
	OpGetDiscussions           = "GetDiscussions"
)

const (
	// categoriesPageSize is the fixed page of GetDiscussionCategories.
	categoriesPageSize = 10

	// labelsPageSize caps the labels returned per discussion. Further label
	// pages are not fetched.
	labelsPageSize = 8
)

// BuildDiscussionCategoriesQuery builds the fixed-size category query:
// discussionCategories(first: 10) { edges { node { id name } } }.
func BuildDiscussionCategoriesQuery(owner, repo string) (string, error) {
	return gql.Render(gql.Query(OpGetDiscussionCategories,
		repositoryField(owner, repo, categoryEdgesSelection()),
	))
}

// BuildCategoryConnectionQuery builds a paginated category query. Page
// arguments are included only when set in opts.
func BuildCategoryConnectionQuery(owner, repo string, opts PageOptions) (string, error) {
	return gql.Render(gql.Query(OpListDiscussionCategories,
		repositoryField(owner, repo, categoryConnectionSelection(opts)),
	))
}

// BuildDiscussionQuery builds the single-discussion query selecting
// discussion(number: n) with the full discussion field set.
func BuildDiscussionQuery(owner, repo string, number int) (string, error) {
	return gql.Render(gql.Query(OpGetDiscussion,
		repositoryField(owner, repo, discussionField(number)),
	))
}

// BuildDiscussionsQuery builds the discussion list query for one category.
// categoryId is always sent; first, last, after, before and orderBy are sent
// only when set in opts, in that order. Argument combinations are not checked.
func BuildDiscussionsQuery(owner, repo, categoryID string, opts ListOptions) (string, error) {
	orderBy, err := orderByValue(opts.OrderBy)
	if err != nil {
		return "", err
	}
	return gql.Render(gql.Query(OpGetDiscussions,
		repositoryField(owner, repo, discussionsField(categoryID, opts.PageOptions, orderBy)),
	))
}

func repositoryField(owner, repo string, children ...ast.Selection) *ast.Field {
	return gql.Field("repository", gql.Args(
		gql.Arg("owner", gql.String(owner)),
		gql.Arg("name", gql.String(repo)),
	), children...)
}

func categoryEdgesSelection() *ast.Field {
	return gql.Field("discussionCategories",
		gql.Args(gql.Arg("first", gql.Int(categoriesPageSize))),
		gql.Field("edges", nil,
			gql.Field("node", nil, gql.Leaves("id", "name")...),
		),
	)
}

func categoryConnectionSelection(opts PageOptions) *ast.Field {
	return gql.Field("discussionCategories", gql.Args(pageArgs(opts)...),
		gql.Field("nodes", nil, gql.Leaves("id", "name")...),
		pageInfoSelection(),
		gql.Field("totalCount", nil),
	)
}

func discussionField(number int) *ast.Field {
	return gql.Field("discussion",
		gql.Args(gql.Arg("number", gql.Int(number))),
		discussionSelection()...,
	)
}

func discussionsField(categoryID string, page PageOptions, orderBy *ast.Value) *ast.Field {
	args := append([]*ast.Argument{gql.Arg("categoryId", gql.String(categoryID))}, pageArgs(page)...)
	args = append(args, gql.Arg("orderBy", orderBy))

	return gql.Field("discussions", gql.Args(args...),
		gql.Field("nodes", nil, discussionSelection()...),
		pageInfoSelection(),
		gql.Field("totalCount", nil),
	)
}

// discussionSelection is the field set of a Discussion. Both discussion
// queries and the response mapper use it, so they cannot drift apart.
func discussionSelection() ast.SelectionSet {
	return ast.SelectionSet{
		gql.Field("author", nil, gql.Leaves("avatarUrl", "login", "url")...),
		gql.Field("authorAssociation", nil),
		gql.Field("bodyHTML", nil),
		gql.Field("bodyText", nil),
		gql.Field("category", nil, gql.Leaves("emoji", "isAnswerable", "name", "slug")...),
		gql.Field("createdAt", nil),
		gql.Field("labels", gql.Args(gql.Arg("first", gql.Int(labelsPageSize))),
			gql.Field("nodes", nil, gql.Leaves("color", "description", "name")...),
			pageInfoSelection(),
			gql.Field("totalCount", nil),
		),
		gql.Field("lastEditedAt", nil),
		gql.Field("locked", nil),
		gql.Field("number", nil),
		gql.Field("reactionGroups", nil,
			gql.Field("content", nil),
			gql.Field("reactors", nil, gql.Field("totalCount", nil)),
		),
		gql.Field("title", nil),
		gql.Field("upvoteCount", nil),
		gql.Field("url", nil),
	}
}

func pageInfoSelection() *ast.Field {
	return gql.Field("pageInfo", nil,
		gql.Leaves("startCursor", "endCursor", "hasPreviousPage", "hasNextPage")...,
	)
}

func pageArgs(opts PageOptions) []*ast.Argument {
	return []*ast.Argument{
		intArg("first", opts.First),
		intArg("last", opts.Last),
		stringArg("after", opts.After),
		stringArg("before", opts.Before),
	}
}

func intArg(name string, v *int) *ast.Argument {
	if v == nil {
		return nil
	}
	return gql.Arg(name, gql.Int(*v))
}

func stringArg(name string, v *string) *ast.Argument {
	if v == nil {
		return nil
	}
	return gql.Arg(name, gql.String(*v))
}

func orderByValue(order *DiscussionOrder) (*ast.Value, error) {
	if order == nil {
		return nil, nil
	}
	if !orderFields[order.Field] {
		return nil, fmt.Errorf("%w: unknown discussion order field %q", relaierrors.ErrInvalidArgument, order.Field)
	}
	if !orderDirections[order.Direction] {
		return nil, fmt.Errorf("%w: unknown order direction %q", relaierrors.ErrInvalidArgument, order.Direction)
	}
	return gql.Object(
		gql.Child("field", gql.Enum(string(order.Field))),
		gql.Child("direction", gql.Enum(string(order.Direction))),
	), nil
}
