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
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shurcooL/githubv4"
	relaierrors "github.com/sirseerhq/sirseer-discussions/internal/errors"
	"github.com/sirseerhq/sirseer-discussions/internal/github"
	"github.com/sirseerhq/sirseer-discussions/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <owner>/<repo> <number>",
		Short: "Get one discussion by number",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := parseRepository(args[0])
			if err != nil {
				return err
			}
			number, err := parseNumber(args[1])
			if err != nil {
				return err
			}

			return a.run(cmd, "discussion", func(ctx context.Context, client *github.Client, w output.RecordWriter) (int, error) {
				d, err := client.GetDiscussionByID(ctx, owner, repo, number)
				if err != nil {
					return 0, err
				}
				if err := w.Write(discussionRecord{*d}); err != nil {
					return 0, err
				}
				return 1, nil
			})
		},
	}
}

// listFlags are the paging and ordering flags of the list command.
type listFlags struct {
	first, last   int
	after, before string
	orderBy       string
	direction     string
	allPages      bool
}

func newListCommand(a *app) *cobra.Command {
	var lf listFlags

	cmd := &cobra.Command{
		Use:   "list <owner>/<repo> <categoryId>",
		Short: "List the discussions in a category",
		Long: `List one page of the discussions in a category.

Paging flags are sent to GitHub only when given. Without --first or
--last, the configured page size is used as --first. Use --all-pages to
follow end cursors until the last page.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := parseRepository(args[0])
			if err != nil {
				return err
			}
			opts, err := lf.options(cmd.Flags(), a.cfg.GetPageSize(owner+"/"+repo))
			if err != nil {
				return err
			}
			categoryID := args[1]

			return a.run(cmd, "discussion", func(ctx context.Context, client *github.Client, w output.RecordWriter) (int, error) {
				return writeDiscussions(ctx, a, client, owner, repo, categoryID, opts, lf.allPages, w)
			})
		},
	}

	lf.bind(cmd.Flags())
	return cmd
}

func (lf *listFlags) bind(flags *pflag.FlagSet) {
	flags.IntVar(&lf.first, "first", 0, "Return the first N discussions")
	flags.IntVar(&lf.last, "last", 0, "Return the last N discussions")
	flags.StringVar(&lf.after, "after", "", "Return discussions after this cursor")
	flags.StringVar(&lf.before, "before", "", "Return discussions before this cursor")
	flags.StringVar(&lf.orderBy, "order-by", "", "Order by: created or updated")
	flags.StringVar(&lf.direction, "direction", "desc", "Order direction: asc or desc")
	flags.BoolVar(&lf.allPages, "all-pages", false, "Follow end cursors until the last page")
}

// options converts the flags that were explicitly set into ListOptions.
func (lf *listFlags) options(flags *pflag.FlagSet, defaultPageSize int) (github.ListOptions, error) {
	var opts github.ListOptions

	if flags.Changed("first") {
		opts.First = github.Ptr(lf.first)
	}
	if flags.Changed("last") {
		opts.Last = github.Ptr(lf.last)
	}
	if flags.Changed("after") {
		opts.After = github.Ptr(lf.after)
	}
	if flags.Changed("before") {
		opts.Before = github.Ptr(lf.before)
	}
	if opts.First == nil && opts.Last == nil {
		opts.First = github.Ptr(defaultPageSize)
	}

	if flags.Changed("order-by") || flags.Changed("direction") {
		order, err := parseOrder(lf.orderBy, lf.direction)
		if err != nil {
			return opts, err
		}
		opts.OrderBy = order
	}

	if lf.allPages && (opts.Last != nil || opts.Before != nil) {
		return opts, fmt.Errorf("%w: --all-pages pages forward and cannot be combined with --last or --before", relaierrors.ErrInvalidArgument)
	}
	return opts, nil
}

func parseOrder(field, direction string) (*github.DiscussionOrder, error) {
	order := &github.DiscussionOrder{}

	switch strings.ToLower(field) {
	case "created", "":
		order.Field = githubv4.DiscussionOrderFieldCreatedAt
	case "updated":
		order.Field = githubv4.DiscussionOrderFieldUpdatedAt
	default:
		return nil, fmt.Errorf("%w: --order-by must be created or updated, got %q", relaierrors.ErrInvalidArgument, field)
	}

	switch strings.ToLower(direction) {
	case "desc":
		order.Direction = githubv4.OrderDirectionDesc
	case "asc":
		order.Direction = githubv4.OrderDirectionAsc
	default:
		return nil, fmt.Errorf("%w: --direction must be asc or desc, got %q", relaierrors.ErrInvalidArgument, direction)
	}
	return order, nil
}

func writeDiscussions(ctx context.Context, a *app, client *github.Client, owner, repo, categoryID string, opts github.ListOptions, allPages bool, w output.RecordWriter) (int, error) {
	written := 0

	for page := 1; ; page++ {
		conn, err := client.GetDiscussionsByCategoryID(ctx, owner, repo, categoryID, opts)
		if err != nil {
			return written, err
		}
		a.logger.Info("fetched discussions", "page", page, "count", len(conn.Nodes), "total", conn.TotalCount)

		for _, d := range conn.Nodes {
			if err := w.Write(discussionRecord{d}); err != nil {
				return written, err
			}
			written++
		}

		if !allPages || !conn.PageInfo.HasNextPage {
			return written, nil
		}
		if conn.PageInfo.EndCursor == nil {
			return written, fmt.Errorf("%w: page %d reports more discussions but no end cursor", relaierrors.ErrMalformedResponse, page)
		}
		opts.After = conn.PageInfo.EndCursor
	}
}

// parseNumber parses a discussion number.
func parseNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: discussion number must be a positive integer, got %q", relaierrors.ErrInvalidArgument, s)
	}
	return n, nil
}
