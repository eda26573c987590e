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

	relaierrors "github.com/sirseerhq/sirseer-discussions/internal/errors"
	"github.com/sirseerhq/sirseer-discussions/internal/github"
	"github.com/sirseerhq/sirseer-discussions/internal/output"
	"github.com/spf13/cobra"
)

func newCategoriesCommand(a *app) *cobra.Command {
	var allPages bool

	cmd := &cobra.Command{
		Use:   "categories <owner>/<repo>",
		Short: "List the discussion categories of a repository",
		Long: `List the discussion categories of a repository.

By default the first 10 categories are returned. Use --all-pages to page
through every category.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := parseRepository(args[0])
			if err != nil {
				return err
			}

			return a.run(cmd, "category", func(ctx context.Context, client *github.Client, w output.RecordWriter) (int, error) {
				if allPages {
					return writeAllCategories(ctx, a, client, owner, repo, w)
				}

				categories, err := client.GetDiscussionCategories(ctx, owner, repo)
				if err != nil {
					return 0, err
				}
				for i, c := range categories {
					if err := w.Write(categoryRecord{c}); err != nil {
						return i, err
					}
				}
				return len(categories), nil
			})
		},
	}

	cmd.Flags().BoolVar(&allPages, "all-pages", false, "Page through all categories instead of the first 10")
	return cmd
}

func writeAllCategories(ctx context.Context, a *app, client *github.Client, owner, repo string, w output.RecordWriter) (int, error) {
	opts := github.PageOptions{First: github.Ptr(a.cfg.GetPageSize(owner + "/" + repo))}
	written := 0

	for page := 1; ; page++ {
		conn, err := client.ListDiscussionCategories(ctx, owner, repo, opts)
		if err != nil {
			return written, err
		}
		a.logger.Info("fetched categories", "page", page, "count", len(conn.Nodes), "total", conn.TotalCount)

		for _, c := range conn.Nodes {
			if err := w.Write(categoryRecord{c}); err != nil {
				return written, err
			}
			written++
		}

		if !conn.PageInfo.HasNextPage {
			return written, nil
		}
		if conn.PageInfo.EndCursor == nil {
			return written, fmt.Errorf("%w: page %d reports more categories but no end cursor", relaierrors.ErrMalformedResponse, page)
		}
		opts.After = conn.PageInfo.EndCursor
	}
}
