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
	"errors"
	"fmt"
	"os"

	relaierrors "github.com/sirseerhq/sirseer-discussions/internal/errors"
	"github.com/spf13/cobra"
)

var version = "dev"

// Exit codes.
const (
	exitOK       = 0
	exitGeneral  = 1
	exitAuth     = 2
	exitNetwork  = 3
	exitUpstream = 4
)

func main() {
	a := newApp()
	rootCmd := newRootCommand(a)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(mapErrorToExitCode(err))
	}
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sirseer-discussions",
		Short: "Read GitHub Discussions through the GraphQL API",
		Long: `SirSeer Discussions reads discussion categories and discussions from
GitHub repositories as a GitHub App installation or with a personal access
token, and writes them as NDJSON or as a table.`,
		Version:       version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	a.bindFlags(rootCmd)

	rootCmd.AddCommand(
		newCategoriesCommand(a),
		newGetCommand(a),
		newListCommand(a),
	)
	return rootCmd
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return exitOK
	}

	// Network failures are also upstream failures; check them first.
	if errors.Is(err, relaierrors.ErrNetworkFailure) || errors.Is(err, context.DeadlineExceeded) {
		return exitNetwork
	}

	if errors.Is(err, relaierrors.ErrAuthentication) ||
		errors.Is(err, relaierrors.ErrNotFound) {
		return exitAuth
	}

	if errors.Is(err, relaierrors.ErrUpstreamQuery) ||
		errors.Is(err, relaierrors.ErrMalformedResponse) {
		return exitUpstream
	}

	return exitGeneral
}
