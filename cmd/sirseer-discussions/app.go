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
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/sirseerhq/sirseer-discussions/internal/config"
	relaierrors "github.com/sirseerhq/sirseer-discussions/internal/errors"
	"github.com/sirseerhq/sirseer-discussions/internal/github"
	"github.com/sirseerhq/sirseer-discussions/internal/output"
	"github.com/spf13/cobra"
)

// app carries state shared by all commands: flags, resolved
// configuration, the logger and the client factory.
type app struct {
	configPath string
	logLevel   string
	token      string
	format     string
	outputFile string
	timeout    time.Duration

	cfg    *config.Config
	logger *log.Logger

	// newClient is replaced in tests.
	newClient func(ctx context.Context) (*github.Client, error)
}

func newApp() *app {
	a := &app{}
	a.newClient = a.githubClient
	return a
}

func (a *app) bindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default: .sirseer-discussions.yaml or ~/.sirseer/discussions.yaml)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&a.token, "token", "", "GitHub token (overrides GITHUB_TOKEN and App credentials)")
	flags.StringVar(&a.format, "format", "", "Output format: ndjson or table")
	flags.StringVar(&a.outputFile, "output", "", "Output file path (default: stdout)")
	flags.DurationVar(&a.timeout, "timeout", 30*time.Second, "Timeout for the whole command")
}

// setup loads .env, configuration and the logger. Flags override
// configuration values.
func (a *app) setup(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.format != "" {
		cfg.Defaults.OutputFormat = a.format
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, _ := log.ParseLevel(cfg.Log.Level)
	a.logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Level:           level,
		ReportTimestamp: cfg.Log.Timestamps,
		Prefix:          "sirseer-discussions",
	})
	a.cfg = cfg
	return nil
}

// githubClient authenticates with a token when one is given, otherwise as
// the configured GitHub App installation.
func (a *app) githubClient(ctx context.Context) (*github.Client, error) {
	token := a.token
	if token == "" {
		token = a.cfg.Token()
	}
	if err := a.cfg.RequireCredentials(token); err != nil {
		return nil, fmt.Errorf("%w: %w", relaierrors.ErrAuthentication, err)
	}

	opts := []github.Option{
		github.WithLogger(a.logger),
		github.WithEndpoints(a.cfg.GitHub.APIEndpoint, a.cfg.GitHub.GraphQLEndpoint),
		github.WithUserAgent("sirseer-discussions/" + version),
	}

	if token != "" {
		a.logger.Debug("using token authentication")
		return github.NewTokenClient(token, opts...), nil
	}

	key, err := a.cfg.PrivateKeyPEM()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", relaierrors.ErrAuthentication, err)
	}
	return github.NewAppClient(ctx, github.AppCredentials{
		AppID:        a.cfg.GitHub.App.ID,
		PrivateKey:   key,
		Organization: a.cfg.GitHub.App.Organization,
	}, opts...)
}

// run executes fn with a timeout-bound context, an authenticated client
// and an output writer, and reports the record count on stderr.
func (a *app) run(cmd *cobra.Command, noun string, fn func(ctx context.Context, client *github.Client, w output.RecordWriter) (int, error)) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
	defer cancel()

	client, err := a.newClient(ctx)
	if err != nil {
		return err
	}

	dest := cmd.OutOrStdout()
	var file *os.File
	if a.outputFile != "" {
		file, err = os.Create(a.outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		dest = file
	}

	writer, err := output.New(a.cfg.Defaults.OutputFormat, dest)
	if err != nil {
		return err
	}

	n, err := fn(ctx, client, writer)
	if closeErr := writer.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}
	if file != nil {
		if err := file.Close(); err != nil {
			return fmt.Errorf("failed to close output file: %w", err)
		}
	}

	reportCount(cmd.ErrOrStderr(), n, noun)
	return nil
}

func reportCount(w io.Writer, n int, noun string) {
	if n != 1 {
		noun = plural(noun)
	}
	fmt.Fprintf(w, "Wrote %d %s\n", n, noun)
}

func plural(noun string) string {
	if stem, ok := strings.CutSuffix(noun, "y"); ok {
		return stem + "ies"
	}
	return noun + "s"
}

// parseRepository parses an owner/repo string into owner and repo components
func parseRepository(repoArg string) (owner, repo string, err error) {
	parts := strings.Split(repoArg, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: invalid repository format. Expected: <owner>/<repo>, got: %s", relaierrors.ErrInvalidArgument, repoArg)
	}

	owner = strings.TrimSpace(parts[0])
	repo = strings.TrimSpace(parts[1])

	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("%w: invalid repository format. Expected: <owner>/<repo>, got: %s", relaierrors.ErrInvalidArgument, repoArg)
	}

	return owner, repo, nil
}
