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
	"bufio"
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	relaierrors "github.com/sirseerhq/sirseer-discussions/internal/errors"
	"github.com/sirseerhq/sirseer-discussions/internal/github"
	"github.com/sirseerhq/sirseer-discussions/internal/github/githubtest"
)

// sequenceExecutor returns its responses in order, one per call.
type sequenceExecutor struct {
	mu        sync.Mutex
	responses []string
	queries   []string
}

func (s *sequenceExecutor) Execute(ctx context.Context, query string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queries) >= len(s.responses) {
		return nil, fmt.Errorf("%w: unexpected call %d", relaierrors.ErrUpstreamQuery, len(s.queries)+1)
	}
	s.queries = append(s.queries, query)
	return json.RawMessage(s.responses[len(s.queries)-1]), nil
}

type runResult struct {
	stdout string
	stderr string
	err    error
}

// runCommand runs the root command against exec with a minimal config file.
func runCommand(t *testing.T, exec github.Executor, args ...string) runResult {
	t.Helper()
	return runCommandEnv(t, nil, exec, args...)
}

// runCommandEnv is runCommand with environment overrides. A nil exec keeps
// the real client factory.
func runCommandEnv(t *testing.T, env map[string]string, exec github.Executor, args ...string) runResult {
	t.Helper()

	for _, name := range []string{
		"GITHUB_TOKEN", "GITHUB_API_ENDPOINT", "GITHUB_GRAPHQL_ENDPOINT",
		"GITHUB_APP_ID", "GITHUB_APP_PRIVATE_KEY", "GITHUB_APP_PRIVATE_KEY_PATH", "GITHUB_ORGANIZATION",
		"SIRSEER_PAGE_SIZE", "SIRSEER_LOG_LEVEL", "SIRSEER_LOG_TIMESTAMPS",
	} {
		t.Setenv(name, env[name])
	}
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("defaults:\n  page_size: 25\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	a := newApp()
	if exec != nil {
		a.newClient = func(ctx context.Context) (*github.Client, error) {
			return github.NewClient(exec, github.WithLogger(a.logger)), nil
		}
	}

	var stdout, stderr bytes.Buffer
	root := newRootCommand(a)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", configPath}, args...))

	err := root.Execute()
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func decodeLines[T any](t *testing.T, s string) []T {
	t.Helper()
	var out []T
	scanner := bufio.NewScanner(strings.NewReader(s))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var v T
		if err := json.Unmarshal(scanner.Bytes(), &v); err != nil {
			t.Fatalf("decode %q: %v", scanner.Text(), err)
		}
		out = append(out, v)
	}
	return out
}

func TestCategoriesCommand(t *testing.T) {
	mock := github.NewMockExecutor(github.WithResponse(github.OpGetDiscussionCategories, githubtest.CategoriesResponse("Announcements", "Ideas")))

	res := runCommand(t, mock, "categories", "acme/docs")
	if res.err != nil {
		t.Fatalf("categories error = %v", res.err)
	}

	got := decodeLines[github.DiscussionCategory](t, res.stdout)
	if len(got) != 2 || got[0].Name != "Announcements" || got[1].ID != "DIC_2" {
		t.Errorf("categories output = %+v", got)
	}
	if !strings.Contains(res.stderr, "Wrote 2 categories") {
		t.Errorf("stderr = %q, want count", res.stderr)
	}
	if !strings.Contains(mock.LastQuery(), `repository(owner: "acme", name: "docs")`) {
		t.Errorf("query = %s", mock.LastQuery())
	}
}

func TestCategoriesCommandAllPages(t *testing.T) {
	exec := &sequenceExecutor{responses: []string{
		`{"repository": {"discussionCategories": {"nodes": [{"id": "DIC_1", "name": "General"}],
		  "pageInfo": {"startCursor": "a", "endCursor": "b", "hasPreviousPage": false, "hasNextPage": true}, "totalCount": 2}}}`,
		`{"repository": {"discussionCategories": {"nodes": [{"id": "DIC_2", "name": "Polls"}],
		  "pageInfo": {"startCursor": "c", "endCursor": "c", "hasPreviousPage": true, "hasNextPage": false}, "totalCount": 2}}}`,
	}}

	res := runCommand(t, exec, "categories", "acme/docs", "--all-pages")
	if res.err != nil {
		t.Fatalf("categories --all-pages error = %v", res.err)
	}
	if got := decodeLines[github.DiscussionCategory](t, res.stdout); len(got) != 2 || got[1].Name != "Polls" {
		t.Errorf("categories output = %+v", got)
	}
	if len(exec.queries) != 2 {
		t.Fatalf("executed %d queries, want 2", len(exec.queries))
	}
	if !strings.Contains(exec.queries[0], "first: 25") || strings.Contains(exec.queries[0], "after:") {
		t.Errorf("first page query = %s", exec.queries[0])
	}
	if !strings.Contains(exec.queries[1], `after: "b"`) {
		t.Errorf("second page query = %s", exec.queries[1])
	}
}

func TestGetCommand(t *testing.T) {
	mock := github.NewMockExecutor(github.WithResponse(github.OpGetDiscussion, githubtest.DiscussionResponse(7)))

	res := runCommand(t, mock, "get", "acme/docs", "7")
	if res.err != nil {
		t.Fatalf("get error = %v", res.err)
	}

	got := decodeLines[github.Discussion](t, res.stdout)
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if got[0].Number != 7 || got[0].Author == nil || got[0].Author.Login != "user7" {
		t.Errorf("discussion = %+v", got[0])
	}
	if !strings.Contains(mock.LastQuery(), "discussion(number: 7)") {
		t.Errorf("query = %s", mock.LastQuery())
	}
	if !strings.Contains(res.stderr, "Wrote 1 discussion\n") {
		t.Errorf("stderr = %q", res.stderr)
	}
}

func TestGetCommandTable(t *testing.T) {
	mock := github.NewMockExecutor(github.WithResponse(github.OpGetDiscussion, githubtest.DiscussionResponse(8)))

	res := runCommand(t, mock, "--format", "table", "get", "acme/docs", "8")
	if res.err != nil {
		t.Fatalf("get --format table error = %v", res.err)
	}
	for _, want := range []string{"NUMBER", "Discussion 8", "ghost", "proposal"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("table output missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestGetCommandErrors(t *testing.T) {
	tests := []struct {
		name     string
		exec     github.Executor
		args     []string
		wantCode int
		wantErr  error
	}{
		{
			name:     "bad number",
			exec:     github.NewMockExecutor(),
			args:     []string{"get", "acme/docs", "seven"},
			wantCode: exitGeneral,
			wantErr:  relaierrors.ErrInvalidArgument,
		},
		{
			name:     "bad repository",
			exec:     github.NewMockExecutor(),
			args:     []string{"get", "acme", "7"},
			wantCode: exitGeneral,
			wantErr:  relaierrors.ErrInvalidArgument,
		},
		{
			name:     "repository not found",
			exec:     github.NewMockExecutor(github.WithResponse(github.OpGetDiscussion, githubtest.NullRepositoryResponse)),
			args:     []string{"get", "acme/missing", "7"},
			wantCode: exitAuth,
			wantErr:  relaierrors.ErrNotFound,
		},
		{
			name:     "network failure",
			exec:     github.NewMockExecutor(github.WithError(fmt.Errorf("%w: %w: connection refused", relaierrors.ErrUpstreamQuery, relaierrors.ErrNetworkFailure))),
			args:     []string{"get", "acme/docs", "7"},
			wantCode: exitNetwork,
			wantErr:  relaierrors.ErrNetworkFailure,
		},
		{
			name:     "malformed response",
			exec:     github.NewMockExecutor(github.WithResponse(github.OpGetDiscussion, `{"repository": {"discussion": {"number": 7}}}`)),
			args:     []string{"get", "acme/docs", "7"},
			wantCode: exitUpstream,
			wantErr:  relaierrors.ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCommand(t, tt.exec, tt.args...)
			if !errors.Is(res.err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", res.err, tt.wantErr)
			}
			if code := mapErrorToExitCode(res.err); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if res.stdout != "" {
				t.Errorf("stdout = %q, want empty", res.stdout)
			}
		})
	}
}

func TestListCommand(t *testing.T) {
	mock := github.NewMockExecutor(github.WithResponse(github.OpGetDiscussions, githubtest.DiscussionsResponse(3, 4, false)))

	res := runCommand(t, mock, "list", "acme/docs", "DIC_2", "--last", "2", "--order-by", "updated", "--direction", "asc")
	if res.err != nil {
		t.Fatalf("list error = %v", res.err)
	}

	got := decodeLines[github.Discussion](t, res.stdout)
	if len(got) != 2 || got[0].Number != 3 || got[1].Author != nil {
		t.Errorf("list output = %+v", got)
	}
	query := mock.LastQuery()
	for _, want := range []string{`categoryId: "DIC_2"`, "last: 2", "orderBy: {field:UPDATED_AT,direction:ASC}"} {
		if !strings.Contains(query, want) {
			t.Errorf("query missing %q:\n%s", want, query)
		}
	}
	if strings.Contains(query, "first: 25") {
		t.Errorf("query has default first with --last:\n%s", query)
	}
}

func TestListCommandAllPages(t *testing.T) {
	exec := &sequenceExecutor{responses: []string{
		githubtest.DiscussionsResponse(1, 2, true),
		githubtest.DiscussionsResponse(3, 3, false),
	}}

	res := runCommand(t, exec, "list", "acme/docs", "DIC_2", "--first", "2", "--all-pages")
	if res.err != nil {
		t.Fatalf("list --all-pages error = %v", res.err)
	}

	got := decodeLines[github.Discussion](t, res.stdout)
	if len(got) != 3 || got[2].Number != 3 {
		t.Errorf("list output = %+v", got)
	}
	if len(exec.queries) != 2 {
		t.Fatalf("executed %d queries, want 2", len(exec.queries))
	}
	if !strings.Contains(exec.queries[1], `after: "cursor2"`) {
		t.Errorf("second page query = %s", exec.queries[1])
	}
	if !strings.Contains(res.stderr, "Wrote 3 discussions") {
		t.Errorf("stderr = %q", res.stderr)
	}
}

func TestListCommandOutputFile(t *testing.T) {
	mock := github.NewMockExecutor(github.WithResponse(github.OpGetDiscussions, githubtest.DiscussionsResponse(5, 5, false)))
	path := filepath.Join(t.TempDir(), "discussions.ndjson")

	res := runCommand(t, mock, "--output", path, "list", "acme/docs", "DIC_2")
	if res.err != nil {
		t.Fatalf("list --output error = %v", res.err)
	}
	if res.stdout != "" {
		t.Errorf("stdout = %q, want empty", res.stdout)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got := decodeLines[github.Discussion](t, string(data)); len(got) != 1 || got[0].Number != 5 {
		t.Errorf("file contents = %s", data)
	}
	if !strings.Contains(mock.LastQuery(), "first: 25") {
		t.Errorf("query without paging flags should use the page size:\n%s", mock.LastQuery())
	}
}

func TestListCommandInvalidFlagsSkipQuery(t *testing.T) {
	mock := github.NewMockExecutor()

	res := runCommand(t, mock, "list", "acme/docs", "DIC_2", "--order-by", "votes")
	if !errors.Is(res.err, relaierrors.ErrInvalidArgument) {
		t.Fatalf("error = %v, want ErrInvalidArgument", res.err)
	}
	if mock.CallCount != 0 {
		t.Errorf("executed %d queries, want 0", mock.CallCount)
	}
}

func TestGetCommandWithToken(t *testing.T) {
	server := githubtest.NewServer(t)
	server.Respond(github.OpGetDiscussion, githubtest.DiscussionResponse(9))

	res := runCommandEnv(t, map[string]string{
		"GITHUB_GRAPHQL_ENDPOINT": server.GraphQLURL(),
	}, nil, "--token", "ghp_flag", "get", "acme/docs", "9")
	if res.err != nil {
		t.Fatalf("get error = %v", res.err)
	}
	if got := decodeLines[github.Discussion](t, res.stdout); len(got) != 1 || got[0].Number != 9 {
		t.Errorf("get output = %s", res.stdout)
	}

	requests := server.Requests()
	if len(requests) != 1 {
		t.Fatalf("server received %d requests, want 1", len(requests))
	}
	if requests[0].Authorization != "Bearer ghp_flag" {
		t.Errorf("Authorization = %q", requests[0].Authorization)
	}
	if !strings.HasPrefix(requests[0].UserAgent, "sirseer-discussions/") {
		t.Errorf("User-Agent = %q", requests[0].UserAgent)
	}
}

func TestCategoriesCommandAsApp(t *testing.T) {
	server := githubtest.NewServer(t)
	server.Respond(github.OpGetDiscussionCategories, githubtest.CategoriesResponse("General"))

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})

	res := runCommandEnv(t, map[string]string{
		"GITHUB_API_ENDPOINT":     server.APIURL(),
		"GITHUB_GRAPHQL_ENDPOINT": server.GraphQLURL(),
		"GITHUB_APP_ID":           "7",
		"GITHUB_APP_PRIVATE_KEY":  string(keyPEM),
		"GITHUB_ORGANIZATION":     githubtest.Organization,
	}, nil, "categories", "acme/docs")
	if res.err != nil {
		t.Fatalf("categories error = %v", res.err)
	}
	if got := decodeLines[github.DiscussionCategory](t, res.stdout); len(got) != 1 || got[0].Name != "General" {
		t.Errorf("categories output = %s", res.stdout)
	}
	if server.TokenExchanges() != 1 {
		t.Errorf("token exchanges = %d, want 1", server.TokenExchanges())
	}
	if requests := server.Requests(); len(requests) != 1 || requests[0].Authorization != "token "+githubtest.InstallationToken {
		t.Errorf("requests = %+v", requests)
	}
}

func TestCommandWithoutCredentials(t *testing.T) {
	res := runCommandEnv(t, nil, nil, "categories", "acme/docs")
	if !errors.Is(res.err, relaierrors.ErrAuthentication) {
		t.Fatalf("error = %v, want ErrAuthentication", res.err)
	}
	if code := mapErrorToExitCode(res.err); code != exitAuth {
		t.Errorf("exit code = %d, want %d", code, exitAuth)
	}
}
