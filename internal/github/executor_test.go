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
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	relaierrors "github.com/sirseerhq/sirseer-discussions/internal/errors"
)

func newTestExecutor(url string) *GraphQLExecutor {
	httpClient := &http.Client{Transport: newAPITransport(http.DefaultTransport, "sirseer-discussions-test")}
	return NewGraphQLExecutor(url, httpClient, nil)
}

func TestGraphQLExecutor_Execute(t *testing.T) {
	tests := []struct {
		name         string
		response     string
		responseCode int
		wantData     string
		wantErr      []error
		wantStatus   int
	}{
		{
			name:         "successful response",
			response:     `{"data": {"repository": {"discussion": null}}}`,
			responseCode: http.StatusOK,
			wantData:     `{"repository": {"discussion": null}}`,
		},
		{
			name:         "graphql error",
			response:     `{"data": {"repository": null}, "errors": [{"message": "Could not resolve to a Repository with the name 'acme/nope'."}]}`,
			responseCode: http.StatusOK,
			wantErr:      []error{relaierrors.ErrUpstreamQuery},
		},
		{
			name:         "bad credentials",
			response:     `{"message": "Bad credentials", "documentation_url": "https://docs.github.com/graphql"}`,
			responseCode: http.StatusUnauthorized,
			wantErr:      []error{relaierrors.ErrUpstreamQuery},
			wantStatus:   http.StatusUnauthorized,
		},
		{
			name:         "server error with plain body",
			response:     "upstream connect error\nmore detail",
			responseCode: http.StatusBadGateway,
			wantErr:      []error{relaierrors.ErrUpstreamQuery},
			wantStatus:   http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery, gotUA string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var body struct {
					Query string `json:"query"`
				}
				_ = json.NewDecoder(r.Body).Decode(&body)
				gotQuery = body.Query
				gotUA = r.Header.Get("User-Agent")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.responseCode)
				_, _ = w.Write([]byte(tt.response))
			}))
			defer server.Close()

			data, err := newTestExecutor(server.URL).Execute(context.Background(), "query Q { viewer { login } }")

			if gotQuery != "query Q { viewer { login } }" {
				t.Errorf("server received query %q", gotQuery)
			}
			if gotUA != "sirseer-discussions-test" {
				t.Errorf("User-Agent = %q", gotUA)
			}

			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				var got, want any
				_ = json.Unmarshal(data, &got)
				_ = json.Unmarshal([]byte(tt.wantData), &want)
				gotJSON, _ := json.Marshal(got)
				wantJSON, _ := json.Marshal(want)
				if string(gotJSON) != string(wantJSON) {
					t.Errorf("data = %s, want %s", gotJSON, wantJSON)
				}
				return
			}

			for _, want := range tt.wantErr {
				if !errors.Is(err, want) {
					t.Errorf("expected error wrapping %v, got %v", want, err)
				}
			}
			if errors.Is(err, relaierrors.ErrNetworkFailure) {
				t.Errorf("HTTP-level failure misclassified as network error: %v", err)
			}

			var statusErr *StatusError
			if tt.wantStatus != 0 {
				if !errors.As(err, &statusErr) {
					t.Fatalf("expected *StatusError in chain, got %v", err)
				}
				if statusErr.StatusCode != tt.wantStatus {
					t.Errorf("status = %d, want %d", statusErr.StatusCode, tt.wantStatus)
				}
				if statusErr.Message == "" || strings.Contains(statusErr.Message, "\n") {
					t.Errorf("status message = %q, want first line of body", statusErr.Message)
				}
			}
		})
	}
}

func TestGraphQLExecutor_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := newTestExecutor(url).Execute(context.Background(), "query Q { viewer { login } }")
	if !errors.Is(err, relaierrors.ErrUpstreamQuery) {
		t.Errorf("expected ErrUpstreamQuery, got %v", err)
	}
	if !errors.Is(err, relaierrors.ErrNetworkFailure) {
		t.Errorf("expected ErrNetworkFailure, got %v", err)
	}
}

func TestGraphQLExecutor_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestExecutor("http://127.0.0.1:1").Execute(ctx, "query Q { viewer { login } }")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		name          string
		err           *StatusError
		wantAuth      bool
		wantNotFound  bool
		wantRateLimit bool
	}{
		{"unauthorized", &StatusError{StatusCode: 401, Message: "Bad credentials"}, true, false, false},
		{"forbidden", &StatusError{StatusCode: 403, Message: "Resource not accessible by integration"}, true, false, false},
		{"secondary rate limit", &StatusError{StatusCode: 403, Message: "You have exceeded a secondary rate limit"}, false, false, true},
		{"too many requests", &StatusError{StatusCode: 429}, false, false, true},
		{"not found", &StatusError{StatusCode: 404, Message: "Not Found"}, false, true, false},
		{"bad gateway", &StatusError{StatusCode: 502}, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.IsAuthError(); got != tt.wantAuth {
				t.Errorf("IsAuthError() = %v, want %v", got, tt.wantAuth)
			}
			if got := tt.err.IsNotFoundError(); got != tt.wantNotFound {
				t.Errorf("IsNotFoundError() = %v, want %v", got, tt.wantNotFound)
			}
			if got := tt.err.IsRateLimitError(); got != tt.wantRateLimit {
				t.Errorf("IsRateLimitError() = %v, want %v", got, tt.wantRateLimit)
			}
		})
	}

	if got := (&StatusError{StatusCode: 404}).Error(); got != "github api returned 404 Not Found" {
		t.Errorf("Error() = %q", got)
	}
}

func TestLimitedReader(t *testing.T) {
	lr := &limitedReader{
		ReadCloser: http.NoBody,
		limit:      4,
	}
	lr.read = 4
	if _, err := lr.Read(make([]byte, 8)); err == nil {
		t.Error("expected error once the limit is reached")
	}
}
