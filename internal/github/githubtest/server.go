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

// Package githubtest runs a fake GitHub API for tests. It serves the App
// installation lookup, the installation token exchange and a GraphQL
// endpoint that answers by operation name.
package githubtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// The App installation the server knows about.
const (
	Organization      = "acme"
	InstallationID    = 42
	InstallationToken = "ghs_test"
)

// Request is a GraphQL request received by the server.
type Request struct {
	Operation     string
	Query         string
	Authorization string
	UserAgent     string
}

// Server is a fake GitHub API on an httptest.Server. It is closed when the
// test ends.
type Server struct {
	*httptest.Server

	t testing.TB

	mu                 sync.Mutex
	data               map[string]string
	graphqlErrors      map[string][]string
	installationStatus int
	tokenStatus        int
	graphqlStatus      int
	graphqlBody        string
	requests           []Request

	tokenExchanges atomic.Int32
}

var operationName = regexp.MustCompile(`^\s*query\s+([_A-Za-z][_0-9A-Za-z]*)`)

// NewServer starts a fake GitHub API.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		t:             t,
		data:          map[string]string{},
		graphqlErrors: map[string][]string{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /orgs/{org}/installation", s.handleInstallation)
	mux.HandleFunc("POST /app/installations/{id}/access_tokens", s.handleAccessToken)
	mux.HandleFunc("POST /graphql", s.handleGraphQL)

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// APIURL is the REST base URL.
func (s *Server) APIURL() string { return s.URL }

// GraphQLURL is the GraphQL endpoint URL.
func (s *Server) GraphQLURL() string { return s.URL + "/graphql" }

// Respond sets the data object returned for an operation.
func (s *Server) Respond(op, data string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[op] = data
}

// RespondErrors makes an operation return GraphQL errors with the given
// messages and null data.
func (s *Server) RespondErrors(op string, messages ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphqlErrors[op] = messages
}

// FailInstallation makes the installation lookup return status.
func (s *Server) FailInstallation(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.installationStatus = status
}

// FailTokenExchange makes the access token exchange return status.
func (s *Server) FailTokenExchange(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenStatus = status
}

// FailGraphQL makes every GraphQL request return status with body.
func (s *Server) FailGraphQL(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphqlStatus = status
	s.graphqlBody = body
}

// Requests returns the GraphQL requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// TokenExchanges returns how many installation tokens were issued or refused.
func (s *Server) TokenExchanges() int {
	return int(s.tokenExchanges.Load())
}

func (s *Server) handleInstallation(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		s.t.Errorf("installation lookup not signed with an app JWT: %q", r.Header.Get("Authorization"))
	}

	s.mu.Lock()
	status := s.installationStatus
	s.mu.Unlock()

	if status == 0 && r.PathValue("org") != Organization {
		status = http.StatusNotFound
	}
	if status != 0 {
		writeJSON(w, status, map[string]any{"message": http.StatusText(status)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": InstallationID, "app_id": 7, "account": map[string]any{"login": Organization}})
}

func (s *Server) handleAccessToken(w http.ResponseWriter, r *http.Request) {
	s.tokenExchanges.Add(1)

	s.mu.Lock()
	status := s.tokenStatus
	s.mu.Unlock()

	if status == 0 && r.PathValue("id") != strconv.Itoa(InstallationID) {
		status = http.StatusNotFound
	}
	if status != 0 {
		writeJSON(w, status, map[string]any{"message": "A JSON web token could not be decoded"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"token":      InstallationToken,
		"expires_at": time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Problems parsing JSON"})
		return
	}

	var op string
	if m := operationName.FindStringSubmatch(body.Query); m != nil {
		op = m[1]
	}

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Operation:     op,
		Query:         body.Query,
		Authorization: r.Header.Get("Authorization"),
		UserAgent:     r.Header.Get("User-Agent"),
	})
	status, failBody := s.graphqlStatus, s.graphqlBody
	data, ok := s.data[op]
	messages := s.graphqlErrors[op]
	s.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(failBody))
		return
	}

	if len(messages) > 0 {
		errs := make([]map[string]any, 0, len(messages))
		for _, m := range messages {
			errs = append(errs, map[string]any{"type": "NOT_FOUND", "message": m})
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": nil, "errors": errs})
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{
			"data":   nil,
			"errors": []map[string]any{{"message": "githubtest: no response for operation " + strconv.Quote(op)}},
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"data": ` + data + `}`))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
