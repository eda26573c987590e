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
	"fmt"
	"regexp"
	"sync"

	relaierrors "github.com/sirseerhq/sirseer-discussions/internal/errors"
)

// MockExecutor is an Executor that answers from canned data objects keyed by
// operation name, for testing code that uses a Client.
type MockExecutor struct {
	mu sync.Mutex

	// Responses maps an operation name (OpGetDiscussion, ...) to the data
	// object returned for it.
	Responses map[string]json.RawMessage

	// Error to return instead of a response
	Error error

	// Track calls for verification
	CallCount int
	Queries   []string
}

var operationName = regexp.MustCompile(`^\s*query\s+([_A-Za-z][_0-9A-Za-z]*)`)

// NewMockExecutor creates a mock executor with no canned responses.
func NewMockExecutor(opts ...MockExecutorOption) *MockExecutor {
	m := &MockExecutor{Responses: map[string]json.RawMessage{}}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Execute implements Executor.
func (m *MockExecutor) Execute(ctx context.Context, query string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	m.Queries = append(m.Queries, query)

	// Check for context cancellation
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.Error != nil {
		return nil, m.Error
	}

	match := operationName.FindStringSubmatch(query)
	if match == nil {
		return nil, fmt.Errorf("%w: mock: query has no operation name", relaierrors.ErrUpstreamQuery)
	}
	data, ok := m.Responses[match[1]]
	if !ok {
		return nil, fmt.Errorf("%w: mock: no response for %s", relaierrors.ErrUpstreamQuery, match[1])
	}
	return data, nil
}

// LastQuery returns the most recent query text, or "" before the first call.
func (m *MockExecutor) LastQuery() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Queries) == 0 {
		return ""
	}
	return m.Queries[len(m.Queries)-1]
}

// MockExecutorOption allows configuring the mock executor
type MockExecutorOption func(*MockExecutor)

// WithResponse sets the data object returned for an operation.
func WithResponse(op string, data string) MockExecutorOption {
	return func(m *MockExecutor) {
		m.Responses[op] = json.RawMessage(data)
	}
}

// WithError makes every call return err.
func WithError(err error) MockExecutorOption {
	return func(m *MockExecutor) {
		m.Error = err
	}
}
