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

// Package main implements the sirseer-discussions command-line interface.
// It reads GitHub Discussions data and writes it as NDJSON (default) or
// as a table.
//
// Usage:
//
//	sirseer-discussions categories <owner>/<repo> [--all-pages]
//	sirseer-discussions get <owner>/<repo> <number>
//	sirseer-discussions list <owner>/<repo> <categoryId> [--first N] [--after C] [--order-by updated]
//
// Authentication uses a GitHub App installation configured through
// GITHUB_APP_ID, GITHUB_APP_PRIVATE_KEY (or GITHUB_APP_PRIVATE_KEY_PATH)
// and GITHUB_ORGANIZATION, or a token via --token or GITHUB_TOKEN.
// A .env file in the working directory is loaded first.
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication error or resource not found
//   - 3: Network error
//   - 4: GraphQL query error or unexpected response
package main
