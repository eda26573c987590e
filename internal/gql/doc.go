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

// Package gql builds GraphQL query documents as syntax trees and renders them
// through a single serializer. Caller-supplied values only ever enter a document
// as typed argument values (strings, integers, enums, objects), never as raw text,
// so the rendered query cannot be reshaped by the values it carries.
//
// Basic usage:
//
//	doc := gql.Query("GetRepository",
//	    gql.Field("repository", gql.Args(
//	        gql.Arg("owner", gql.String(owner)),
//	        gql.Arg("name", gql.String(name)),
//	    ), gql.Leaves("id", "url")...),
//	)
//	text, err := gql.Render(doc)
//
// The trees are the vektah/gqlparser AST types, so a rendered document can be
// parsed back with gqlparser's parser and compared structurally.
package gql
