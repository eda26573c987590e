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

// Package output writes command results as NDJSON records or as a
// terminal table.
//
// Writer streams one JSON object per line and is safe for concurrent use.
// TableWriter collects rows and renders them with lipgloss when closed.
// New picks one by format name:
//
//	w, err := output.New("ndjson", os.Stdout)
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	for _, d := range page.Nodes {
//	    if err := w.Write(d); err != nil {
//	        return err
//	    }
//	}
package output
