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

package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// TableWriter buffers Row records and renders them as one table on Close.
// The first record fixes the headers.
type TableWriter struct {
	mu      sync.Mutex
	out     io.Writer
	headers []string
	rows    [][]string
	closed  bool
}

// NewTableWriter creates a table writer rendering to w.
func NewTableWriter(w io.Writer) *TableWriter {
	return &TableWriter{out: w}
}

// Write buffers record, which must implement Row.
func (t *TableWriter) Write(record any) error {
	row, ok := record.(Row)
	if !ok {
		return fmt.Errorf("failed to write record: %T cannot be shown as a table row", record)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.headers == nil {
		t.headers = row.Headers()
	}
	cells := row.Cells()
	if len(cells) != len(t.headers) {
		return fmt.Errorf("failed to write record: %d cells for %d columns", len(cells), len(t.headers))
	}
	t.rows = append(t.rows, cells)
	return nil
}

// Count returns the number of buffered rows.
func (t *TableWriter) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

// Close renders the table. Nothing is written when no rows were buffered.
func (t *TableWriter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || len(t.rows) == 0 {
		t.closed = true
		return nil
	}
	t.closed = true

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(t.headers...).
		Rows(t.rows...)

	if _, err := fmt.Fprintln(t.out, tbl.Render()); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}
