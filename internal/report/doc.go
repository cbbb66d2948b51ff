// Copyright 2025 cohalz
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

// Package report renders per-monitor statistics as a wiki-style pipe table
// or as JSON, to stdout or a file.
//
// The primary type is Writer, which wraps the output destination and tracks
// how many rows were written. Rendering is delegated to RenderTable and
// RenderJSON so tests can target a plain io.Writer.
//
// Example usage:
//
//	w, err := report.NewFileWriter("report.txt")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	if err := w.WriteTable(rows, 2); err != nil {
//	    return err
//	}
package report
