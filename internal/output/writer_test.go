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
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testRecord struct {
	ID   int    `json:"id"`
	Body string `json:"body"`
}

func TestWriter_PrettyPrints(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	records := []testRecord{{ID: 1, Body: "one"}, {ID: 2, Body: "two"}}
	if err := w.Write(records); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	want := `[
  {
    "id": 1,
    "body": "one"
  },
  {
    "id": 2,
    "body": "two"
  }
]
`
	if buf.String() != want {
		t.Errorf("output mismatch:\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
	if w.Count() != 1 {
		t.Errorf("Count() = %d, want 1", w.Count())
	}
}

func TestWriter_RawMessagesAreIndented(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	records := []json.RawMessage{
		json.RawMessage(`{"number":1,"body":"![x](http://h/a.png)"}`),
	}
	if err := w.Write(records); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "\n    \"number\": 1,") {
		t.Errorf("raw record not indented:\n%s", out)
	}
	if !strings.Contains(out, `"body": "![x](http://h/a.png)"`) {
		t.Errorf("body not preserved verbatim:\n%s", out)
	}
}

func TestWriter_DoesNotEscapeHTML(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	if err := w.Write(map[string]string{"url": "https://h/a.png?x=1&y=<2>"}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "x=1&y=<2>") {
		t.Errorf("expected unescaped characters, got %s", buf.String())
	}
}

func TestWriter_WriteError(t *testing.T) {
	w := NewWriter(&bytes.Buffer{})

	if err := w.Write(make(chan int)); err == nil {
		t.Error("Expected error when writing non-marshalable data")
	}
}

func TestNewFileWriter_CreatesParents(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "nested", "deeper", "labels.json")

	w, err := NewFileWriter(filename)
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}
	if err := w.Write([]testRecord{{ID: 7, Body: "bug"}}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}

	var got []testRecord
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Failed to parse output: %v", err)
	}
	if len(got) != 1 || got[0].ID != 7 {
		t.Errorf("unexpected content: %+v", got)
	}
}

func TestWriteFile_Overwrites(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "repository.json")

	if err := WriteFile(filename, map[string]any{"name": "first", "extra": true}); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := WriteFile(filename, map[string]any{"name": "second"}); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "first") || strings.Contains(string(data), "extra") {
		t.Errorf("file not overwritten: %s", data)
	}
	if !strings.HasSuffix(string(data), "}\n") {
		t.Errorf("expected trailing newline, got %q", data)
	}
}

func TestNewFileWriter_Error(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFileWriter(filepath.Join(blocker, "child.json")); err == nil {
		t.Error("Expected error when parent is a regular file")
	}
}
