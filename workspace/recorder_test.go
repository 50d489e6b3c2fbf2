package workspace

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"repopilot/model"
)

func TestRecorderReadFile(t *testing.T) {
	c, dir := newTestContext(t)
	writeFile(t, dir, "notes.txt", "remember the milk")
	r := NewRecorder(c)

	got, err := r.ReadFile("notes.txt")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got != "remember the milk" {
		t.Errorf("ReadFile = %q", got)
	}

	_, err = r.ReadFile("absent.txt")
	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected ReadError, got %v", err)
	}
}

func TestAppendEntryPreservesOrder(t *testing.T) {
	c, dir := newTestContext(t)
	r := NewRecorder(c)

	entries := []model.ContextEntry{
		{File: "app.py", Summary: "entrypoint", Requirements: []string{"flask"}},
		{File: "util.py", Summary: "helpers"},
	}
	for _, e := range entries {
		if _, err := r.AppendEntry(e); err != nil {
			t.Fatalf("AppendEntry(%s): %v", e.File, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "context.json"))
	if err != nil {
		t.Fatalf("read context.json: %v", err)
	}

	var got []model.ContextEntry
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("context.json is not a JSON list: %v", err)
	}
	if len(got) != 2 || got[0].File != "app.py" || got[1].File != "util.py" {
		t.Errorf("entries out of order: %+v", got)
	}
	if got[0].Requirements[0] != "flask" {
		t.Errorf("requirements lost: %+v", got[0])
	}
}

func TestAppendEntryWrapsNonListJSON(t *testing.T) {
	c, dir := newTestContext(t)
	writeFile(t, dir, "context.json", `{"file": "old.py", "summary": "legacy"}`)
	r := NewRecorder(c)

	if _, err := r.AppendEntry(model.ContextEntry{File: "new.py"}); err != nil {
		t.Fatalf("AppendEntry: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(dir, "context.json"))
	var got []model.ContextEntry
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 || got[0].File != "old.py" || got[1].File != "new.py" {
		t.Errorf("wrapped list = %+v", got)
	}
}

func TestAppendEntryDiscardsCorruptLog(t *testing.T) {
	c, dir := newTestContext(t)
	writeFile(t, dir, "context.json", "{not json at all")
	r := NewRecorder(c)

	if _, err := r.AppendEntry(model.ContextEntry{File: "fresh.py"}); err != nil {
		t.Fatalf("AppendEntry: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(dir, "context.json"))
	var got []model.ContextEntry
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 1 || got[0].File != "fresh.py" {
		t.Errorf("corrupt log not replaced: %+v", got)
	}
}

func TestRecorderRequiresContext(t *testing.T) {
	r := NewRecorder(New())
	if _, err := r.ReadFile("x"); !errors.Is(err, ErrContextNotSet) {
		t.Fatalf("ReadFile: %v", err)
	}
	if _, err := r.AppendEntry(model.ContextEntry{}); !errors.Is(err, ErrContextNotSet) {
		t.Fatalf("AppendEntry: %v", err)
	}
}
