package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestJournalPath(t *testing.T) {
	t.Run("slug and hash from task file", func(t *testing.T) {
		base := t.TempDir()
		taskFile := filepath.Join(t.TempDir(), "my tasks.json")

		got, err := JournalPath(base, taskFile)
		if err != nil {
			t.Fatalf("JournalPath: %v", err)
		}
		if filepath.Dir(got) != base {
			t.Errorf("dir = %q, want %q", filepath.Dir(got), base)
		}
		name := filepath.Base(got)
		if !strings.HasPrefix(name, "my_tasks-") || !strings.HasSuffix(name, ".jsonl") {
			t.Errorf("name = %q, want my_tasks-<hash>.jsonl", name)
		}
	})

	t.Run("different files get different journals", func(t *testing.T) {
		base := t.TempDir()
		a, err := JournalPath(base, filepath.Join(t.TempDir(), "tasks.json"))
		if err != nil {
			t.Fatal(err)
		}
		b, err := JournalPath(base, filepath.Join(t.TempDir(), "tasks.json"))
		if err != nil {
			t.Fatal(err)
		}
		if a == b {
			t.Errorf("expected distinct journals, both %q", a)
		}
	})

	t.Run("empty base dir returns error", func(t *testing.T) {
		if _, err := JournalPath("", "tasks.json"); err == nil {
			t.Fatal("expected error for empty base dir, got nil")
		}
	})

	t.Run("empty task file returns error", func(t *testing.T) {
		if _, err := JournalPath(t.TempDir(), " "); err == nil {
			t.Fatal("expected error for empty task file, got nil")
		}
	})
}

func TestJournalAppendAndTail(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "logs")
	taskFile := filepath.Join(t.TempDir(), "tasks.json")

	j, err := OpenJournal(base, taskFile)
	if err != nil {
		t.Fatalf("OpenJournal: %v", err)
	}
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	events, err := j.Tail(10)
	if err != nil {
		t.Fatalf("Tail on missing journal: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}

	ops := []Event{
		{Op: "add", TaskID: 1, Status: "todo", Description: "first"},
		{Op: "add", TaskID: 2, Status: "todo", Description: "second"},
		{Op: "mark", TaskID: 1, Status: "done"},
		{Op: "clear"},
	}
	for _, ev := range ops {
		if err := j.Append(ev); err != nil {
			t.Fatalf("Append(%s): %v", ev.Op, err)
		}
	}

	all, err := j.Tail(0)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(all) != len(ops) {
		t.Fatalf("Tail(0) returned %d events, want %d", len(all), len(ops))
	}
	if !all[0].Time.Equal(fixed) {
		t.Errorf("Time = %v, want %v", all[0].Time, fixed)
	}
	if all[0].File != taskFile {
		t.Errorf("File = %q, want %q", all[0].File, taskFile)
	}

	last, err := j.Tail(2)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(last) != 2 || last[0].Op != "mark" || last[1].Op != "clear" {
		t.Errorf("Tail(2) = %+v, want mark then clear", last)
	}
	if last[1].TaskID != 0 {
		t.Errorf("clear TaskID = %d, want 0", last[1].TaskID)
	}
}

func TestJournalSkipsBadLines(t *testing.T) {
	taskFile := filepath.Join(t.TempDir(), "tasks.json")
	j, err := OpenJournal(t.TempDir(), taskFile)
	if err != nil {
		t.Fatal(err)
	}
	if err := j.Append(Event{Op: "add", TaskID: 1}); err != nil {
		t.Fatal(err)
	}

	f, err := os.OpenFile(j.Path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("not json\n\n")
	f.Close()

	if err := j.Append(Event{Op: "delete", TaskID: 1}); err != nil {
		t.Fatal(err)
	}

	events, err := j.Tail(0)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[1].Op != "delete" {
		t.Errorf("Op = %q, want delete", events[1].Op)
	}
}

func TestNilJournalAppend(t *testing.T) {
	var j *Journal
	if err := j.Append(Event{Op: "add"}); err != nil {
		t.Errorf("nil journal Append: %v", err)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"simple", "simple"},
		{"Hello World", "Hello_World"},
		{"test-project", "test-project"},
		{"many   spaces", "many_spaces"},
		{"special@chars!", "special_chars"},
		{"", "tasks"},
		{"   ", "tasks"},
		{"___", "tasks"},
		{"test.-_file", "test.-_file"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := slugify(tt.input); got != tt.want {
				t.Errorf("slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHashPath(t *testing.T) {
	for _, input := range []string{"/path/to/tasks.json", "/another/path", ""} {
		got := hashPath(input)
		if len(got) != 8 {
			t.Errorf("hashPath(%q) length = %d, want 8", input, len(got))
		}
		if got != hashPath(input) {
			t.Errorf("hashPath(%q) not deterministic", input)
		}
		if input != "" && got == hashPath(input+"x") {
			t.Errorf("hashPath(%q) collides with %q", input, input+"x")
		}
	}
}
