package testdata

import (
	"testing"
)

func TestLoadCorpus(t *testing.T) {
	entries, err := LoadCorpus()
	if err != nil {
		t.Fatalf("LoadCorpus() error: %v", err)
	}

	if len(entries) == 0 {
		t.Fatal("corpus is empty")
	}

	for i, e := range entries {
		if e.Raw == "" {
			t.Errorf("entry[%d] has empty raw", i)
		}
		if e.ExpectedCategory == "" {
			t.Errorf("entry[%d] has empty expected_category", i)
		}
		if e.Description == "" {
			t.Errorf("entry[%d] has empty description", i)
		}
	}
}

func TestCorpusCoverage(t *testing.T) {
	entries, err := LoadCorpus()
	if err != nil {
		t.Fatalf("LoadCorpus() error: %v", err)
	}

	seen := map[string]bool{"error": false, "warning": false, "success": false, "info": false, "none": false}
	for _, e := range entries {
		if _, ok := seen[e.ExpectedCategory]; !ok {
			t.Errorf("unknown category %q in %q", e.ExpectedCategory, e.Raw)
			continue
		}
		seen[e.ExpectedCategory] = true
	}
	for cat, ok := range seen {
		if !ok {
			t.Errorf("no corpus entry for category %q", cat)
		}
	}
}
