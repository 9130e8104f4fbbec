package testdata

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed corpus.json
var corpusJSON []byte

// CorpusEntry is a raw log line paired with the keyword category and the
// timestamp the classifier should extract from it.
type CorpusEntry struct {
	Raw               string `json:"raw"`
	ExpectedCategory  string `json:"expected_category"`
	ExpectedTimestamp string `json:"expected_timestamp"`
	Description       string `json:"description"`
}

// LoadCorpus decodes the embedded keyword corpus. Entries keep their file
// order.
func LoadCorpus() ([]CorpusEntry, error) {
	var entries []CorpusEntry
	if err := json.Unmarshal(corpusJSON, &entries); err != nil {
		return nil, fmt.Errorf("decoding keyword corpus: %w", err)
	}
	return entries, nil
}
