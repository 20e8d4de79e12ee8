// Package corpus loads the character knowledge base from CSV and attaches
// embeddings in a single batch pass.
package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lorekeep/lorekeep/engine/domain"
)

// Columns the knowledge-base CSV must carry. Header matching is
// case-insensitive and order-insensitive.
var requiredColumns = []string{"Name", "Description", "Medium", "Setting"}

// Load parses a knowledge-base CSV into a corpus, validating every row.
func Load(r io.Reader) (domain.Corpus, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("corpus: load: %w", domain.ErrEmptyCorpus)
	}
	if err != nil {
		return nil, fmt.Errorf("corpus: read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, want := range requiredColumns {
		if _, ok := cols[strings.ToLower(want)]; !ok {
			return nil, domain.NewValidationError("header", want, domain.ErrMissingColumn)
		}
	}

	var c domain.Corpus
	for row := 1; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("corpus: read row %d: %w", row, err)
		}

		rec := domain.Record{
			Name:        strings.TrimSpace(fields[cols["name"]]),
			Description: strings.TrimSpace(fields[cols["description"]]),
			Medium:      strings.TrimSpace(fields[cols["medium"]]),
			Setting:     strings.TrimSpace(fields[cols["setting"]]),
		}
		if err := domain.ValidateRecord(rec); err != nil {
			return nil, fmt.Errorf("corpus: row %d: %w", row, err)
		}
		c = append(c, rec)
	}
	return c, nil
}

// LoadFile is Load over a file on disk.
func LoadFile(path string) (domain.Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}
