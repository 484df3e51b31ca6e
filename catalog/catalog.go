// Package catalog is an in-memory full text index of products used to
// quick-fill serial and model fields from whatever the user remembers.
package catalog

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/mapping"
)

type Entry struct {
	TokenID      string `json:"tokenId"`
	SerialNumber string `json:"serial"`
	Model        string `json:"model"`
}

type Catalog struct {
	mu      sync.RWMutex
	index   bleve.Index
	entries map[string]Entry
}

func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Index = false
	idFieldMapping.IncludeInAll = false

	productMapping := bleve.NewDocumentMapping()
	productMapping.AddFieldMappingsAt("serial", textFieldMapping)
	productMapping.AddFieldMappingsAt("model", textFieldMapping)
	productMapping.AddFieldMappingsAt("tokenId", idFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = productMapping
	indexMapping.DefaultAnalyzer = standard.Name
	return indexMapping
}

func New() (*Catalog, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("couldn't create product index: %w", err)
	}
	return &Catalog{index: index, entries: map[string]Entry{}}, nil
}

func (c *Catalog) Close() error {
	return c.index.Close()
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Replace drops the current content and indexes entries instead.
func (c *Catalog) Replace(entries []Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	batch := c.index.NewBatch()
	for id := range c.entries {
		batch.Delete(id)
	}
	fresh := make(map[string]Entry, len(entries))
	for _, e := range entries {
		if err := batch.Index(e.TokenID, e); err != nil {
			return fmt.Errorf("couldn't index product %s: %w", e.TokenID, err)
		}
		fresh[e.TokenID] = e
	}
	if err := c.index.Batch(batch); err != nil {
		return fmt.Errorf("couldn't index products: %w", err)
	}
	c.entries = fresh
	return nil
}

const minFuzzyRunes = 3

// Search matches input against serial numbers and models. A prefix is
// enough for a hit, and so is a single typo once the input is at least
// minFuzzyRunes long. Best matches come first.
func (c *Catalog) Search(input string, limit int) ([]Entry, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	lower := strings.ToLower(input)
	phraseQuery := bleve.NewMatchPhraseQuery(input)
	matchQuery := bleve.NewMatchQuery(input)
	prefixQuery := bleve.NewPrefixQuery(lower)
	query := bleve.NewDisjunctionQuery(phraseQuery, matchQuery, prefixQuery)
	// one edit away from a two rune input matches nearly every short token
	if utf8.RuneCountInString(lower) >= minFuzzyRunes {
		fuzzyQuery := bleve.NewFuzzyQuery(lower)
		fuzzyQuery.Fuzziness = 1
		query.AddQuery(fuzzyQuery)
	}

	request := bleve.NewSearchRequest(query)
	if limit > 0 {
		request.Size = limit
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	searchResults, err := c.index.Search(request)
	if err != nil {
		return nil, fmt.Errorf("product search failed: %w", err)
	}
	results := []Entry{}
	for _, hit := range searchResults.Hits {
		if e, ok := c.entries[hit.ID]; ok {
			results = append(results, e)
		}
	}
	return results, nil
}
