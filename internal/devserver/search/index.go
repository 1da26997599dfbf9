// Package search keeps an in-memory full-text index of journal entries.
package search

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
)

// DefaultLimit caps the number of hits returned by Search.
const DefaultLimit = 100

func buildMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = en.AnalyzerName

	doc := bleve.NewDocumentMapping()

	owner := bleve.NewTextFieldMapping()
	owner.Analyzer = keyword.Name
	doc.AddFieldMappingsAt("owner", owner)

	title := bleve.NewTextFieldMapping()
	title.Analyzer = en.AnalyzerName
	doc.AddFieldMappingsAt("title", title)

	content := bleve.NewTextFieldMapping()
	content.Analyzer = en.AnalyzerName
	content.Store = false
	doc.AddFieldMappingsAt("content", content)

	// Tags are opaque and matched exactly.
	tags := bleve.NewTextFieldMapping()
	tags.Analyzer = keyword.Name
	doc.AddFieldMappingsAt("tags", tags)

	im.AddDocumentMapping("_default", doc)
	return im
}

// Index is safe for concurrent use.
type Index struct {
	mu  sync.RWMutex
	idx bleve.Index
}

func New() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &Index{idx: idx}, nil
}

func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.idx.Close()
}

// Put indexes or reindexes e for owner. Stored content is in transport
// form and is unescaped before analysis.
func (i *Index) Put(owner ids.ID, e models.Entry) error {
	i.mu.RLock()
	defer i.mu.RUnlock()

	doc := map[string]any{
		"owner":   owner.String(),
		"title":   e.Title,
		"content": models.StripMarkdown(models.UnescapeContent(e.Content)),
		"tags":    e.Tags,
	}
	if err := i.idx.Index(e.ID.String(), doc); err != nil {
		return fmt.Errorf("index entry %s: %w", e.ID, err)
	}
	return nil
}

func (i *Index) Delete(id ids.ID) error {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if err := i.idx.Delete(id.String()); err != nil {
		return fmt.Errorf("unindex entry %s: %w", id, err)
	}
	return nil
}

// Search returns the ids of owner's entries matching text, best first.
func (i *Index) Search(ctx context.Context, owner ids.ID, text string) ([]ids.ID, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []ids.ID{}, nil
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(buildQuery(owner, text), DefaultLimit, 0, false)
	res, err := i.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	out := make([]ids.ID, 0, len(res.Hits))
	for _, h := range res.Hits {
		id, err := ids.Parse(h.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func buildQuery(owner ids.ID, text string) query.Query {
	title := bleve.NewMatchQuery(text)
	title.SetField("title")
	title.SetBoost(2)

	content := bleve.NewMatchQuery(text)
	content.SetField("content")

	tag := bleve.NewTermQuery(text)
	tag.SetField("tags")

	prefix := bleve.NewPrefixQuery(strings.ToLower(text))
	prefix.SetField("title")

	ownerQ := bleve.NewTermQuery(owner.String())
	ownerQ.SetField("owner")

	return bleve.NewConjunctionQuery(ownerQ, bleve.NewDisjunctionQuery(title, content, tag, prefix))
}
