package retrieval

import (
	"context"
	"fmt"
	"os"
	"strings"

	chromem "github.com/philippgille/chromem-go"

	"github.com/driffle/genie-backend/internal/clients/genai"
	"github.com/driffle/genie-backend/internal/platform/logger"
)

type Document struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// Store is the semantic retrieval capability: given a query, return up to k
// relevance-ranked snippets. Backed by an embedded cosine-similarity index
// with embeddings from the generation gateway.
type Store interface {
	Index(ctx context.Context, docs []Document) error
	Retrieve(ctx context.Context, query string, k int) ([]string, error)
}

type store struct {
	log        *logger.Logger
	collection *chromem.Collection
}

func NewStore(log *logger.Logger, ai genai.Client) (Store, error) {
	collectionName := strings.TrimSpace(os.Getenv("EMBEDDING_COLLECTION_NAME"))
	if collectionName == "" {
		collectionName = "support-docs"
	}

	embed := chromem.EmbeddingFunc(func(ctx context.Context, text string) ([]float32, error) {
		vectors, err := ai.Embed(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		if len(vectors) != 1 {
			return nil, fmt.Errorf("expected 1 embedding, got %d", len(vectors))
		}
		return vectors[0], nil
	})

	var vdb *chromem.DB
	var err error
	if path := strings.TrimSpace(os.Getenv("VECTOR_STORE_PATH")); path != "" {
		vdb, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("open vector store: %w", err)
		}
	} else {
		vdb = chromem.NewDB()
	}

	col, err := vdb.GetOrCreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("open collection %q: %w", collectionName, err)
	}

	return &store{
		log:        log.With("service", "RetrievalStore"),
		collection: col,
	}, nil
}

func (s *store) Index(ctx context.Context, docs []Document) error {
	for _, d := range docs {
		if strings.TrimSpace(d.Content) == "" {
			continue
		}
		id := d.ID
		if id == "" {
			return fmt.Errorf("document id required")
		}
		if err := s.collection.AddDocument(ctx, chromem.Document{
			ID:      id,
			Content: d.Content,
		}); err != nil {
			return fmt.Errorf("index document %q: %w", id, err)
		}
	}
	return nil
}

func (s *store) Retrieve(ctx context.Context, query string, k int) ([]string, error) {
	if k <= 0 {
		k = 5
	}
	// chromem rejects k larger than the collection size.
	if count := s.collection.Count(); count < k {
		k = count
	}
	if k == 0 {
		return nil, nil
	}
	results, err := s.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, err
	}
	snippets := make([]string, 0, len(results))
	for _, r := range results {
		snippets = append(snippets, r.Content)
	}
	return snippets, nil
}
