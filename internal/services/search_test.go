package services

import (
	"context"
	"errors"
	"testing"

	"github.com/driffle/genie-backend/internal/clients/catalog"
	"github.com/driffle/genie-backend/internal/platform/apierr"
	"github.com/driffle/genie-backend/internal/retrieval"
)

type fakeStore struct {
	indexed  []retrieval.Document
	snippets []string
	err      error
}

func (s *fakeStore) Index(ctx context.Context, docs []retrieval.Document) error {
	s.indexed = append(s.indexed, docs...)
	return s.err
}

func (s *fakeStore) Retrieve(ctx context.Context, query string, k int) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snippets, nil
}

type fakeCatalog struct {
	lastQuery catalog.Query
	products  []catalog.Product
	err       error
}

func (c *fakeCatalog) Search(ctx context.Context, q catalog.Query) ([]catalog.Product, error) {
	c.lastQuery = q
	if c.err != nil {
		return nil, c.err
	}
	return c.products, nil
}

type searchFixture struct {
	svc       SearchService
	ai        *fakeAI
	store     *fakeStore
	catalogue *fakeCatalog
}

func newSearchFixture(t *testing.T) *searchFixture {
	t.Helper()
	f := &searchFixture{
		ai:        &fakeAI{},
		store:     &fakeStore{},
		catalogue: &fakeCatalog{},
	}
	f.svc = NewSearchService(testLogger(t), f.ai, f.store, f.catalogue)
	return f
}

func TestResolveRequiresChatTurns(t *testing.T) {
	f := newSearchFixture(t)
	_, err := f.svc.Resolve(context.Background(), nil)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if apierr.From(err).Code != apierr.CodeValidation {
		t.Fatalf("code: want=%q got=%q", apierr.CodeValidation, apierr.From(err).Code)
	}
}

func TestResolveProductRecommendation(t *testing.T) {
	f := newSearchFixture(t)
	f.ai.reply = `{
		"tool": {"productRecommendation": {"searchPhrase": "racing games", "priceMin": "10", "priceMax": "50", "sort": "l2h", "reason": "user asked for cheap racing games"}},
		"content": "Here are some racing games in your budget.",
		"relatedQueries": ["best racing games 2026", "racing games under 20"]
	}`
	f.catalogue.products = []catalog.Product{{ProductID: 101, Title: "Speed Demon"}}

	result, err := f.svc.Resolve(context.Background(), []ChatTurn{{Type: "human", Text: "cheap racing games?"}})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if result.ToolResponse.Content != "Here are some racing games in your budget." {
		t.Fatalf("content: got %q", result.ToolResponse.Content)
	}
	if result.ToolResponse.ProductRecommendation == nil || len(result.ToolResponse.ProductRecommendation.Products) != 1 {
		t.Fatalf("products: got %+v", result.ToolResponse.ProductRecommendation)
	}
	if len(result.RelatedQueries) != 2 {
		t.Fatalf("relatedQueries: got %v", result.RelatedQueries)
	}

	q := f.catalogue.lastQuery
	if q.Q != "racing games" || q.PriceMin != 10 || q.PriceMax == nil || *q.PriceMax != 50 || q.Sort != "l2h" {
		t.Fatalf("catalog query not normalized: %+v", q)
	}
	if q.Limit != 10 {
		t.Fatalf("catalog limit: want=10 got=%d", q.Limit)
	}
}

func TestResolveInformationalAnswerWithoutRecommendation(t *testing.T) {
	f := newSearchFixture(t)
	f.ai.reply = `{
		"tool": {},
		"content": "Keys are delivered instantly after payment.",
		"relatedQueries": ["how to redeem a key"]
	}`

	result, err := f.svc.Resolve(context.Background(), []ChatTurn{{Type: "human", Text: "when do I get my key?"}})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if result.ToolResponse.ProductRecommendation != nil {
		t.Fatalf("no recommendation expected, got %+v", result.ToolResponse.ProductRecommendation)
	}
	if f.catalogue.lastQuery.Q != "" {
		t.Fatalf("catalog must not be queried for informational answers")
	}
}

func TestResolveFallsBackToSupportAnswerOnBadOutput(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{name: "non-JSON", reply: "sorry, here is some prose"},
		{name: "missing content", reply: `{"tool": {}, "relatedQueries": []}`},
		{name: "missing relatedQueries", reply: `{"tool": {}, "content": "hi"}`},
		{name: "bad sort enum", reply: `{"tool": {"productRecommendation": {"searchPhrase": "rpg", "sort": "cheapest"}}, "content": "x", "relatedQueries": []}`},
		{name: "recommendation without searchPhrase", reply: `{"tool": {"productRecommendation": {"sort": "l2h"}}, "content": "x", "relatedQueries": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSearchFixture(t)
			f.ai.reply = tt.reply

			result, err := f.svc.Resolve(context.Background(), []ChatTurn{{Type: "human", Text: "hello"}})
			if err != nil {
				t.Fatalf("fallback should answer, got error: %v", err)
			}
			if result.ToolResponse.Content == "" {
				t.Fatalf("fallback content must not be empty")
			}
			if result.RelatedQueries == nil || len(result.RelatedQueries) != 0 {
				t.Fatalf("fallback relatedQueries: want empty slice, got %v", result.RelatedQueries)
			}
			if result.ToolResponse.ProductRecommendation != nil {
				t.Fatalf("fallback never recommends products")
			}
		})
	}
}

func TestResolveRejectsMissingToolObject(t *testing.T) {
	f := newSearchFixture(t)
	f.ai.reply = `{"content": "an answer", "relatedQueries": []}`

	_, err := f.svc.Resolve(context.Background(), []ChatTurn{{Type: "human", Text: "hello"}})
	if err == nil {
		t.Fatalf("expected internal error for missing tool object")
	}
	if apierr.From(err).Code != apierr.CodeInternal {
		t.Fatalf("code: want=%q got=%q", apierr.CodeInternal, apierr.From(err).Code)
	}
}

func TestResolveSurfacesCatalogFailure(t *testing.T) {
	f := newSearchFixture(t)
	f.ai.reply = `{
		"tool": {"productRecommendation": {"searchPhrase": "rpg"}},
		"content": "Here you go.",
		"relatedQueries": []
	}`
	f.catalogue.err = errors.New("gateway timeout")

	if _, err := f.svc.Resolve(context.Background(), []ChatTurn{{Type: "human", Text: "rpgs?"}}); err == nil {
		t.Fatalf("catalog failures must propagate")
	}
}

func TestResolveSurvivesRetrievalFailure(t *testing.T) {
	f := newSearchFixture(t)
	f.store.err = errors.New("store unavailable")
	f.ai.reply = `{"tool": {}, "content": "answer without context", "relatedQueries": []}`

	result, err := f.svc.Resolve(context.Background(), []ChatTurn{{Type: "human", Text: "shipping?"}})
	if err != nil {
		t.Fatalf("retrieval is best-effort, Resolve should succeed: %v", err)
	}
	if result.ToolResponse.Content != "answer without context" {
		t.Fatalf("content: got %q", result.ToolResponse.Content)
	}
}

func TestResolveIgnoresInvalidPriceBounds(t *testing.T) {
	f := newSearchFixture(t)
	f.ai.reply = `{
		"tool": {"productRecommendation": {"searchPhrase": "indie", "priceMin": "cheap", "priceMax": "twenty"}},
		"content": "Some indie picks.",
		"relatedQueries": []
	}`

	if _, err := f.svc.Resolve(context.Background(), []ChatTurn{{Type: "human", Text: "indie games"}}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	q := f.catalogue.lastQuery
	if q.PriceMin != 0 || q.PriceMax != nil {
		t.Fatalf("non-numeric bounds should be dropped: %+v", q)
	}
}

func TestIndexDocuments(t *testing.T) {
	f := newSearchFixture(t)

	if err := f.svc.IndexDocuments(context.Background(), nil); err == nil {
		t.Fatalf("empty batch should be rejected")
	}

	docs := []retrieval.Document{{ID: "faq-1", Content: "Refunds take 3-5 business days."}}
	if err := f.svc.IndexDocuments(context.Background(), docs); err != nil {
		t.Fatalf("IndexDocuments: %v", err)
	}
	if len(f.store.indexed) != 1 || f.store.indexed[0].ID != "faq-1" {
		t.Fatalf("store should receive the batch, got %+v", f.store.indexed)
	}
}
