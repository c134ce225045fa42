package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/driffle/genie-backend/internal/clients/catalog"
	"github.com/driffle/genie-backend/internal/clients/genai"
	"github.com/driffle/genie-backend/internal/platform/apierr"
	"github.com/driffle/genie-backend/internal/platform/logger"
	"github.com/driffle/genie-backend/internal/retrieval"
)

const searchContextSnippets = 5

// ChatTurn is one turn of the free-form search conversation.
type ChatTurn struct {
	Type string `json:"type"` // human | assistant
	Text string `json:"text"`
}

type ProductRecommendationResult struct {
	Products []catalog.Product `json:"products"`
}

type SearchToolResponse struct {
	Content               string                       `json:"content"`
	ProductRecommendation *ProductRecommendationResult `json:"productRecommendation,omitempty"`
}

type SearchResult struct {
	ToolResponse   SearchToolResponse `json:"toolResponse"`
	RelatedQueries []string           `json:"relatedQueries"`
}

// SearchService classifies free-form chat into informational vs. product
// recommendation intent, consulting the retrieval store for context and the
// catalog gateway when a recommendation is called for.
type SearchService interface {
	Resolve(ctx context.Context, chats []ChatTurn) (*SearchResult, error)
	IndexDocuments(ctx context.Context, docs []retrieval.Document) error
}

type searchService struct {
	log       *logger.Logger
	ai        genai.Client
	store     retrieval.Store
	catalogue catalog.Client
}

func NewSearchService(log *logger.Logger, ai genai.Client, store retrieval.Store, catalogue catalog.Client) SearchService {
	return &searchService{
		log:       log.With("service", "SearchService"),
		ai:        ai,
		store:     store,
		catalogue: catalogue,
	}
}

type productRecommendationParams struct {
	SearchPhrase string `json:"searchPhrase"`
	PriceMin     string `json:"priceMin"`
	PriceMax     string `json:"priceMax"`
	Sort         string `json:"sort"`
	Reason       string `json:"reason"`
}

type toolSelection struct {
	ProductRecommendation *productRecommendationParams `json:"productRecommendation,omitempty"`
}

type toolPayload struct {
	Tool           *toolSelection `json:"tool"`
	Content        string         `json:"content"`
	RelatedQueries []string       `json:"relatedQueries"`
}

var validSorts = map[string]bool{"h2l": true, "l2h": true, "nf": true, "of": true}

func validateToolPayload(p *toolPayload) error {
	if p.Content == "" {
		return fmt.Errorf("content is required")
	}
	if p.RelatedQueries == nil {
		return fmt.Errorf("relatedQueries is required")
	}
	if p.Tool != nil && p.Tool.ProductRecommendation != nil {
		pr := p.Tool.ProductRecommendation
		if pr.SearchPhrase == "" {
			return fmt.Errorf("productRecommendation.searchPhrase is required")
		}
		if pr.Sort != "" && !validSorts[pr.Sort] {
			return fmt.Errorf("productRecommendation.sort must be one of h2l|l2h|nf|of")
		}
	}
	return nil
}

func (s *searchService) contextFor(ctx context.Context, chats []ChatTurn) string {
	if len(chats) == 0 {
		return ""
	}
	snippets, err := s.store.Retrieve(ctx, chats[len(chats)-1].Text, searchContextSnippets)
	if err != nil {
		// Retrieval is best-effort context; the resolver still answers without it.
		s.log.Warn("context retrieval failed", "error", err)
		return ""
	}
	return strings.Join(snippets, " ")
}

func toTurns(chats []ChatTurn) []genai.Turn {
	turns := make([]genai.Turn, 0, len(chats))
	for _, c := range chats {
		turns = append(turns, genai.Turn{Role: c.Type, Text: c.Text})
	}
	return turns
}

func (s *searchService) Resolve(ctx context.Context, chats []ChatTurn) (*SearchResult, error) {
	if len(chats) == 0 {
		return nil, apierr.Validation("at least one chat turn is required")
	}

	contextText := s.contextFor(ctx, chats)

	raw, err := s.ai.GenerateText(ctx, searchResolverPrompt(contextText), toTurns(chats))
	if err != nil {
		return nil, err
	}

	var payload toolPayload
	parseErr := json.Unmarshal([]byte(stripCodeFence(raw)), &payload)
	if parseErr == nil {
		parseErr = validateToolPayload(&payload)
	}
	if parseErr != nil {
		// Degrade to a plain conversational answer; the original failure is
		// logged but not surfaced.
		s.log.Warn("search resolution output rejected, falling back to support answer", "error", parseErr)
		content, err := s.supportAnswer(ctx, chats, contextText)
		if err != nil {
			return nil, err
		}
		return &SearchResult{
			ToolResponse:   SearchToolResponse{Content: content},
			RelatedQueries: []string{},
		}, nil
	}

	if payload.Tool == nil {
		return nil, apierr.Internal(fmt.Errorf("failed to serve the query, try again later"))
	}

	result := &SearchResult{
		ToolResponse:   SearchToolResponse{Content: payload.Content},
		RelatedQueries: payload.RelatedQueries,
	}

	if payload.Tool.ProductRecommendation != nil {
		s.log.Debug("productRecommendation tool selected", "reason", payload.Tool.ProductRecommendation.Reason)
		products, err := s.recommendProducts(ctx, payload.Tool.ProductRecommendation)
		if err != nil {
			// Catalog gateway failures fail loudly; only JSON parsing degrades.
			return nil, err
		}
		result.ToolResponse.ProductRecommendation = &ProductRecommendationResult{Products: products}
	}

	return result, nil
}

// recommendProducts normalizes the model-supplied parameters (integer EUR
// bounds, sort enum) and queries the catalog gateway.
func (s *searchService) recommendProducts(ctx context.Context, params *productRecommendationParams) ([]catalog.Product, error) {
	q := catalog.Query{Q: params.SearchPhrase, Limit: 10}
	if params.PriceMin != "" {
		if v, err := strconv.Atoi(strings.TrimSpace(params.PriceMin)); err == nil {
			q.PriceMin = v
		}
	}
	if params.PriceMax != "" {
		if v, err := strconv.Atoi(strings.TrimSpace(params.PriceMax)); err == nil {
			q.PriceMax = &v
		}
	}
	if validSorts[params.Sort] {
		q.Sort = params.Sort
	}
	return s.catalogue.Search(ctx, q)
}

func (s *searchService) supportAnswer(ctx context.Context, chats []ChatTurn, contextText string) (string, error) {
	return s.ai.GenerateText(ctx, searchSupportPrompt(contextText), toTurns(chats))
}

func (s *searchService) IndexDocuments(ctx context.Context, docs []retrieval.Document) error {
	if len(docs) == 0 {
		return apierr.Validation("at least one document is required")
	}
	return s.store.Index(ctx, docs)
}
