package service

import (
	"fmt"
	"log"

	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nandanhq/peerverse/internal/model"
)

const postsIndexName = "posts"

// SearchService mirrors posts into Meilisearch. Indexing is best-effort
// from the caller's perspective; the database stays the source of truth.
type SearchService interface {
	IndexPost(post *model.Post) error
	DeletePost(id string) error
	SearchPosts(query string, limit int) ([]PostDocument, error)
}

// PostDocument is the shape stored in the index. Anonymous posts carry no
// author name.
type PostDocument struct {
	ID         string `json:"id"`
	CollegeID  string `json:"college_id"`
	Content    string `json:"content"`
	AuthorName string `json:"author_name,omitempty"`
	CreatedAt  int64  `json:"created_at"`
}

type searchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *searchService) initIndexes() {
	if s.client == nil {
		return
	}

	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        postsIndexName,
		PrimaryKey: "id",
	})
	if err != nil {
		// Index may already exist; that's fine.
		log.Printf("Meilisearch index init: %v", err)
	}

	filterable := []any{"college_id"}
	_, err = s.client.Index(postsIndexName).UpdateFilterableAttributes(&filterable)
	if err != nil {
		log.Printf("Failed to update filterable attributes: %v", err)
	}

	sortable := []string{"created_at"}
	_, err = s.client.Index(postsIndexName).UpdateSortableAttributes(&sortable)
	if err != nil {
		log.Printf("Failed to update sortable attributes: %v", err)
	}
}

func (s *searchService) IndexPost(post *model.Post) error {
	if s.client == nil {
		return nil
	}

	doc := PostDocument{
		ID:        post.ID.String(),
		CollegeID: post.CollegeID.String(),
		Content:   s.sanitizer.Sanitize(post.Content),
		CreatedAt: post.CreatedAt.Unix(),
	}
	if !post.IsAnonymous && post.Author.Name != "" {
		doc.AuthorName = post.Author.Name
	}

	_, err := s.client.Index(postsIndexName).AddDocuments([]PostDocument{doc}, strPtr("id"))
	if err != nil {
		return fmt.Errorf("failed to index post: %w", err)
	}
	return nil
}

func strPtr(s string) *string {
	return &s
}

func (s *searchService) DeletePost(id string) error {
	if s.client == nil {
		return nil
	}
	_, err := s.client.Index(postsIndexName).DeleteDocument(id)
	if err != nil {
		return fmt.Errorf("failed to delete post from index: %w", err)
	}
	return nil
}

func (s *searchService) SearchPosts(query string, limit int) ([]PostDocument, error) {
	if s.client == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	resp, err := s.client.Index(postsIndexName).Search(query, &meilisearch.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	return decodeHits(resp.Hits)
}

func decodeHits(hits meilisearch.Hits) ([]PostDocument, error) {
	docs := make([]PostDocument, 0, len(hits))
	if err := hits.Decode(&docs); err != nil {
		return nil, fmt.Errorf("failed to decode search hits: %w", err)
	}
	return docs, nil
}
