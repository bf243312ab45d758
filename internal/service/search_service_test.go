package service

import (
	"encoding/json"
	"testing"

	"github.com/meilisearch/meilisearch-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeHits(t *testing.T) {
	hits := meilisearch.Hits{
		{
			"id":         json.RawMessage(`"0198a1f0-0000-7000-8000-000000000001"`),
			"college_id": json.RawMessage(`"0198a1f0-0000-7000-8000-000000000002"`),
			"content":    json.RawMessage(`"how do I prepare for campus placements?"`),
			"created_at": json.RawMessage(`1724900000`),
		},
		{
			"id":          json.RawMessage(`"0198a1f0-0000-7000-8000-000000000003"`),
			"college_id":  json.RawMessage(`"0198a1f0-0000-7000-8000-000000000002"`),
			"content":     json.RawMessage(`"mess food survey results"`),
			"author_name": json.RawMessage(`"Priya"`),
			"created_at":  json.RawMessage(`1724900100`),
		},
	}

	docs, err := decodeHits(hits)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "0198a1f0-0000-7000-8000-000000000001", docs[0].ID)
	assert.Equal(t, "how do I prepare for campus placements?", docs[0].Content)
	assert.Empty(t, docs[0].AuthorName)
	assert.Equal(t, int64(1724900000), docs[0].CreatedAt)

	assert.Equal(t, "Priya", docs[1].AuthorName)
	assert.Equal(t, "mess food survey results", docs[1].Content)
}

func TestDecodeHitsEmpty(t *testing.T) {
	docs, err := decodeHits(nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
