package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categoriesFixture() []Category {
	return []Category{
		{ID: 1, Name: "Starters", SortOrder: 1, IsActive: true},
		{ID: 2, Name: "Mains", SortOrder: 2, IsActive: true},
		{ID: 3, Name: "Desserts", SortOrder: 3, IsActive: true},
	}
}

func TestReorderCategoryBoundaryIssuesNoRequest(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.ReorderCategory(context.Background(), categoriesFixture(), 1, "up")
	assert.ErrorIs(t, err, ErrAtBoundary)

	_, err = client.ReorderCategory(context.Background(), categoriesFixture(), 3, "down")
	assert.ErrorIs(t, err, ErrAtBoundary)

	assert.Zero(t, requests, "boundary moves must be rejected before any request")
}

func TestReorderCategoryUnknownID(t *testing.T) {
	client, err := NewClient("http://unused.invalid")
	require.NoError(t, err)

	_, err = client.ReorderCategory(context.Background(), categoriesFixture(), 42, "up")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAtBoundary)
}

func TestReorderCategorySwapsAndReloads(t *testing.T) {
	var reorderPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPatch && strings.HasSuffix(r.URL.Path, "/reorder"):
			reorderPath = r.URL.Path
			_, _ = w.Write([]byte(`{"message": "Category reordered"}`))
		case r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`[
				{"id": 2, "name": "Mains", "sortOrder": 1, "isActive": true},
				{"id": 1, "name": "Starters", "sortOrder": 2, "isActive": true},
				{"id": 3, "name": "Desserts", "sortOrder": 3, "isActive": true}
			]`))
		}
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	fresh, err := client.ReorderCategory(context.Background(), categoriesFixture(), 2, "up")

	require.NoError(t, err)
	assert.Equal(t, "/menu/primary-categories/2/reorder", reorderPath)
	require.Len(t, fresh, 3)
	assert.Equal(t, "Mains", fresh[0].Name)
}
