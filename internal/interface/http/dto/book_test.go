package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
)

func TestBookDetailResponse_JSONShape(t *testing.T) {
	t.Run("无评论时输出空数组", func(t *testing.T) {
		body, err := json.Marshal(NewBookDetail(&appbook.BookDetail{ID: "abc", Title: "T"}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"_id":"abc","title":"T","comments":[],"commentcount":0}`, string(body))
	})

	t.Run("评论按追加顺序输出", func(t *testing.T) {
		body, err := json.Marshal(NewBookDetail(&appbook.BookDetail{
			ID: "abc", Title: "T", Comments: []string{"a", "b"}, CommentCount: 2,
		}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"_id":"abc","title":"T","comments":["a","b"],"commentcount":2}`, string(body))
	})
}

func TestNewBookSummaries(t *testing.T) {
	t.Run("空列表输出[]", func(t *testing.T) {
		body, err := json.Marshal(NewBookSummaries(nil))
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(body))
	})

	t.Run("列表项不含comments", func(t *testing.T) {
		body, err := json.Marshal(NewBookSummaries([]appbook.BookSummary{{ID: "a", Title: "A", CommentCount: 1}}))
		require.NoError(t, err)
		assert.JSONEq(t, `[{"_id":"a","title":"A","commentcount":1}]`, string(body))
	})
}
