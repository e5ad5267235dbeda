package book

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"", false},
		{"abc", false},
		{"0123456789abcdef0123456789abcdef", true},
		{"0123456789ABCDEF0123456789ABCDEF", true},
		{"0123456789abcdef0123456789abcdeg", false},
		{"0123456789abcdef0123456789abcdef0", false},
		{"01234567-89ab-cdef-0123-456789abcdef", false},
		{"5f1d7c2e9b3a4c6d8e0f1a2b", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.id), func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidID(tt.id))
		})
	}
}

func TestNewID(t *testing.T) {
	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.True(t, IsValidID(id), "生成的ID必须通过校验: %s", id)
		assert.Equal(t, NormalizeID(id), id, "生成的ID应为小写")
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 100)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNone, KindOf(nil))
	assert.Equal(t, KindValidation, KindOf(ErrTitleRequired))
	assert.Equal(t, KindValidation, KindOf(fmt.Errorf("wrap: %w", ErrCommentRequired)))
	assert.Equal(t, KindNotFound, KindOf(ErrBookNotFound))
	assert.Equal(t, KindMalformedID, KindOf(ErrMalformedID))
	assert.Equal(t, KindUnavailable, KindOf(fmt.Errorf("boom")))
	assert.Equal(t, "unavailable", KindUnavailable.String())
}
