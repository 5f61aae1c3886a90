package service

import (
	"context"
	"testing"
	"time"

	"project-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSessionHashKey = "projtracker:form:session:sess-1"

func TestSessionStore_MergeEncodesAndRefreshesTTL(t *testing.T) {
	mockCache := new(MockCache)
	store := NewSessionStore(mockCache, 30*time.Minute)

	mockCache.On("HSet", mock.Anything, testSessionHashKey, "status", `"Delayed"`).Return(nil)
	mockCache.On("HSet", mock.Anything, testSessionHashKey, "partners", `["DNV","TNO"]`).Return(nil)
	mockCache.On("Expire", mock.Anything, testSessionHashKey, 30*time.Minute).Return(nil)

	err := store.Merge(context.Background(), "sess-1", map[string]interface{}{
		"status":   "Delayed",
		"partners": []string{"DNV", "TNO"},
	})
	require.NoError(t, err)
	mockCache.AssertExpectations(t)
}

func TestSessionStore_MergeZeroTTLSkipsExpire(t *testing.T) {
	mockCache := new(MockCache)
	store := NewSessionStore(mockCache, 0)

	mockCache.On("HSet", mock.Anything, testSessionHashKey, "status", `"On track"`).Return(nil)

	err := store.Merge(context.Background(), "sess-1", map[string]interface{}{"status": "On track"})
	require.NoError(t, err)
	mockCache.AssertNotCalled(t, "Expire", mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionStore_LoadDecodesStoredShapes(t *testing.T) {
	mockCache := new(MockCache)
	store := NewSessionStore(mockCache, time.Hour)

	mockCache.On("HGetAll", mock.Anything, testSessionHashKey).Return(map[string]string{
		"status":    `"Delayed"`,
		"partners":  `["DNV","TNO"]`,
		"funded":    `true`,
		"fte":       `2.5`,
		"corrupted": `{"unterminated`,
	}, nil)

	answers, err := store.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Delayed", answers["status"])
	assert.Equal(t, []string{"DNV", "TNO"}, answers["partners"], "multiselect decodes to []string")
	assert.Equal(t, true, answers["funded"])
	assert.Equal(t, 2.5, answers["fte"])
	// A field that fails to decode keeps its raw string.
	assert.Equal(t, `{"unterminated`, answers["corrupted"])
}

func TestSessionStore_LoadMissingSessionIsEmpty(t *testing.T) {
	mockCache := new(MockCache)
	store := NewSessionStore(mockCache, time.Hour)

	mockCache.On("HGetAll", mock.Anything, testSessionHashKey).Return(nil, domain.ErrCacheMiss)

	answers, err := store.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Empty(t, answers)
}

func TestSessionStore_Clear(t *testing.T) {
	mockCache := new(MockCache)
	store := NewSessionStore(mockCache, time.Hour)

	mockCache.On("Delete", mock.Anything, testSessionHashKey).Return(nil)

	require.NoError(t, store.Clear(context.Background(), "sess-1"))
	mockCache.AssertExpectations(t)
}
