package session_test

import (
	"math"
	"strings"
	"testing"

	// Packages
	schema "github.com/mutablelogic/go-upload/pkg/schema"
	session "github.com/mutablelogic/go-upload/pkg/session"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func TestSession_totalChunks(t *testing.T) {
	tests := []struct {
		size, chunk int64
		want        int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{9, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{schema.DefaultChunkSize * 5, schema.DefaultChunkSize, 5},
		{schema.DefaultChunkSize*5 + 1, schema.DefaultChunkSize, 6},
		{3, math.MaxInt64, 1},
		{math.MaxInt64, math.MaxInt64, 1},
		{math.MaxInt64, math.MaxInt64 - 1, 2},
	}
	for _, tt := range tests {
		s, err := session.New("a.bin", "", tt.size, tt.chunk)
		require.NoError(t, err)
		assert.Equal(t, tt.want, s.TotalChunks(), "size=%d chunk=%d", tt.size, tt.chunk)
	}
}

func TestSession_ranges(t *testing.T) {
	s, err := session.New("a.bin", "", 25, 10)
	require.NoError(t, err)

	var covered int64
	for i := 0; i < s.TotalChunks(); i++ {
		chunk, err := s.Chunk(i)
		require.NoError(t, err)
		assert.Equal(t, i, chunk.ChunkIndex)
		assert.Equal(t, 3, chunk.TotalChunks)
		assert.Equal(t, covered, chunk.Offset, "chunks are contiguous")
		if i < s.TotalChunks()-1 {
			assert.Equal(t, int64(10), chunk.Length)
		} else {
			assert.Equal(t, int64(25-10*2), chunk.Length)
		}
		covered += chunk.Length
	}
	assert.Equal(t, int64(25), covered)

	_, err = s.Chunk(3)
	assert.ErrorIs(t, err, schema.ErrBadParameter)
	_, err = s.Chunk(-1)
	assert.ErrorIs(t, err, schema.ErrBadParameter)
}

func TestSession_largeChunkSize(t *testing.T) {
	s, err := session.New("a.bin", "", 3, math.MaxInt64)
	require.NoError(t, err)
	require.Equal(t, 1, s.TotalChunks())

	chunk, err := s.Chunk(0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), chunk.Offset)
	assert.Equal(t, int64(3), chunk.Length)

	s, err = session.New("a.bin", "", math.MaxInt64, math.MaxInt64-1)
	require.NoError(t, err)
	chunk, err = s.Chunk(1)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64-1), chunk.Offset)
	assert.Equal(t, int64(1), chunk.Length)
}

func TestSession_finalize(t *testing.T) {
	s, err := session.New("video.mp4", "video/mp4", 100, 10)
	require.NoError(t, err)
	f := s.Finalize()
	assert.Equal(t, schema.FinalizeRequest{UploadId: s.Token, FileName: "video.mp4", FileType: "video/mp4"}, f)
}

func TestSession_invalid(t *testing.T) {
	_, err := session.New("a", "", -1, 10)
	assert.ErrorIs(t, err, schema.ErrBadParameter)
	_, err = session.New("a", "", 1, 0)
	assert.ErrorIs(t, err, schema.ErrBadParameter)
}

func TestNewToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		token := session.NewToken()
		assert.False(t, seen[token], "duplicate token %q", token)
		assert.Contains(t, token, "-")
		seen[token] = true
	}
	assert.True(t, strings.Count(session.NewToken(), "-") >= 5)
}
