package schema_test

import (
	"errors"
	"testing"

	// Packages
	schema "github.com/mutablelogic/go-upload/pkg/schema"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func TestParseResult_shapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"file object with url", `{"file":{"url":"X"}}`},
		{"files array with path", `{"files":[{"path":"X"},{"path":"Y"}]}`},
		{"top-level location", `{"location":"X"}`},
		{"top-level filePath", `{"filePath":"X"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := schema.ParseResult([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, "X", result.FilePath)
			assert.Equal(t, "X", result.FileURL)
			assert.True(t, result.Resolved())
		})
	}
}

func TestParseResult_aliasPriority(t *testing.T) {
	assert := assert.New(t)

	result, err := schema.ParseResult([]byte(`{"file":{"location":"L","path":"P","url":"U"}}`))
	assert.NoError(err)
	assert.Equal("U", result.FilePath)
	assert.Equal("U", result.FileURL)

	result, err = schema.ParseResult([]byte(`{"filePath":"F","url":"U","type":"image/png"}`))
	assert.NoError(err)
	assert.Equal("F", result.FilePath)
	assert.Equal("image/png", result.FileType)
}

func TestParseResult_unresolved(t *testing.T) {
	assert := assert.New(t)

	for _, body := range []string{`{}`, `{"file":{"name":"a.png"}}`, `[]`, `"ok"`, `{"files":[]}`, `{"url":""}`} {
		result, err := schema.ParseResult([]byte(body))
		assert.NoError(err, body)
		assert.False(result.Resolved(), body)
		assert.Empty(result.FileURL, body)
	}
}

func TestParseResult_fileWinsOverTopLevel(t *testing.T) {
	// The file descriptor is used even when it carries no path
	result, err := schema.ParseResult([]byte(`{"file":{"name":"a"},"url":"top"}`))
	require.NoError(t, err)
	assert.False(t, result.Resolved())
}

func TestParseResult_invalidJSON(t *testing.T) {
	for _, body := range []string{``, `not json`, `{"file":`} {
		_, err := schema.ParseResult([]byte(body))
		assert.ErrorIs(t, err, schema.ErrResponseParse, body)
	}
}

func TestParseRejection(t *testing.T) {
	assert := assert.New(t)

	message, ok := schema.ParseRejection([]byte(`{"message":"حجم الملف كبير"}`))
	assert.True(ok)
	assert.Equal("حجم الملف كبير", message)

	_, ok = schema.ParseRejection([]byte(`{"error":"x"}`))
	assert.False(ok)

	_, ok = schema.ParseRejection([]byte(`<html>`))
	assert.False(ok)
}

func TestIsLarge(t *testing.T) {
	assert.False(t, schema.IsLarge(schema.LargeFileThreshold))
	assert.True(t, schema.IsLarge(schema.LargeFileThreshold+1))
}

func TestError_codes(t *testing.T) {
	assert := assert.New(t)

	err := schema.ChunkUploadFailed(3, schema.ErrTimeout.Wrap(errors.New("deadline")))
	assert.ErrorIs(err, schema.ErrChunkUploadFailed)
	assert.ErrorIs(err, schema.ErrTimeout)
	assert.NotErrorIs(err, schema.ErrCancelled)

	var uerr *schema.Error
	if assert.ErrorAs(err, &uerr) {
		assert.Equal(3, uerr.Index)
	}

	err = schema.ServerRejected(413, "upload failed: 413")
	assert.ErrorIs(err, schema.ErrServerRejected)
	assert.Equal("upload failed: 413", err.Error())

	err = schema.FileFailed(1, schema.ErrCancelled.Wrap(errors.New("context canceled")))
	assert.ErrorIs(err, schema.ErrCancelled)
	if assert.ErrorAs(err, &uerr) {
		assert.True(uerr.Batch())
		assert.Equal(1, uerr.Index)
	}
}

func TestCounts_apply(t *testing.T) {
	assert := assert.New(t)
	one, minus := 1, -5

	counts := schema.Counts{Notifications: 2, Messages: 3, Orders: 1}
	counts = counts.Apply(schema.CountsEvent{Notifications: &one, Orders: &minus})
	assert.Equal(schema.Counts{Notifications: 3, Messages: 3, Orders: 0}, counts)

	counts = counts.Apply(schema.CountsEvent{Reset: []string{"messages"}})
	assert.Equal(0, counts.Messages)
	assert.Equal(3, counts.Total())
}
