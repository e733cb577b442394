// Copyright (c) 2026 tinymcp Contributors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinymcp/tinymcp/value"
)

func TestResponseMarshalOmitsResultOnError(t *testing.T) {
	resp := NewError(int64(1), CodeMethodNotFound, "nope")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	_, hasResult := m["result"]
	assert.False(t, hasResult)
	assert.NotNil(t, m["error"])
}

func TestResponseMarshalOmitsErrorOnSuccess(t *testing.T) {
	resp := NewResult(int64(1), value.String("ok"))

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	_, hasError := m["error"]
	assert.False(t, hasError)
	assert.Equal(t, "ok", m["result"])
}

func TestRawIDNormalizesWholeNumberFloat(t *testing.T) {
	id := RawID(json.RawMessage(`1.0`))
	assert.Equal(t, int64(1), id)
}

func TestRawIDPreservesString(t *testing.T) {
	id := RawID(json.RawMessage(`"abc"`))
	assert.Equal(t, "abc", id)
}

func TestRawIDAbsentIsNil(t *testing.T) {
	assert.Nil(t, RawID(nil))
}

func TestRequestHasID(t *testing.T) {
	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"jsonrpc":"2.0","id":1,"method":"x"}`), &req))
	assert.True(t, req.HasID())

	var notif Request
	require.NoError(t, json.Unmarshal([]byte(`{"jsonrpc":"2.0","method":"x"}`), &notif))
	assert.False(t, notif.HasID())
}
