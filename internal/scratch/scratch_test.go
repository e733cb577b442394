// Copyright (c) 2026 tinymcp Contributors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package scratch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPutRoundTrip(t *testing.T) {
	buf := Default.Get()
	_, err := buf.WriteString("hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf.Bytes()))

	buf.Reset()
	assert.Empty(t, buf.Bytes())

	Default.Put(buf)
}

func TestBuffersAreReusedAcrossGetPut(t *testing.T) {
	b1 := Default.Get()
	b1.Reset()
	Default.Put(b1)

	b2 := Default.Get()
	defer func() {
		b2.Reset()
		Default.Put(b2)
	}()

	assert.Empty(t, b2.Bytes())
}
