// Copyright (c) 2026 tinymcp Contributors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	cases := []string{
		`null`,
		`true`,
		`false`,
		`42`,
		`-7`,
		`3.5`,
		`"hello"`,
		`[]`,
		`[1,2,3]`,
		`{"a":1,"b":"two"}`,
		`{"nested":{"x":[1,2,{"y":true}]}}`,
	}

	for _, in := range cases {
		v, err := Parse([]byte(in))
		require.NoError(t, err, in)
		out, err := Marshal(v)
		require.NoError(t, err, in)
		assert.JSONEq(t, in, string(out), in)
	}
}

func TestIntVsFloat(t *testing.T) {
	iv, err := Parse([]byte(`10`))
	require.NoError(t, err)
	assert.Equal(t, KindInt, iv.Kind())
	i, ok := iv.AsInt()
	assert.True(t, ok)
	assert.Equal(t, int64(10), i)

	fv, err := Parse([]byte(`10.0`))
	require.NoError(t, err)
	assert.Equal(t, KindFloat, fv.Kind())

	fv2, err := Parse([]byte(`1e2`))
	require.NoError(t, err)
	assert.Equal(t, KindFloat, fv2.Kind())
}

func TestObjectPreservesOrderAndLastWins(t *testing.T) {
	v, err := Parse([]byte(`{"first":1,"second":2,"first":3}`))
	require.NoError(t, err)

	obj, ok := v.AsObject()
	require.True(t, ok)
	require.Equal(t, 2, obj.Len())

	keys := make([]string, 0, 2)
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"first", "second"}, keys)

	first, _ := obj.Load("first")
	n, _ := first.AsInt()
	assert.Equal(t, int64(3), n, "duplicate key should keep the last value")
}

func TestGetFailsSoftOnWrongKind(t *testing.T) {
	v := String("not an object")
	_, ok := v.Get("anything")
	assert.False(t, ok)
}

func TestAsFloatWidensInt(t *testing.T) {
	v := Int(5)
	f, ok := v.AsFloat()
	assert.True(t, ok)
	assert.Equal(t, 5.0, f)
}

func TestTrailingDataIsError(t *testing.T) {
	_, err := Parse([]byte(`1 2`))
	assert.Error(t, err)
}

func TestStringerRendersJSON(t *testing.T) {
	v := Array(Int(1), String("a"), Bool(true))
	assert.Equal(t, `[1,"a",true]`, v.String())
}
