package idcodec_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allenanswerzq/llmcc/internal/idcodec"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 1, 62, 63, 1000, 4294967295} {
		encoded := idcodec.Encode(v)
		require.True(t, idcodec.IsValid(encoded), "encoding of %d should be valid", v)

		decoded, err := idcodec.Decode(encoded)
		require.NoError(t, err)
		require.Equal(t, v, decoded)
	}
}

func TestEncodeZero(t *testing.T) {
	require.Equal(t, "A", idcodec.Encode(0))
}

func TestDecodeRejectsEmptyAndInvalid(t *testing.T) {
	_, err := idcodec.Decode("")
	require.ErrorIs(t, err, idcodec.ErrEmptyString)

	_, err = idcodec.Decode("!!!")
	require.ErrorIs(t, err, idcodec.ErrInvalidChar)

	require.False(t, idcodec.IsValid(""))
	require.False(t, idcodec.IsValid("@"))
}

func TestDecodeOverflow(t *testing.T) {
	// A string long enough to exceed uint32 range when decoded as base-63.
	_, err := idcodec.Decode("________")
	require.ErrorIs(t, err, idcodec.ErrOverflow)
}
