package cerr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allenanswerzq/llmcc/internal/cerr"
)

func TestConfigErrorUnwrap(t *testing.T) {
	underlying := errors.New("boom")
	err := cerr.NewConfigError("depth", "9", underlying)

	require.ErrorIs(t, err, underlying)
	require.Contains(t, err.Error(), "depth")
}

func TestMultiErrorFiltersNil(t *testing.T) {
	err := cerr.NewMultiError([]error{nil, errors.New("a"), nil, errors.New("b")})
	require.Error(t, err)

	var me *cerr.MultiError
	require.ErrorAs(t, err, &me)
	require.Len(t, me.Errors, 2)
}

func TestMultiErrorAllNilReturnsNil(t *testing.T) {
	err := cerr.NewMultiError([]error{nil, nil})
	require.NoError(t, err)
}

func TestMultiErrorSingleUnwrapsDirectly(t *testing.T) {
	only := errors.New("only")
	err := cerr.NewMultiError([]error{only})
	require.Equal(t, "only", err.Error())
}
