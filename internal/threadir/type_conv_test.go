package threadir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ulte-soft/threadvm/api"
	"github.com/ulte-soft/threadvm/internal/threadir"
)

func TestTypeAPIRoundTrip(t *testing.T) {
	for _, v := range []api.ValueType{api.ValueTypeI32, api.ValueTypeI64, api.ValueTypeF32, api.ValueTypeF64} {
		require.Equal(t, v, threadir.TypeFromAPI(v).ToAPI())
	}
}

func TestTypeFromAPIUnknownPanics(t *testing.T) {
	require.Panics(t, func() { threadir.TypeFromAPI(0x00) })
}
