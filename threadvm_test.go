package threadvm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	threadvm "github.com/ulte-soft/threadvm"
	"github.com/ulte-soft/threadvm/internal/threadir"
)

func TestCompileAndRunMul(t *testing.T) {
	opt, err := threadvm.NewOption(false, 0, 1, threadir.Ranges{})
	require.NoError(t, err)

	fn, err := threadvm.Compile([]threadvm.Instr{
		threadir.Binary(threadir.OpMul, threadir.TypeI32, false),
		threadir.End(),
	}, opt, 8)
	require.NoError(t, err)

	result, err := threadvm.Run(fn, nil, 7, 11)
	require.NoError(t, err)
	require.Equal(t, []uint64{77}, result)
}

func TestRunSurfacesTrapAsError(t *testing.T) {
	opt, err := threadvm.NewOption(false, 0, 1, threadir.Ranges{})
	require.NoError(t, err)

	fn, err := threadvm.Compile([]threadvm.Instr{
		threadir.Binary(threadir.OpDivS, threadir.TypeI32, true),
		threadir.End(),
	}, opt, 8)
	require.NoError(t, err)

	_, err = threadvm.Run(fn, nil, 5, 0)
	require.Error(t, err)
}
