package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arqora/tsquant/kernel"
	"github.com/arqora/tsquant/qctx"
)

// EMA(x, n) must compile to SMA(x, n+1, 2) so that alpha = 2/(n+1), the
// standard EMA smoothing constant — not 2/n.
func TestEMAMatchesAlphaTwoOverNPlusOne(t *testing.T) {
	ctx := qctx.New()
	x := []float64{1, 2, 3, 4, 5}
	y, err := kernel.EMA(ctx, x, 3)
	require.NoError(t, err)
	// seed y[0]=x[0]; y[i] = (2*x[i] + (n-1)*y[i-1]) / (n+1), n=3.
	assertCloseSlice(t, []float64{1, 1.5, 2.25, 3.125, 4.0625}, y)
}
