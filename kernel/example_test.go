package kernel_test

import (
	"fmt"

	"github.com/arqora/tsquant/kernel"
	"github.com/arqora/tsquant/qctx"
)

// ExampleMA computes a 3-sample moving average with the default
// partial-window warm-up.
func ExampleMA() {
	ctx := qctx.New()
	y, err := kernel.MA(ctx, []float64{1, 2, 3, 4, 5}, 3)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%.1f\n", y)
	// Output:
	// [1.0 1.5 2.0 3.0 4.0]
}

// ExampleRANK ranks a five-group cross-section with average-rank ties.
func ExampleRANK() {
	ctx := qctx.New(qctx.WithGroups(5))
	y, err := kernel.RANK(ctx, []float64{4, 2, 4, 8, 0})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%.3f\n", y)
	// Output:
	// [0.625 0.250 0.625 1.000 0.000]
}
