// File: regularizer/example_test.go
package regularizer_test

import (
	"context"
	"fmt"
	"os"

	"github.com/katalvlaran/fieldreg/field"
	"github.com/katalvlaran/fieldreg/regularizer"
)

////////////////////////////////////////////////////////////////////////////////
// Example: Regularize
////////////////////////////////////////////////////////////////////////////////

// ExampleGaussian_Regularize smooths a single displacement spike.
// Scenario:
//
//   - 7×7 field, all vectors zero except (1, 0) at the center.
//   - σ = 1 on both axes, ε = 0.1 ⇒ kernels of radius 2.
//   - The peak drops and its mass spreads symmetrically to the neighbors.
//
// Complexity: O(W·H·2·(2r+1)), Memory: O(W·H)
func ExampleGaussian_Regularize() {
	in, _ := field.NewSize(7, 7)
	_ = in.Set([]int{3, 3}, []float64{1, 0})

	g, _ := regularizer.New(2)
	out, err := g.Regularize(context.Background(), in)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	center, _ := out.At([]int{3, 3})
	left, _ := out.At([]int{2, 3})
	right, _ := out.At([]int{4, 3})
	fmt.Printf("center %.4f\n", center[0])
	fmt.Printf("symmetric %t\n", left[0] == right[0])
	fmt.Printf("radius %d\n", g.Kernels()[0].Radius())

	// Output:
	// center 0.2252
	// symmetric true
	// radius 2
}

////////////////////////////////////////////////////////////////////////////////
// Example: WriteTo
////////////////////////////////////////////////////////////////////////////////

// ExampleGaussian_WriteTo prints the parameter dump.
func ExampleGaussian_WriteTo() {
	g, _ := regularizer.New(3, regularizer.WithStandardDeviations(1, 1.5, 2))
	_, _ = g.WriteTo(os.Stdout)

	// Output:
	// Standard deviations: [1, 1.5, 2]
	// MaximumError: 0.1
	// MaximumKernelWidth: 30
}
