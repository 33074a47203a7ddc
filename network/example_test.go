// SPDX-License-Identifier: MIT

package network_test

import (
	"fmt"

	"github.com/katalvlaran/lvquant/matrix"
	"github.com/katalvlaran/lvquant/network"
)

// ExampleApplyLinkInsertion adds a fast two-way link between zones 0 and 1
// of a fully connected 3-zone network with 10-minute links.
func ExampleApplyLinkInsertion() {
	dis, _ := matrix.FromRows([][]float64{
		{0, 10, 10},
		{10, 0, 10},
		{10, 10, 0},
	})

	fwd, _ := network.ApplyLinkInsertion(dis, 0, 1, 1)
	back, _ := network.ApplyLinkInsertion(dis, 1, 0, 1)
	total := fwd.Add(back)

	fmt.Println("improved:", total.Improved, "saved:", total.Saved)
	fmt.Print(dis)
	// Output:
	// improved: 2 saved: 18
	// [0, 1, 10]
	// [1, 0, 10]
	// [10, 10, 0]
}
