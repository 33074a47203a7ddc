// SPDX-License-Identifier: MIT

// Command lvquant calibrates the multi-modal gravity model on observed trip
// matrices and evaluates the impact of network-change scenarios.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "lvquant:", err)
		os.Exit(1)
	}
}
