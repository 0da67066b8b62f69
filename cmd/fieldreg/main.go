// Command fieldreg smooths displacement fields stored as YAML documents with
// the per-axis Gaussian regularizer.
//
//	fieldreg smooth --in field.yaml --out smooth.yaml --sigma 1.5
//	fieldreg describe --config fieldreg.yaml --dimension 3
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
