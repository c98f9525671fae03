// Command marchive packs directories into aligned .bin/.psb archives and
// unpacks them again.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "marchive: %s\n", err)
		stop()
		os.Exit(1) //nolint:gocritic // stop already called
	}
}
