package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/florianilch/authkeep/cmd/authkeep/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := commands.Execute(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
