package main

import (
	"context"
	"fmt"
	"os"
)

const applicationName = "sysmonitor"

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cmd := newRootCmd(&app{})
	cmd.SetArgs(args)

	return cmd.ExecuteContext(ctx)
}
