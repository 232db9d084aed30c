package main

import (
	"fmt"
	"os"

	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
