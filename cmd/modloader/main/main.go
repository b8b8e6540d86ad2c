package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/modloader/cmd/modloader"
	"github.com/arthur-debert/modloader/pkg/ui/styles"
)

func main() {
	rootCmd := modloader.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Default().Render("Error", fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
