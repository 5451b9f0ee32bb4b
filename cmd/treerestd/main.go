// Command treerestd is the thin cobra front end for the engine's worked
// example server — every complete Go service needs a main, even one whose
// actual wiring lives in examples/orgtree/app.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "treerestd",
		Short: "treerest worked-example server",
		Long:  "treerestd boots the tree-backed REST engine's worked example (Org -> Group -> Task -> User) over HTTP.",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "directory containing config.yaml (defaults to the working directory)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
