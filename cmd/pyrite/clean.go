package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pyrite/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the pyrite result cache",
	Long:  "Remove the on-disk module check cache (XDG_CACHE_HOME/pyrite).",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(_ *cobra.Command, _ []string) error {
	cache, err := driver.OpenDiskCache("pyrite")
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to remove cache: %w", err)
	}
	fmt.Fprintln(os.Stdout, "cache removed")
	return nil
}
