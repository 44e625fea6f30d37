package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rebind/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop the remap cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("cache-dir")
		cache, err := driver.OpenDiskCache("rebind", dir)
		if err != nil {
			return err
		}
		if err := cache.DropAll(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "remap cache dropped")
		return nil
	},
}

func init() {
	cleanCmd.Flags().String("cache-dir", "", "remap cache location")
}
