package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List the registered sites in dispatch order",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := loadDeps()
		if err != nil {
			return err
		}
		reg := newRegistry(deps)

		for _, key := range reg.Sites() {
			gen, err := reg.Create(key)
			if err != nil {
				return err
			}
			fmt.Printf("%-14s %s (domain token %q)\n", key, gen.SiteName(), gen.Domain())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sitesCmd)
}
