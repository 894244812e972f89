package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AFDudley/briefcase-test-sub000/pkg/metadata"
)

func newEnvsCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "envs",
		Short: "List recorded host environments",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := metadata.NewStore(dir)
			if err != nil {
				return err
			}
			idx, err := store.Index()
			if err != nil {
				return err
			}
			if len(idx) == 0 {
				fmt.Println("no environments recorded")
				return nil
			}
			keys, err := store.List()
			if err != nil {
				return err
			}
			for _, key := range keys {
				entry := idx[key]
				fmt.Printf("%s  host=%s  updated=%s\n",
					key, entry.TargetHost, entry.LastUpdated.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "metadata", "metadata directory")

	return cmd
}
