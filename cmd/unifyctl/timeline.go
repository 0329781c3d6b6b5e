package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	var projectFlag string

	timelineCmd := &cobra.Command{
		Use:   "timeline",
		Short: "Fetch the merged timeline (all projects, or one with --project)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectFlag != "" {
				return printBody(client().R().Get(fmt.Sprintf("/api/projects/%s/timeline", projectFlag)))
			}
			return printBody(client().R().Get("/api/timeline"))
		},
	}
	timelineCmd.Flags().StringVarP(&projectFlag, "project", "p", "", "Project ID")
	rootCmd.AddCommand(timelineCmd)

	entryCmd := &cobra.Command{
		Use:   "entry ENTRY_ID",
		Short: "Fetch a single timeline entry by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printBody(client().R().Get("/api/timeline/" + args[0]))
		},
	}
	rootCmd.AddCommand(entryCmd)

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Fetch timeline stats (all projects, or one with --project)",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := client().R()
			if projectFlag != "" {
				req.SetQueryParam("projectId", projectFlag)
			}
			return printBody(req.Get("/api/timeline/stats"))
		},
	}
	statsCmd.Flags().StringVarP(&projectFlag, "project", "p", "", "Project ID")
	rootCmd.AddCommand(statsCmd)
}
