package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	servicesCmd := &cobra.Command{Use: "services", Short: "Connected-service operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List connected services",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printBody(client().R().Get("/api/services"))
		},
	}
	servicesCmd.AddCommand(listCmd)

	getCmd := &cobra.Command{
		Use:   "get SERVICE_ID",
		Short: "Get a service by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printBody(client().R().Get("/api/services/" + args[0]))
		},
	}
	servicesCmd.AddCommand(getCmd)

	syncCmd := &cobra.Command{
		Use:   "sync SERVICE_ID",
		Short: "Trigger a sync: marks the service connected and refreshes lastSync",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printBody(client().R().Post(fmt.Sprintf("/api/services/%s/sync", args[0])))
		},
	}
	servicesCmd.AddCommand(syncCmd)

	connectCmd := &cobra.Command{
		Use:   "connect SERVICE_ID",
		Short: "Mark a service connected",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printBody(client().R().Post(fmt.Sprintf("/api/services/%s/connect", args[0])))
		},
	}
	servicesCmd.AddCommand(connectCmd)

	disconnectCmd := &cobra.Command{
		Use:   "disconnect SERVICE_ID",
		Short: "Mark a service disconnected",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printBody(client().R().Post(fmt.Sprintf("/api/services/%s/disconnect", args[0])))
		},
	}
	servicesCmd.AddCommand(disconnectCmd)

	rootCmd.AddCommand(servicesCmd)
}
