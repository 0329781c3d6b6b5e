package main

import (
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var (
	apiFlag string
	rootCmd = &cobra.Command{
		Use:   "unifyctl",
		Short: "CLI client for the UnifyHub REST API",
	}
)

// client returns a resty client against the configured API base URL.
func client() *resty.Client {
	return resty.New().SetBaseURL(apiFlag).SetHeader("Content-Type", "application/json")
}

// printBody writes the raw JSON response, or a readable error for non-2xx.
func printBody(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	_, _ = fmt.Fprintln(os.Stdout, resp.String())
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "UnifyHub service base URL")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
