// auditctl is a small CLI for exercising the Access Lens API: run an audit
// from the terminal and fetch persisted results by id.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"accesslens/internal/client"

	"github.com/spf13/cobra"
)

var serverURL string

func main() {
	root := &cobra.Command{
		Use:           "auditctl",
		Short:         "Run accessibility audits against an Access Lens server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080/api", "base URL of the audit API")

	root.AddCommand(runCmd(), getCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var ui, copyText, extra string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an audit for a screen description",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ui == "" {
				return errors.New("--ui is required")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 90*time.Second)
			defer cancel()

			c := client.New(serverURL)
			rec, res := c.RunAndSave(ctx, client.FormInput{UI: ui, Copy: copyText, Context: extra})
			if res.Error != "" {
				return errors.New(res.Error)
			}
			return printJSON(struct {
				AuditID string `json:"audit_id"`
				Results any    `json:"results"`
			}{rec.AuditID, res})
		},
	}
	cmd.Flags().StringVar(&ui, "ui", "", "description of the screen or interface")
	cmd.Flags().StringVar(&copyText, "copy", "", "visible text and labels from the interface")
	cmd.Flags().StringVar(&extra, "context", "", "additional context for the audit")
	return cmd
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <audit-id>",
		Short: "Fetch a persisted audit by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			c := client.New(serverURL)
			rec, err := c.GetAuditByID(ctx, args[0])
			if err != nil {
				if errors.Is(err, client.ErrAuditNotFound) {
					return fmt.Errorf("audit %s not found", args[0])
				}
				return err
			}
			return printJSON(rec)
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
