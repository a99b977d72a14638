package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-userform/pkg/validation"
)

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the field rules as an OpenAPI schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			if check := validation.CheckProjection(cmd.Context(), reg); !check.Valid {
				for _, issue := range check.Issues {
					a.logger.Error("invalid projection", "path", issue.Path, "message", issue.Message)
				}
				return fmt.Errorf("schema projection has %d issue(s)", len(check.Issues))
			}
			out, err := json.MarshalIndent(reg.OpenAPI(), "", "  ")
			if err != nil {
				return fmt.Errorf("encode schema: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}
