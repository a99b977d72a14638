package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-userform/pkg/form"
	"github.com/goliatone/go-userform/pkg/preview"
	"github.com/goliatone/go-userform/pkg/renderers/tui"
	"github.com/goliatone/go-userform/pkg/submit"
)

func newFillCmd(a *app) *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill the form interactively and print the submitted record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			store, err := form.New(reg,
				form.WithMode(a.cfg.Mode),
				form.WithPlaceholder(a.cfg.Placeholder),
				form.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}
			ingestor := preview.New(store,
				preview.WithThumbnail(a.cfg.Thumbnail),
				preview.WithLogger(a.logger),
			)

			theme := tui.Theme{ErrorPrefix: "✗ ", InfoPrefix: "› "}
			driver := a.driver
			if driver == nil {
				driver = tui.NewSurveyDriver(
					tui.WithInfoWriter(cmd.ErrOrStderr()),
					tui.WithErrorIcon(theme.ErrorPrefix),
				)
			}
			renderer, err := tui.New(
				tui.WithPromptDriver(driver),
				tui.WithOutputFormat(a.cfg.OutputFormat),
				tui.WithSanitize(a.cfg.Sanitize),
				tui.WithConfirm(confirm),
				tui.WithSink(submit.LogSink(a.logger)),
				tui.WithLogger(a.logger),
				tui.WithTheme(theme),
			)
			if err != nil {
				return err
			}

			out, err := renderer.Render(cmd.Context(), store, ingestor)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(out, '\n'))
			return err
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&confirm, "confirm", false, "ask for confirmation before submitting")
	flags.Uint("thumbnail", 0, "shrink image previews to this many pixels per side (0 keeps the original)")
	flags.String("placeholder", "", "preview shown until an image is chosen")
	bind(a.v, "preview.thumbnail", flags.Lookup("thumbnail"))
	bind(a.v, "preview.placeholder", flags.Lookup("placeholder"))
	return cmd
}
