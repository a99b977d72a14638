package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-userform/pkg/renderers/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newApp()
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		var rejected *rejectedError
		switch {
		case errors.As(err, &rejected):
			os.Exit(2)
		case errors.Is(err, tui.ErrAborted):
			os.Exit(130)
		}
		log.Error(err)
		os.Exit(1)
	}
}
