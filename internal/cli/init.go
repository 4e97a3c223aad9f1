package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/amterp/ra"

	"github.com/amterp/tack/internal/config"
)

func registerInit(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("init")
	cmd.SetDescription("Initialize tack with a default board")

	ctx.InitHere, _ = ra.NewBool("here").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Initialize in the current directory instead of the git repository root").
		Register(cmd)

	ctx.InitUsed, _ = parent.RegisterCmd(cmd)
}

func runInit(here bool, logLevel string) {
	app := mustApp(true, logLevel)

	cwd, err := os.Getwd()
	if err != nil {
		Fatal(fmt.Errorf("failed to get working directory: %w", err))
	}

	root := cwd
	if !here {
		root = app.InitService.Root(context.Background(), cwd)
	}

	created, err := app.InitService.Initialize(root)
	if err != nil {
		Fatal(err)
	}
	if !created {
		PrintInfo("tack is already initialized in %s", root)
		return
	}

	PrintSuccess("Initialized tack in %s with board %q", root, config.DefaultBoardName)
	PrintInfo("Start the server with %s, then open the board with %s",
		RenderBold("tack serve"), RenderBold("tack ui"))
}
