package cli

import (
	"fmt"
	"os"

	"github.com/amterp/ra"
	log "github.com/sirupsen/logrus"

	"github.com/amterp/tack/internal/board"
	"github.com/amterp/tack/internal/client"
	"github.com/amterp/tack/internal/tui"
)

func registerUi(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("ui")
	cmd.SetDescription("Open a board in the terminal and drag cards around")

	ctx.UiServer, _ = ra.NewString("server").
		SetShort("s").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Server URL (default: from settings or $TACK_SERVER)").
		Register(cmd)

	ctx.UiBoard = registerBoardFlag(cmd)
	ctx.UiUsed, _ = parent.RegisterCmd(cmd)
}

func runUi(boardArg, server string, interactive bool, logLevel string) {
	app, err := NewApp(interactive)
	if err != nil {
		Fatal(err)
	}
	boardName := app.ResolveBoard(boardArg)
	cfg, err := app.BoardService.Get(boardName)
	if err != nil {
		Fatal(err)
	}

	// The terminal belongs to the UI, so logs go to a file.
	logFile, err := os.OpenFile(app.Paths.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		Fatal(fmt.Errorf("failed to open log file: %w", err))
	}
	defer logFile.Close()
	setupLogging(app.Settings, logLevel, logFile)

	if server == "" {
		server = app.Settings.ServerURL()
	}
	logger := log.StandardLogger()
	c := client.New(server,
		client.WithTimeout(app.Settings.Timeout()),
		client.WithRetries(app.Settings.RetryCount()),
		client.WithLogger(logger),
	)
	bc := c.Board(boardName)

	b := board.New(cfg.ID, bc, board.WithLogger(logger))
	m := tui.New(b, boardName, tui.WithEvents(bc), tui.WithLogger(logger))

	logger.WithFields(log.Fields{"board": boardName, "server": server}).Info("opening board")
	if err := tui.Run(m); err != nil {
		Fatal(err)
	}
}
