package cli

import (
	"os"

	"github.com/amterp/ra"
)

// CommandContext holds parsed values and used flags for all commands.
type CommandContext struct {
	// Global flags
	NonInteractive *bool
	LogLevel       *string
	Json           *bool

	// init command
	InitUsed *bool
	InitHere *bool

	// board command
	BoardUsed       *bool
	BoardCreateUsed *bool
	BoardCreateName *string
	BoardListUsed   *bool

	// list command
	ListUsed *bool

	// list add
	ListAddUsed     *bool
	ListAddTitle    *string
	ListAddPosition *int
	ListAddBoard    *string

	// list rename
	ListRenameUsed  *bool
	ListRenameList  *string
	ListRenameTitle *string
	ListRenameBoard *string

	// list delete
	ListDeleteUsed  *bool
	ListDeleteList  *string
	ListDeleteForce *bool
	ListDeleteBoard *string

	// list move
	ListMoveUsed     *bool
	ListMoveList     *string
	ListMovePosition *int
	ListMoveBoard    *string

	// card command
	CardUsed *bool

	// card add
	CardAddUsed        *bool
	CardAddTitle       *string
	CardAddDescription *string
	CardAddList        *string
	CardAddPosition    *int
	CardAddLabels      *[]string
	CardAddMine        *bool
	CardAddBoard       *string

	// card move
	CardMoveUsed     *bool
	CardMoveCard     *string
	CardMoveList     *string
	CardMovePosition *int
	CardMoveBoard    *string

	// card delete
	CardDeleteUsed  *bool
	CardDeleteCard  *string
	CardDeleteForce *bool
	CardDeleteBoard *string

	// show command
	ShowUsed  *bool
	ShowCard  *string
	ShowBoard *string

	// serve command
	ServeUsed    *bool
	ServeAddr    *string
	ServeNoWatch *bool
	ServeRedis   *string

	// ui command
	UiUsed   *bool
	UiBoard  *string
	UiServer *string

	// completion command
	CompletionUsed  *bool
	CompletionShell *string
}

// Run is the main entry point for the CLI.
func Run() {
	ctx := &CommandContext{}

	cmd := ra.NewCmd("tack")
	cmd.SetDescription("Drag-and-drop task boards in your terminal")

	ctx.NonInteractive, _ = ra.NewBool("non-interactive").
		SetShort("I").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Fail instead of prompting for missing input").
		Register(cmd, ra.WithGlobal(true))

	ctx.LogLevel, _ = ra.NewString("log-level").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Log level: debug, info, warn or error").
		Register(cmd, ra.WithGlobal(true))

	ctx.Json, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Print machine-readable JSON where supported").
		Register(cmd, ra.WithGlobal(true))

	registerInit(cmd, ctx)
	registerBoard(cmd, ctx)
	registerList(cmd, ctx)
	registerCard(cmd, ctx)
	registerShow(cmd, ctx)
	registerServe(cmd, ctx)
	registerUi(cmd, ctx)
	registerCompletion(cmd, ctx)

	cmd.ParseOrExit(os.Args[1:])

	executeCommand(ctx, cmd)
}

func executeCommand(ctx *CommandContext, rootCmd *ra.Cmd) {
	interactive := !*ctx.NonInteractive
	logLevel := *ctx.LogLevel

	switch {
	case *ctx.InitUsed:
		runInit(*ctx.InitHere, logLevel)

	case *ctx.BoardCreateUsed:
		runBoardCreate(*ctx.BoardCreateName, logLevel)

	case *ctx.BoardListUsed:
		runBoardList(*ctx.Json, logLevel)

	case *ctx.ListAddUsed:
		runListAdd(*ctx.ListAddTitle, *ctx.ListAddPosition, *ctx.ListAddBoard, interactive, logLevel)

	case *ctx.ListRenameUsed:
		runListRename(*ctx.ListRenameList, *ctx.ListRenameTitle, *ctx.ListRenameBoard, interactive, logLevel)

	case *ctx.ListDeleteUsed:
		runListDelete(*ctx.ListDeleteList, *ctx.ListDeleteBoard, *ctx.ListDeleteForce, interactive, logLevel)

	case *ctx.ListMoveUsed:
		runListMove(*ctx.ListMoveList, *ctx.ListMovePosition, *ctx.ListMoveBoard, interactive, logLevel)

	case *ctx.CardAddUsed:
		runCardAdd(cardAddArgs{
			title:       *ctx.CardAddTitle,
			description: *ctx.CardAddDescription,
			list:        *ctx.CardAddList,
			position:    *ctx.CardAddPosition,
			labels:      *ctx.CardAddLabels,
			mine:        *ctx.CardAddMine,
			board:       *ctx.CardAddBoard,
		}, interactive, logLevel)

	case *ctx.CardMoveUsed:
		runCardMove(*ctx.CardMoveCard, *ctx.CardMoveList, *ctx.CardMovePosition, *ctx.CardMoveBoard, interactive, logLevel)

	case *ctx.CardDeleteUsed:
		runCardDelete(*ctx.CardDeleteCard, *ctx.CardDeleteBoard, *ctx.CardDeleteForce, interactive, logLevel)

	case *ctx.ShowUsed:
		runShow(*ctx.ShowCard, *ctx.ShowBoard, *ctx.Json, interactive, logLevel)

	case *ctx.ServeUsed:
		runServe(*ctx.ServeAddr, *ctx.ServeRedis, !*ctx.ServeNoWatch, logLevel)

	case *ctx.UiUsed:
		runUi(*ctx.UiBoard, *ctx.UiServer, interactive, logLevel)

	case *ctx.CompletionUsed:
		runCompletion(*ctx.CompletionShell, rootCmd)
	}
}
