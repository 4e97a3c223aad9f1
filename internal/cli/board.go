package cli

import (
	"fmt"

	"github.com/amterp/ra"
)

func registerBoard(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("board")
	cmd.SetDescription("Manage boards")

	// board create
	createCmd := ra.NewCmd("create")
	createCmd.SetDescription("Create a new board")

	ctx.BoardCreateName, _ = ra.NewString("name").
		SetUsage("Name of the board to create").
		Register(createCmd)

	ctx.BoardCreateUsed, _ = cmd.RegisterCmd(createCmd)

	// board list
	listCmd := ra.NewCmd("list")
	listCmd.SetDescription("List all boards")

	ctx.BoardListUsed, _ = cmd.RegisterCmd(listCmd)

	ctx.BoardUsed, _ = parent.RegisterCmd(cmd)
}

func runBoardCreate(name, logLevel string) {
	app := mustApp(true, logLevel)

	if err := app.RequireTack(); err != nil {
		Fatal(err)
	}

	created, err := app.BoardService.Create(name)
	if err != nil {
		Fatal(err)
	}

	PrintSuccess("Created board %q", created)
}

func runBoardList(jsonOutput bool, logLevel string) {
	app := mustApp(true, logLevel)

	if err := app.RequireTack(); err != nil {
		Fatal(err)
	}

	boards, err := app.BoardService.List()
	if err != nil {
		Fatal(err)
	}

	if jsonOutput {
		if err := printJson(NewBoardsOutput(boards)); err != nil {
			Fatal(err)
		}
		return
	}

	if len(boards) == 0 {
		PrintInfo("No boards found")
		return
	}

	for _, board := range boards {
		marker := " "
		if board == app.Settings.DefaultBoard {
			marker = RenderMarker("*")
		}
		fmt.Printf("%s %s\n", marker, board)
	}
}
