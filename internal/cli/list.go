package cli

import (
	"fmt"

	"github.com/amterp/ra"
)

func registerList(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("list")
	cmd.SetDescription("Manage the lists of a board")

	// list add
	addCmd := ra.NewCmd("add")
	addCmd.SetDescription("Add a new list")

	ctx.ListAddTitle, _ = ra.NewString("title").
		SetUsage("Title of the list").
		Register(addCmd)

	ctx.ListAddPosition, _ = ra.NewInt("position").
		SetShort("p").
		SetOptional(true).
		SetFlagOnly(true).
		SetDefault(-1).
		SetUsage("Insert position (0-indexed). Appends to end if not specified.").
		Register(addCmd)

	ctx.ListAddBoard = registerBoardFlag(addCmd)
	ctx.ListAddUsed, _ = cmd.RegisterCmd(addCmd)

	// list rename
	renameCmd := ra.NewCmd("rename")
	renameCmd.SetDescription("Rename a list")

	ctx.ListRenameList, _ = ra.NewString("list").
		SetUsage("List ID or current title").
		SetCompletionFunc(completeLists).
		Register(renameCmd)

	ctx.ListRenameTitle, _ = ra.NewString("title").
		SetUsage("New title").
		Register(renameCmd)

	ctx.ListRenameBoard = registerBoardFlag(renameCmd)
	ctx.ListRenameUsed, _ = cmd.RegisterCmd(renameCmd)

	// list delete
	deleteCmd := ra.NewCmd("delete")
	deleteCmd.SetDescription("Delete a list and its cards")

	ctx.ListDeleteList, _ = ra.NewString("list").
		SetOptional(true).
		SetUsage("List ID or title").
		SetCompletionFunc(completeLists).
		Register(deleteCmd)

	ctx.ListDeleteForce, _ = ra.NewBool("force").
		SetShort("f").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Skip confirmation when the list has cards").
		Register(deleteCmd)

	ctx.ListDeleteBoard = registerBoardFlag(deleteCmd)
	ctx.ListDeleteUsed, _ = cmd.RegisterCmd(deleteCmd)

	// list move
	moveCmd := ra.NewCmd("move")
	moveCmd.SetDescription("Move a list to a new position")

	ctx.ListMoveList, _ = ra.NewString("list").
		SetUsage("List ID or title").
		SetCompletionFunc(completeLists).
		Register(moveCmd)

	ctx.ListMovePosition, _ = ra.NewInt("position").
		SetUsage("Final position (0-indexed)").
		Register(moveCmd)

	ctx.ListMoveBoard = registerBoardFlag(moveCmd)
	ctx.ListMoveUsed, _ = cmd.RegisterCmd(moveCmd)

	ctx.ListUsed, _ = parent.RegisterCmd(cmd)
}

// registerBoardFlag adds the usual -b/--board flag to cmd.
func registerBoardFlag(cmd *ra.Cmd) *string {
	board, _ := ra.NewString("board").
		SetShort("b").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Target board").
		SetCompletionFunc(completeBoards).
		Register(cmd)
	return board
}

func runListAdd(title string, position int, board string, interactive bool, logLevel string) {
	app := mustApp(interactive, logLevel)
	boardName := app.ResolveBoard(board)

	l, err := app.BoardService.AddList(boardName, title, position)
	if err != nil {
		Fatal(err)
	}

	PrintSuccess("Added list %s %s to board %q", RenderListColor(l.Title, l.Color), RenderID(l.ID), boardName)
}

func runListRename(list, title, board string, interactive bool, logLevel string) {
	app := mustApp(interactive, logLevel)
	boardName := app.ResolveBoard(board)
	l := app.ResolveList(boardName, list, "Rename which list?")

	if err := app.BoardService.RenameList(boardName, l.ID, title); err != nil {
		Fatal(err)
	}

	PrintSuccess("Renamed list %q to %q", l.Title, title)
}

func runListDelete(list, board string, force, interactive bool, logLevel string) {
	app := mustApp(interactive, logLevel)
	boardName := app.ResolveBoard(board)
	l := app.ResolveList(boardName, list, "Delete which list?")

	if len(l.CardIDs) > 0 && !force {
		if !interactive {
			Fatal(fmt.Errorf("list %q has %d card(s); use --force to delete", l.Title, len(l.CardIDs)))
		}

		confirmed, err := app.Prompter.Confirm(
			fmt.Sprintf("List %q has %d card(s). Delete it and all its cards?", l.Title, len(l.CardIDs)),
			false,
		)
		if err != nil {
			Fatal(err)
		}
		if !confirmed {
			PrintInfo("Cancelled")
			return
		}
	}

	deleted, err := app.BoardService.DeleteList(boardName, l.ID)
	if err != nil {
		Fatal(err)
	}

	if deleted > 0 {
		PrintSuccess("Deleted list %q and %d card(s)", l.Title, deleted)
	} else {
		PrintSuccess("Deleted list %q", l.Title)
	}
}

func runListMove(list string, position int, board string, interactive bool, logLevel string) {
	app := mustApp(interactive, logLevel)
	boardName := app.ResolveBoard(board)
	l := app.ResolveList(boardName, list, "Move which list?")

	if err := app.BoardService.ReorderList(boardName, l.ID, position); err != nil {
		Fatal(err)
	}

	PrintSuccess("Moved list %q to position %d", l.Title, position)
}
