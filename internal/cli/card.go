package cli

import (
	"context"
	"fmt"

	"github.com/amterp/ra"

	"github.com/amterp/tack/internal/creator"
	"github.com/amterp/tack/internal/service"
)

func registerCard(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("card")
	cmd.SetDescription("Manage cards")

	// card add
	addCmd := ra.NewCmd("add")
	addCmd.SetDescription("Add a new card")

	ctx.CardAddTitle, _ = ra.NewString("title").
		SetOptional(true).
		SetUsage("Card title (prompted for if omitted)").
		Register(addCmd)

	ctx.CardAddDescription, _ = ra.NewString("description").
		SetShort("d").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Card description").
		Register(addCmd)

	ctx.CardAddList, _ = ra.NewString("list").
		SetShort("l").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Target list ID or title (default: first list)").
		SetCompletionFunc(completeLists).
		Register(addCmd)

	ctx.CardAddPosition, _ = ra.NewInt("position").
		SetShort("p").
		SetOptional(true).
		SetFlagOnly(true).
		SetDefault(-1).
		SetUsage("Position in the list (0-indexed). Appends if not specified.").
		Register(addCmd)

	ctx.CardAddLabels, _ = ra.NewStringSlice("label").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Label to attach (repeatable)").
		Register(addCmd)

	ctx.CardAddMine, _ = ra.NewBool("me").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Assign the card to yourself").
		Register(addCmd)

	ctx.CardAddBoard = registerBoardFlag(addCmd)
	ctx.CardAddUsed, _ = cmd.RegisterCmd(addCmd)

	// card move
	moveCmd := ra.NewCmd("move")
	moveCmd.SetDescription("Move a card to another list or position")

	ctx.CardMoveCard, _ = ra.NewString("card").
		SetUsage("Card ID or title").
		SetCompletionFunc(completeCards).
		Register(moveCmd)

	ctx.CardMoveList, _ = ra.NewString("list").
		SetOptional(true).
		SetUsage("Destination list ID or title (prompted for if omitted)").
		SetCompletionFunc(completeLists).
		Register(moveCmd)

	ctx.CardMovePosition, _ = ra.NewInt("position").
		SetShort("p").
		SetOptional(true).
		SetFlagOnly(true).
		SetDefault(-1).
		SetUsage("Final position in the destination list (0-indexed). Appends if not specified.").
		Register(moveCmd)

	ctx.CardMoveBoard = registerBoardFlag(moveCmd)
	ctx.CardMoveUsed, _ = cmd.RegisterCmd(moveCmd)

	// card delete
	deleteCmd := ra.NewCmd("delete")
	deleteCmd.SetDescription("Delete a card")

	ctx.CardDeleteCard, _ = ra.NewString("card").
		SetUsage("Card ID or title").
		SetCompletionFunc(completeCards).
		Register(deleteCmd)

	ctx.CardDeleteForce, _ = ra.NewBool("force").
		SetShort("f").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Skip confirmation (required in non-interactive mode)").
		Register(deleteCmd)

	ctx.CardDeleteBoard = registerBoardFlag(deleteCmd)
	ctx.CardDeleteUsed, _ = cmd.RegisterCmd(deleteCmd)

	ctx.CardUsed, _ = parent.RegisterCmd(cmd)
}

type cardAddArgs struct {
	title       string
	description string
	list        string
	position    int
	labels      []string
	mine        bool
	board       string
}

func runCardAdd(args cardAddArgs, interactive bool, logLevel string) {
	app := mustApp(interactive, logLevel)
	boardName := app.ResolveBoard(args.board)

	title := args.title
	if title == "" {
		var err error
		title, err = app.Prompter.Input("Card title", "")
		if err != nil {
			Fatal(fmt.Errorf("no title given: %w", err))
		}
	}

	input := service.AddCardInput{
		BoardName:   boardName,
		Title:       title,
		Description: args.description,
		Labels:      args.labels,
		Position:    args.position,
	}
	if args.list != "" {
		input.ListID = app.ResolveList(boardName, args.list, "").ID
	}
	if args.mine {
		me, err := creator.Whoami(context.Background(), app.GitClient, nil)
		if err != nil {
			Fatal(err)
		}
		input.Assignees = []string{me}
	}

	card, err := app.CardService.Add(input)
	if err != nil {
		Fatal(err)
	}

	PrintSuccess("Created card %s %q", RenderID(card.ID), card.Title)
}

func runCardMove(cardArg, list string, position int, board string, interactive bool, logLevel string) {
	app := mustApp(interactive, logLevel)
	boardName := app.ResolveBoard(board)

	card, err := app.CardResolver.Resolve(boardName, cardArg)
	if err != nil {
		Fatal(err)
	}
	dest := app.ResolveList(boardName, list, fmt.Sprintf("Move %q to which list?", card.Title))

	if err := app.CardService.Move(boardName, card.ID, card.ListID, dest.ID, position); err != nil {
		Fatal(err)
	}

	PrintSuccess("Moved %q to %s", card.Title, RenderListColor(dest.Title, dest.Color))
}

func runCardDelete(cardArg, board string, force, interactive bool, logLevel string) {
	app := mustApp(interactive, logLevel)
	boardName := app.ResolveBoard(board)

	card, err := app.CardResolver.Resolve(boardName, cardArg)
	if err != nil {
		Fatal(err)
	}

	if !force {
		if !interactive {
			Fatal(fmt.Errorf("deleting card %q (%s) requires --force in non-interactive mode", card.Title, card.ID))
		}

		confirmed, err := app.Prompter.Confirm(
			fmt.Sprintf("Delete card %q (%s)?", card.Title, card.ID),
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

	if err := app.CardService.Delete(boardName, card.ID); err != nil {
		Fatal(err)
	}

	PrintSuccess("Deleted card %q (%s) from board %q", card.Title, card.ID, boardName)
}
