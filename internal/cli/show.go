package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/amterp/ra"

	"github.com/amterp/tack/internal/model"
	"github.com/amterp/tack/internal/util"
)

func registerShow(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("show")
	cmd.SetDescription("Display a board, or one card's details")

	ctx.ShowCard, _ = ra.NewString("card").
		SetOptional(true).
		SetUsage("Card ID or title (omit to show the whole board)").
		SetCompletionFunc(completeCards).
		Register(cmd)

	ctx.ShowBoard = registerBoardFlag(cmd)
	ctx.ShowUsed, _ = parent.RegisterCmd(cmd)
}

func runShow(cardArg, board string, jsonOutput, interactive bool, logLevel string) {
	app := mustApp(interactive, logLevel)
	boardName := app.ResolveBoard(board)

	cfg, err := app.BoardService.Get(boardName)
	if err != nil {
		Fatal(err)
	}

	if cardArg == "" {
		cards, err := app.CardService.ListAll(boardName)
		if err != nil {
			Fatal(err)
		}
		if jsonOutput {
			if err := printJson(NewBoardOutput(cfg, cards)); err != nil {
				Fatal(err)
			}
			return
		}
		printBoard(cfg, cards)
		return
	}

	card, err := app.CardResolver.Resolve(boardName, cardArg)
	if err != nil {
		Fatal(err)
	}
	if jsonOutput {
		if err := printJson(NewCardOutput(card)); err != nil {
			Fatal(err)
		}
		return
	}

	var list *model.List
	if l, ok := cfg.List(card.ListID); ok {
		list = l
	}
	printCard(card, list)
}

func printBoard(cfg *model.BoardConfig, cards map[string][]*model.Card) {
	fmt.Println(TitleBox(cfg.Name))
	for _, l := range cfg.Lists {
		listCards := cards[l.ID]
		header := RenderListColor(l.Title, l.Color)
		countStr := RenderMuted(fmt.Sprintf("(%d)", len(listCards)))
		fmt.Printf("\n%s %s\n", header, countStr)
		if len(listCards) == 0 {
			fmt.Printf("  %s\n", RenderMuted("empty"))
			continue
		}
		for _, card := range listCards {
			printCardLine(card)
		}
	}
}

func printCardLine(card *model.Card) {
	line := fmt.Sprintf("  %s  %s", RenderID(card.ID), card.Title)
	if due := util.FormatDue(card.DueAtMillis); due != "" {
		if card.Overdue(time.Now()) {
			line += " " + RenderAlert("due "+due)
		} else {
			line += " " + RenderMuted("due "+due)
		}
	}
	fmt.Println(line)
}

func printCard(card *model.Card, list *model.List) {
	const labelWidth = 10

	fmt.Println(TitleBox(card.Title))
	fmt.Println()

	fmt.Println(LabelValue("ID", RenderID(card.ID), labelWidth))
	if list != nil {
		fmt.Println(LabelValue("List", RenderListColor(list.Title, list.Color), labelWidth))
	}
	if card.Progress > 0 {
		fmt.Println(LabelValue("Progress", RenderProgress(card.Progress), labelWidth))
	}
	if card.DueAtMillis != 0 {
		due := util.FormatMillis(card.DueAtMillis)
		if card.Overdue(time.Now()) {
			due = RenderAlert(due + " (overdue)")
		}
		fmt.Println(LabelValue("Due", due, labelWidth))
	}
	if len(card.Assignees) > 0 {
		fmt.Println(LabelValue("Assignees", strings.Join(card.Assignees, ", "), labelWidth))
	}
	if len(card.Labels) > 0 {
		fmt.Println(LabelValue("Labels", strings.Join(card.Labels, ", "), labelWidth))
	}

	if card.Description != "" {
		fmt.Println()
		fmt.Println(RenderMuted("Description:"))
		fmt.Printf("  %s\n", strings.ReplaceAll(card.Description, "\n", "\n  "))
	}

	fmt.Println()
	fmt.Println(LabelValue("Created", RenderMuted(util.FormatMillis(card.CreatedAtMillis)), labelWidth))
	fmt.Println(LabelValue("Updated", RenderMuted(util.FormatMillis(card.UpdatedAtMillis)), labelWidth))
}
