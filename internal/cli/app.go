package cli

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/amterp/tack/internal/config"
	"github.com/amterp/tack/internal/discovery"
	tackerr "github.com/amterp/tack/internal/errors"
	"github.com/amterp/tack/internal/git"
	"github.com/amterp/tack/internal/model"
	"github.com/amterp/tack/internal/prompt"
	"github.com/amterp/tack/internal/resolver"
	"github.com/amterp/tack/internal/service"
	"github.com/amterp/tack/internal/store"
)

// App holds all the dependencies for the CLI.
type App struct {
	GitClient     *git.Client
	SettingsStore store.SettingsStore
	Settings      *model.Settings
	Paths         *config.Paths
	BoardStore    store.BoardStore
	CardStore     store.CardStore
	Prompter      prompt.Prompter
	InitService   *service.InitService
	BoardService  *service.BoardService
	CardService   *service.CardService
	BoardResolver *resolver.BoardResolver
	CardResolver  *resolver.CardResolver
	ProjectRoot   string
	Interactive   bool
}

// NewApp creates a new App with all dependencies wired up.
// If interactive is false, uses NoopPrompter that fails on prompts.
func NewApp(interactive bool) (*App, error) {
	settingsStore := store.NewSettingsStore(config.SettingsPath())
	settings, err := settingsStore.Load()
	if err != nil {
		PrintWarning("failed to load settings: %v", err)
		settings = &model.Settings{}
	}
	config.ApplyEnv(settings, nil)

	projectRoot, err := discovery.FindProject()
	if err != nil {
		return nil, err
	}
	// projectRoot may be empty; RequireTack catches it.

	paths := config.NewPaths(projectRoot)
	boardStore := store.NewBoardStore(paths)
	cardStore := store.NewCardStore(paths)

	var prompter prompt.Prompter
	if interactive {
		prompter = prompt.NewHuhPrompter(settings.Accessible)
	} else {
		prompter = &prompt.NoopPrompter{}
	}

	gitClient := git.NewClient("")
	locks := service.NewBoardLocks()
	boardService := service.NewBoardService(boardStore, cardStore, locks)
	cardService := service.NewCardService(cardStore, boardStore, locks)

	return &App{
		GitClient:     gitClient,
		SettingsStore: settingsStore,
		Settings:      settings,
		Paths:         paths,
		BoardStore:    boardStore,
		CardStore:     cardStore,
		Prompter:      prompter,
		InitService:   service.NewInitService(gitClient),
		BoardService:  boardService,
		CardService:   cardService,
		BoardResolver: resolver.NewBoardResolver(boardStore, settings.DefaultBoard, prompter),
		CardResolver:  resolver.NewCardResolver(cardService),
		ProjectRoot:   projectRoot,
		Interactive:   interactive,
	}, nil
}

// mustApp builds the App and configures logging, exiting on failure.
func mustApp(interactive bool, logLevel string) *App {
	app, err := NewApp(interactive)
	if err != nil {
		Fatal(err)
	}
	setupLogging(app.Settings, logLevel, os.Stderr)
	return app
}

// RequireTack ensures tack is initialized in the current project.
func (a *App) RequireTack() error {
	if a.ProjectRoot == "" {
		return &tackerr.NotInitializedError{}
	}

	boards, err := a.BoardStore.List()
	if err != nil || len(boards) == 0 {
		return &tackerr.NotInitializedError{Path: a.ProjectRoot}
	}
	return nil
}

// ResolveBoard requires an initialized project and picks the board a
// command acts on.
func (a *App) ResolveBoard(explicit string) string {
	if err := a.RequireTack(); err != nil {
		Fatal(err)
	}
	boardName, err := a.BoardResolver.Resolve(explicit, a.Interactive)
	if err != nil {
		Fatal(err)
	}
	return boardName
}

// ResolveList finds a list by ID or title, prompting when none is given.
func (a *App) ResolveList(boardName, idOrTitle, purpose string) *model.List {
	if idOrTitle == "" {
		lists, err := a.BoardService.ListOrder(boardName)
		if err != nil {
			Fatal(err)
		}
		choices := make([]prompt.Choice, len(lists))
		for i, l := range lists {
			choices[i] = prompt.Choice{Label: l.Title, Value: l.ID}
		}
		idOrTitle, err = a.Prompter.Select(purpose, choices)
		if err != nil {
			Fatal(fmt.Errorf("no list given: %w", err))
		}
	}

	l, err := a.BoardService.FindList(boardName, idOrTitle)
	if err != nil {
		Fatal(err)
	}
	return l
}

// Fatal prints an error and exits.
func Fatal(err error) {
	log.WithError(err).Debug("command failed")
	PrintError("%v", err)
	os.Exit(1)
}
