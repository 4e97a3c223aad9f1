package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/amterp/ra"

	"github.com/amterp/tack/internal/config"
	"github.com/amterp/tack/internal/discovery"
	"github.com/amterp/tack/internal/prompt"
	"github.com/amterp/tack/internal/resolver"
	"github.com/amterp/tack/internal/store"
)

// Completion runs inside ParseOrExit, before an App exists, so it opens
// the stores itself. They are opened at most once per process.
var completionStores = sync.OnceValues(func() (*completionSource, error) {
	src := &completionSource{}
	if settings, err := store.NewSettingsStore(config.SettingsPath()).Load(); err == nil {
		config.ApplyEnv(settings, nil)
		src.defaultBoard = settings.DefaultBoard
	}

	root, err := discovery.FindProject()
	if err != nil {
		return nil, err
	}
	if root == "" {
		return nil, errors.New("no project found")
	}
	paths := config.NewPaths(root)
	src.boards = store.NewBoardStore(paths)
	src.cards = store.NewCardStore(paths)
	return src, nil
})

type completionSource struct {
	boards       *store.FileBoardStore
	cards        *store.FileCardStore
	defaultBoard string
}

// board is the board the command line targets: an explicit -b/--board,
// else whatever the resolver would pick without prompting.
func (s *completionSource) board() string {
	if b := boardFromArgs(os.Args); b != "" {
		return b
	}
	r := resolver.NewBoardResolver(s.boards, s.defaultBoard, &prompt.NoopPrompter{})
	b, err := r.Resolve("", false)
	if err != nil {
		return ""
	}
	return b
}

func (s *completionSource) boardNames() ([]string, error) {
	return s.boards.List()
}

// listNames offers both IDs and titles, since either resolves.
func (s *completionSource) listNames() ([]string, error) {
	board := s.board()
	if board == "" {
		return nil, nil
	}
	cfg, err := s.boards.Get(board)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, 2*len(cfg.Lists))
	for _, l := range cfg.Lists {
		out = append(out, l.ID, l.Title)
	}
	return out, nil
}

func (s *completionSource) cardIDs() ([]string, error) {
	board := s.board()
	if board == "" {
		return nil, nil
	}
	cards, err := s.cards.List(board)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out, nil
}

// completer adapts a candidate source to ra's completion signature. Any
// failure just yields no candidates.
func completer(candidates func(*completionSource) ([]string, error)) func(string) ([]string, ra.CompletionDirective) {
	return func(toComplete string) ([]string, ra.CompletionDirective) {
		src, err := completionStores()
		if err != nil {
			return nil, ra.CompletionDirectiveNoFileComp
		}
		all, err := candidates(src)
		if err != nil {
			return nil, ra.CompletionDirectiveNoFileComp
		}
		return withPrefix(all, toComplete), ra.CompletionDirectiveNoFileComp
	}
}

var (
	completeBoards = completer((*completionSource).boardNames)
	completeLists  = completer((*completionSource).listNames)
	completeCards  = completer((*completionSource).cardIDs)
)

// withPrefix keeps the candidates starting with prefix, ignoring case and
// dropping duplicates.
func withPrefix(candidates []string, prefix string) []string {
	prefix = strings.ToLower(prefix)
	seen := make(map[string]bool, len(candidates))
	var out []string
	for _, c := range candidates {
		if seen[c] || !strings.HasPrefix(strings.ToLower(c), prefix) {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// boardFromArgs returns the first non-empty -b/--board value in args.
func boardFromArgs(args []string) string {
	for i, arg := range args {
		for _, flag := range []string{"--board", "-b"} {
			if v, ok := strings.CutPrefix(arg, flag+"="); ok && v != "" {
				return v
			}
			if arg == flag && i+1 < len(args) {
				return args[i+1]
			}
		}
	}
	return ""
}

func registerCompletion(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("completion")
	cmd.SetDescription("Output shell completion script")

	ctx.CompletionShell, _ = ra.NewString("shell").
		SetUsage("Shell type").
		SetEnumConstraint([]string{"bash", "zsh"}).
		Register(cmd)

	ctx.CompletionUsed, _ = parent.RegisterCmd(cmd)
}

func runCompletion(shell string, rootCmd *ra.Cmd) {
	gen := map[string]func(*ra.Cmd) error{
		"bash": func(c *ra.Cmd) error { return c.GenBashCompletion(os.Stdout) },
		"zsh":  func(c *ra.Cmd) error { return c.GenZshCompletion(os.Stdout) },
	}[shell]
	if gen == nil {
		Fatal(fmt.Errorf("unsupported shell: %s (supported: bash, zsh)", shell))
	}
	if err := gen(rootCmd); err != nil {
		Fatal(fmt.Errorf("failed to generate completion script: %w", err))
	}
}
