package creator

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/amterp/tack/internal/git"
)

// EnvUser overrides who "me" is when assigning cards.
const EnvUser = "TACK_USER"

const gitTimeout = 2 * time.Second

// Whoami returns the name used when a card is assigned to the caller:
// $TACK_USER, then git user.name, then $USER.
func Whoami(ctx context.Context, gitClient *git.Client, getenv func(string) string) (string, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if user := getenv(EnvUser); user != "" {
		return user, nil
	}

	if gitClient != nil {
		ctx, cancel := context.WithTimeout(ctx, gitTimeout)
		defer cancel()
		if name, err := gitClient.UserName(ctx); err == nil && name != "" {
			return name, nil
		}
	}

	if user := getenv("USER"); user != "" {
		return user, nil
	}
	return "", fmt.Errorf("cannot determine who you are: set $%s, configure 'git config user.name', or set $USER", EnvUser)
}
