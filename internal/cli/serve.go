package cli

import (
	"context"
	"errors"
	"net"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amterp/ra"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/amterp/tack/internal/api"
)

const (
	shutdownTimeout = 5 * time.Second
	redisTimeout    = 2 * time.Second
)

func registerServe(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("serve")
	cmd.SetDescription("Start the board server the terminal UI talks to")

	ctx.ServeAddr, _ = ra.NewString("addr").
		SetShort("a").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Address to listen on (default: host of the configured server URL)").
		Register(cmd)

	ctx.ServeNoWatch, _ = ra.NewBool("no-watch").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Don't watch .tack for changes made outside the server").
		Register(cmd)

	ctx.ServeRedis, _ = ra.NewString("redis").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Redis URL for the board cache and request dedup (e.g. redis://localhost:6379/0)").
		Register(cmd)

	ctx.ServeUsed, _ = parent.RegisterCmd(cmd)
}

func runServe(addr, redisURL string, watch bool, logLevel string) {
	app := mustApp(false, logLevel)
	if logLevel == "" && app.Settings.LogLevel == "" {
		log.SetLevel(log.InfoLevel)
	}

	if err := app.RequireTack(); err != nil {
		Fatal(err)
	}

	if addr == "" {
		addr = listenAddr(app.Settings.ServerURL())
	}
	if redisURL == "" {
		redisURL = app.Settings.RedisURL
	}

	rdb := connectRedis(redisURL)
	if rdb != nil {
		defer rdb.Close()
	}

	pc, err := api.BuildProjectContext(app.ProjectRoot, rdb)
	if err != nil {
		Fatal(err)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		Fatal(err)
	}
	server := api.NewServer(pc, addr, watch, log.StandardLogger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- server.Serve(ln) }()

	PrintSuccess("tack server running at %s", RenderURL("http://"+ln.Addr().String()))
	PrintInfo("Press Ctrl+C to stop")

	select {
	case err := <-errCh:
		if err != nil {
			Fatal(err)
		}
		return
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		PrintWarning("shutdown: %v", err)
	}
	<-errCh
}

// listenAddr derives the listen address from the URL clients use.
func listenAddr(serverURL string) string {
	u, err := url.Parse(serverURL)
	if err != nil || u.Host == "" {
		return "localhost:5260"
	}
	if u.Port() == "" {
		return net.JoinHostPort(u.Hostname(), "5260")
	}
	return u.Host
}

// connectRedis returns a client for rawURL, or nil when rawURL is empty or
// the server can't be reached. The server runs without Redis then.
func connectRedis(rawURL string) *redis.Client {
	if rawURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		PrintWarning("ignoring invalid redis URL: %v", err)
		return nil
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		PrintWarning("redis unavailable, continuing without it: %v", err)
		rdb.Close()
		return nil
	}
	log.WithField("addr", opts.Addr).Info("connected to redis")
	return rdb
}
