package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/eshaffer321/board-go/internal/config"
	"github.com/eshaffer321/board-go/pkg/board"
)

// CLIConfig holds the command line settings
type CLIConfig struct {
	ConfigPath string
	Email      string
	Password   string
	Limit      int
	Timeout    time.Duration
	Command    string
	Args       []string
}

func main() {
	cfg := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	settings, err := config.Load(cfg.ConfigPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client, err := board.NewClient(settings.ClientOptions())
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	client.Subscribe(board.EventSessionExpired, func(ctx context.Context, ev board.Event) {
		fmt.Fprintf(os.Stderr, "session expired during %s %s, please log in again\n", ev.Method, ev.Endpoint)
	})

	if cfg.Email != "" {
		if _, err := client.Auth.Login(ctx, cfg.Email, cfg.Password); err != nil {
			log.Fatalf("Login failed: %s", board.UserMessage(err))
		}
	}

	result, err := run(ctx, client, cfg)
	if err != nil {
		log.Fatalf("%s failed: %v (%s)", cfg.Command, err, board.UserMessage(err))
	}

	if err := printJSON(result); err != nil {
		log.Fatalf("Failed to print result: %v", err)
	}
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	flag.StringVar(&cfg.ConfigPath, "config", os.Getenv("BOARD_CONFIG"), "Path to a YAML config file")
	flag.StringVar(&cfg.Email, "email", os.Getenv("BOARD_EMAIL"), "Login email")
	flag.StringVar(&cfg.Password, "password", os.Getenv("BOARD_PASSWORD"), "Login password")
	flag.IntVar(&cfg.Limit, "limit", board.DefaultPageSize, "Page size for the posts command")
	flag.DurationVar(&cfg.Timeout, "timeout", time.Minute, "Overall command timeout")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] posts|post <id>|me|like <id>|unlike <id>\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	cfg.Command = flag.Arg(0)
	cfg.Args = flag.Args()[1:]

	return cfg
}

func run(ctx context.Context, client *board.Client, cfg *CLIConfig) (interface{}, error) {
	switch cfg.Command {
	case "posts":
		page, err := client.Posts.List(ctx, 0, cfg.Limit)
		if err != nil {
			return nil, err
		}
		return page, nil
	case "post":
		id, err := postID(cfg.Args)
		if err != nil {
			return nil, err
		}
		return client.Posts.Get(ctx, id)
	case "me":
		return client.Auth.CurrentUser(ctx)
	case "like":
		id, err := postID(cfg.Args)
		if err != nil {
			return nil, err
		}
		return client.Posts.Like(ctx, id)
	case "unlike":
		id, err := postID(cfg.Args)
		if err != nil {
			return nil, err
		}
		return client.Posts.Unlike(ctx, id)
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}
}

func postID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("post id is required")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid post id %q", args[0])
	}
	return id, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
