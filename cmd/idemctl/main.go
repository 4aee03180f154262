package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"idempotency-guard/internal/config"
	"idempotency-guard/internal/domain"
	infraconfig "idempotency-guard/internal/infrastructure/config"
	"idempotency-guard/internal/infrastructure/guardclient"
	"idempotency-guard/internal/infrastructure/httpx"
	"idempotency-guard/internal/infrastructure/logx"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	app := &cli.App{
		Name:  "idemctl",
		Usage: "Submit requests to the idempotency guard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Usage:   "Base URL of the guard API",
				Value:   config.Load().GuardURL,
				EnvVars: []string{"GUARD_URL"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Per-attempt HTTP timeout",
				Value: infraconfig.DefaultClientTimeout,
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "submit",
				Usage: "Send one payload, optionally with an idempotency token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "token", Usage: "Idempotency token; omit to send none"},
					&cli.StringFlag{Name: "data", Usage: "Inline payload"},
					&cli.PathFlag{Name: "file", Usage: "Read the payload from a file"},
				},
				Action: submit,
			},
			{
				Name:  "race",
				Usage: "Fire concurrent first attempts with distinct payloads under one token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "token", Usage: "Token to race on (default: random)"},
					&cli.IntFlag{Name: "n", Usage: "Number of concurrent attempts", Value: 2},
				},
				Action: race,
			},
			{
				Name:      "show",
				Usage:     "Print the stored record for a token",
				ArgsUsage: "<token>",
				Action:    show,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := app.RunContext(ctx, os.Args); err != nil {
		logx.L().Fatal("idemctl failed", zap.Error(err))
	}
}

func newClient(c *cli.Context) *guardclient.Client {
	return guardclient.New(c.String("url"), &httpx.Client{
		HTTP: &http.Client{Timeout: c.Duration("timeout")},
		Log:  logx.L(),
	})
}

func submit(c *cli.Context) error {
	payload := []byte(c.String("data"))
	if path := c.Path("file"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read payload: %w", err)
		}
		payload = b
	}
	var token *string
	if c.IsSet("token") {
		t := c.String("token")
		token = &t
	}
	res, err := newClient(c).Submit(c.Context, token, payload)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%d %s %s\n", res.StatusCode, res.Outcome, res.Message)
	return nil
}

func race(c *cli.Context) error {
	n := c.Int("n")
	if n < 2 {
		return errors.New("--n must be at least 2")
	}
	token := c.String("token")
	if token == "" {
		token = uuid.NewString()
	}
	payloads := make([][]byte, n)
	for i := range payloads {
		payloads[i] = []byte(fmt.Sprintf("%s-payload-%d-%d", token, i, time.Now().UnixNano()))
	}
	tally := newClient(c).Race(c.Context, token, payloads)

	kinds := make([]domain.OutcomeKind, 0, len(tally.Outcomes))
	for k := range tally.Outcomes {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	fmt.Fprintf(c.App.Writer, "token %s\n", token)
	for _, k := range kinds {
		fmt.Fprintf(c.App.Writer, "  %-20s %d\n", k, tally.Outcomes[k])
	}
	for _, err := range tally.Errors {
		fmt.Fprintf(c.App.ErrWriter, "  error: %v\n", err)
	}
	if accepted := tally.Outcomes[domain.OutcomeAccepted]; accepted != 1 {
		return fmt.Errorf("expected exactly one accepted attempt, got %d", accepted)
	}
	return nil
}

func show(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("usage: idemctl show <token>")
	}
	rec, err := newClient(c).GetRecord(c.Context, c.Args().First())
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s %s %s\n", rec.Token, rec.Digest, rec.CreatedAt)
	return nil
}
