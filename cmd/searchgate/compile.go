package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/kailas-cloud/searchgate/internal/config"
	"github.com/kailas-cloud/searchgate/internal/domain"
	"github.com/kailas-cloud/searchgate/internal/domain/search/params"
	"github.com/kailas-cloud/searchgate/internal/domain/search/policy"
	logpkg "github.com/kailas-cloud/searchgate/internal/logger"
	searchuc "github.com/kailas-cloud/searchgate/internal/usecase/search"
)

func compileCommand() *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "Print the backend request a query string compiles to, without executing it",
		ArgsUsage: "'size=10&q=status:ok'",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "endpoint",
				Aliases:  []string{"e"},
				Usage:    "Endpoint name from the config",
				Required: true,
			},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			cfg, err := config.LoadFile(configPath(c))
			if err != nil {
				return err
			}
			return compile(c, cfg, c.String("endpoint"), c.Args().First())
		},
	}
}

func compile(c *cli.Command, cfg config.Config, endpoint, rawQuery string) error {
	policies, err := cfg.Policies(policy.BuiltinHooks())
	if err != nil {
		return fmt.Errorf("build policies: %w", err)
	}
	reg, err := policy.NewRegistry(policies...)
	if err != nil {
		return fmt.Errorf("build registry: %w", err)
	}
	pol, ok := reg.Get(endpoint)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrEndpointNotFound, endpoint)
	}

	p, err := params.Parse(rawQuery)
	if err != nil {
		return fmt.Errorf("parse query string: %w", err)
	}

	logger, err := logpkg.NewLogger("test")
	if err != nil {
		return err
	}
	q, err := searchuc.New(nil, nil, logger).Compile(pol, p)
	if err != nil {
		if de, ok := domain.AsError(err); ok {
			return fmt.Errorf("rejected (%d): %s", de.Status, de.Message)
		}
		return err
	}

	body, err := q.Body()
	if err != nil {
		return fmt.Errorf("render body: %w", err)
	}
	out := map[string]any{
		"index": q.Index,
		"body":  body,
	}
	if q.IgnoreUnavailable {
		out["ignore_unavailable"] = true
	}

	enc := json.NewEncoder(c.Root().Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
