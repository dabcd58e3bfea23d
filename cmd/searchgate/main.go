package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/kailas-cloud/searchgate/internal/config"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "searchgate:", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "searchgate",
		Usage: "Multi-tenant search API in front of Elasticsearch",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env",
				Usage:   "Environment name (selects config/<env>.yaml and the log format)",
				Value:   config.GetEnv(),
				Sources: cli.EnvVars("ENV"),
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path (overrides --env lookup)",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			compileCommand(),
			versionCommand(),
		},
	}
}

// configPath resolves --config, falling back to config/<env>.yaml.
func configPath(c *cli.Command) string {
	if p := c.String("config"); p != "" {
		return p
	}
	return config.FindConfigPath(c.String("env"))
}
