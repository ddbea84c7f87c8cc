package main

import (
	"os"
	_ "time/tzdata"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/theoremus-urban-solutions/marey/config"
	"github.com/theoremus-urban-solutions/marey/internal"
)

func main() {
	internal.InitLogging("", "")

	app := &cli.App{
		Name:        "marey",
		Usage:       "draw railway time-distance diagrams",
		Description: "Renders Marey diagram geometry from CBOR network and request documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config.yml",
				EnvVars: []string{"MAREY_CONFIG"},
			},
		},
		Before: loadConfig,

		Commands: []*cli.Command{
			renderCommand(),
			inspectCommand(),
			encodeCommand(),
			importCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

// loadConfig reads the configuration before any command runs. Without an
// explicit path a missing config.yml falls back to built-in defaults.
func loadConfig(c *cli.Context) error {
	if path := c.String("config"); path != "" {
		if err := config.LoadAppConfig(path); err != nil {
			return err
		}
	} else if err := config.LoadAppConfig(); err != nil {
		log.Debug().Err(err).Msg("no config file, using defaults")
		cfg, perr := config.Parse(nil)
		if perr != nil {
			return perr
		}
		config.Config = cfg
	}

	internal.InitLogging(config.Config.Logging.Level, config.Config.Logging.Format)
	return nil
}
