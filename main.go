package main

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

const logLevelFlag = "log-level"

func main() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("failed to load .env file")
	}
	app := cli.NewApp()
	app.Name = "podcast-web-ui"
	app.Usage = "runs podcast library web ui"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   logLevelFlag,
			Usage:  "log level",
			Value:  "info",
			EnvVar: "LOG_LEVEL",
		},
	}
	app.Before = func(c *cli.Context) error {
		lvl, err := log.ParseLevel(c.GlobalString(logLevelFlag))
		if err != nil {
			return err
		}
		log.SetLevel(lvl)
		return nil
	}
	configure(app)
	err := app.Run(os.Args)
	if err != nil {
		log.WithError(err).Fatal("failed to serve application")
	}
}
