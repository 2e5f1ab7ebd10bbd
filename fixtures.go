package main

import (
	"context"

	"github.com/urfave/cli"
	cs "github.com/webtor-io/common-services"

	"github.com/podcast-io/web-ui/services"
	"github.com/podcast-io/web-ui/services/repository"
)

func makeFixturesCMD() cli.Command {
	loadCmd := cli.Command{
		Name:    "load",
		Usage:   "Loads fixtures into database",
		Aliases: []string{"l"},
		Action:  loadFixtures,
	}
	loadCmd.Flags = cs.RegisterPGFlags(loadCmd.Flags)
	loadCmd.Flags = repository.RegisterFlags(loadCmd.Flags)
	return cli.Command{
		Name:        "fixtures",
		Aliases:     []string{"f"},
		Usage:       "Manages fixtures",
		Subcommands: []cli.Command{loadCmd},
	}
}

func loadFixtures(c *cli.Context) error {
	// Setting DB
	pg := cs.NewPG(c)
	defer pg.Close()

	db := pg.Get()
	if db == nil {
		return services.NewSettingsError(nil, "database is not configured")
	}

	// Setting Migrations
	err := pgMigrate(c, nil)
	if err != nil {
		return err
	}

	f, err := repository.LoadFixtures(repository.FixturesDir(c))
	if err != nil {
		return services.NewStartupError(err, "failed to load fixtures")
	}
	return repository.Seed(context.Background(), repository.NewPG(db), f)
}
