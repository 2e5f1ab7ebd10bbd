package main

import (
	"net/http"

	"github.com/go-pg/migrations/v8"
	"github.com/urfave/cli"
	cs "github.com/webtor-io/common-services"

	m "github.com/podcast-io/web-ui/migrations"
	"github.com/podcast-io/web-ui/services"
	"github.com/podcast-io/web-ui/services/common"
	"github.com/podcast-io/web-ui/services/migration"
	"github.com/podcast-io/web-ui/services/storage"
)

func makePGMigrationCMD() cli.Command {
	migrateCmd := cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Migrates database",
	}
	configurePGMigration(&migrateCmd)
	return migrateCmd
}

func configurePGMigration(c *cli.Command) {
	upCmd := cli.Command{
		Name:    "up",
		Usage:   "Runs all available migrations",
		Aliases: []string{"u"},
		Action: func(c *cli.Context) error {
			return pgMigrateCMD(c, "up")
		},
	}
	downCmd := cli.Command{
		Name:    "down",
		Usage:   "Reverts last migration",
		Aliases: []string{"d"},
		Action: func(c *cli.Context) error {
			return pgMigrateCMD(c, "down")
		},
	}
	resetCmd := cli.Command{
		Name:    "reset",
		Usage:   "Reverts all migrations",
		Aliases: []string{"r"},
		Action: func(c *cli.Context) error {
			return pgMigrateCMD(c, "reset")
		},
	}
	versionCmd := cli.Command{
		Name:    "version",
		Usage:   "Prints current db version",
		Aliases: []string{"v"},
		Action: func(c *cli.Context) error {
			return pgMigrateCMD(c, "version")
		},
	}
	c.Subcommands = []cli.Command{upCmd, downCmd, resetCmd, versionCmd}
	for k := range c.Subcommands {
		configureSubPGMigration(&c.Subcommands[k])
	}
}

func configureSubPGMigration(c *cli.Command) {
	c.Flags = cs.RegisterPGFlags(c.Flags)
	c.Flags = cs.RegisterS3ClientFlags(c.Flags)
	c.Flags = common.RegisterFlags(c.Flags)
	c.Flags = storage.RegisterFlags(c.Flags)
}

func pgMigrateCMD(c *cli.Context, a ...string) error {
	// Setting Storage
	st, err := storage.New(c, cs.NewS3Client(c, http.DefaultClient), common.NewSettings(c))
	if err != nil {
		return services.NewSettingsError(err, "failed to init storage")
	}
	return pgMigrate(c, st, a...)
}

func pgMigrate(c *cli.Context, st *storage.Storage, a ...string) error {
	// Setting DB
	db := cs.NewPG(c)
	defer db.Close()

	// Setting PGMigrations
	col := migrations.NewCollection()
	mgr := migration.NewPGMigration(db, col)

	// Setting custom migrations
	m.PopulateAudioFileSizes(col, st)

	// Run
	return mgr.Run(a...)
}
