package main

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	cs "github.com/webtor-io/common-services"

	"github.com/podcast-io/web-ui/models"
	"github.com/podcast-io/web-ui/services"
	"github.com/podcast-io/web-ui/services/repository"
)

const (
	emailFlag    = "email"
	passwordFlag = "password"
	adminFlag    = "admin"
)

func makeUserCMD() cli.Command {
	createCmd := cli.Command{
		Name:    "create",
		Usage:   "Creates user",
		Aliases: []string{"c"},
		Action:  createUser,
	}
	createCmd.Flags = cs.RegisterPGFlags(createCmd.Flags)
	createCmd.Flags = append(createCmd.Flags,
		cli.StringFlag{
			Name:   emailFlag,
			Usage:  "user email",
			EnvVar: "USER_EMAIL",
		},
		cli.StringFlag{
			Name:   passwordFlag,
			Usage:  "user password",
			EnvVar: "USER_PASSWORD",
		},
		cli.BoolFlag{
			Name:  adminFlag,
			Usage: "grant admin rights",
		},
	)
	return cli.Command{
		Name:        "user",
		Aliases:     []string{"u"},
		Usage:       "Manages users",
		Subcommands: []cli.Command{createCmd},
	}
}

func createUser(c *cli.Context) error {
	email := c.String(emailFlag)
	password := c.String(passwordFlag)
	if email == "" || password == "" {
		return services.NewSettingsError(nil, "both --%s and --%s are required", emailFlag, passwordFlag)
	}

	// Setting DB
	pg := cs.NewPG(c)
	defer pg.Close()

	db := pg.Get()
	if db == nil {
		return services.NewSettingsError(nil, "database is not configured")
	}

	ctx := context.Background()
	repo := repository.NewPG(db)
	ex, err := repo.Users().GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if ex != nil {
		return services.NewConflictError("user %s already exists", email)
	}
	u := &models.User{
		Email:       email,
		Password:    models.MakePassword(password),
		IsAdmin:     c.Bool(adminFlag),
		IsSuperuser: c.Bool(adminFlag),
	}
	if err := repo.Users().Create(ctx, u); err != nil {
		return err
	}
	log.WithField("user", u).Info("user created")
	return nil
}
