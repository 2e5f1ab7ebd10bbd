package static

import (
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

const (
	assetsPathFlag = "assets-path"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   assetsPathFlag,
			Usage:  "path to static assets",
			Value:  "static",
			EnvVar: "STATIC_ROOT,WEB_ASSETS_PATH",
		},
	)
}

func RegisterHandler(c *cli.Context, r *gin.Engine) error {
	return registerHandler(r, c.String(assetsPathFlag))
}

func registerHandler(r *gin.Engine, dir string) error {
	st, err := os.Stat(dir)
	if err != nil {
		return errors.Wrapf(err, "failed to find assets in %s", dir)
	}
	if !st.IsDir() {
		return errors.Errorf("assets path %s is not a directory", dir)
	}
	r.Static("/static", dir)
	favicon := filepath.Join(dir, "favicon.ico")
	if _, err := os.Stat(favicon); err == nil {
		r.StaticFile("/favicon.ico", favicon)
	}
	return nil
}
