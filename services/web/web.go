package web

import (
	"fmt"
	"net"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/podcast-io/web-ui/services/common"
)

const (
	webHostFlag = "host"
	webPortFlag = "port"
	sessionName = "session"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   webHostFlag,
			Usage:  "listening host",
			Value:  "",
			EnvVar: "WEB_HOST",
		},
		cli.IntFlag{
			Name:   webPortFlag,
			Usage:  "http listening port",
			Value:  8080,
			EnvVar: "WEB_PORT,PORT",
		},
	)
}

type Web struct {
	host string
	port int
	r    *gin.Engine
	ln   net.Listener
	srv  *http.Server
}

// New attaches the session middleware to r. It has to be called before any
// route is registered.
func New(c *cli.Context, r *gin.Engine) (*Web, error) {
	secret := c.String(common.SessionSecretFlag)
	if secret == "" {
		return nil, errors.Errorf("%s must not be empty", common.SessionSecretFlag)
	}
	UseSessions(r, secret)
	return &Web{
		host: c.String(webHostFlag),
		port: c.Int(webPortFlag),
		r:    r,
	}, nil
}

// UseSessions enables cookie sessions used for flash messages.
func UseSessions(r gin.IRoutes, secret string) {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))
}

func (s *Web) Serve() error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(err, "failed to web listen to tcp connection")
	}
	s.ln = ln
	s.srv = &http.Server{
		Handler: s.r,
	}
	log.Infof("serving Web at %v", addr)
	err = s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Web) Close() {
	log.Info("closing Web")
	defer func() {
		log.Info("Web closed")
	}()
	if s.srv != nil {
		_ = s.srv.Close()
	}
	if s.ln != nil {
		_ = s.ln.Close()
	}
}
