package main

import (
	"net/http"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	cs "github.com/webtor-io/common-services"

	wa "github.com/podcast-io/web-ui/handlers/about"
	we "github.com/podcast-io/web-ui/handlers/episodes"
	wf "github.com/podcast-io/web-ui/handlers/feed"
	wi "github.com/podcast-io/web-ui/handlers/index"
	wm "github.com/podcast-io/web-ui/handlers/media"
	wp "github.com/podcast-io/web-ui/handlers/podcasts"
	p "github.com/podcast-io/web-ui/handlers/profile"
	wpr "github.com/podcast-io/web-ui/handlers/progress"
	sta "github.com/podcast-io/web-ui/handlers/static"
	"github.com/podcast-io/web-ui/services"
	"github.com/podcast-io/web-ui/services/common"
	"github.com/podcast-io/web-ui/services/episodes"
	"github.com/podcast-io/web-ui/services/feed"
	"github.com/podcast-io/web-ui/services/presentation"
	"github.com/podcast-io/web-ui/services/progress"
	"github.com/podcast-io/web-ui/services/repository"
	"github.com/podcast-io/web-ui/services/stats"
	"github.com/podcast-io/web-ui/services/storage"
	"github.com/podcast-io/web-ui/services/template"
	w "github.com/podcast-io/web-ui/services/web"
)

func makeServeCMD() cli.Command {
	serveCMD := cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Serves web server",
		Action:  serve,
	}
	configureServe(&serveCMD)
	return serveCMD
}

func configureServe(c *cli.Command) {
	c.Flags = cs.RegisterPGFlags(c.Flags)
	c.Flags = cs.RegisterProbeFlags(c.Flags)
	c.Flags = cs.RegisterPprofFlags(c.Flags)
	c.Flags = cs.RegisterS3ClientFlags(c.Flags)
	c.Flags = cs.RegisterRedisClientFlags(c.Flags)
	c.Flags = w.RegisterFlags(c.Flags)
	c.Flags = common.RegisterFlags(c.Flags)
	c.Flags = sta.RegisterFlags(c.Flags)
	c.Flags = repository.RegisterFlags(c.Flags)
	c.Flags = stats.RegisterFlags(c.Flags)
	c.Flags = storage.RegisterFlags(c.Flags)
	c.Flags = progress.RegisterFlags(c.Flags)
}

func serve(c *cli.Context) error {
	// Setting HTTP Client
	cl := http.DefaultClient

	// Setting Settings
	st := common.NewSettings(c)

	// Setting DB
	pg := cs.NewPG(c)
	defer pg.Close()

	// Setting S3 Client
	s3Cl := cs.NewS3Client(c, cl)

	// Setting Storage
	s3st, err := storage.New(c, s3Cl, st)
	if err != nil {
		return services.NewSettingsError(err, "failed to init storage")
	}

	// Setting Migrations
	err = pgMigrate(c, s3st)
	if err != nil {
		return err
	}

	// Setting template renderer
	re := multitemplate.NewRenderer()

	// Setting TemplateManager
	tm := template.NewManager[*w.Context](re).
		WithHelper(w.NewHelper(st)).
		WithHelper(presentation.NewHelper())

	var servers []cs.Servable
	// Setting Probe
	probe := cs.NewProbe(c)
	if probe != nil {
		servers = append(servers, probe)
		defer probe.Close()
	}

	// Setting Pprof
	pprof := cs.NewPprof(c)
	if pprof != nil {
		servers = append(servers, pprof)
		defer pprof.Close()
	}

	// Setting Gin
	r := gin.Default()
	r.RedirectTrailingSlash = false
	r.HTMLRender = re

	// Setting Web
	web, err := w.New(c, r)
	if err != nil {
		return err
	}
	servers = append(servers, web)
	defer web.Close()

	// Setting ErrorHandler
	w.RegisterErrorHandler(r, tm)

	// Setting CSRF
	w.UseCSRF(r, st.SessionSecret)

	// Setting Static
	err = sta.RegisterHandler(c, r)
	if err != nil {
		return services.NewSettingsError(err, "failed to register static assets")
	}

	// Setting Repository
	repo, err := repository.New(c, pg)
	if err != nil {
		return services.NewStartupError(err, "failed to init repository")
	}

	// Setting Library
	lib := episodes.New(repo)

	// Setting Stats
	ss := stats.New(c, repo, lib)

	// Setting Presigner
	var ps storage.Presigner
	if s3st != nil {
		ps = s3st
	}

	// Setting Redis
	redis := cs.NewRedisClient(c)
	defer redis.Close()

	// Setting Progress
	var broker progress.Broker
	if pr := progress.New(c, redis); pr != nil {
		broker = pr
	}

	// Setting IndexHandler
	wi.RegisterHandler(r, tm, st, ss)

	// Setting EpisodesHandler
	we.RegisterHandler(r, tm, st, repo, lib, ss, broker)

	// Setting PodcastsHandler
	wp.RegisterHandler(r, tm, st, repo, lib)

	// Setting ProgressHandler
	wpr.RegisterHandler(r, st, ss, broker)

	// Setting ProfileHandler
	p.RegisterHandler(r, tm, st, repo)

	// Setting AboutHandler
	wa.RegisterHandler(r, tm)

	// Setting FeedHandler
	wf.RegisterHandler(r, repo, feed.New(st))

	// Setting MediaHandler
	wm.RegisterHandler(r, st, repo, ps)

	// Setting Templates
	err = tm.Init()
	if err != nil {
		return services.NewStartupError(err, "failed to init templates")
	}

	// Setting Serve
	serve := cs.NewServe(servers...)

	// And SERVE!
	err = serve.Serve()
	if err != nil {
		log.WithError(err).Error("got server error")
	}
	return err
}
