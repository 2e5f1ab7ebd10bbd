package web

import (
	"strings"
	"time"

	"github.com/hako/durafmt"

	"github.com/podcast-io/web-ui/services/common"
)

type NavItem struct {
	Title string
	Icon  string
	URL   string
}

var Navigation = []NavItem{
	{Title: "Home", Icon: "🏠", URL: "/"},
	{Title: "Episodes", Icon: "☰", URL: "/episodes"},
	{Title: "Progress", Icon: "🏃", URL: "/progress"},
	{Title: "My Profile", Icon: "👤", URL: "/profile"},
	{Title: "About", Icon: "ℹ", URL: "/about"},
}

type Helper struct {
	version string
	started time.Time
	now     func() time.Time
}

func NewHelper(st *common.Settings) *Helper {
	return newHelper(st.AppVersion)
}

func newHelper(version string) *Helper {
	return &Helper{
		version: version,
		started: time.Now(),
		now:     time.Now,
	}
}

func (s *Helper) NavItems() []NavItem {
	return Navigation
}

// IsActive tells whether the nav item with url is the current section.
func (s *Helper) IsActive(c *Context, url string) bool {
	if c == nil {
		return false
	}
	if url == "/" {
		return c.Path == "/"
	}
	return c.Path == url || strings.HasPrefix(c.Path, url+"/")
}

// Scope is what a partial gets when it needs the page context next to its
// own data.
type Scope struct {
	Context *Context
	Data    any
}

func (s *Helper) Scope(c *Context, data any) *Scope {
	return &Scope{Context: c, Data: data}
}

func (s *Helper) AppVersion() string {
	return s.version
}

func (s *Helper) Uptime() string {
	return durafmt.Parse(s.now().Sub(s.started)).LimitFirstN(2).String()
}

func (s *Helper) Year() int {
	return s.now().Year()
}
