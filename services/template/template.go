package template

import (
	"html/template"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/yargevad/filepathx"
)

const (
	defaultDir  = "templates"
	viewsDir    = "views"
	layoutsDir  = "layouts"
	partialsDir = "partials"
	ext         = ".html"
)

// Context is anything that is passed to templates and knows the request
// it renders for.
type Context interface {
	GetGinContext() *gin.Context
}

type Builder[T Context] interface {
	Build(name string) *Template[T]
}

type Template[T Context] struct {
	name string
}

func (s *Template[T]) Name() string {
	return s.name
}

func (s *Template[T]) HTML(code int, c T) {
	c.GetGinContext().HTML(code, s.name, c)
}

type view struct {
	name string
	file string
}

type registration struct {
	views  []view
	layout string
}

type Manager[T Context] struct {
	re    multitemplate.Renderer
	dir   string
	funcs template.FuncMap
	mux   sync.Mutex
	regs  []*registration
}

func NewManager[T Context](re multitemplate.Renderer) *Manager[T] {
	return &Manager[T]{
		re:    re,
		dir:   defaultDir,
		funcs: template.FuncMap{},
	}
}

// WithDir sets the directory with views, layouts and partials.
func (s *Manager[T]) WithDir(dir string) *Manager[T] {
	s.dir = dir
	return s
}

// WithHelper exposes every exported method of h as a template function.
func (s *Manager[T]) WithHelper(h any) *Manager[T] {
	v := reflect.ValueOf(h)
	if !v.IsValid() || (v.Kind() == reflect.Ptr && v.IsNil()) {
		return s
	}
	t := v.Type()
	for i := 0; i < t.NumMethod(); i++ {
		name := t.Method(i).Name
		if _, ok := s.funcs[name]; ok {
			log.Warnf("template function %s redefined by %s", name, t)
		}
		s.funcs[name] = v.Method(i).Interface()
	}
	return s
}

// RegisterViews finds views matching pattern relative to the views directory.
func (s *Manager[T]) RegisterViews(pattern string) (*Views[T], error) {
	root := filepath.Join(s.dir, viewsDir)
	files, err := filepathx.Glob(filepath.Join(root, pattern+ext))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to find views by pattern %s", pattern)
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no views found by pattern %s", pattern)
	}
	sort.Strings(files)
	vs := &Views[T]{m: s}
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get view name for %s", f)
		}
		vs.views = append(vs.views, view{
			name: filepath.ToSlash(strings.TrimSuffix(rel, ext)),
			file: f,
		})
	}
	s.register(&registration{views: vs.views})
	return vs, nil
}

func (s *Manager[T]) MustRegisterViews(pattern string) *Views[T] {
	vs, err := s.RegisterViews(pattern)
	if err != nil {
		panic(err)
	}
	return vs
}

func (s *Manager[T]) register(r *registration) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.regs = append(s.regs, r)
}

func templateName(layout string, name string) string {
	if layout == "" {
		return name
	}
	return layout + ":" + name
}

func (s *Manager[T]) partials() ([]string, error) {
	files, err := filepathx.Glob(filepath.Join(s.dir, partialsDir, "**", "*"+ext))
	if err != nil {
		return nil, errors.Wrap(err, "failed to find partials")
	}
	sort.Strings(files)
	return files, nil
}

// Init parses all registered views and adds them to the renderer.
func (s *Manager[T]) Init() error {
	s.mux.Lock()
	defer s.mux.Unlock()
	partials, err := s.partials()
	if err != nil {
		return err
	}
	added := map[string]bool{}
	for _, r := range s.regs {
		for _, v := range r.views {
			name := templateName(r.layout, v.name)
			if added[name] {
				continue
			}
			var files []string
			if r.layout != "" {
				files = append(files, filepath.Join(s.dir, layoutsDir, r.layout+ext))
				files = append(files, partials...)
				files = append(files, v.file)
			} else {
				files = append(files, v.file)
				files = append(files, partials...)
			}
			t, err := template.New(filepath.Base(files[0])).Funcs(s.funcs).ParseFiles(files...)
			if err != nil {
				return errors.Wrapf(err, "failed to parse template %s", name)
			}
			s.re.Add(name, t)
			added[name] = true
		}
	}
	log.WithField("count", len(added)).Info("templates initialized")
	return nil
}

// Views is a set of registered views rendered without a layout.
type Views[T Context] struct {
	m     *Manager[T]
	views []view
}

func (s *Views[T]) Build(name string) *Template[T] {
	return &Template[T]{name: templateName("", name)}
}

// WithLayout renders the views inside layout. The layout includes the view
// with {{ template "content" . }}.
func (s *Views[T]) WithLayout(layout string) *BuilderWithLayout[T] {
	s.m.register(&registration{views: s.views, layout: layout})
	return &BuilderWithLayout[T]{
		layout: layout,
	}
}

type BuilderWithLayout[T Context] struct {
	layout string
}

func (s *BuilderWithLayout[T]) Build(name string) *Template[T] {
	return &Template[T]{name: templateName(s.layout, name)}
}
