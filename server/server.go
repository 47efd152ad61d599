// Package server wires the portfolio's HTTP surface: the page itself, the
// contact form endpoints, resume downloads, project links and the owner's
// admin dashboard.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Artem18071998/portfolio/config"
	"github.com/Artem18071998/portfolio/contact"
	"github.com/Artem18071998/portfolio/content"
	"github.com/Artem18071998/portfolio/middleware"
	"github.com/Artem18071998/portfolio/store"
)

type Server struct {
	settings *config.Settings
	content  *content.Source
	store    *store.Store
	forms    *contact.Registry
	logger   *slog.Logger

	adminToken  string
	hashingSalt string
}

func New(settings *config.Settings, src *content.Source, st *store.Store, forms *contact.Registry, logger *slog.Logger) *Server {
	s := &Server{
		settings: settings,
		content:  src,
		store:    st,
		forms:    forms,
		logger:   logger,
	}
	s.initAdminToken()
	return s
}

// Router builds the gin engine with every route installed.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	static, err := staticFS()
	if err != nil {
		return nil, err
	}
	r.StaticFS("/static", http.FS(static))
	r.Static("/images", s.settings.ImagesDir)

	secure := gin.Mode() == gin.ReleaseMode
	r.Use(middleware.Session(int(s.settings.SessionTTL.Seconds()), secure))
	r.Use(s.visitorTrackingMiddleware())

	r.GET("/", s.handleIndex)
	r.GET("/healthz", s.handleHealth)
	r.GET("/resume", s.handleResume)
	r.GET("/projects/:slug/:target", s.handleProjectLink)

	r.GET("/contact-form", s.handleContactForm)
	r.POST("/contact",
		middleware.RateLimitMiddleware(s.settings.RateLimit, s.handleRateLimited),
		s.handleContact,
	)

	s.setupAdminRoutes(r)

	return r, nil
}

func (s *Server) handleIndex(c *gin.Context) {
	form, err := s.forms.Open(middleware.SessionID(c))
	if err != nil {
		s.logger.Error("opening contact form", "error", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Something went wrong, please reload the page."})
		return
	}

	c.HTML(http.StatusOK, "index.html", pageView{
		Site:    s.content.Site(),
		Contact: newContactView(form.State(), form.Fields()),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.store.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
