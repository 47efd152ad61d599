package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// handleResume serves the resume PDF as a download and counts it.
func (s *Server) handleResume(c *gin.Context) {
	path := s.settings.ResumePath
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		s.logger.Warn("resume file unavailable", "path", path, "error", err)
		c.HTML(http.StatusNotFound, "error.html", gin.H{"error": "The resume is not available right now."})
		return
	}

	name := filepath.Base(path)
	if err := s.store.RecordDownload(context.Background(), name, s.hashIP(c.ClientIP())); err != nil {
		s.logger.Warn("recording resume download", "error", err)
	}
	c.FileAttachment(path, name)
}

// handleProjectLink counts a click on a project's GitHub or demo link and
// redirects there.
func (s *Server) handleProjectLink(c *gin.Context) {
	slug, target := c.Param("slug"), c.Param("target")

	project, ok := s.content.Site().Project(slug)
	if !ok {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"error": "Project not found."})
		return
	}
	link, ok := project.Link(target)
	if !ok {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"error": "This project has no such link."})
		return
	}

	if err := s.store.RecordClick(context.Background(), slug, target); err != nil {
		s.logger.Warn("recording project click", "slug", slug, "target", target, "error", err)
	}
	c.Redirect(http.StatusFound, link)
}
