package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/Artem18071998/portfolio/contact"
	"github.com/Artem18071998/portfolio/middleware"
	"github.com/Artem18071998/portfolio/store"
)

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// renderContact answers with the form fragment for HTMX requests and with the
// whole page otherwise.
func (s *Server) renderContact(c *gin.Context, code int, view contactView) {
	if isHTMX(c) {
		c.HTML(code, "contact-form.html", view)
		return
	}
	c.HTML(code, "index.html", pageView{Site: s.content.Site(), Contact: view})
}

// Handle contact form submission
func (s *Server) handleContact(c *gin.Context) {
	form, err := s.forms.Get(middleware.SessionID(c))
	if err != nil {
		s.logger.Error("loading contact form", "error", err)
		s.renderContact(c, http.StatusInternalServerError, contactView{
			Status: contact.StatusError.String(),
			Error:  contact.DeliveryErrorMessage,
		})
		return
	}

	var fields contact.Fields
	if err := c.ShouldBindWith(&fields, binding.Form); err != nil {
		view := newContactView(form.State(), fields)
		view.Notice = invalidFieldsMessage
		s.renderContact(c, http.StatusUnprocessableEntity, view)
		return
	}

	// An in-flight submission is not cancelled when the visitor goes away.
	ctx := context.WithoutCancel(c.Request.Context())

	state, err := form.Submit(ctx, fields)
	switch {
	case errors.Is(err, contact.ErrBusy):
		s.recordOutcome(store.OutcomeBusy)
		s.renderContact(c, http.StatusConflict, newContactView(state, form.Fields()))
		return
	case errors.Is(err, contact.ErrConfiguration):
		s.recordOutcome(store.OutcomeMisconfigured)
	case err != nil:
		s.recordOutcome(store.OutcomeFailed)
	default:
		s.recordOutcome(store.OutcomeSent)
	}

	s.renderContact(c, http.StatusOK, newContactView(state, form.Fields()))
}

// handleContactForm returns the current form, clearing a finished result.
func (s *Server) handleContactForm(c *gin.Context) {
	form, err := s.forms.Get(middleware.SessionID(c))
	if err != nil {
		s.logger.Error("loading contact form", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	form.Dismiss()
	c.HTML(http.StatusOK, "contact-form.html", newContactView(form.State(), form.Fields()))
}

func (s *Server) handleRateLimited(c *gin.Context) {
	fields := contact.Fields{
		Name:    c.PostForm("name"),
		Email:   c.PostForm("email"),
		Message: c.PostForm("message"),
	}
	view := contactView{Status: contact.StatusIdle.String(), Notice: rateLimitedMessage, Fields: fields}
	s.renderContact(c, http.StatusTooManyRequests, view)
}

func (s *Server) recordOutcome(outcome store.Outcome) {
	if err := s.store.RecordOutcome(context.Background(), outcome); err != nil {
		s.logger.Warn("recording contact outcome", "outcome", outcome, "error", err)
	}
}
