package controllers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/rzbill/tracker/internal/project"
	"github.com/rzbill/tracker/pkg/log"
)

// AdminController pauses and resumes projects. It is disabled unless an
// admin token is configured.
type AdminController struct {
	projects *project.Registry
	token    string
	logger   log.Logger
}

// NewAdminController creates a new admin controller.
func NewAdminController(projects *project.Registry, token string, logger log.Logger) *AdminController {
	return &AdminController{projects: projects, token: token, logger: logger.WithComponent("http.admin")}
}

// RegisterRoutes registers admin routes with the given mux.
func (c *AdminController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/projects/{project}/pause", c.handleSetPaused(true))
	mux.HandleFunc("POST /v1/projects/{project}/resume", c.handleSetPaused(false))
}

func (c *AdminController) authorized(r *http.Request) bool {
	got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(c.token)) == 1
}

func (c *AdminController) handleSetPaused(paused bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c.token == "" {
			writeError(w, http.StatusForbidden, "admin endpoints disabled")
			return
		}
		if !c.authorized(r) {
			writeError(w, http.StatusUnauthorized, "invalid admin token")
			return
		}
		p, err := c.projects.Get(r.PathValue("project"))
		if err != nil {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		if err := p.SetPaused(r.Context(), paused); err != nil {
			c.logger.Error("set paused failed", log.Str("project", p.Name()), log.Bool("paused", paused), log.Err(err))
			writeError(w, http.StatusInternalServerError, "failed to update project config")
			return
		}
		c.logger.Info("project state changed", log.Str("project", p.Name()), log.Bool("paused", paused))
		writeJSON(w, p.Status())
	}
}
