package controllers

import (
	"net/http"

	"github.com/rzbill/tracker/internal/project"
	"github.com/rzbill/tracker/internal/runtime"
)

// GeneralController handles health, metrics and project listing.
type GeneralController struct {
	rt       *runtime.Runtime
	projects *project.Registry
}

// NewGeneralController creates a new general controller.
func NewGeneralController(rt *runtime.Runtime, projects *project.Registry) *GeneralController {
	return &GeneralController{rt: rt, projects: projects}
}

// RegisterRoutes registers general routes with the given mux.
//
// This method sets up HTTP endpoints for:
// - Health checks (/v1/healthz)
// - Prometheus metrics (/metrics)
// - Project status (/v1/projects, /v1/projects/{project})
func (c *GeneralController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/healthz", c.handleHealth)
	if m := c.rt.Metrics(); m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}
	mux.HandleFunc("GET /v1/projects", c.handleListProjects)
	mux.HandleFunc("GET /v1/projects/{project}", c.handleProjectStatus)
	mux.HandleFunc("GET /v1/projects/{project}/leaderboard", c.handleRanking)
}

// handleHealth returns the health status of the service.
//
// Returns 200 OK with {"status": "ok"} if healthy, 503 Service Unavailable otherwise.
func (c *GeneralController) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := c.rt.CheckHealth(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_serving")
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (c *GeneralController) handleListProjects(w http.ResponseWriter, r *http.Request) {
	names := c.projects.Names()
	out := make([]project.Status, 0, len(names))
	for _, name := range names {
		p, err := c.projects.Get(name)
		if err != nil {
			continue
		}
		out = append(out, p.Status())
	}
	writeJSON(w, map[string]any{"projects": out})
}

func (c *GeneralController) handleProjectStatus(w http.ResponseWriter, r *http.Request) {
	p, err := c.projects.Get(r.PathValue("project"))
	if err != nil {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	writeJSON(w, p.Status())
}

// handleRanking returns leaderboard entries ordered by items then bytes.
// ?limit caps the number of rows.
func (c *GeneralController) handleRanking(w http.ResponseWriter, r *http.Request) {
	p, err := c.projects.Get(r.PathValue("project"))
	if err != nil {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	writeJSON(w, map[string]any{"entries": p.Ranking(parseLimit(r.URL.Query().Get("limit")))})
}
