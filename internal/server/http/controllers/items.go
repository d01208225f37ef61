package controllers

import (
	"errors"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/rzbill/tracker/internal/config"
	"github.com/rzbill/tracker/internal/project"
	"github.com/rzbill/tracker/internal/stats"
	"github.com/rzbill/tracker/internal/workqueue"
	"github.com/rzbill/tracker/pkg/log"
)

// Wire strings understood by existing workers.
const (
	wireSuccess          = "Success"
	wireNoItemsLeft      = "NoItemsLeft"
	wireProjectNotActive = "ProjectNotActive"
	wireIPDoesNotMatch   = "IpDoesNotMatch"
	wireInvalidID        = "InvalidID"
	wireInvalidProject   = "InvalidProject"
	wireTooManyRequests  = "TooManyRequests"
	wireInternalError    = "InternalError"

	noUserData = "No data for user"
)

// ItemsController serves the worker API under /{project}/.
type ItemsController struct {
	projects *project.Registry
	limiters map[string]*rate.Limiter
	logger   log.Logger
}

// NewItemsController builds the controller. A positive claim rate gives every
// project its own token bucket.
func NewItemsController(reg *project.Registry, cfg config.Config, logger log.Logger) *ItemsController {
	c := &ItemsController{
		projects: reg,
		limiters: make(map[string]*rate.Limiter),
		logger:   logger.WithComponent("http.items"),
	}
	if cfg.ClaimRatePerSecond > 0 {
		burst := cfg.ClaimBurst
		if burst < 1 {
			burst = 1
		}
		for _, name := range reg.Names() {
			c.limiters[name] = rate.NewLimiter(rate.Limit(cfg.ClaimRatePerSecond), burst)
		}
	}
	return c
}

// RegisterRoutes registers the worker routes with the given mux.
func (c *ItemsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{project}/item/get", c.handleGet)
	mux.HandleFunc("GET /{project}/item/heartbeat", c.handleHeartbeat)
	mux.HandleFunc("GET /{project}/item/done", c.handleDone)
	mux.HandleFunc("GET /{project}/api/leaderboard", c.handleLeaderboard)
	mux.HandleFunc("GET /{project}/api/user_stats", c.handleUserStats)
}

// itemStatus maps an operation outcome to its HTTP status and wire string.
func itemStatus(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, wireSuccess
	case errors.Is(err, project.ErrProjectNotFound):
		return http.StatusNotFound, wireInvalidProject
	case errors.Is(err, project.ErrProjectInactive):
		return http.StatusServiceUnavailable, wireProjectNotActive
	case errors.Is(err, workqueue.ErrQueueEmpty):
		return http.StatusNotFound, wireNoItemsLeft
	case errors.Is(err, workqueue.ErrIdentityMismatch):
		return http.StatusForbidden, wireIPDoesNotMatch
	case errors.Is(err, workqueue.ErrUnknownLease):
		return http.StatusForbidden, wireInvalidID
	default:
		return http.StatusInternalServerError, wireInternalError
	}
}

func (c *ItemsController) project(w http.ResponseWriter, r *http.Request) (*project.Project, bool) {
	p, err := c.projects.Get(r.PathValue("project"))
	if err != nil {
		status, body := itemStatus(err)
		writeText(w, status, body)
		return nil, false
	}
	return p, true
}

func (c *ItemsController) fail(w http.ResponseWriter, err error) {
	status, body := itemStatus(err)
	if status == http.StatusInternalServerError {
		c.logger.Error("worker request failed", log.Err(err))
	}
	writeText(w, status, body)
}

// handleGet claims the next item for ?username.
func (c *ItemsController) handleGet(w http.ResponseWriter, r *http.Request) {
	p, ok := c.project(w, r)
	if !ok {
		return
	}
	username, err := requiredArg(r, "username")
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	if l := c.limiters[p.Name()]; l != nil && !l.Allow() {
		writeText(w, http.StatusTooManyRequests, wireTooManyRequests)
		return
	}
	it, err := p.Claim(r.Context(), workqueue.Identity{Username: username, Address: remoteHost(r)})
	if err != nil {
		c.fail(w, err)
		return
	}
	writeJSON(w, it)
}

// handleHeartbeat records liveness for ?id.
func (c *ItemsController) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	p, ok := c.project(w, r)
	if !ok {
		return
	}
	id, err := uintArg(r, "id")
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := p.Heartbeat(r.Context(), id, remoteHost(r)); err != nil {
		c.fail(w, err)
		return
	}
	writeText(w, http.StatusOK, wireSuccess)
}

// handleDone completes ?id with ?size bytes.
func (c *ItemsController) handleDone(w http.ResponseWriter, r *http.Request) {
	p, ok := c.project(w, r)
	if !ok {
		return
	}
	id, err := uintArg(r, "id")
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	size, err := uintArg(r, "size")
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := p.Complete(r.Context(), id, size, remoteHost(r)); err != nil {
		c.fail(w, err)
		return
	}
	writeText(w, http.StatusOK, wireSuccess)
}

// handleLeaderboard returns {"user": {"items": n, "data": n}}.
func (c *ItemsController) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	p, ok := c.project(w, r)
	if !ok {
		return
	}
	writeJSON(w, p.Leaderboard())
}

// handleUserStats returns {"username", "count", "bytes"} for ?username.
func (c *ItemsController) handleUserStats(w http.ResponseWriter, r *http.Request) {
	p, ok := c.project(w, r)
	if !ok {
		return
	}
	username, err := requiredArg(r, "username")
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	entry, err := p.UserStats(username)
	if errors.Is(err, stats.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, noUserData)
		return
	}
	if err != nil {
		c.fail(w, err)
		return
	}
	writeJSON(w, entry)
}
