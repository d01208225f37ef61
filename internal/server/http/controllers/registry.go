package controllers

import (
	"net/http"

	"github.com/rzbill/tracker/internal/project"
	"github.com/rzbill/tracker/internal/runtime"
	"github.com/rzbill/tracker/pkg/log"
)

// ControllerRegistry manages all HTTP controllers.
//
// It provides a centralized way to register all controller routes.
type ControllerRegistry struct {
	general *GeneralController
	items   *ItemsController
	admin   *AdminController
}

// NewControllerRegistry creates a new controller registry.
func NewControllerRegistry(rt *runtime.Runtime, projects *project.Registry, logger log.Logger) *ControllerRegistry {
	return &ControllerRegistry{
		general: NewGeneralController(rt, projects),
		items:   NewItemsController(projects, rt.Config(), logger),
		admin:   NewAdminController(projects, rt.Config().AdminToken, logger),
	}
}

// RegisterAllRoutes registers all controller routes with the given mux.
//
// The worker API lives under /{project}/ with the paths existing workers
// already call; operational endpoints live under /v1/ and /metrics.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.items.RegisterRoutes(mux)
	r.admin.RegisterRoutes(mux)
}
