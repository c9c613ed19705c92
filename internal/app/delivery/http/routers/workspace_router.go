package routers

import (
	"patient-directory-service/internal/app/delivery/http/controllers"
	"patient-directory-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachWorkspaceRoutes(router chi.Router, middlewares *middlewares.Middlewares, workspaceController *controllers.WorkspaceController) {
	router.Get("/view", workspaceController.View)
	router.Put("/filters", workspaceController.SetFilters)
	router.Get("/form", workspaceController.FormState)

	router.Group(func(r chi.Router) {
		r.Use(middlewares.RequireSession)
		r.Post("/form/open", workspaceController.OpenForm)
		r.Patch("/form", workspaceController.EditForm)
		r.Post("/form/submit", workspaceController.Submit)
		r.Post("/form/close", workspaceController.CloseForm)
		r.Post("/patients/{patient_id}/deactivate", workspaceController.Deactivate)
		r.Post("/patients/{patient_id}/reactivate", workspaceController.Reactivate)
		r.Delete("/patients/{patient_id}", workspaceController.Delete)
		r.Delete("/", workspaceController.SignOut)
	})
}
