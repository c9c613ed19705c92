package routers

import (
	"patient-directory-service/internal/app/delivery/http/controllers"
	"patient-directory-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

// Search stays open to anonymous callers, who get the read-only empty list.
func attachPatientRoutes(router chi.Router, middlewares *middlewares.Middlewares, patientController *controllers.PatientController) {
	router.Get("/", patientController.Search)

	router.Group(func(r chi.Router) {
		r.Use(middlewares.RequireSession)
		r.Get("/export", patientController.Export)
		r.Post("/", patientController.Create)
		r.Get("/{patient_id}", patientController.Get)
		r.Put("/{patient_id}", patientController.Update)
		r.Delete("/{patient_id}", patientController.Delete)
		r.Get("/{patient_id}/appointments", patientController.History)
		r.Post("/{patient_id}/deactivate", patientController.Deactivate)
		r.Post("/{patient_id}/reactivate", patientController.Reactivate)
		r.Post("/{patient_id}/photo", patientController.UploadPhoto)
	})
}
