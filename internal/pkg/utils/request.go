package utils

import (
	"net/http"
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/dto/requests"
	"strconv"
)

func BuildDirectoryFiltersRequest(r *http.Request) requests.DirectoryFilters {
	query := r.URL.Query()
	filters := requests.DirectoryFilters{
		Term:         query.Get(constvars.URLQueryParamTerm),
		Doctor:       query.Get(constvars.URLQueryParamDoctor),
		ShowInactive: parseQueryBool(query.Get(constvars.URLQueryParamShowInactive)),
	}
	SanitizeDirectoryFilters(&filters)
	return filters
}

func IsConfirmed(r *http.Request) bool {
	return parseQueryBool(r.URL.Query().Get(constvars.URLQueryParamConfirm))
}

func parseQueryBool(value string) bool {
	parsed, err := strconv.ParseBool(value)
	return err == nil && parsed
}
