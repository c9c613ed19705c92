package patients

import (
	"patient-directory-service/internal/app/models"
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/dto/requests"
	"sort"
	"strings"
)

// ApplyFilters narrows records by lifecycle, then doctor, then term. It
// keeps input order and never modifies records.
func ApplyFilters(records []models.Patient, filters requests.DirectoryFilters) []models.Patient {
	term := strings.ToLower(strings.TrimSpace(filters.Term))
	doctor := strings.TrimSpace(filters.Doctor)
	filterDoctor := doctor != "" && !strings.EqualFold(doctor, constvars.DoctorFilterAll)

	result := make([]models.Patient, 0, len(records))
	for _, record := range records {
		// showInactive selects the inactive view only; there is no "all" view
		if record.IsActive() == filters.ShowInactive {
			continue
		}
		if filterDoctor && !strings.EqualFold(strings.TrimSpace(record.Doctor), doctor) {
			continue
		}
		if term != "" && !strings.Contains(searchableText(record), term) {
			continue
		}
		result = append(result, record)
	}
	return result
}

func searchableText(record models.Patient) string {
	return strings.ToLower(record.DisplayName() + " " + record.DocumentNumber + " " + record.Phone)
}

// SortForDisplay orders by case-folded full name, then id.
func SortForDisplay(records []models.Patient) []models.Patient {
	sorted := make([]models.Patient, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		left, right := strings.ToLower(sorted[i].DisplayName()), strings.ToLower(sorted[j].DisplayName())
		if left != right {
			return left < right
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// Doctors lists the distinct doctor names of records, for the filter
// control. Names differing only in case are reported once.
func Doctors(records []models.Patient) []string {
	seen := make(map[string]bool)
	var doctors []string
	for _, record := range records {
		name := strings.TrimSpace(record.Doctor)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		doctors = append(doctors, name)
	}
	sort.Strings(doctors)
	return doctors
}
