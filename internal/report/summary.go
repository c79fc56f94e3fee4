package report

import "visit-report-service/internal/models"

// Summary holds the trailing counts appended to every rendering.
type Summary struct {
	Total      int
	Booked     int
	NotBooked  int
	Interested int
}

// Summarize counts rows per status of interest.
func Summarize(rows []models.VisitRecord) Summary {
	s := Summary{Total: len(rows)}
	for _, r := range rows {
		switch r.Status {
		case models.StatusBooked:
			s.Booked++
		case models.StatusNotBooked:
			s.NotBooked++
		case models.StatusInterested:
			s.Interested++
		}
	}
	return s
}
