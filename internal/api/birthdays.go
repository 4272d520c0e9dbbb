package api

import (
	"net/http"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
)

type monthResponse struct {
	Year  int                     `json:"year"`
	Month time.Month              `json:"month"`
	Days  map[int][]*friendRecord `json:"days"`
}

type friendRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// handleGetBirthdays serves three views: the ranked upcoming list by default,
// the friends born on ?date=YYYY-MM-DD, or ?year=&month= grouped by day.
func (s *Server) handleGetBirthdays(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if raw := q.Get("date"); raw != "" {
		date, err := civil.ParseDate(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}

		friends, err := s.svc.BirthdaysOn(r.Context(), date)
		if err != nil {
			s.logger.WithError(err).Error("failed to get birthdays")
			s.respondError(w, http.StatusInternalServerError, "failed to get birthdays")
			return
		}
		s.respondJSON(w, http.StatusOK, friends)
		return
	}

	if q.Has("year") || q.Has("month") {
		year, yerr := strconv.Atoi(q.Get("year"))
		month, merr := strconv.Atoi(q.Get("month"))
		if yerr != nil || merr != nil || month < 1 || month > 12 {
			s.respondError(w, http.StatusBadRequest, "year and month must be integers, month 1-12")
			return
		}

		days, err := s.svc.BirthdaysInMonth(r.Context(), year, time.Month(month))
		if err != nil {
			s.logger.WithError(err).Error("failed to get birthdays")
			s.respondError(w, http.StatusInternalServerError, "failed to get birthdays")
			return
		}

		resp := monthResponse{Year: year, Month: time.Month(month), Days: make(map[int][]*friendRecord, len(days))}
		for day, friends := range days {
			for _, f := range friends {
				resp.Days[day] = append(resp.Days[day], &friendRecord{ID: f.ID, Name: f.Name})
			}
		}
		s.respondJSON(w, http.StatusOK, resp)
		return
	}

	entries, err := s.svc.UpcomingBirthdays(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to get birthdays")
		s.respondError(w, http.StatusInternalServerError, "failed to get birthdays")
		return
	}

	s.respondJSON(w, http.StatusOK, entries)
}
