// Package birthdays ranks friends by their next birthday and answers the
// calendar questions the birthday views ask.
package birthdays

import (
	"sort"
	"time"

	"cloud.google.com/go/civil"

	"github.com/Kerhoff/giftmate/internal/models"
)

// Entry is a friend with the date of their next birthday.
type Entry struct {
	Friend    *models.Friend `json:"friend"`
	Next      civil.Date     `json:"next"`
	DaysUntil int            `json:"days_until"`
}

// Today returns the calendar date of now in now's location.
func Today(now time.Time) civil.Date {
	return civil.DateOf(now)
}

// occurrence builds month/day of birthday in year. Invalid dates such as
// Feb 29 in a common year roll over the way time.Date normalizes them.
func occurrence(birthday civil.Date, year int) civil.Date {
	return civil.DateOf(time.Date(year, birthday.Month, birthday.Day, 0, 0, 0, 0, time.UTC))
}

// NextOccurrence returns the first date on or after today that shares the
// birthday's month and day.
func NextOccurrence(birthday, today civil.Date) civil.Date {
	next := occurrence(birthday, today.Year)
	if next.Before(today) {
		next = occurrence(birthday, today.Year+1)
	}
	return next
}

// DaysUntil returns the number of days from today to the next occurrence of
// birthday. It is zero on the birthday itself and never negative.
func DaysUntil(birthday, today civil.Date) int {
	return NextOccurrence(birthday, today).DaysSince(today)
}

// Rank orders friends with a birthday by their next occurrence. Friends
// without a birthday are skipped; ties keep the input order.
func Rank(friends []*models.Friend, today civil.Date) []Entry {
	entries := make([]Entry, 0, len(friends))
	for _, f := range friends {
		if f.Birthday == nil {
			continue
		}
		next := NextOccurrence(*f.Birthday, today)
		entries = append(entries, Entry{
			Friend:    f,
			Next:      next,
			DaysUntil: next.DaysSince(today),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Next.Before(entries[j].Next)
	})
	return entries
}

// OnDate returns the friends whose birthday falls on the month and day of date.
func OnDate(friends []*models.Friend, date civil.Date) []*models.Friend {
	var out []*models.Friend
	for _, f := range friends {
		if f.Birthday == nil {
			continue
		}
		if f.Birthday.Month == date.Month && f.Birthday.Day == date.Day {
			out = append(out, f)
		}
	}
	return out
}

// InMonth groups the friends celebrating in the given month by day of month,
// as seen in that year.
func InMonth(friends []*models.Friend, year int, month time.Month) map[int][]*models.Friend {
	out := make(map[int][]*models.Friend)
	for _, f := range friends {
		if f.Birthday == nil {
			continue
		}
		d := occurrence(*f.Birthday, year)
		if d.Month != month {
			continue
		}
		out[d.Day] = append(out[d.Day], f)
	}
	return out
}
