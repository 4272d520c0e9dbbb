package service

import (
	"context"
	"time"

	"cloud.google.com/go/civil"

	"github.com/Kerhoff/giftmate/internal/birthdays"
	"github.com/Kerhoff/giftmate/internal/live"
	"github.com/Kerhoff/giftmate/internal/models"
)

// Today returns the current calendar date according to the service clock.
func (s *Service) Today() civil.Date {
	return birthdays.Today(s.now())
}

// UpcomingBirthdays ranks friends with a birthday by how soon it comes.
func (s *Service) UpcomingBirthdays(ctx context.Context) ([]birthdays.Entry, error) {
	friends, err := s.FriendsWithBirthdays(ctx)
	if err != nil {
		return nil, err
	}
	return birthdays.Rank(friends, s.Today()), nil
}

// BirthdaysOn returns the friends whose birthday falls on date's month and day.
func (s *Service) BirthdaysOn(ctx context.Context, date civil.Date) ([]*models.Friend, error) {
	friends, err := s.FriendsWithBirthdays(ctx)
	if err != nil {
		return nil, err
	}
	return birthdays.OnDate(friends, date), nil
}

// BirthdaysInMonth groups the friends with a birthday in month by day.
func (s *Service) BirthdaysInMonth(ctx context.Context, year int, month time.Month) (map[int][]*models.Friend, error) {
	friends, err := s.FriendsWithBirthdays(ctx)
	if err != nil {
		return nil, err
	}
	return birthdays.InMonth(friends, year, month), nil
}

// watch registers a live query on the serial context, so no mutation can
// commit between the first query and registration. It must not be called from
// an observer callback.
func watch[T any](s *Service, ctx context.Context, topics []live.Topic, query live.Query[T], onChange func([]T)) (*live.Subscription[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return live.Watch(ctx, s.hub, topics, query, onChange)
}

// WatchCategories keeps the full wishlist live. onChange runs on the serial
// context after every committed category or item mutation.
func (s *Service) WatchCategories(ctx context.Context, onChange func([]*models.Category)) (*live.Subscription[*models.Category], error) {
	return watch[*models.Category](s, ctx, wishlistTopics, s.Categories, onChange)
}

// WatchItems keeps the items of one category live.
func (s *Service) WatchItems(ctx context.Context, categoryID string, onChange func([]*models.Item)) (*live.Subscription[*models.Item], error) {
	query := func(ctx context.Context) ([]*models.Item, error) {
		return s.Items(ctx, categoryID)
	}
	return watch[*models.Item](s, ctx, itemTopics, query, onChange)
}

// WatchFriends keeps the friend list live.
func (s *Service) WatchFriends(ctx context.Context, onChange func([]*models.Friend)) (*live.Subscription[*models.Friend], error) {
	return watch[*models.Friend](s, ctx, friendTopics, s.Friends, onChange)
}

// WatchGiftIdeas keeps the gift ideas of one friend live.
func (s *Service) WatchGiftIdeas(ctx context.Context, friendID string, onChange func([]*models.GiftIdea)) (*live.Subscription[*models.GiftIdea], error) {
	query := func(ctx context.Context) ([]*models.GiftIdea, error) {
		return s.GiftIdeas(ctx, friendID)
	}
	return watch[*models.GiftIdea](s, ctx, ideaTopics, query, onChange)
}

// WatchBirthdays keeps the upcoming birthday ranking live. The ranking is
// recomputed against the clock on every friend mutation.
func (s *Service) WatchBirthdays(ctx context.Context, onChange func([]birthdays.Entry)) (*live.Subscription[birthdays.Entry], error) {
	return watch[birthdays.Entry](s, ctx, friendTopics, s.UpcomingBirthdays, onChange)
}
