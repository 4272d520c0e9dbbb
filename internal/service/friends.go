package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/giftmate/internal/live"
	"github.com/Kerhoff/giftmate/internal/models"
	"github.com/Kerhoff/giftmate/internal/repository"
)

var (
	friendTopics   = []live.Topic{live.TopicFriends}
	ideaTopics     = []live.Topic{live.TopicGiftIdeas}
	friendAndIdeas = []live.Topic{live.TopicFriends, live.TopicGiftIdeas}
)

// AddFriend stores a new friend.
func (s *Service) AddFriend(ctx context.Context, fields models.FriendFields) (*models.Friend, error) {
	fields, err := fields.Normalize()
	if err != nil {
		return nil, err
	}

	friend := &models.Friend{ID: s.newID()}
	friend.Apply(fields)
	err = s.mutation(ctx, "friend", "create", friendTopics, func(ctx context.Context, tx repository.Tx) (bool, error) {
		_, err := tx.Friends().Create(ctx, friend)
		return err == nil, err
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"friend_id": friend.ID,
		"name":      friend.Name,
	}).Info("Added friend")
	return friend, nil
}

// UpdateFriend replaces every field of a friend. A missing friend is ignored.
func (s *Service) UpdateFriend(ctx context.Context, id string, fields models.FriendFields) error {
	fields, err := fields.Normalize()
	if err != nil {
		return err
	}

	return s.mutation(ctx, "friend", "update", friendTopics, func(ctx context.Context, tx repository.Tx) (bool, error) {
		friend, err := tx.Friends().GetByID(ctx, id)
		if err != nil || friend == nil {
			return false, err
		}
		friend.Apply(fields)
		return true, tx.Friends().Update(ctx, friend)
	})
}

// DeleteFriend removes a friend together with all of their gift ideas. A
// missing friend is ignored.
func (s *Service) DeleteFriend(ctx context.Context, id string) error {
	return s.mutation(ctx, "friend", "delete", friendAndIdeas, func(ctx context.Context, tx repository.Tx) (bool, error) {
		friend, err := tx.Friends().GetByID(ctx, id)
		if err != nil || friend == nil {
			return false, err
		}
		if err := tx.GiftIdeas().DeleteByFriend(ctx, id); err != nil {
			return false, err
		}
		return true, tx.Friends().Delete(ctx, id)
	})
}

// Friends returns every friend sorted by name.
func (s *Service) Friends(ctx context.Context) ([]*models.Friend, error) {
	return s.listFriends(ctx, repository.FriendFilters{})
}

// FriendsWithBirthdays returns the friends whose birthday is known.
func (s *Service) FriendsWithBirthdays(ctx context.Context) ([]*models.Friend, error) {
	return s.listFriends(ctx, repository.FriendFilters{WithBirthdayOnly: true})
}

func (s *Service) listFriends(ctx context.Context, filters repository.FriendFilters) ([]*models.Friend, error) {
	friends, err := s.store.Friends().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	if friends == nil {
		friends = []*models.Friend{}
	}
	return friends, nil
}

// Friend returns one friend with their gift ideas, or nil when the friend
// does not exist.
func (s *Service) Friend(ctx context.Context, id string) (*models.Friend, error) {
	friend, err := s.store.Friends().GetByID(ctx, id)
	if err != nil || friend == nil {
		return nil, err
	}
	if friend.GiftIdeas, err = s.GiftIdeas(ctx, id); err != nil {
		return nil, err
	}
	return friend, nil
}

// GiftIdeas returns a friend's gift ideas in position order.
func (s *Service) GiftIdeas(ctx context.Context, friendID string) ([]*models.GiftIdea, error) {
	ideas, err := s.store.GiftIdeas().ListByFriend(ctx, friendID)
	if err != nil {
		return nil, fmt.Errorf("failed to list gift ideas: %w", err)
	}
	if ideas == nil {
		ideas = []*models.GiftIdea{}
	}
	return ideas, nil
}

// GiftIdeaFriend returns the friend owning a gift idea, or nil when the idea
// does not exist.
func (s *Service) GiftIdeaFriend(ctx context.Context, ideaID string) (*models.Friend, error) {
	idea, err := s.store.GiftIdeas().GetByID(ctx, ideaID)
	if err != nil || idea == nil {
		return nil, err
	}
	return s.store.Friends().GetByID(ctx, idea.FriendID)
}

// AddGiftIdea appends a gift idea to a friend. It returns nil without error
// when the friend does not exist.
func (s *Service) AddGiftIdea(ctx context.Context, friendID string, fields models.GiftIdeaFields) (*models.GiftIdea, error) {
	fields, err := fields.Normalize()
	if err != nil {
		return nil, err
	}

	var idea *models.GiftIdea
	err = s.mutation(ctx, "gift_idea", "create", ideaTopics, func(ctx context.Context, tx repository.Tx) (bool, error) {
		friend, err := tx.Friends().GetByID(ctx, friendID)
		if err != nil || friend == nil {
			return false, err
		}
		idea = &models.GiftIdea{ID: s.newID(), FriendID: friend.ID}
		idea.Apply(fields)
		_, err = tx.GiftIdeas().Create(ctx, idea)
		return err == nil, err
	})
	if err != nil {
		return nil, err
	}
	return idea, nil
}

// UpdateGiftIdea replaces every field of a gift idea, tags included. A
// missing idea is ignored.
func (s *Service) UpdateGiftIdea(ctx context.Context, id string, fields models.GiftIdeaFields) error {
	fields, err := fields.Normalize()
	if err != nil {
		return err
	}

	return s.mutation(ctx, "gift_idea", "update", ideaTopics, func(ctx context.Context, tx repository.Tx) (bool, error) {
		idea, err := tx.GiftIdeas().GetByID(ctx, id)
		if err != nil || idea == nil {
			return false, err
		}
		idea.Apply(fields)
		return true, tx.GiftIdeas().Update(ctx, idea)
	})
}

// DeleteGiftIdea removes a gift idea. A missing idea is ignored.
func (s *Service) DeleteGiftIdea(ctx context.Context, id string) error {
	return s.mutation(ctx, "gift_idea", "delete", ideaTopics, func(ctx context.Context, tx repository.Tx) (bool, error) {
		idea, err := tx.GiftIdeas().GetByID(ctx, id)
		if err != nil || idea == nil {
			return false, err
		}
		return true, tx.GiftIdeas().Delete(ctx, id)
	})
}
