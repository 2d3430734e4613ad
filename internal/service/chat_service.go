package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"foresttrack/internal/ids"
	"foresttrack/internal/models"
	"foresttrack/internal/repository"
)

type ChatService struct {
	mu         sync.Mutex
	groups     *repository.ChatGroupRepository
	messages   *repository.ChatMessageRepository
	accounts   *AccountService
	clock      *ids.Clock
	strictRefs bool
	log        zerolog.Logger
}

func NewChatService(
	groups *repository.ChatGroupRepository,
	messages *repository.ChatMessageRepository,
	accounts *AccountService,
	clock *ids.Clock,
	strictRefs bool,
	log zerolog.Logger,
) *ChatService {
	return &ChatService{
		groups:     groups,
		messages:   messages,
		accounts:   accounts,
		clock:      clock,
		strictRefs: strictRefs,
		log:        log,
	}
}

// ListGroups returns groups whose name contains search, ignoring case. An
// empty search returns every group.
func (s *ChatService) ListGroups(ctx context.Context, search string) ([]models.ChatGroup, error) {
	groups, err := s.groups.Load(ctx)
	if err != nil {
		return nil, err
	}
	if search == "" {
		return groups, nil
	}
	needle := strings.ToLower(search)
	filtered := make([]models.ChatGroup, 0, len(groups))
	for _, g := range groups {
		if strings.Contains(strings.ToLower(g.Name), needle) {
			filtered = append(filtered, g)
		}
	}
	return filtered, nil
}

// CreateGroup appends a group with one member. A blank name is ignored and
// reported with ok=false.
func (s *ChatService) CreateGroup(ctx context.Context, name string) (group models.ChatGroup, ok bool, err error) {
	if strings.TrimSpace(name) == "" {
		return models.ChatGroup{}, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.groups.Load(ctx)
	if err != nil {
		return models.ChatGroup{}, false, err
	}

	id, _ := s.clock.Next()
	group = models.ChatGroup{ID: id, Name: name, Members: 1}
	if err := s.groups.Save(ctx, append(groups, group)); err != nil {
		return models.ChatGroup{}, false, err
	}

	s.log.Info().Str("group_id", group.ID).Msg("chat group created")
	return group, true, nil
}

// SendMessage posts text to groupID as the session user and makes it the
// group's last message. A blank text is ignored and reported with ok=false.
func (s *ChatService) SendMessage(ctx context.Context, groupID, text string) (msg models.ChatMessage, ok bool, err error) {
	if strings.TrimSpace(text) == "" {
		return models.ChatMessage{}, false, nil
	}

	user, err := s.accounts.Current(ctx)
	if err != nil {
		return models.ChatMessage{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.groups.Load(ctx)
	if err != nil {
		return models.ChatMessage{}, false, err
	}
	found := false
	for i := range groups {
		if groups[i].ID == groupID {
			groups[i].LastMessage = text
			found = true
		}
	}
	if !found && s.strictRefs {
		return models.ChatMessage{}, false, fmt.Errorf("group %q: %w", groupID, ErrReference)
	}

	messages, err := s.messages.Load(ctx)
	if err != nil {
		return models.ChatMessage{}, false, err
	}

	id, now := s.clock.Next()
	msg = models.ChatMessage{
		ID:        id,
		UserID:    user.ID,
		UserName:  user.Name,
		Text:      text,
		Timestamp: now.UTC(),
		GroupID:   groupID,
	}

	if err := s.messages.Save(ctx, append(messages, msg)); err != nil {
		return models.ChatMessage{}, false, err
	}
	if err := s.groups.Save(ctx, groups); err != nil {
		return models.ChatMessage{}, false, err
	}

	s.log.Debug().Str("group_id", groupID).Str("message_id", msg.ID).Msg("chat message sent")
	return msg, true, nil
}

// Messages returns the messages of one group in stored order.
func (s *ChatService) Messages(ctx context.Context, groupID string) ([]models.ChatMessage, error) {
	messages, err := s.messages.Load(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]models.ChatMessage, 0, len(messages))
	for _, m := range messages {
		if m.GroupID == groupID {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}
