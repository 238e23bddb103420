package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofrs/uuid"

	"github.com/limitedgamerz39-afk/friendflix/internal/events"
	"github.com/limitedgamerz39-afk/friendflix/internal/pkg/log"
	"github.com/limitedgamerz39-afk/friendflix/internal/types"
	msgerrors "github.com/limitedgamerz39-afk/friendflix/messages/errors"
	"github.com/limitedgamerz39-afk/friendflix/messages/models"
	"github.com/limitedgamerz39-afk/friendflix/messages/repository"
	profilemodels "github.com/limitedgamerz39-afk/friendflix/profile/models"
	"github.com/limitedgamerz39-afk/friendflix/realtime"
)

const NotificationMessage = "message"

// deleteAttempts bounds retries when a concurrent delete changes deletedFor.
const deleteAttempts = 3

// Service defines direct message operations.
type Service interface {
	Send(ctx context.Context, sender types.UserContext, req *models.SendMessageRequest) (*models.MessageView, error)

	// History returns the thread with otherID oldest first and marks incoming messages read.
	History(ctx context.Context, userID, otherID string) ([]*models.MessageView, error)

	Conversations(ctx context.Context, userID string) ([]*models.Conversation, error)
	Delete(ctx context.Context, userID, messageID string, scope models.DeleteScope) error
}

// Profiles checks receivers and resolves summaries. Satisfied by the profile service.
type Profiles interface {
	Exists(ctx context.Context, userID string) (bool, error)
	GetSummaries(ctx context.Context, userIDs []string) (map[string]profilemodels.Summary, error)
}

type Notifier interface {
	Notify(ctx context.Context, recipientID, senderID, kind, relatedID, message string) error
}

type Dependencies struct {
	Repo     repository.Repository
	Profiles Profiles
	Notifier Notifier
	Emitter  realtime.Emitter
	Events   events.Publisher
}

type service struct {
	repo     repository.Repository
	profiles Profiles
	notifier Notifier
	emitter  realtime.Emitter
	events   events.Publisher
	now      func() time.Time
}

func NewService(deps Dependencies) Service {
	s := &service{
		repo:     deps.Repo,
		profiles: deps.Profiles,
		notifier: deps.Notifier,
		emitter:  deps.Emitter,
		events:   deps.Events,
		now:      func() time.Time { return time.Now().UTC() },
	}
	if s.emitter == nil {
		s.emitter = realtime.NopEmitter{}
	}
	return s
}

func validateSend(senderID string, req *models.SendMessageRequest) error {
	req.Content = strings.TrimSpace(req.Content)
	req.MediaID = strings.TrimSpace(req.MediaID)
	if req.ReceiverID == "" {
		return msgerrors.Validationf("receiverId is required")
	}
	if _, err := uuid.FromString(req.ReceiverID); err != nil {
		return msgerrors.Validationf("receiverId must be a valid id")
	}
	if req.ReceiverID == senderID {
		return msgerrors.Validationf("You cannot message yourself")
	}
	if req.Content == "" && req.MediaID == "" {
		return msgerrors.Validationf("Message content is required")
	}
	if utf8.RuneCountInString(req.Content) > models.MaxContentLength {
		return msgerrors.Validationf("Message must be %d characters or less", models.MaxContentLength)
	}
	if req.MessageType == "" {
		req.MessageType = models.TypeText
	}
	if !req.MessageType.Valid() {
		return msgerrors.Validationf("messageType must be one of text, image, voice")
	}
	return nil
}

func (s *service) Send(ctx context.Context, sender types.UserContext, req *models.SendMessageRequest) (*models.MessageView, error) {
	senderID := sender.UserID.String()
	if err := validateSend(senderID, req); err != nil {
		return nil, err
	}

	exists, err := s.profiles.Exists(ctx, req.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("%w: check receiver: %v", msgerrors.ErrDatabaseOperation, err)
	}
	if !exists {
		return nil, msgerrors.ErrReceiverNotFound
	}

	m := &models.Message{
		ID:          uuid.Must(uuid.NewV4()).String(),
		SenderID:    senderID,
		ReceiverID:  req.ReceiverID,
		Content:     req.Content,
		MediaID:     req.MediaID,
		MessageType: req.MessageType,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	views, err := s.views(ctx, []*models.Message{m})
	if err != nil {
		return nil, err
	}
	view := views[0]

	s.emitter.EmitToUser(m.ReceiverID, realtime.EventNewMessage, view)
	events.Emit(s.events, events.NewEvent(events.MessageSent, m.ReceiverID, map[string]interface{}{
		"messageId": m.ID,
		"sender":    senderID,
		"receiver":  m.ReceiverID,
	}))
	if s.notifier != nil {
		msg := fmt.Sprintf("%s sent you a message", sender.Name())
		if err := s.notifier.Notify(ctx, m.ReceiverID, senderID, NotificationMessage, m.ID, msg); err != nil {
			log.ErrorWithContext(ctx, "notify %s of message %s: %v", m.ReceiverID, m.ID, err)
		}
	}
	return view, nil
}

func (s *service) History(ctx context.Context, userID, otherID string) ([]*models.MessageView, error) {
	msgs, err := s.repo.History(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.MarkRead(ctx, userID, otherID); err != nil {
		log.WarnWithContext(ctx, "mark messages from %s read: %v", otherID, err)
	}
	return s.views(ctx, msgs)
}

func (s *service) Conversations(ctx context.Context, userID string) ([]*models.Conversation, error) {
	rows, err := s.repo.Conversations(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.CounterpartID)
	}
	summaries, err := s.summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*models.Conversation, 0, len(rows))
	for _, row := range rows {
		user, ok := summaries[row.CounterpartID]
		if !ok {
			user = profilemodels.Summary{ID: row.CounterpartID}
		}
		out = append(out, &models.Conversation{User: user, LastMessage: row.LastMessage, UnreadCount: row.UnreadCount})
	}
	return out, nil
}

// Delete hides a message. For "me" the second party to delete removes the document;
// "everyone" is reserved to the sender.
func (s *service) Delete(ctx context.Context, userID, messageID string, scope models.DeleteScope) error {
	if scope == "" {
		scope = models.DeleteForMe
	}
	if scope != models.DeleteForMe && scope != models.DeleteForEveryone {
		return msgerrors.Validationf("scope must be me or everyone")
	}

	for attempt := 0; attempt < deleteAttempts; attempt++ {
		m, err := s.repo.FindByID(ctx, messageID)
		if err != nil {
			return err
		}
		if !m.VisibleTo(userID) {
			return msgerrors.ErrMessageNotFound
		}
		role, _ := m.Role(userID)

		if scope == models.DeleteForEveryone {
			if role != models.DeletedForSender {
				return msgerrors.ErrNotSender
			}
			ok, err := s.repo.SetDeletedFor(ctx, m.ID, m.DeletedFor, models.DeletedForBoth)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			s.emitter.EmitToUser(m.ReceiverID, realtime.EventMessageDeleted, map[string]interface{}{"messageId": m.ID})
			return nil
		}

		if m.DeletedFor != models.DeletedForNone {
			// the other party already hid it
			return s.repo.Delete(ctx, m.ID)
		}
		ok, err := s.repo.SetDeletedFor(ctx, m.ID, models.DeletedForNone, role)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return fmt.Errorf("%w: message %s changed concurrently", msgerrors.ErrDatabaseOperation, messageID)
}

func (s *service) summaries(ctx context.Context, ids []string) (map[string]profilemodels.Summary, error) {
	if s.profiles == nil || len(ids) == 0 {
		return map[string]profilemodels.Summary{}, nil
	}
	return s.profiles.GetSummaries(ctx, ids)
}

func (s *service) views(ctx context.Context, msgs []*models.Message) ([]*models.MessageView, error) {
	seen := map[string]bool{}
	ids := []string{}
	for _, m := range msgs {
		for _, id := range []string{m.SenderID, m.ReceiverID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	summaries, err := s.summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*models.MessageView, 0, len(msgs))
	for _, m := range msgs {
		view := &models.MessageView{Message: *m}
		if u, ok := summaries[m.SenderID]; ok {
			u := u
			view.SenderUser = &u
		}
		if u, ok := summaries[m.ReceiverID]; ok {
			u := u
			view.ReceiverUser = &u
		}
		out = append(out, view)
	}
	return out, nil
}
