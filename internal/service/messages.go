package service

import (
	"context"
	"strings"
	"time"

	"github.com/atinyakov/baristafolio/internal/metrics"
	"github.com/atinyakov/baristafolio/internal/models"
	"github.com/atinyakov/baristafolio/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MessageRepository is the persistence of contact messages.
type MessageRepository interface {
	List(ctx context.Context, filter models.MessageFilter) ([]models.Message, error)
	GetByID(ctx context.Context, id string) (*models.Message, error)
	Create(ctx context.Context, msg *models.Message) error
	Update(ctx context.Context, msg *models.Message) error
	Delete(ctx context.Context, id string) error
}

// ReplyNotifier delivers a reply to the author of a message.
type ReplyNotifier interface {
	SendReply(ctx context.Context, email models.ReplyEmail) error
}

// MessageService runs the contact message lifecycle: new, read, replied.
type MessageService struct {
	repo     MessageRepository
	notifier ReplyNotifier
	log      *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewMessageService constructs a MessageService.
func NewMessageService(repo MessageRepository, notifier ReplyNotifier, log *zap.Logger) *MessageService {
	return &MessageService{
		repo:     repo,
		notifier: notifier,
		log:      log,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Submit stores a public contact form submission with status new.
func (s *MessageService) Submit(ctx context.Context, sub models.MessageSubmission) (*models.Message, error) {
	name := strings.TrimSpace(sub.Name)
	email := strings.ToLower(strings.TrimSpace(sub.Email))
	body := strings.TrimSpace(sub.Message)
	if name == "" || email == "" || body == "" {
		return nil, validation.New("message", "Name, email, and message are required")
	}

	now := s.now().UTC()
	msg := &models.Message{
		Base:    models.Base{ID: s.newID(), CreatedAt: now, UpdatedAt: now},
		Name:    name,
		Email:   email,
		Message: body,
		Status:  models.StatusNew,
	}
	if err := validation.Struct(msg); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}
	metrics.MessagesReceivedTotal.Inc()
	return msg, nil
}

// List returns messages newest first, narrowed by filter.
func (s *MessageService) List(ctx context.Context, filter models.MessageFilter) ([]models.Message, error) {
	if filter.Status != "" && filter.Status != "all" && !models.MessageStatus(filter.Status).Valid() {
		return nil, validation.New("status", "status must be one of: all, new, read, replied")
	}
	return s.repo.List(ctx, filter)
}

// Update applies an action, or without one writes status and reply as given.
func (s *MessageService) Update(ctx context.Context, id string, upd models.MessageUpdate) (*models.Message, error) {
	msg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch upd.Action {
	case models.ActionMarkAsRead:
		return s.markAsRead(ctx, msg)
	case models.ActionReply:
		return s.reply(ctx, msg, upd.Reply)
	case models.ActionResendReply:
		return s.resend(ctx, msg)
	case "":
		return s.overwrite(ctx, msg, upd)
	default:
		return nil, validation.New("action", "action must be one of: markAsRead, reply, resendReply")
	}
}

// markAsRead moves new to read. A replied message stays replied.
func (s *MessageService) markAsRead(ctx context.Context, msg *models.Message) (*models.Message, error) {
	if msg.Status == models.StatusReplied || msg.Status == models.StatusRead {
		return msg, nil
	}
	msg.Status = models.StatusRead
	return msg, s.save(ctx, msg)
}

// reply records the reply, marks the message replied and emails the author.
// A failed email is logged and recorded in the delivery status; the reply
// itself stays saved.
func (s *MessageService) reply(ctx context.Context, msg *models.Message, reply string) (*models.Message, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, validation.New("reply", "reply is required")
	}

	now := s.now().UTC()
	msg.Reply = reply
	msg.Status = models.StatusReplied
	msg.RepliedAt = &now
	msg.DeliveryStatus = models.DeliveryNone
	if err := s.save(ctx, msg); err != nil {
		return nil, err
	}
	s.deliver(ctx, msg)
	return msg, nil
}

// resend emails an existing reply again.
func (s *MessageService) resend(ctx context.Context, msg *models.Message) (*models.Message, error) {
	if msg.Status != models.StatusReplied || msg.Reply == "" {
		return nil, models.ErrInvalidTransition
	}
	s.deliver(ctx, msg)
	return msg, nil
}

func (s *MessageService) deliver(ctx context.Context, msg *models.Message) {
	err := s.notifier.SendReply(ctx, models.ReplyEmail{
		To:              msg.Email,
		Name:            msg.Name,
		OriginalMessage: msg.Message,
		Reply:           msg.Reply,
	})
	if err != nil {
		s.log.Error("failed to send reply email",
			zap.String("message_id", msg.ID),
			zap.String("to", msg.Email),
			zap.Error(err),
		)
		msg.DeliveryStatus = models.DeliveryFailed
	} else {
		msg.DeliveryStatus = models.DeliverySent
	}
	// The send already happened; a failed save is logged, not returned.
	if err := s.save(ctx, msg); err != nil {
		s.log.Error("failed to record reply delivery status",
			zap.String("message_id", msg.ID),
			zap.String("delivery_status", msg.DeliveryStatus),
			zap.Error(err),
		)
	}
}

// overwrite is the raw update path: a valid status is written as is, a
// non-empty reply is stored and stamps the reply time.
func (s *MessageService) overwrite(ctx context.Context, msg *models.Message, upd models.MessageUpdate) (*models.Message, error) {
	if upd.Status != "" {
		if !upd.Status.Valid() {
			return nil, validation.New("status", "status must be one of: new, read, replied")
		}
		msg.Status = upd.Status
	}
	if reply := strings.TrimSpace(upd.Reply); reply != "" {
		now := s.now().UTC()
		msg.Reply = reply
		msg.RepliedAt = &now
	}
	return msg, s.save(ctx, msg)
}

func (s *MessageService) save(ctx context.Context, msg *models.Message) error {
	if err := validation.Struct(msg); err != nil {
		return err
	}
	msg.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, msg)
}

// Delete removes the message with id.
func (s *MessageService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
