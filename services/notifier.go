package services

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/kendall-kelly/garage-jobs-api/models"
)

// Notifier records in-app notifications and fans them out as push messages.
// Every failure is logged and dropped; callers never see an error.
type Notifier struct {
	db          *gorm.DB
	push        PushService
	logger      *log.Logger
	sendTimeout time.Duration
	concurrency int
	wg          sync.WaitGroup
}

// NotifierOptions tunes background push delivery
type NotifierOptions struct {
	SendTimeout time.Duration
	Concurrency int
}

// NewNotifier creates a notifier writing to db and delivering through push
func NewNotifier(db *gorm.DB, push PushService, logger *log.Logger, opts NotifierOptions) *Notifier {
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 10 * time.Second
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Notifier{
		db:          db,
		push:        push,
		logger:      logger,
		sendTimeout: opts.SendTimeout,
		concurrency: opts.Concurrency,
	}
}

// NotifyAdmins stores a notification for every admin and pushes it to their devices
func (n *Notifier) NotifyAdmins(ctx context.Context, title, message string, data map[string]string) {
	ctx = context.WithoutCancel(ctx)
	logger := n.logger.WithField("title", title).WithField("recipients", models.RoleAdmin)

	var admins []models.User
	if err := n.db.WithContext(ctx).Where("role = ?", models.RoleAdmin).Find(&admins).Error; err != nil {
		logger.WithError(err).Error("failed to look up admins for notification")
		return
	}

	n.deliver(ctx, logger, admins, title, message, data)
}

// NotifyUser stores a notification for one user and pushes it to their device
func (n *Notifier) NotifyUser(ctx context.Context, userID uint, title, message string, data map[string]string) {
	ctx = context.WithoutCancel(ctx)
	logger := n.logger.WithField("title", title).WithField("user_id", userID)

	var user models.User
	if err := n.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		logger.WithError(err).Error("failed to look up notification recipient")
		return
	}

	n.deliver(ctx, logger, []models.User{user}, title, message, data)
}

// Wait blocks until every dispatched push has been attempted
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) deliver(ctx context.Context, logger *log.Entry, recipients []models.User, title, message string, data map[string]string) {
	if len(recipients) == 0 {
		logger.Debug("no recipients for notification")
		return
	}

	rows := make([]models.Notification, 0, len(recipients))
	for _, user := range recipients {
		rows = append(rows, models.Notification{
			UserID:  user.ID,
			Title:   title,
			Message: message,
		})
	}
	if err := n.db.WithContext(ctx).Create(&rows).Error; err != nil {
		logger.WithError(err).Error("failed to store notifications")
	}

	var messages []PushMessage
	for _, user := range recipients {
		if !user.HasPushToken() {
			logger.WithField("user_id", user.ID).Debug("user has no push token, skipping push notification")
			continue
		}
		messages = append(messages, NewPushMessage(*user.PushToken, title, message, data))
	}

	n.dispatch(logger, messages)
}

// dispatch sends messages in the background without holding up the request
func (n *Notifier) dispatch(logger *log.Entry, messages []PushMessage) {
	if len(messages) == 0 {
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		var group errgroup.Group
		group.SetLimit(n.concurrency)
		for _, msg := range messages {
			msg := msg
			group.Go(func() error {
				ctx, cancel := context.WithTimeout(context.Background(), n.sendTimeout)
				defer cancel()

				if err := n.push.Send(ctx, msg); err != nil {
					logger.WithError(err).Warn("failed to send push notification")
					return nil
				}
				logger.Debug("push notification sent")
				return nil
			})
		}
		_ = group.Wait()
	}()
}
