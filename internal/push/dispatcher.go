// Package push delivers best-effort device notifications. Delivery never
// participates in the caller's transaction or result: a failed send is
// logged and counted, nothing more.
package push

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/paperlane/circulation-backend/internal/distributers"
	"github.com/paperlane/circulation-backend/internal/users"
	"github.com/paperlane/circulation-backend/pkg/enums"
	"github.com/paperlane/circulation-backend/pkg/fcm"
	"github.com/paperlane/circulation-backend/pkg/logger"
	"github.com/paperlane/circulation-backend/pkg/metrics"
)

const defaultSendTimeout = 5 * time.Second

// Sender abstracts the messaging backend so tests can stub delivery.
type Sender interface {
	Send(ctx context.Context, msg fcm.Message) error
}

// Message describes one notification addressed to a recipient, not a token.
type Message struct {
	Event         string
	Title         string
	Body          string
	RecipientType enums.RecipientType
	RecipientID   uuid.UUID
	Data          map[string]string
	// Timeout bounds the send; zero falls back to the dispatcher default.
	Timeout time.Duration
}

// Result reports what happened to a message. Reason is set when the
// message was not delivered.
type Result struct {
	Delivered bool   `json:"delivered"`
	Reason    string `json:"reason,omitempty"`
}

// Dispatcher resolves recipient tokens and pushes through the sender.
type Dispatcher struct {
	sender      Sender
	distributer distributers.Repository
	user        users.Repository
	logg        *logger.Logger
	metrics     *metrics.PushMetrics
	timeout     time.Duration
}

// Options configures a Dispatcher. Sender may be nil when push is not
// configured; every message then reports "push disabled".
type Options struct {
	Sender       Sender
	Distributers distributers.Repository
	Users        users.Repository
	Logger       *logger.Logger
	Metrics      *metrics.PushMetrics
	SendTimeout  time.Duration
}

// NewDispatcher wires the dispatcher dependencies.
func NewDispatcher(opts Options) *Dispatcher {
	timeout := opts.SendTimeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &Dispatcher{
		sender:      opts.Sender,
		distributer: opts.Distributers,
		user:        opts.Users,
		logg:        opts.Logger,
		metrics:     opts.Metrics,
		timeout:     timeout,
	}
}

// Send resolves the recipient token and delivers the message. It never
// returns an error: callers must not fail their own operation because a
// notification could not go out.
func (d *Dispatcher) Send(ctx context.Context, msg Message) Result {
	if d == nil {
		return Result{Reason: "push disabled"}
	}
	if d.sender == nil {
		d.metrics.IncSkipped(msg.Event, "disabled")
		return Result{Reason: "push disabled"}
	}

	token, err := d.lookupToken(ctx, msg.RecipientType, msg.RecipientID)
	if err != nil {
		d.metrics.IncSkipped(msg.Event, "recipient_lookup")
		d.warn(ctx, msg, "push recipient lookup failed", err)
		return Result{Reason: "no token"}
	}
	if token == "" {
		d.metrics.IncSkipped(msg.Event, "no_token")
		return Result{Reason: "no token"}
	}

	timeout := msg.Timeout
	if timeout <= 0 {
		timeout = d.timeout
	}
	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err = d.sender.Send(sendCtx, fcm.Message{
		Token: token,
		Title: msg.Title,
		Body:  msg.Body,
		Data:  msg.Data,
	})
	d.metrics.ObserveDuration(msg.Event, time.Since(start))
	if err != nil {
		d.metrics.IncFailed(msg.Event)
		d.warn(ctx, msg, "push send failed", err)
		return Result{Reason: "send failed"}
	}

	d.metrics.IncDelivered(msg.Event)
	return Result{Delivered: true}
}

// Notify sends in a detached goroutine with its own context so the
// caller's request lifecycle never waits on delivery.
func (d *Dispatcher) Notify(msg Message) {
	if d == nil {
		return
	}
	go func() {
		ctx := context.Background()
		result := d.Send(ctx, msg)
		if d.logg != nil {
			ctx = d.logg.WithFields(ctx, map[string]any{
				"event":     msg.Event,
				"recipient": msg.RecipientID.String(),
				"delivered": result.Delivered,
				"reason":    result.Reason,
			})
			d.logg.Info(ctx, "push notification processed")
		}
	}()
}

func (d *Dispatcher) lookupToken(ctx context.Context, recipientType enums.RecipientType, id uuid.UUID) (string, error) {
	switch recipientType {
	case enums.RecipientTypeDistributer:
		row, err := d.distributer.FindByID(ctx, id)
		if err != nil {
			return "", err
		}
		if row.FCMToken == nil {
			return "", nil
		}
		return *row.FCMToken, nil
	default:
		row, err := d.user.FindByID(ctx, id)
		if err != nil {
			return "", err
		}
		if row.FCMToken == nil {
			return "", nil
		}
		return *row.FCMToken, nil
	}
}

func (d *Dispatcher) warn(ctx context.Context, msg Message, text string, err error) {
	if d.logg == nil {
		return
	}
	ctx = d.logg.WithFields(ctx, map[string]any{
		"event":     msg.Event,
		"recipient": msg.RecipientID.String(),
		"error":     err.Error(),
	})
	d.logg.Warn(ctx, text)
}
