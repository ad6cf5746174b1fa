// Package fcm wraps the Firebase Cloud Messaging SDK behind a small
// send surface so callers can be tested without Google credentials.
package fcm

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/paperlane/circulation-backend/pkg/config"
)

// Message is a single device notification.
type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// Client sends notifications through Firebase Cloud Messaging.
type Client struct {
	messaging *messaging.Client
}

// New initializes the Firebase app and its messaging client.
func New(ctx context.Context, cfg config.FCMConfig) (*Client, error) {
	if !cfg.Enabled() {
		return nil, errors.New("fcm credentials are not configured")
	}

	var opts []option.ClientOption
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	} else if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing fcm messaging: %w", err)
	}
	return &Client{messaging: client}, nil
}

// Send delivers a single message to the device token.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if c == nil || c.messaging == nil {
		return errors.New("fcm client not initialized")
	}
	if msg.Token == "" {
		return errors.New("device token is required")
	}

	_, err := c.messaging.Send(ctx, &messaging.Message{
		Token: msg.Token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
	})
	if err != nil {
		return fmt.Errorf("sending fcm message: %w", err)
	}
	return nil
}
