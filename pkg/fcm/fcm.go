package fcm

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Client wraps Firebase Cloud Messaging functionality
type Client struct {
	messagingClient *messaging.Client
}

// NewClient creates a new FCM client using the provided credentials file
func NewClient(credentialsFile string) (*Client, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	log.Println("[FCM] Client initialized successfully")
	return &Client{
		messagingClient: messagingClient,
	}, nil
}

// SendOne submits a single-recipient or topic-addressed message.
func (c *Client) SendOne(ctx context.Context, message *messaging.Message) (string, error) {
	return c.messagingClient.Send(ctx, message)
}

// SendMulticast submits one message to multiple device tokens and returns
// one result per token, in token order.
func (c *Client) SendMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	return c.messagingClient.SendEachForMulticast(ctx, message)
}

// IsTokenNotRegistered reports whether the error marks a token as
// permanently invalid, meaning it must be purged from the registry.
func (c *Client) IsTokenNotRegistered(err error) bool {
	return messaging.IsRegistrationTokenNotRegistered(err)
}

// SubscribeToTopic subscribes the given tokens to a topic.
func (c *Client) SubscribeToTopic(ctx context.Context, tokens []string, topic string) error {
	resp, err := c.messagingClient.SubscribeToTopic(ctx, tokens, topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", topic, err)
	}
	if resp.FailureCount > 0 {
		log.Printf("[FCM] Topic subscribe %s: %d of %d tokens failed", topic, resp.FailureCount, len(tokens))
	}
	return nil
}

// UnsubscribeFromTopic removes the given tokens from a topic.
func (c *Client) UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) error {
	resp, err := c.messagingClient.UnsubscribeFromTopic(ctx, tokens, topic)
	if err != nil {
		return fmt.Errorf("failed to unsubscribe from topic %s: %w", topic, err)
	}
	if resp.FailureCount > 0 {
		log.Printf("[FCM] Topic unsubscribe %s: %d of %d tokens failed", topic, resp.FailureCount, len(tokens))
	}
	return nil
}
