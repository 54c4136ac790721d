package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	pushdto "pushgate-backend/internal/push/dto"
	"pushgate-backend/internal/push/usecase"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// Service consumes notification send requests from a Pub/Sub subscription
// and fans them out through the delivery engine. This is the asynchronous
// counterpart of the HTTP send endpoint, for producers that should not wait
// on a delivery report.
type Service struct {
	pubsubClient *pubsub.Client
	sender       *usecase.Sender
	topicName    string
	subName      string
}

func NewService(projectID, topicName string, sender *usecase.Sender, credentialsFile string) (*Service, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	return &Service{
		pubsubClient: client,
		sender:       sender,
		topicName:    topicName,
		subName:      topicName + "-sub", // Convention: topic-sub
	}, nil
}

func (s *Service) Start(ctx context.Context) {
	log.Printf("[PubSub] Starting push ingestion with topic: %s, subscription: %s", s.topicName, s.subName)

	sub := s.pubsubClient.Subscription(s.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		log.Printf("[PubSub] Error checking subscription existence: %v", err)
		return
	}

	if !exists {
		topic := s.pubsubClient.Topic(s.topicName)
		topicExists, err := topic.Exists(ctx)
		if err != nil {
			log.Printf("[PubSub] Error checking topic existence: %v", err)
			return
		}
		if !topicExists {
			log.Printf("[PubSub] Topic %s does not exist, cannot create subscription", s.topicName)
			return
		}

		sub, err = s.pubsubClient.CreateSubscription(ctx, s.subName, pubsub.SubscriptionConfig{
			Topic:       topic,
			AckDeadline: 10 * time.Second,
		})
		if err != nil {
			log.Printf("[PubSub] Failed to create subscription: %v", err)
			return
		}
		log.Printf("[PubSub] Created subscription: %s", s.subName)
	}

	log.Printf("[PubSub] Listening for send requests on subscription: %s", s.subName)
	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		s.handleMessage(ctx, msg)
		msg.Ack()
	})
	if err != nil {
		log.Printf("[PubSub] Error receiving messages: %v", err)
	}
}

// handleMessage delivers one queued send request. Malformed messages are
// logged and dropped; redelivering them would fail the same way.
func (s *Service) handleMessage(ctx context.Context, msg *pubsub.Message) {
	var req pushdto.SendRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		log.Printf("[PubSub] Failed to unmarshal send request: %v", err)
		return
	}

	report, err := s.sender.Send(ctx, req.ToNotification())
	if err != nil {
		log.Printf("[PubSub] Send rejected: %v", err)
		return
	}
	log.Printf("[PubSub] Delivered queued notification: %d success, %d failures", report.SuccessCount, report.FailureCount)
}
