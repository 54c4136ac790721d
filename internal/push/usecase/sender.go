package usecase

import (
	"context"
	"log"

	"firebase.google.com/go/v4/messaging"

	pushdomain "pushgate-backend/internal/push/domain"
	"pushgate-backend/pkg/config"
)

// Messenger is the transport client boundary. pkg/fcm implements it against
// Firebase Cloud Messaging; tests substitute a mock. IsTokenNotRegistered is
// the transport's error taxonomy: it separates permanently invalid tokens
// (purge) from transient failures (leave for retry).
type Messenger interface {
	SendOne(ctx context.Context, message *messaging.Message) (string, error)
	SendMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
	IsTokenNotRegistered(err error) bool
}

// Sender is the delivery engine: it resolves recipients, builds the payload
// once, performs at most one transport round trip and prunes permanently
// invalid tokens from the registry.
type Sender struct {
	client   Messenger
	registry *Registry
	defaults *config.Defaults
}

// NewSender creates a new delivery engine.
func NewSender(client Messenger, registry *Registry, defaults *config.Defaults) *Sender {
	return &Sender{
		client:   client,
		registry: registry,
		defaults: defaults,
	}
}

// Send delivers one notification. A descriptor with no recipient
// specification is an error; a recipient that resolves to zero tokens is
// not, it yields an empty report and no transport call. Transport failures
// are recorded in the report, never retried here.
func (s *Sender) Send(ctx context.Context, n *pushdomain.Notification) (*pushdomain.DeliveryReport, error) {
	resolved, err := s.registry.resolve(ctx, n)
	if err != nil {
		return nil, err
	}
	if resolved.empty() {
		return &pushdomain.DeliveryReport{}, nil
	}

	body := buildPayload(n, s.defaults)

	if len(resolved.tokens) > 1 {
		return s.sendMulticast(ctx, resolved.tokens, body), nil
	}
	if len(resolved.tokens) == 1 {
		resolved.token = resolved.tokens[0]
	}
	return s.sendOne(ctx, resolved, body), nil
}

func (s *Sender) sendMulticast(ctx context.Context, tokens []string, body payload) *pushdomain.DeliveryReport {
	message := &messaging.MulticastMessage{
		Tokens:  tokens,
		Android: body.Android,
		APNS:    body.APNS,
		Webpush: body.Webpush,
	}

	resp, err := s.client.SendMulticast(ctx, message)
	if err != nil {
		log.Printf("[Push] Multicast send failed: %v", err)
		report := &pushdomain.DeliveryReport{FailureCount: len(tokens)}
		for _, token := range tokens {
			report.Results = append(report.Results, pushdomain.RecipientResult{Token: token, Error: err.Error()})
		}
		return report
	}

	report := &pushdomain.DeliveryReport{
		SuccessCount: resp.SuccessCount,
		FailureCount: resp.FailureCount,
	}
	for i, r := range resp.Responses {
		result := pushdomain.RecipientResult{Token: tokens[i]}
		if r.Success {
			result.MessageID = r.MessageID
		} else {
			result.Error = r.Error.Error()
			s.pruneIfGone(ctx, tokens[i], r.Error)
		}
		report.Results = append(report.Results, result)
	}
	return report
}

func (s *Sender) sendOne(ctx context.Context, resolved target, body payload) *pushdomain.DeliveryReport {
	message := &messaging.Message{
		Token:   resolved.token,
		Topic:   resolved.topic,
		Android: body.Android,
		APNS:    body.APNS,
		Webpush: body.Webpush,
	}

	result := pushdomain.RecipientResult{Token: resolved.token, Topic: resolved.topic}
	id, err := s.client.SendOne(ctx, message)
	if err != nil {
		log.Printf("[Push] Send failed: %v", err)
		result.Error = err.Error()
		if resolved.token != "" {
			s.pruneIfGone(ctx, resolved.token, err)
		}
		return &pushdomain.DeliveryReport{FailureCount: 1, Results: []pushdomain.RecipientResult{result}}
	}

	result.MessageID = id
	return &pushdomain.DeliveryReport{SuccessCount: 1, Results: []pushdomain.RecipientResult{result}}
}

// pruneIfGone removes a token from the registry when the transport reports
// it permanently invalid. Transient errors (quota, unavailable) leave the
// registry untouched so a retry can still reach the device.
func (s *Sender) pruneIfGone(ctx context.Context, token string, err error) {
	if !s.client.IsTokenNotRegistered(err) {
		return
	}
	log.Printf("[Push] Token no longer registered, removing from registry")
	if removeErr := s.registry.RemoveToken(ctx, token); removeErr != nil {
		log.Printf("[Push] Failed to remove invalid token: %v", removeErr)
	}
}
