package topics

import (
	"context"
	"log"

	pushdomain "pushgate-backend/internal/push/domain"
	"pushgate-backend/internal/push/usecase"
)

// Default broadcast topics every registered token belongs to, split by
// ownership so a campaign can target signed-in users separately.
const (
	TopicAnonymous     = "anonymous"
	TopicAuthenticated = "authenticated"
)

// Subscriber manages transport-side topic membership by token list.
type Subscriber interface {
	SubscribeToTopic(ctx context.Context, tokens []string, topic string) error
	UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) error
}

// Manager keeps FCM topic membership in step with the token registry by
// listening on its lifecycle hooks. Failures are logged only; topic
// membership is advisory and the next registration converges it.
type Manager struct {
	client Subscriber
}

// NewManager creates a topic manager.
func NewManager(client Subscriber) *Manager {
	return &Manager{client: client}
}

// Register wires the manager onto the registry's four lifecycle hooks.
// Called once at startup.
func (m *Manager) Register(hooks *usecase.Hooks) {
	hooks.On(pushdomain.EventAnonymousAdded, func(ev pushdomain.Event) {
		m.subscribe(ev.Token, TopicAnonymous)
	})
	hooks.On(pushdomain.EventAnonymousRemoved, func(ev pushdomain.Event) {
		m.unsubscribe(ev.Token, TopicAnonymous)
	})
	hooks.On(pushdomain.EventAuthenticatedAdded, func(ev pushdomain.Event) {
		m.subscribe(ev.Token, TopicAuthenticated)
	})
	hooks.On(pushdomain.EventAuthenticatedRemoved, func(ev pushdomain.Event) {
		m.unsubscribe(ev.Token, TopicAuthenticated)
	})
}

func (m *Manager) subscribe(token, topic string) {
	if err := m.client.SubscribeToTopic(context.Background(), []string{token}, topic); err != nil {
		log.Printf("[Topics] Subscribe to %s failed: %v", topic, err)
	}
}

func (m *Manager) unsubscribe(token, topic string) {
	if err := m.client.UnsubscribeFromTopic(context.Background(), []string{token}, topic); err != nil {
		log.Printf("[Topics] Unsubscribe from %s failed: %v", topic, err)
	}
}
