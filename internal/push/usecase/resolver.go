package usecase

import (
	"context"
	"errors"
	"log"

	pushdomain "pushgate-backend/internal/push/domain"
)

// ErrNoRecipient is returned when a descriptor carries no recipient
// specification at all. This is a caller precondition violation, rejected
// before any I/O.
var ErrNoRecipient = errors.New("notification has no token, user or topic to send to")

// target is the resolved address of one send: a single token, a token list,
// or a topic. An empty target means there is nothing to deliver to.
type target struct {
	token  string
	tokens []string
	topic  string
}

func (t target) empty() bool {
	return t.token == "" && len(t.tokens) == 0 && t.topic == ""
}

// resolve turns the descriptor's recipient specification into concrete
// transport addresses, consulting the registry for user-addressed sends.
// A user with no registered tokens resolves to an empty target, not an
// error.
func (r *Registry) resolve(ctx context.Context, n *pushdomain.Notification) (target, error) {
	switch {
	case n.Token != "":
		return target{token: n.Token}, nil

	case len(n.Tokens) > 0:
		return target{tokens: n.Tokens}, nil

	case n.UserID != "":
		tokens, err := r.TokensForUser(ctx, n.UserID)
		if err != nil {
			return target{}, err
		}
		if len(tokens) == 0 {
			log.Printf("[Push] User %s has no push tokens, nothing to send", n.UserID)
			return target{}, nil
		}
		if len(tokens) == 1 {
			return target{token: tokens[0]}, nil
		}
		return target{tokens: tokens}, nil

	case len(n.UserIDs) > 0:
		tokens, err := r.TokensForUsers(ctx, n.UserIDs)
		if err != nil {
			return target{}, err
		}
		if len(tokens) == 0 {
			log.Printf("[Push] Users %v have no push tokens, nothing to send", n.UserIDs)
			return target{}, nil
		}
		if len(tokens) == 1 {
			return target{token: tokens[0]}, nil
		}
		return target{tokens: tokens}, nil

	case n.Topic != "":
		return target{topic: n.Topic}, nil
	}

	return target{}, ErrNoRecipient
}
