package usecase

import (
	"context"
	"fmt"
	"log"

	authdomain "pushgate-backend/internal/auth/domain"
	authrepo "pushgate-backend/internal/auth/repository"
	pushdomain "pushgate-backend/internal/push/domain"
	pushrepo "pushgate-backend/internal/push/repository"
)

// Registry is the authoritative owner of push tokens. Anonymous tokens live
// in the app token store; a signed-in device's token lives on its session
// row. The same (appName, token) pair is never in both places: attaching to
// a session removes the anonymous entry first.
type Registry struct {
	appTokens pushrepo.AppTokenRepository
	sessions  authrepo.SessionRepository
	hooks     *Hooks
}

// NewRegistry creates a new token registry.
func NewRegistry(appTokens pushrepo.AppTokenRepository, sessions authrepo.SessionRepository, hooks *Hooks) *Registry {
	return &Registry{
		appTokens: appTokens,
		sessions:  sessions,
		hooks:     hooks,
	}
}

// Hooks exposes the lifecycle hook table for startup registration.
func (r *Registry) Hooks() *Hooks {
	return r.hooks
}

// Register records a token. With no session the token goes into the
// anonymous store (repeat registration only refreshes updated_at). With a
// session, any anonymous entry for the token is removed and the token
// becomes the session's attachment. Re-registering the exact attachment is
// a no-op: state and hook fire count match a single registration.
func (r *Registry) Register(ctx context.Context, appName, platform, token string, session *authdomain.Session) error {
	if session == nil {
		created, err := r.appTokens.Upsert(ctx, appName, platform, token)
		if err != nil {
			return fmt.Errorf("failed to upsert app token: %w", err)
		}
		if created {
			r.hooks.Emit(pushdomain.EventAnonymousAdded, pushdomain.Event{Token: token})
		}
		return nil
	}

	removed, err := r.appTokens.DeleteByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to remove anonymous token: %w", err)
	}
	if removed > 0 {
		r.hooks.Emit(pushdomain.EventAnonymousRemoved, pushdomain.Event{Token: token})
	}

	if session.AttachmentEquals(appName, platform, token) {
		return nil
	}

	if err := r.sessions.SetAttachment(ctx, session.ID, appName, platform, token); err != nil {
		return fmt.Errorf("failed to set session attachment: %w", err)
	}
	session.PushAppName = appName
	session.PushPlatform = platform
	session.PushToken = token
	r.hooks.Emit(pushdomain.EventAuthenticatedAdded, pushdomain.Event{Token: token, UserID: session.UserID})
	return nil
}

// Unregister removes a token. Absence of a matching record is not an error.
func (r *Registry) Unregister(ctx context.Context, appName, token string, session *authdomain.Session) error {
	removed, err := r.appTokens.DeleteByAppToken(ctx, appName, token)
	if err != nil {
		return fmt.Errorf("failed to remove anonymous token: %w", err)
	}
	if removed > 0 {
		r.hooks.Emit(pushdomain.EventAnonymousRemoved, pushdomain.Event{Token: token})
	}

	if session == nil || session.PushToken != token {
		return nil
	}

	cleared, err := r.sessions.ClearAttachment(ctx, session.ID, token)
	if err != nil {
		return fmt.Errorf("failed to clear session attachment: %w", err)
	}
	if cleared {
		session.PushAppName = ""
		session.PushPlatform = ""
		session.PushToken = ""
		r.hooks.Emit(pushdomain.EventAuthenticatedRemoved, pushdomain.Event{Token: token, UserID: session.UserID})
	}
	return nil
}

// TokensForUser returns the attachment tokens of a user's sessions,
// deduplicated.
func (r *Registry) TokensForUser(ctx context.Context, userID string) ([]string, error) {
	sessions, err := r.sessions.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions for user %s: %w", userID, err)
	}

	var tokens []string
	seen := make(map[string]struct{})
	for _, s := range sessions {
		if !s.HasAttachment() {
			continue
		}
		if _, dup := seen[s.PushToken]; dup {
			continue
		}
		seen[s.PushToken] = struct{}{}
		tokens = append(tokens, s.PushToken)
	}
	return tokens, nil
}

// TokensForUsers is the deduplicated union of TokensForUser over userIDs.
func (r *Registry) TokensForUsers(ctx context.Context, userIDs []string) ([]string, error) {
	var tokens []string
	seen := make(map[string]struct{})
	for _, userID := range userIDs {
		userTokens, err := r.TokensForUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, token := range userTokens {
			if _, dup := seen[token]; dup {
				continue
			}
			seen[token] = struct{}{}
			tokens = append(tokens, token)
		}
	}
	return tokens, nil
}

// RemoveToken purges a permanently invalid token: the anonymous entry across
// all apps plus every session attachment holding it. Idempotent; used by the
// delivery engine when the transport reports the token as no longer
// registered.
func (r *Registry) RemoveToken(ctx context.Context, token string) error {
	removed, err := r.appTokens.DeleteByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to remove anonymous token: %w", err)
	}
	if removed > 0 {
		r.hooks.Emit(pushdomain.EventAnonymousRemoved, pushdomain.Event{Token: token})
	}

	sessions, err := r.sessions.FindByPushToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to scan sessions for token: %w", err)
	}
	for _, s := range sessions {
		cleared, err := r.sessions.ClearAttachment(ctx, s.ID, token)
		if err != nil {
			log.Printf("[Push] Failed to clear attachment on session %s: %v", s.ID, err)
			continue
		}
		if cleared {
			r.hooks.Emit(pushdomain.EventAuthenticatedRemoved, pushdomain.Event{Token: token, UserID: s.UserID})
		}
	}
	return nil
}
