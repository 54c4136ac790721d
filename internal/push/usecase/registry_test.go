package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authdomain "pushgate-backend/internal/auth/domain"
	authrepo "pushgate-backend/internal/auth/repository"
	pushdomain "pushgate-backend/internal/push/domain"
	pushrepo "pushgate-backend/internal/push/repository"
)

// hookRecorder counts lifecycle events per kind for assertions.
type hookRecorder struct {
	mu     sync.Mutex
	events map[pushdomain.EventKind][]pushdomain.Event
}

func newHookRecorder(hooks *Hooks) *hookRecorder {
	rec := &hookRecorder{events: make(map[pushdomain.EventKind][]pushdomain.Event)}
	for _, kind := range []pushdomain.EventKind{
		pushdomain.EventAnonymousAdded,
		pushdomain.EventAnonymousRemoved,
		pushdomain.EventAuthenticatedAdded,
		pushdomain.EventAuthenticatedRemoved,
	} {
		k := kind
		hooks.On(k, func(ev pushdomain.Event) {
			rec.mu.Lock()
			defer rec.mu.Unlock()
			rec.events[k] = append(rec.events[k], ev)
		})
	}
	return rec
}

func (r *hookRecorder) count(kind pushdomain.EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events[kind])
}

func (r *hookRecorder) last(kind pushdomain.EventKind) pushdomain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := r.events[kind]
	if len(events) == 0 {
		return pushdomain.Event{}
	}
	return events[len(events)-1]
}

func newTestRegistry(t *testing.T) (*Registry, *gorm.DB, *hookRecorder) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&authdomain.User{}, &authdomain.Session{}, &pushdomain.AppToken{}))

	hooks := NewHooks()
	rec := newHookRecorder(hooks)
	registry := NewRegistry(pushrepo.NewAppTokenRepository(db), authrepo.NewSessionRepository(db), hooks)
	return registry, db, rec
}

func createSession(t *testing.T, db *gorm.DB, id, userID string) *authdomain.Session {
	t.Helper()
	session := &authdomain.Session{ID: id, RefreshToken: "refresh-" + id, UserID: userID}
	require.NoError(t, db.Create(session).Error)
	return session
}

func countAppTokens(t *testing.T, db *gorm.DB, token string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&pushdomain.AppToken{}).Where("token = ?", token).Count(&n).Error)
	return n
}

func TestRegistry_AnonymousRoundTrip(t *testing.T) {
	registry, db, rec := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.Register(ctx, "demo", "web", "tok-1", nil))
	assert.EqualValues(t, 1, countAppTokens(t, db, "tok-1"))
	assert.Equal(t, 1, rec.count(pushdomain.EventAnonymousAdded))

	// Repeat registration refreshes the entry without duplicating it and
	// without re-firing the hook.
	require.NoError(t, registry.Register(ctx, "demo", "web", "tok-1", nil))
	assert.EqualValues(t, 1, countAppTokens(t, db, "tok-1"))
	assert.Equal(t, 1, rec.count(pushdomain.EventAnonymousAdded))

	require.NoError(t, registry.Unregister(ctx, "demo", "tok-1", nil))
	assert.EqualValues(t, 0, countAppTokens(t, db, "tok-1"))
	assert.Equal(t, 1, rec.count(pushdomain.EventAnonymousRemoved))
}

func TestRegistry_UnregisterIsIdempotent(t *testing.T) {
	registry, _, rec := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.Unregister(ctx, "demo", "tok-missing", nil))
	assert.Equal(t, 0, rec.count(pushdomain.EventAnonymousRemoved))
}

func TestRegistry_AttachRemovesAnonymousEntry(t *testing.T) {
	registry, db, rec := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.Register(ctx, "demo", "web", "tok-1", nil))
	session := createSession(t, db, "s1", "u1")

	require.NoError(t, registry.Register(ctx, "demo", "web", "tok-1", session))

	assert.EqualValues(t, 0, countAppTokens(t, db, "tok-1"), "anonymous entry must be gone after attach")

	var stored authdomain.Session
	require.NoError(t, db.First(&stored, "id = ?", "s1").Error)
	assert.Equal(t, "demo", stored.PushAppName)
	assert.Equal(t, "web", stored.PushPlatform)
	assert.Equal(t, "tok-1", stored.PushToken)

	assert.Equal(t, 1, rec.count(pushdomain.EventAnonymousRemoved))
	assert.Equal(t, 1, rec.count(pushdomain.EventAuthenticatedAdded))
	assert.Equal(t, pushdomain.Event{Token: "tok-1", UserID: "u1"}, rec.last(pushdomain.EventAuthenticatedAdded))
}

func TestRegistry_ReRegisterSameAttachmentIsNoOp(t *testing.T) {
	registry, db, rec := newTestRegistry(t)
	ctx := context.Background()
	session := createSession(t, db, "s1", "u1")

	require.NoError(t, registry.Register(ctx, "demo", "android", "tok-1", session))
	require.NoError(t, registry.Register(ctx, "demo", "android", "tok-1", session))

	assert.Equal(t, 1, rec.count(pushdomain.EventAuthenticatedAdded))

	var stored authdomain.Session
	require.NoError(t, db.First(&stored, "id = ?", "s1").Error)
	assert.Equal(t, "tok-1", stored.PushToken)
}

func TestRegistry_ReplacingAttachmentFiresHookAgain(t *testing.T) {
	registry, db, rec := newTestRegistry(t)
	ctx := context.Background()
	session := createSession(t, db, "s1", "u1")

	require.NoError(t, registry.Register(ctx, "demo", "android", "tok-1", session))
	require.NoError(t, registry.Register(ctx, "demo", "android", "tok-2", session))

	assert.Equal(t, 2, rec.count(pushdomain.EventAuthenticatedAdded))

	var stored authdomain.Session
	require.NoError(t, db.First(&stored, "id = ?", "s1").Error)
	assert.Equal(t, "tok-2", stored.PushToken)
}

func TestRegistry_UnregisterClearsAttachment(t *testing.T) {
	registry, db, rec := newTestRegistry(t)
	ctx := context.Background()
	session := createSession(t, db, "s1", "u1")

	require.NoError(t, registry.Register(ctx, "demo", "ios", "tok-1", session))
	require.NoError(t, registry.Unregister(ctx, "demo", "tok-1", session))

	var stored authdomain.Session
	require.NoError(t, db.First(&stored, "id = ?", "s1").Error)
	assert.Empty(t, stored.PushToken)
	assert.Equal(t, 1, rec.count(pushdomain.EventAuthenticatedRemoved))
	assert.Equal(t, pushdomain.Event{Token: "tok-1", UserID: "u1"}, rec.last(pushdomain.EventAuthenticatedRemoved))
}

func TestRegistry_RemoveTokenSweepsEverything(t *testing.T) {
	registry, db, rec := newTestRegistry(t)
	ctx := context.Background()

	// Same token known anonymously and attached to two different users'
	// sessions (shared device scenario).
	require.NoError(t, registry.Register(ctx, "demo", "web", "tok-1", nil))
	s1 := createSession(t, db, "s1", "u1")
	s2 := createSession(t, db, "s2", "u2")
	require.NoError(t, db.Model(s1).Updates(map[string]interface{}{"push_app_name": "demo", "push_platform": "web", "push_token": "tok-1"}).Error)
	require.NoError(t, db.Model(s2).Updates(map[string]interface{}{"push_app_name": "demo", "push_platform": "web", "push_token": "tok-1"}).Error)

	require.NoError(t, registry.RemoveToken(ctx, "tok-1"))

	assert.EqualValues(t, 0, countAppTokens(t, db, "tok-1"))
	var stillAttached int64
	require.NoError(t, db.Model(&authdomain.Session{}).Where("push_token = ?", "tok-1").Count(&stillAttached).Error)
	assert.EqualValues(t, 0, stillAttached)
	assert.Equal(t, 2, rec.count(pushdomain.EventAuthenticatedRemoved))

	// Second removal is a no-op, not an error.
	require.NoError(t, registry.RemoveToken(ctx, "tok-1"))
	assert.Equal(t, 2, rec.count(pushdomain.EventAuthenticatedRemoved))
}

func TestRegistry_TokensForUserDeduplicates(t *testing.T) {
	registry, db, _ := newTestRegistry(t)
	ctx := context.Background()

	s1 := createSession(t, db, "s1", "u1")
	s2 := createSession(t, db, "s2", "u1")
	s3 := createSession(t, db, "s3", "u1")
	require.NoError(t, db.Model(s1).Update("push_token", "tok-1").Error)
	require.NoError(t, db.Model(s2).Update("push_token", "tok-1").Error)
	require.NoError(t, db.Model(s3).Update("push_token", "tok-2").Error)

	tokens, err := registry.TokensForUser(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tok-1", "tok-2"}, tokens)
}

func TestRegistry_TokensForUsersUnion(t *testing.T) {
	registry, db, _ := newTestRegistry(t)
	ctx := context.Background()

	s1 := createSession(t, db, "s1", "u1")
	s2 := createSession(t, db, "s2", "u2")
	require.NoError(t, db.Model(s1).Update("push_token", "tok-shared").Error)
	require.NoError(t, db.Model(s2).Update("push_token", "tok-shared").Error)

	tokens, err := registry.TokensForUsers(ctx, []string{"u1", "u2", "u3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-shared"}, tokens)
}
