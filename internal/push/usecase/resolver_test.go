package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pushdomain "pushgate-backend/internal/push/domain"
)

func TestResolve_TokenPassthrough(t *testing.T) {
	registry, _, _ := newTestRegistry(t)

	resolved, err := registry.resolve(context.Background(), &pushdomain.Notification{Token: "tok-1"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resolved.token)
	assert.False(t, resolved.empty())
}

func TestResolve_TokenListPassthrough(t *testing.T) {
	registry, _, _ := newTestRegistry(t)

	resolved, err := registry.resolve(context.Background(), &pushdomain.Notification{Tokens: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, resolved.tokens)
}

func TestResolve_TokenWinsOverUser(t *testing.T) {
	registry, _, _ := newTestRegistry(t)

	resolved, err := registry.resolve(context.Background(), &pushdomain.Notification{Token: "tok-1", UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resolved.token)
	assert.Empty(t, resolved.tokens)
}

func TestResolve_UserWithoutTokensIsEmptyNotError(t *testing.T) {
	registry, _, _ := newTestRegistry(t)

	resolved, err := registry.resolve(context.Background(), &pushdomain.Notification{UserID: "nobody"})
	require.NoError(t, err)
	assert.True(t, resolved.empty())
}

func TestResolve_UserWithOneTokenIsSingleSend(t *testing.T) {
	registry, db, _ := newTestRegistry(t)

	session := createSession(t, db, "s1", "u1")
	require.NoError(t, db.Model(session).Update("push_token", "tok-1").Error)

	resolved, err := registry.resolve(context.Background(), &pushdomain.Notification{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resolved.token)
	assert.Empty(t, resolved.tokens)
}

func TestResolve_UsersUnionIsMulticast(t *testing.T) {
	registry, db, _ := newTestRegistry(t)

	s1 := createSession(t, db, "s1", "u1")
	s2 := createSession(t, db, "s2", "u2")
	require.NoError(t, db.Model(s1).Update("push_token", "tok-1").Error)
	require.NoError(t, db.Model(s2).Update("push_token", "tok-2").Error)

	resolved, err := registry.resolve(context.Background(), &pushdomain.Notification{UserIDs: []string{"u1", "u2"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tok-1", "tok-2"}, resolved.tokens)
}

func TestResolve_Topic(t *testing.T) {
	registry, _, _ := newTestRegistry(t)

	resolved, err := registry.resolve(context.Background(), &pushdomain.Notification{Topic: "news"})
	require.NoError(t, err)
	assert.Equal(t, "news", resolved.topic)
}

func TestResolve_NoRecipientIsError(t *testing.T) {
	registry, _, _ := newTestRegistry(t)

	_, err := registry.resolve(context.Background(), &pushdomain.Notification{Title: "Hi"})
	assert.ErrorIs(t, err, ErrNoRecipient)
}
