package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	pushdomain "pushgate-backend/internal/push/domain"
)

func TestHooks_EmitWithoutHandlerIsNoOp(t *testing.T) {
	hooks := NewHooks()
	assert.NotPanics(t, func() {
		hooks.Emit(pushdomain.EventAnonymousAdded, pushdomain.Event{Token: "tok-1"})
	})
}

func TestHooks_SecondRegistrationReplacesFirst(t *testing.T) {
	hooks := NewHooks()

	var first, second int
	hooks.On(pushdomain.EventAnonymousAdded, func(pushdomain.Event) { first++ })
	hooks.On(pushdomain.EventAnonymousAdded, func(pushdomain.Event) { second++ })

	hooks.Emit(pushdomain.EventAnonymousAdded, pushdomain.Event{Token: "tok-1"})

	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}

func TestHooks_PanicIsSwallowed(t *testing.T) {
	hooks := NewHooks()
	hooks.On(pushdomain.EventAnonymousAdded, func(pushdomain.Event) {
		panic("hook blew up")
	})

	assert.NotPanics(t, func() {
		hooks.Emit(pushdomain.EventAnonymousAdded, pushdomain.Event{Token: "tok-1"})
	})
}

func TestHooks_PayloadIsDelivered(t *testing.T) {
	hooks := NewHooks()

	var got pushdomain.Event
	hooks.On(pushdomain.EventAuthenticatedAdded, func(ev pushdomain.Event) { got = ev })

	hooks.Emit(pushdomain.EventAuthenticatedAdded, pushdomain.Event{Token: "tok-1", UserID: "u1"})
	assert.Equal(t, pushdomain.Event{Token: "tok-1", UserID: "u1"}, got)
}
