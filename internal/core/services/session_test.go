package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wbedit/internal/core/domain"
)

func TestSessionService_LoginInvalidatesToken(t *testing.T) {
	conn := newFakeConnection(tokenReply("anonymous"), tokenReply("logged-in"))
	tokens := NewCSRFTokens(conn)
	auth := &fakeAuthenticator{}
	svc := NewSessionService(auth, tokens)
	ctx := context.Background()

	_, err := tokens.Token(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Login(ctx, "Example@bot", "secret"))
	assert.True(t, svc.IsLoggedIn())

	token, err := tokens.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "logged-in", token)
}

func TestSessionService_LoginRequiresCredentials(t *testing.T) {
	auth := &fakeAuthenticator{}
	svc := NewSessionService(auth, NewCSRFTokens(newFakeConnection()))

	err := svc.Login(context.Background(), "Example@bot", "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, auth.calls)
}

func TestSessionService_LoginFailure(t *testing.T) {
	auth := &fakeAuthenticator{err: domain.ErrAuthInvalid}
	svc := NewSessionService(auth, NewCSRFTokens(newFakeConnection()))

	err := svc.Login(context.Background(), "Example@bot", "wrong")

	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
	assert.Contains(t, err.Error(), "Example@bot")
	assert.False(t, svc.IsLoggedIn())
}
