package auth

import (
	apperrors "chat-engine/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	req := require.New(t)
	userID := "user-42"

	token, err := GenerateToken(userID, time.Hour)
	req.NoError(err)
	req.NotEmpty(token)

	claims, err := ValidateToken(token)
	req.NoError(err)
	req.Equal(userID, claims.UserID)
	req.Equal("chat-engine", claims.Issuer)
}

func TestValidateToken_Expired(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("user-42", -time.Minute)
	req.NoError(err)

	_, err = ValidateToken(token)
	req.Error(err)
}

func TestInvalidTokenSentinel(t *testing.T) {
	req := require.New(t)

	// A structurally valid token without a user id binds no identity
	token, err := GenerateToken("", time.Hour)
	req.NoError(err)

	_, err = ValidateToken(token)
	req.ErrorIs(err, apperrors.ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	req := require.New(t)

	_, err := ValidateToken("not.a.token")
	req.Error(err)
}

