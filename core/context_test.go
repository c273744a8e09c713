package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndGetCredential(t *testing.T) {
	t.Run("set and get credential successfully", func(t *testing.T) {
		want := Credential{Account: "acct1", Token: "tok1"}
		ctx := SetCredential(context.Background(), want)

		got, err := GetCredential(ctx)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
		assert.True(t, HasCredential(ctx))
	})

	t.Run("get credential from empty context returns error", func(t *testing.T) {
		_, err := GetCredential(context.Background())
		assert.ErrorIs(t, err, ErrCredentialNotFound)
		assert.False(t, HasCredential(context.Background()))
	})
}
