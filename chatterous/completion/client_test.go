package completion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_NoKeyDisablesClient(t *testing.T) {
	assert.Nil(t, New(Config{}))
	assert.NotNil(t, New(Config{APIKey: "sk-test"}))
}

func TestAsk_NilClientNotConfigured(t *testing.T) {
	var c *Client
	_, err := c.Ask(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
