package kafka

import (
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureIsValid(t *testing.T) {
	cfg := configure(nil)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
	assert.True(t, cfg.Producer.Idempotent)
	assert.True(t, cfg.Producer.Return.Successes)
	assert.Equal(t, 1, cfg.Net.MaxOpenRequests)
}

func TestConfigureOverridesCallerConfig(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Net.MaxOpenRequests = 5

	require.NoError(t, configure(cfg).Validate())
	assert.Equal(t, 1, cfg.Net.MaxOpenRequests)
}
