package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ETHCONNECT_URL", "http://localhost:5000")

	conf, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", conf.Port)
	assert.Equal(t, "tokens", conf.Topic)
	assert.True(t, conf.AutoInit)
	assert.Empty(t, conf.PassthroughHeaders)
}

func TestLoadFull(t *testing.T) {
	t.Setenv("ETHCONNECT_URL", "http://localhost:5000")
	t.Setenv("FFTM_URL", "http://localhost:5008")
	t.Setenv("ETHCONNECT_TOPIC", "tokens-ns1")
	t.Setenv("FACTORY_CONTRACT_ADDRESS", "0xFACADE")
	t.Setenv("PASSTHROUGH_HEADERS", "X-Tenant, X-Request-Id")
	t.Setenv("AUTO_INIT", "false")

	conf, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5008", conf.FFTMURL)
	assert.Equal(t, "tokens-ns1", conf.Topic)
	assert.Equal(t, "0xfacade", conf.FactoryAddress)
	assert.Equal(t, []string{"X-Tenant", "X-Request-Id"}, conf.PassthroughHeaders)
	assert.False(t, conf.AutoInit)
}

func TestLoadTopic(t *testing.T) {
	t.Setenv("ETHCONNECT_URL", "http://localhost:5000")
	t.Setenv("TOPIC", "pools")
	t.Setenv("ETHCONNECT_TOPIC", "ignored")

	conf, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "pools", conf.Topic, "TOPIC wins over the legacy variable")
}

func TestLoadMissingURL(t *testing.T) {
	t.Setenv("ETHCONNECT_URL", "")
	_, err := Load()
	require.Error(t, err)
}
