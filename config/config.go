// Package config loads the connector settings from the environment, with
// optional .env support for local development.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the full set of connector settings.
type Config struct {
	// Port is the listen port of the REST/WebSocket API.
	Port string

	// EthconnectURL is the base URL of the Ethereum RPC gateway.
	EthconnectURL string

	// FFTMURL optionally routes transaction submissions through a separate
	// transaction manager.
	FFTMURL string

	// EthconnectUsername and EthconnectPassword enable basic auth on every
	// gateway call.
	EthconnectUsername string
	EthconnectPassword string

	// Topic names the event stream and prefixes every subscription.
	Topic string

	// FactoryAddress is the token factory used when createpool is called
	// without an existing contract address.
	FactoryAddress string

	// PassthroughHeaders are copied from inbound API requests onto
	// outbound gateway calls.
	PassthroughHeaders []string

	// AutoInit creates the event stream at startup instead of on the first
	// pool activation.
	AutoInit bool
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Load reads the environment, applying defaults where a setting is
// optional. ETHCONNECT_URL is the only required setting.
func Load() (*Config, error) {
	godotenv.Load()

	conf := &Config{
		Port:               getenv("PORT", "3000"),
		EthconnectURL:      os.Getenv("ETHCONNECT_URL"),
		FFTMURL:            os.Getenv("FFTM_URL"),
		EthconnectUsername: os.Getenv("ETHCONNECT_USERNAME"),
		EthconnectPassword: os.Getenv("ETHCONNECT_PASSWORD"),
		Topic:              getenv("TOPIC", getenv("ETHCONNECT_TOPIC", "tokens")),
		FactoryAddress:     strings.ToLower(os.Getenv("FACTORY_CONTRACT_ADDRESS")),
		AutoInit:           getenv("AUTO_INIT", "true") != "false",
	}
	if headers := os.Getenv("PASSTHROUGH_HEADERS"); headers != "" {
		for _, h := range strings.Split(headers, ",") {
			if h = strings.TrimSpace(h); h != "" {
				conf.PassthroughHeaders = append(conf.PassthroughHeaders, h)
			}
		}
	}
	if conf.EthconnectURL == "" {
		return nil, fmt.Errorf("ETHCONNECT_URL must be set")
	}
	return conf, nil
}
