package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kaleido-io/tokens-connector-go/api"
	"github.com/kaleido-io/tokens-connector-go/config"
	"github.com/kaleido-io/tokens-connector-go/ethconnect"
	"github.com/kaleido-io/tokens-connector-go/events"
	"github.com/kaleido-io/tokens-connector-go/mapper"
	"github.com/kaleido-io/tokens-connector-go/tokens"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if err := run(); err != nil {
		logrus.Fatalf("Connector failed: %s", err)
	}
}

func run() error {
	conf, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eth := ethconnect.NewClient(&ethconnect.Config{
		BaseURL:            conf.EthconnectURL,
		FFTMURL:            conf.FFTMURL,
		Username:           conf.EthconnectUsername,
		Password:           conf.EthconnectPassword,
		PassthroughHeaders: conf.PassthroughHeaders,
	})
	streams := ethconnect.NewStreamManager(eth, conf.Topic)
	m := mapper.NewMapper(eth)

	if conf.AutoInit {
		if _, err := streams.EnsureEventStream(ctx); err != nil {
			return err
		}
	}

	proxy := events.NewProxy()
	listener := events.NewListener(conf.Topic, streams, eth)
	receiver, err := ethconnect.NewReceiver(&ethconnect.Config{
		BaseURL:  conf.EthconnectURL,
		Username: conf.EthconnectUsername,
		Password: conf.EthconnectPassword,
	}, conf.Topic, events.NewDispatcher(listener, proxy))
	if err != nil {
		return err
	}
	receiver.Start(ctx)

	service := tokens.NewService(eth, streams, m, conf.Topic, conf.FactoryAddress)
	router := api.NewRouter(service, proxy, eth)

	server := &http.Server{
		Addr:    ":" + conf.Port,
		Handler: router.Engine(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	logrus.Infof("Tokens connector listening on :%s", conf.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
