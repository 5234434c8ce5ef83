package main

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/fleetsim/infra/mqtt"
)

// publisher sends simulator traffic to the service's command topics.
type publisher struct {
	cli    paho.Client
	topics mqtt.Topics
	qos    byte
}

func dialPublisher(cfg Config) (*publisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(fmt.Sprintf("fleetsim-simulator-%d", cfg.Seed)).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)
	cli := paho.NewClient(opts)
	token := cli.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connect %s: timeout", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Broker, err)
	}
	return &publisher{cli: cli, topics: mqtt.Topics{Prefix: cfg.TopicPrefix}, qos: 1}, nil
}

func (p *publisher) send(topic string, payload []byte) error {
	token := p.cli.Publish(topic, p.qos, false, payload)
	token.Wait()
	return token.Error()
}

func (p *publisher) addVehicles(n int) error {
	payload, err := json.Marshal(map[string]int{"count": n})
	if err != nil {
		return err
	}
	return p.send(p.topics.AddVehicle(), payload)
}

func (p *publisher) submit(payload []byte) error {
	return p.send(p.topics.Submit(), payload)
}

func (p *publisher) close() { p.cli.Disconnect(250) }
