// Package mqtt connects the engine to an MQTT broker: submissions and new
// vehicles arrive on command topics, engine events and the state leave on
// publication topics.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/fleetsim/core/events"
	"github.com/kilianp07/fleetsim/core/model"
	"github.com/kilianp07/fleetsim/infra/logger"
)

// Dispatcher is the part of the engine driven by the bridge.
type Dispatcher interface {
	Submit(in model.JobInput) (model.Job, error)
	AddVehicle() int
	Snapshot() model.StateView
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Rejection is published when a submission received over MQTT is refused.
type Rejection struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// Bridge relays between the broker and a Dispatcher.
type Bridge struct {
	cli     pahoClient
	cfg     Config
	topics  Topics
	engine  Dispatcher
	logger  logger.Logger
	backoff time.Duration

	done      chan struct{}
	closeOnce sync.Once
}

// NewBridge connects to the broker. Command topics are subscribed on every
// (re)connection.
func NewBridge(cfg Config, engine Dispatcher) (*Bridge, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_bridge")
	b := &Bridge{
		cfg:     cfg,
		topics:  Topics{Prefix: cfg.TopicPrefix},
		engine:  engine,
		logger:  log,
		backoff: time.Duration(cfg.BackoffMS) * time.Millisecond,
		done:    make(chan struct{}),
	}

	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected")
		b.subscribe(c)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	b.cli = c
	return b, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.AuthMethod == "username_password" || cfg.AuthMethod == "both" || cfg.AuthMethod == "" {
		if cfg.Username != "" {
			opts.SetUsername(cfg.Username)
		}
		if cfg.Password != "" {
			opts.SetPassword(cfg.Password)
		}
	}
	if cfg.UseTLS || cfg.AuthMethod == "tls" || cfg.AuthMethod == "both" {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	if cfg.LWTTopic != "" {
		opts.SetWill(cfg.LWTTopic, cfg.LWTPayload, cfg.LWTQoS, cfg.LWTRetain)
	}
	return opts, nil
}

// subscribeClient is the subset of the connected client used in OnConnect.
type subscribeClient interface {
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

func (b *Bridge) subscribe(c subscribeClient) {
	subs := []struct {
		topic string
		qos   byte
		h     paho.MessageHandler
	}{
		{b.topics.Submit(), b.cfg.qos("submit"), b.onSubmit},
		{b.topics.AddVehicle(), b.cfg.qos("vehicles"), b.onAddVehicle},
	}
	for _, s := range subs {
		if token := c.Subscribe(s.topic, s.qos, s.h); token.Wait() && token.Error() != nil {
			b.logger.Errorf("subscribe %s: %v", s.topic, token.Error())
		}
	}
}

func (b *Bridge) onSubmit(_ paho.Client, msg paho.Message) {
	in, err := model.DecodeJobInput(msg.Payload())
	if err == nil {
		var job model.Job
		job, err = b.engine.Submit(in)
		if err == nil {
			b.logger.Infof("queued job %s (%s) from mqtt", job.ID, job.Name)
			return
		}
	}
	b.logger.Warnf("rejected mqtt submission: %v", err)
	payload, merr := json.Marshal(Rejection{Name: in.Name, Error: err.Error()})
	if merr != nil {
		b.logger.Errorf("encode rejection: %v", merr)
		return
	}
	if perr := b.publish(context.Background(), b.topics.Rejected(), b.cfg.qos("rejected"), false, payload); perr != nil {
		b.logger.Errorf("publish rejection: %v", perr)
	}
}

// onAddVehicle adds one vehicle, or Count vehicles when the payload is
// {"count": n}. Counts above MaxVehicleBatch are refused.
func (b *Bridge) onAddVehicle(_ paho.Client, msg paho.Message) {
	count := 1
	if p := msg.Payload(); len(p) > 0 {
		var body struct {
			Count int `json:"count"`
		}
		if err := json.Unmarshal(p, &body); err != nil {
			b.logger.Warnf("ignoring vehicle payload: %v", err)
			return
		}
		if body.Count < 0 || body.Count > b.cfg.MaxVehicleBatch {
			b.logger.Warnf("refusing vehicle count %d, limit is %d", body.Count, b.cfg.MaxVehicleBatch)
			return
		}
		if body.Count > 0 {
			count = body.Count
		}
	}
	free := 0
	for i := 0; i < count; i++ {
		free = b.engine.AddVehicle()
	}
	b.logger.Infof("added %d vehicle(s) from mqtt, %d free", count, free)
}

// Run publishes every event received on sub until ctx is done or sub is
// closed. After each tick the state is published retained.
func (b *Bridge) Run(ctx context.Context, sub <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			b.handle(ctx, ev)
		}
	}
}

func (b *Bridge) handle(ctx context.Context, ev events.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		b.logger.Errorf("encode %s event: %v", ev.Kind(), err)
		return
	}
	if err := b.publish(ctx, b.topics.Event(ev.Kind()), b.cfg.qos("events"), false, payload); err != nil {
		b.logger.Errorf("publish %s event: %v", ev.Kind(), err)
	}
	if _, ok := ev.(events.Ticked); !ok {
		return
	}
	if err := b.publishState(ctx); err != nil {
		b.logger.Errorf("publish state: %v", err)
	}
}

// PublishState publishes the current snapshot as a retained message.
func (b *Bridge) PublishState() error { return b.publishState(context.Background()) }

func (b *Bridge) publishState(ctx context.Context) error {
	payload, err := json.Marshal(b.engine.Snapshot())
	if err != nil {
		return err
	}
	return b.publish(ctx, b.topics.State(), b.cfg.qos("state"), true, payload)
}

// publish retries with exponential backoff up to MaxRetries times. The wait
// between attempts ends early when ctx is done or the bridge is closed.
func (b *Bridge) publish(ctx context.Context, topic string, qos byte, retained bool, payload []byte) error {
	var err error
	for attempt := 0; ; attempt++ {
		token := b.cli.Publish(topic, qos, retained, payload)
		token.Wait()
		if err = token.Error(); err == nil {
			return nil
		}
		b.logger.Warnf("publish %s attempt %d failed: %v", topic, attempt+1, err)
		if attempt == b.cfg.MaxRetries {
			return err
		}
		timer := time.NewTimer(b.backoff * time.Duration(1<<attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("publish %s: %w (last error: %v)", topic, ctx.Err(), err)
		case <-b.done:
			timer.Stop()
			return fmt.Errorf("publish %s: bridge closed (last error: %v)", topic, err)
		case <-timer.C:
		}
	}
}

// Close gracefully closes the MQTT connection.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() { close(b.done) })
	if b.cli != nil && b.cli.IsConnected() {
		b.cli.Disconnect(250)
	}
}
