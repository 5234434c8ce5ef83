package mqtt

import (
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

type subscription struct {
	topic string
	qos   byte
}

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// mockClient is a connected paho.Client that records its traffic. Connect
// runs the OnConnect hook of the options it was built with.
type mockClient struct {
	opts        *paho.ClientOptions
	subscribed  []subscription
	handlers    map[string]paho.MessageHandler
	published   []published
	publishErrs []error
}

var _ paho.Client = (*mockClient)(nil)

func (m *mockClient) Connect() paho.Token {
	if m.opts != nil && m.opts.OnConnect != nil {
		m.opts.OnConnect(m)
	}
	return doneToken{}
}

func (m *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	data, _ := payload.([]byte)
	m.published = append(m.published, published{topic, qos, retained, data})
	if len(m.publishErrs) == 0 {
		return doneToken{}
	}
	err := m.publishErrs[0]
	m.publishErrs = m.publishErrs[1:]
	return doneToken{err: err}
}

func (m *mockClient) Subscribe(topic string, qos byte, h paho.MessageHandler) paho.Token {
	if m.handlers == nil {
		m.handlers = make(map[string]paho.MessageHandler)
	}
	m.handlers[topic] = h
	m.subscribed = append(m.subscribed, subscription{topic, qos})
	return doneToken{}
}

func (m *mockClient) IsConnected() bool                                                 { return true }
func (m *mockClient) IsConnectionOpen() bool                                            { return true }
func (m *mockClient) Disconnect(uint)                                                   {}
func (m *mockClient) SubscribeMultiple(map[string]byte, paho.MessageHandler) paho.Token { return doneToken{} }
func (m *mockClient) Unsubscribe(...string) paho.Token                                  { return doneToken{} }
func (m *mockClient) AddRoute(string, paho.MessageHandler)                              {}
func (m *mockClient) OptionsReader() paho.ClientOptionsReader                           { return paho.ClientOptionsReader{} }

// doneToken is a completed token carrying err.
type doneToken struct{ err error }

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Error() error                   { return t.err }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type mockMessage struct {
	topic string
	p     []byte
}

func (m mockMessage) Duplicate() bool   { return false }
func (m mockMessage) Qos() byte         { return 0 }
func (m mockMessage) Retained() bool    { return false }
func (m mockMessage) Topic() string     { return m.topic }
func (m mockMessage) MessageID() uint16 { return 0 }
func (m mockMessage) Payload() []byte   { return m.p }
func (m mockMessage) Ack()              {}
