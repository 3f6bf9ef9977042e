package queueing

import (
	"fmt"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/wpachlinger/relic/config"
)

// Error is a queueing failure with a stable code and a human-readable
// detail.
type Error struct {
	Code   string
	Detail string
}

// Error returns the error string.
func (e *Error) Error() string {
	return fmt.Sprintf("queueing: %s: %s", e.Code, e.Detail)
}

// Config holds the broker connection settings.
type Config struct {
	Host     string
	Port     int
	QoS      byte
	ClientID string
}

// ParseConfig validates broker settings from a configuration dictionary:
// host is mandatory, port defaults to 1883, qos defaults to 0 and must be
// 0, 1 or 2.
func ParseConfig(d *config.Dict) (Config, error) {
	host, err := d.MandatoryString("host")
	if err != nil {
		return Config{}, &Error{Code: "InvalidConfiguration", Detail: err.Error()}
	}
	port := d.OptionalInt("port", 1883)
	qos := d.OptionalInt("qos", 0)
	if qos < 0 || qos > 2 {
		return Config{}, &Error{Code: "InvalidConfiguration", Detail: fmt.Sprintf("qos must be 0, 1 or 2, got %d", qos)}
	}
	return Config{
		Host:     host,
		Port:     port,
		QoS:      byte(qos),
		ClientID: d.OptionalString("client_id", ""),
	}, nil
}

// BrokerURL returns the broker address in paho's URL form.
func (c Config) BrokerURL() string {
	return fmt.Sprintf("tcp://%s:%d", c.Host, c.Port)
}

// ClientOption configures a Producer or Consumer.
type ClientOption func(*clientOptions)

type clientOptions struct {
	codec Codec
	log   *slog.Logger
}

// WithCodec selects the wire codec. Default is JSON.
func WithCodec(c Codec) ClientOption {
	return func(o *clientOptions) { o.codec = c }
}

// WithLogger sets the logger used for connection and decode diagnostics.
func WithLogger(log *slog.Logger) ClientOption {
	return func(o *clientOptions) { o.log = log }
}

func newClientOptions(opts []ClientOption) clientOptions {
	o := clientOptions{codec: JSON, log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func connect(cfg Config) (mqtt.Client, error) {
	id := cfg.ClientID
	if id == "" {
		id = "relic-" + uuid.NewString()
	}
	opts := mqtt.NewClientOptions().AddBroker(cfg.BrokerURL()).SetClientID(id)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, &Error{Code: "ConnectionFailed", Detail: token.Error().Error()}
	}
	return client, nil
}

// Producer publishes messages to the broker.
type Producer struct {
	client mqtt.Client
	qos    byte
	codec  Codec
	log    *slog.Logger
}

// NewProducer connects to the broker described by cfg and returns a
// producer.
func NewProducer(cfg Config, opts ...ClientOption) (*Producer, error) {
	o := newClientOptions(opts)
	client, err := connect(cfg)
	if err != nil {
		return nil, err
	}
	return &Producer{client: client, qos: cfg.QoS, codec: o.codec, log: o.log}, nil
}

// Publish serializes the message with the producer's codec and publishes
// it to the message's topic.
func (p *Producer) Publish(m *Message) error {
	data, err := p.codec.Marshal(m)
	if err != nil {
		return err
	}
	if token := p.client.Publish(m.Topic, p.qos, false, data); token.Wait() && token.Error() != nil {
		return &Error{Code: "PublishFailed", Detail: token.Error().Error()}
	}
	p.log.Debug("published message", "topic", m.Topic, "id", m.ID, "codec", p.codec.Name())
	return nil
}

// Close disconnects from the broker.
func (p *Producer) Close() {
	p.client.Disconnect(250)
}

// Consumer receives messages from the broker.
type Consumer struct {
	client mqtt.Client
	qos    byte
	codec  Codec
	log    *slog.Logger
}

// NewConsumer connects to the broker described by cfg and returns a
// consumer.
func NewConsumer(cfg Config, opts ...ClientOption) (*Consumer, error) {
	o := newClientOptions(opts)
	client, err := connect(cfg)
	if err != nil {
		return nil, err
	}
	return &Consumer{client: client, qos: cfg.QoS, codec: o.codec, log: o.log}, nil
}

// Subscribe registers fn for every message arriving on topic. Messages
// that fail to decode are logged and dropped.
func (c *Consumer) Subscribe(topic string, fn func(*Message)) error {
	handler := func(_ mqtt.Client, raw mqtt.Message) {
		m := &Message{}
		if err := c.codec.Unmarshal(raw.Payload(), m); err != nil {
			c.log.Warn("dropping undecodable message", "topic", raw.Topic(), "err", err)
			return
		}
		m.Topic = raw.Topic()
		fn(m)
	}
	if token := c.client.Subscribe(topic, c.qos, handler); token.Wait() && token.Error() != nil {
		return &Error{Code: "SubscribeFailed", Detail: token.Error().Error()}
	}
	return nil
}

// Unsubscribe removes the subscription for topic.
func (c *Consumer) Unsubscribe(topic string) error {
	if token := c.client.Unsubscribe(topic); token.Wait() && token.Error() != nil {
		return &Error{Code: "SubscribeFailed", Detail: token.Error().Error()}
	}
	return nil
}

// Close disconnects from the broker.
func (c *Consumer) Close() {
	c.client.Disconnect(250)
}
