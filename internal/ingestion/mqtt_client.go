package ingestion

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"msme-logistics/internal/config"
	pkgmqtt "msme-logistics/pkg/mqtt"
)

// MQTTIngestion subscribes to the driver location topic and feeds validated
// pings into the processor.
type MQTTIngestion struct {
	client    *pkgmqtt.Client
	processor *Processor
	topic     string
	qos       byte
	logger    *zap.Logger

	mu      sync.Mutex
	started bool
	now     func() time.Time
}

func NewMQTTIngestion(cfg config.MQTTConfig, processor *Processor, logger *zap.Logger) *MQTTIngestion {
	client := pkgmqtt.NewClient(&pkgmqtt.Config{
		Broker:               cfg.Broker,
		ClientID:             cfg.ClientID,
		Username:             cfg.Username,
		Password:             cfg.Password,
		CleanSession:         true,
		KeepAlive:            cfg.KeepAlive,
		ConnectTimeout:       cfg.ConnectTimeout,
		AutoReconnect:        true,
		MaxReconnectInterval: time.Minute,
	}, logger)

	return &MQTTIngestion{
		client:    client,
		processor: processor,
		topic:     cfg.LocationTopic,
		qos:       byte(cfg.QoS),
		logger:    logger,
		now:       time.Now,
	}
}

// Start connects to the broker and subscribes to driver location pings.
func (m *MQTTIngestion) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return fmt.Errorf("ingestion already started")
	}

	if err := m.client.Connect(); err != nil {
		return err
	}
	if err := m.client.Subscribe(m.topic, m.qos, m.handleMessage); err != nil {
		m.client.Disconnect()
		return err
	}

	m.started = true
	m.logger.Info("driver location ingestion started", zap.String("topic", m.topic))
	return nil
}

// Stop unsubscribes and disconnects from the broker.
func (m *MQTTIngestion) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return
	}

	if err := m.client.Unsubscribe(m.topic); err != nil {
		m.logger.Warn("failed to unsubscribe", zap.Error(err))
	}
	m.client.Disconnect()
	m.started = false
}

func (m *MQTTIngestion) handleMessage(topic string, payload []byte) {
	driverID, err := DriverIDFromTopic(topic)
	if err != nil {
		m.logger.Warn("discarding message", zap.String("topic", topic), zap.Error(err))
		return
	}

	var msg LocationMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		m.logger.Warn("malformed location payload",
			zap.String("driver_id", driverID.String()),
			zap.Error(err))
		return
	}
	if err := msg.Validate(); err != nil {
		m.logger.Warn("invalid location fix",
			zap.String("driver_id", driverID.String()),
			zap.Error(err))
		return
	}

	receivedAt := m.now()
	if msg.Timestamp != nil && !msg.Timestamp.IsZero() {
		receivedAt = *msg.Timestamp
	}

	m.processor.Enqueue(DriverPing{
		DriverID:   driverID,
		Location:   msg.Point(),
		ReceivedAt: receivedAt,
	})
}
