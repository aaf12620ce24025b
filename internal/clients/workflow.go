package clients

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

type WorkflowConfig struct {
	URL     string
	Subject string
}

// WorkflowClient hands documents off to the physical-form update workflow
// over the message bus. Publication is fire and forget; the workflow
// consumer owns retries and state.
type WorkflowClient struct {
	nc      *nats.Conn
	subject string
}

func NewWorkflowClient(cfg WorkflowConfig) (*WorkflowClient, error) {
	nc, err := nats.Connect(
		cfg.URL,
		nats.DontRandomize(),
		nats.ReconnectWait(3*time.Second),
		nats.MaxReconnects(-1),
		nats.MaxPingsOutstanding(5),
		nats.PingInterval(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return &WorkflowClient{nc: nc, subject: cfg.Subject}, nil
}

// Publicar sends one raw payload to the workflow subject. Each message
// carries a fresh id so the consumer can deduplicate redeliveries.
func (c *WorkflowClient) Publicar(payload []byte) error {
	msg := nats.NewMsg(c.subject)
	msg.Header.Set("Nats-Msg-Id", uuid.NewString())
	msg.Data = payload

	if err := c.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", c.subject, err)
	}
	return c.nc.Flush()
}

func (c *WorkflowClient) Close() {
	if c.nc == nil {
		return
	}
	_ = c.nc.Drain()
}
