package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/your-org/idverify/internal/models"
)

// VisionClient publishes one FrameJob per RunJob call and blocks for that
// job's FrameResult on an ephemeral reply subject. It does not serialize
// concurrent calls for the same session.
type VisionClient struct {
	producer *Producer
	nc       *nats.Conn
}

func NewVisionClient(producer *Producer, nc *nats.Conn) *VisionClient {
	return &VisionClient{producer: producer, nc: nc}
}

// RunJob publishes job (after stamping a fresh reply subject onto it) and
// waits up to timeout for the corresponding FrameResult.
func (c *VisionClient) RunJob(ctx context.Context, job models.FrameJob, timeout time.Duration) (*models.FrameResult, error) {
	job.ReplySubject = nats.NewInbox()

	sub, err := c.nc.SubscribeSync(job.ReplySubject)
	if err != nil {
		return nil, fmt.Errorf("subscribe reply subject: %w", err)
	}
	defer sub.Unsubscribe()

	if err := c.producer.PublishFrameJob(ctx, job.SessionID.String(), job); err != nil {
		return nil, fmt.Errorf("publish frame job: %w", err)
	}

	msg, err := sub.NextMsg(timeout)
	if err != nil {
		return nil, fmt.Errorf("vision worker did not reply in time: %w", err)
	}

	var result models.FrameResult
	if err := json.Unmarshal(msg.Data, &result); err != nil {
		return nil, fmt.Errorf("decode frame result: %w", err)
	}
	return &result, nil
}
