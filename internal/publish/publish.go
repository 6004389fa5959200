// Package publish writes output payloads to files, S3 and DynamoDB.
package publish

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/eca-cli/internal/model"
	"github.com/sells-group/eca-cli/internal/resilience"
)

// Publisher writes a run's payload to one destination.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, runID string, payload *model.Payload) error
}

// PublishAll runs every publisher concurrently. Each publish is retried on
// transient errors; the first permanent failure cancels the rest.
func PublishAll(ctx context.Context, retry resilience.RetryConfig, runID string, payload *model.Payload, pubs ...Publisher) error {
	if payload == nil {
		return eris.New("publish: nil payload")
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range pubs {
		g.Go(func() error {
			cfg := retry
			if cfg.OnRetry == nil {
				cfg.OnRetry = resilience.RetryLogger(p.Name(), "publish")
			}
			err := resilience.Do(gctx, cfg, func(ctx context.Context) error {
				return p.Publish(ctx, runID, payload)
			})
			if err != nil {
				return eris.Wrapf(err, "publish: %s", p.Name())
			}
			zap.L().Info("payload published",
				zap.String("target", p.Name()),
				zap.String("run_id", runID),
				zap.Int("activities", len(payload.Activities)),
			)
			return nil
		})
	}
	return g.Wait()
}

// Encode renders the payload as UTF-8 JSON without HTML escaping. An empty
// indent yields compact output.
func Encode(payload *model.Payload, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(payload); err != nil {
		return nil, eris.Wrap(err, "publish: encode payload")
	}
	return buf.Bytes(), nil
}
