package scheduler

import (
	"context"

	"github.com/Ontinet-com/contract/internal/clock"
	"github.com/Ontinet-com/contract/internal/config"
	"github.com/Ontinet-com/contract/internal/logger"
	"github.com/Ontinet-com/contract/internal/sentry"
	"github.com/Ontinet-com/contract/internal/service"
	"github.com/Ontinet-com/contract/internal/types"
)

const GenerationJobName = "contract_order_generation"

// NewGenerationJob generates orders for every configured kind on each tick.
// A failing kind does not stop the others.
func NewGenerationJob(
	cfg *config.Configuration,
	generation service.GenerationService,
	clk clock.Clock,
	sentrySvc *sentry.Service,
	logger *logger.Logger,
) Job {
	return Job{
		Name:   GenerationJobName,
		Period: cfg.Contract.GenerationInterval,
		Run: func(ctx context.Context) {
			ctx = types.WithDefaultIdentity(ctx)
			for _, kind := range cfg.Contract.GenerationKinds {
				resp, err := generation.CronGenerateAll(ctx, clk.Now(), kind)
				if err != nil {
					logger.Errorw("contract generation run failed",
						"kind", kind,
						"error", err,
					)
					if sentrySvc != nil {
						sentrySvc.CaptureException(err)
					}
					continue
				}

				logger.Infow("contract generation run finished",
					"kind", kind,
					"as_of", resp.AsOf,
					"total", resp.Total,
					"generated", resp.Generated,
					"failed", resp.Failed,
				)
				if sentrySvc != nil {
					sentrySvc.AddBreadcrumb("scheduler", "contract generation run", map[string]interface{}{
						"kind":      string(kind),
						"as_of":     resp.AsOf,
						"generated": resp.Generated,
						"failed":    resp.Failed,
					})
				}
			}
		},
	}
}
