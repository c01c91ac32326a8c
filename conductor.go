package companyscout

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ResearchFindings holds the compressed output of the three research
// branches in fixed topic order.
type ResearchFindings struct {
	Past    string
	Future  string
	Culture string
}

// Conductor fans the research plan out to the three branches, runs them
// concurrently with independent state, and joins their results. The join is
// all-or-nothing: if any branch fails, the outputs of the branches that
// succeeded are discarded and a single AggregateResearchError is returned.
type Conductor struct {
	past    *Researcher
	future  *Researcher
	culture *Researcher
	logger  *zap.Logger
}

// NewConductor wires the three research branches.
func NewConductor(past, future, culture *Researcher, logger *zap.Logger) *Conductor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Conductor{past: past, future: future, culture: culture, logger: logger}
}

// Conduct derives one topic per branch from the plan (falling back to a
// templated topic built from the company name), runs all three branches
// concurrently, and waits for the join.
func (c *Conductor) Conduct(ctx context.Context, companyName string, plan ResearchPlan) (ResearchFindings, error) {
	pastTopic := topicOrDefault(plan.PastResearchFocus, defaultPastFocus, companyName)
	futureTopic := topicOrDefault(plan.FutureResearchFocus, defaultFutureFocus, companyName)
	cultureTopic := topicOrDefault(plan.CultureResearchFocus, defaultCultureFocus, companyName)

	var outs [3]ResearcherOutput

	g, ctx := errgroup.WithContext(ctx)
	for i, branch := range []struct {
		researcher *Researcher
		topic      string
	}{
		{c.past, pastTopic},
		{c.future, futureTopic},
		{c.culture, cultureTopic},
	} {
		i, branch := i, branch
		g.Go(func() error {
			out, err := branch.researcher.Run(ctx, branch.topic)
			if err != nil {
				c.logger.Warn("research branch failed",
					zap.String("kind", branch.researcher.cfg.Kind), zap.Error(err))
				return err
			}
			outs[i] = out
			c.logger.Debug("research branch complete",
				zap.String("kind", branch.researcher.cfg.Kind))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return ResearchFindings{}, &AggregateResearchError{Err: err}
	}

	return ResearchFindings{
		Past:    outs[0].CompressedResearch,
		Future:  outs[1].CompressedResearch,
		Culture: outs[2].CompressedResearch,
	}, nil
}

func topicOrDefault(focus, template, companyName string) string {
	if focus != "" {
		return focus
	}
	return fmt.Sprintf(template, companyName)
}
