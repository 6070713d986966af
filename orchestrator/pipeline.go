package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	cfg "github.com/maastricht-university/speaker-split/config"
	"github.com/maastricht-university/speaker-split/corpus"
)

type Pipeline struct {
	cfg  *cfg.Root
	log  logrus.FieldLogger
	rng  *rand.Rand
	seed int64
}

// NewPipeline builds a pipeline for c. A zero seed is replaced by the clock so
// production runs differ; the chosen seed is recorded in the report.
func NewPipeline(c *cfg.Root, log logrus.FieldLogger) *Pipeline {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Pipeline{cfg: c, log: log, rng: rand.New(rand.NewSource(seed)), seed: seed}
}

func (p *Pipeline) Seed() int64 { return p.seed }

// Run reads the input corpus, splits it by speaker and writes the three subset
// files. Outputs already written are left in place when Run fails.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	log := p.log.WithFields(logrus.Fields{"input": p.cfg.Input, "seed": p.seed})

	groups, err := LoadGroups(ctx, p.cfg.Input, p.cfg.SkipHeader)
	if err != nil {
		return nil, err
	}
	log.WithField("speakers", len(groups)).Info("corpus loaded")

	out, err := openOutputs(p.cfg.Train, p.cfg.Dev, p.cfg.Test)
	if err != nil {
		return nil, err
	}
	defer out.close()

	rep, err := p.write(ctx, groups, out)
	if err != nil {
		return rep, err
	}

	rep.Input = p.cfg.Input
	rep.Train.Path, rep.Dev.Path, rep.Test.Path = p.cfg.Train, p.cfg.Dev, p.cfg.Test
	if p.cfg.Report != "" {
		if err := writeYAML(p.cfg.Report, rep); err != nil {
			return rep, fmt.Errorf("write report: %w", err)
		}
	}

	log.WithFields(logrus.Fields{
		"train":       rep.Train.Rows,
		"dev":         rep.Dev.Rows,
		"test":        rep.Test.Rows,
		"excluded":    rep.ExcludedSpeakers,
		"ungroupable": len(rep.Ungroupable),
	}).Info("split complete")
	return rep, nil
}

// write runs Process into out and flushes it even when Process fails, so the
// files hold every group emitted before the failure.
func (p *Pipeline) write(ctx context.Context, groups []corpus.SpeakerGroup, out *outputs) (*Report, error) {
	rep, err := p.Process(ctx, groups, out.sinks())
	return rep, errors.Join(err, out.flush())
}

// LoadGroups reads path and returns its speaker groups, largest first.
func LoadGroups(ctx context.Context, path string, skipHeader bool) ([]corpus.SpeakerGroup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	recs, err := corpus.NewReader(f, skipHeader).ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	groups := corpus.GroupBy(recs, corpus.ClientID)
	corpus.SortBySize(groups)
	return groups, nil
}

// Process splits size-sorted groups into out. Groups under min_examples are
// dropped: threshold_mode "stop" ends iteration at the first one, "filter"
// checks every group. Groups too small for the fractions either abort the run
// or are skipped, per on_ungroupable.
func (p *Pipeline) Process(ctx context.Context, groups []corpus.SpeakerGroup, out Sinks) (*Report, error) {
	rep := &Report{
		GeneratedAt: time.Now(),
		Seed:        p.seed,
		DevPct:      p.cfg.DevPct,
		TestPct:     p.cfg.TestPct,
		MinExamples: p.cfg.MinExamples,
		Speakers:    len(groups),
	}
	for _, g := range groups {
		rep.Rows += g.Len()
	}

	for i, g := range groups {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if p.below(g) {
			if p.cfg.ThresholdMode == cfg.ThresholdStop {
				for _, rest := range groups[i:] {
					rep.exclude(rest)
				}
				p.log.WithFields(logrus.Fields{"speaker": g.Key, "size": g.Len(), "remaining": len(groups) - i}).
					Debug("below min_examples, stopping")
				break
			}
			rep.exclude(g)
			p.log.WithFields(logrus.Fields{"speaker": g.Key, "size": g.Len()}).Debug("below min_examples")
			continue
		}

		part, err := corpus.Split(p.rng, g.Records, p.cfg.DevPct, p.cfg.TestPct)
		if err != nil {
			var ue *corpus.UngroupableError
			if !errors.As(err, &ue) {
				return rep, err
			}
			ue.Key = g.Key
			if p.cfg.OnUngroupable == cfg.UngroupableAbort {
				return rep, ue
			}
			rep.Ungroupable = append(rep.Ungroupable, g.Key)
			p.log.WithError(ue).Warn("skipping speaker")
			continue
		}

		if err := p.emit(rep, out, part); err != nil {
			return rep, fmt.Errorf("speaker %s: %w", g.Key, err)
		}
		p.log.WithFields(logrus.Fields{
			"speaker": g.Key,
			"size":    g.Len(),
			"train":   len(part.Train),
			"dev":     len(part.Dev),
			"test":    len(part.Test),
		}).Debug("speaker split")
	}
	return rep, nil
}

func (p *Pipeline) emit(rep *Report, out Sinks, part corpus.Partition) error {
	if err := out.Train.WriteAll(part.Train); err != nil {
		return err
	}
	if err := out.Dev.WriteAll(part.Dev); err != nil {
		return err
	}
	if err := out.Test.WriteAll(part.Test); err != nil {
		return err
	}
	rep.Train.add(part.Train)
	rep.Dev.add(part.Dev)
	rep.Test.add(part.Test)
	return nil
}
