package orchestrator

import (
	"github.com/maastricht-university/speaker-split/corpus"
)

// below reports whether g falls under the min_examples threshold.
func (p *Pipeline) below(g corpus.SpeakerGroup) bool {
	return g.Len() < p.cfg.MinExamples
}

func (s *SubsetReport) add(recs []corpus.Record) {
	s.Rows += len(recs)
	s.Speakers++
}

func (r *Report) exclude(g corpus.SpeakerGroup) {
	r.ExcludedSpeakers++
	r.ExcludedRows += g.Len()
}

// ComputeStats summarises size-sorted groups. Eligible counts speakers with at
// least minExamples records.
func ComputeStats(groups []corpus.SpeakerGroup, minExamples int) Stats {
	s := Stats{Speakers: len(groups)}
	if len(groups) == 0 {
		return s
	}
	s.Largest = groups[0].Len()
	s.Median = groups[len(groups)/2].Len()
	for _, g := range groups {
		n := g.Len()
		s.Rows += n
		if n >= minExamples {
			s.Eligible++
		}
		if k := len(s.Sizes); k > 0 && s.Sizes[k-1].Size == n {
			s.Sizes[k-1].Speakers++
		} else {
			s.Sizes = append(s.Sizes, SizeBucket{Size: n, Speakers: 1})
		}
	}
	return s
}
