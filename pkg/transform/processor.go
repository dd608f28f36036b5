package transform

import (
	"errors"
	"fmt"

	"blockmodes/pkg/log"
)

// PayloadProcessor runs a fixed pipeline of transforms: Apply in stage order
// when preparing output, Reverse in the opposite order when parsing input.
type PayloadProcessor struct {
	stages []Transform
}

var errEmptyPipeline = errors.New("payload processor needs at least one transform, use NewNoOpTransform() for a pass-through")

func NewPayloadProcessor(stages []Transform) (*PayloadProcessor, error) {
	if len(stages) == 0 {
		return nil, errEmptyPipeline
	}
	return &PayloadProcessor{stages: append([]Transform(nil), stages...)}, nil
}

// Len is the number of stages in the pipeline.
func (p *PayloadProcessor) Len() int { return len(p.stages) }

func (p *PayloadProcessor) PrepareOutput(payload []byte) ([]byte, error) {
	out := payload
	for i, t := range p.stages {
		next, err := t.Apply(out)
		if err != nil {
			return nil, fmt.Errorf("prepare output: stage %d (%T): %w", i, t, err)
		}
		log.Debug().Int("stage", i).Str("transform", fmt.Sprintf("%T", t)).Int("in", len(out)).Int("out", len(next)).Msg("apply")
		out = next
	}
	return out, nil
}

func (p *PayloadProcessor) ParseInput(payload []byte) ([]byte, error) {
	out := payload
	for i := len(p.stages) - 1; i >= 0; i-- {
		t := p.stages[i]
		next, err := t.Reverse(out)
		if err != nil {
			return nil, fmt.Errorf("parse input: stage %d (%T): %w", i, t, err)
		}
		log.Debug().Int("stage", i).Str("transform", fmt.Sprintf("%T", t)).Int("in", len(out)).Int("out", len(next)).Msg("reverse")
		out = next
	}
	return out, nil
}
