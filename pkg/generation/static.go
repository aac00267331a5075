package generation

import (
	"context"
	"errors"
	"sync/atomic"
)

// Static serves pre-written reference essays in round-robin order. It lets a
// run compare against known references without calling a model.
type Static struct {
	texts []string
	next  atomic.Uint64
}

// NewStatic returns a Static over texts. At least one text is required.
func NewStatic(texts []string) (*Static, error) {
	if len(texts) == 0 {
		return nil, errors.New("no reference texts given")
	}
	return &Static{texts: append([]string(nil), texts...)}, nil
}

// Generate returns the next text. The word count and thesis are ignored.
func (s *Static) Generate(ctx context.Context, _ int, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	i := s.next.Add(1) - 1
	return s.texts[i%uint64(len(s.texts))], nil
}
