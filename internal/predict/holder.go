package predict

import "sync/atomic"

// Holder publishes the serving Predictor. Retraining swaps in a new instance;
// the old one is never modified, so in-flight requests finish against it.
type Holder struct {
	current atomic.Pointer[Predictor]
}

// NewHolder creates a holder, optionally pre-loaded.
func NewHolder(p *Predictor) *Holder {
	h := &Holder{}
	if p != nil {
		h.current.Store(p)
	}
	return h
}

// Load returns the serving predictor or ErrNoModel.
func (h *Holder) Load() (*Predictor, error) {
	p := h.current.Load()
	if p == nil {
		return nil, ErrNoModel
	}
	return p, nil
}

// Swap installs p and returns the previous predictor, if any.
func (h *Holder) Swap(p *Predictor) *Predictor {
	return h.current.Swap(p)
}

// Ready reports whether a predictor is installed
func (h *Holder) Ready() bool {
	return h.current.Load() != nil
}
