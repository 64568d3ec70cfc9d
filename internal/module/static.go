package module

// Static is the simplest runtime variant: Start computes the contents once
// (via Compute) and publishes them, with no worker goroutine at all.
type Static struct {
	*Base
	Compute func() (string, error)
}

// NewStatic returns a Static module named name that renders via compute.
func NewStatic(name string, compute func() (string, error)) *Static {
	return &Static{Base: NewBase(name), Compute: compute}
}

// Start implements Module.
func (s *Static) Start() error {
	out, err := s.Compute()
	if err != nil {
		s.fail(err)
		return err
	}
	s.publish(out)
	return nil
}

// Stop implements Module; a Static module has nothing to interrupt.
func (s *Static) Stop() {
	s.setStopped()
}
