package status

import "sync/atomic"

// MaxStringLen bounds labels such as the last targeting method
const MaxStringLen = 32

// AtomicString is a short label gauge; zero value reads ""
type AtomicString struct {
	p atomic.Pointer[string]
}

func (s *AtomicString) Store(v string) {
	if len(v) > MaxStringLen {
		v = v[:MaxStringLen]
	}
	s.p.Store(&v)
}

func (s *AtomicString) Load() string {
	if v := s.p.Load(); v != nil {
		return *v
	}
	return ""
}
