package service

import (
	"errors"
	"fmt"
)

// Hub starts services in registration order and stops them in reverse
type Hub struct {
	services []Service
	started  int
}

func NewHub() *Hub {
	return &Hub{}
}

func (h *Hub) Register(s Service) {
	h.services = append(h.services, s)
}

// StartAll starts every service; on failure the already-started ones are stopped
func (h *Hub) StartAll() error {
	for i, s := range h.services {
		if err := s.Start(); err != nil {
			h.started = i
			stopErr := h.StopAll()
			return errors.Join(fmt.Errorf("service %s: %w", s.Name(), err), stopErr)
		}
	}
	h.started = len(h.services)
	return nil
}

// StopAll stops started services in reverse order, collecting errors
func (h *Hub) StopAll() error {
	var errs []error
	for i := h.started - 1; i >= 0; i-- {
		if err := h.services[i].Stop(); err != nil {
			errs = append(errs, fmt.Errorf("service %s: %w", h.services[i].Name(), err))
		}
	}
	h.started = 0
	return errors.Join(errs...)
}
