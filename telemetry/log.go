package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
)

// CombatLog appends records as CSV, writing the header once
// A nil *CombatLog accepts and discards everything
type CombatLog struct {
	mu            sync.Mutex
	w             io.Writer
	closer        io.Closer
	headerWritten bool

	damage []float64
	counts map[string]int
	kills  int
}

// NewCombatLog writes to w
func NewCombatLog(w io.Writer) *CombatLog {
	return &CombatLog{w: w, counts: make(map[string]int)}
}

// OpenCombatLog creates the file at path; nil when path is empty (logging disabled)
func OpenCombatLog(path string) (*CombatLog, error) {
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating combat log directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating combat log: %w", err)
	}
	l := NewCombatLog(f)
	l.closer = f
	return l, nil
}

// Append writes one record
func (l *CombatLog) Append(r Record) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	records := []Record{r}
	if !l.headerWritten {
		if err := gocsv.Marshal(records, l.w); err != nil {
			return fmt.Errorf("writing combat log: %w", err)
		}
		l.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, l.w); err != nil {
			return fmt.Errorf("writing combat log: %w", err)
		}
	}

	l.counts[r.Event]++
	if r.Damage > 0 {
		l.damage = append(l.damage, r.Damage)
	}
	if r.Event == "ship_destroyed" {
		l.kills++
	}
	return nil
}

// Summary aggregates what the log has seen
type Summary struct {
	Events      map[string]int
	Hits        int
	Kills       int
	TotalDamage float64
	MeanDamage  float64
	MaxDamage   float64
}

func (l *CombatLog) Summary() Summary {
	if l == nil {
		return Summary{}
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	s := Summary{Events: make(map[string]int, len(l.counts)), Kills: l.kills, Hits: len(l.damage)}
	for k, v := range l.counts {
		s.Events[k] = v
	}
	if len(l.damage) > 0 {
		s.TotalDamage = floats.Sum(l.damage)
		s.MeanDamage = s.TotalDamage / float64(len(l.damage))
		s.MaxDamage = floats.Max(l.damage)
	}
	return s
}

// Close releases the underlying file, if any
func (l *CombatLog) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
