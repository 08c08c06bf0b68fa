package hud

import (
	"fmt"
	"sync"
	"time"

	"github.com/lixenwraith/void-fighter/parameter"
	"github.com/lixenwraith/void-fighter/service"
	"github.com/lixenwraith/void-fighter/vmath"
)

// Tone selects the styling of a feed message
type Tone uint8

const (
	ToneInfo Tone = iota
	ToneDamage
	ToneMiss
	ToneDestroyed
	ToneWarning
)

func (t Tone) String() string {
	switch t {
	case ToneDamage:
		return "damage"
	case ToneMiss:
		return "miss"
	case ToneDestroyed:
		return "destroyed"
	case ToneWarning:
		return "warning"
	}
	return "info"
}

// Message is one HUD line; FG/Mid/BG are color names and only set for
// unified messages
type Message struct {
	Seq     uint64    `json:"seq"`
	Text    string    `json:"text"`
	Tone    Tone      `json:"tone"`
	Lines   int       `json:"lines,omitempty"`
	FG      string    `json:"fg,omitempty"`
	Mid     string    `json:"mid,omitempty"`
	BG      string    `json:"bg,omitempty"`
	Posted  time.Time `json:"posted"`
	Expires time.Time `json:"expires"`
}

// Clock supplies wall time for message lifetimes
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// Feed is a bounded ring of HUD messages implementing service.HUD
// Cooldown notices are throttled per weapon
type Feed struct {
	mu       sync.Mutex
	clock    Clock
	ring     [parameter.FeedCapacity]Message
	head     int
	n        int
	seq      uint64
	cooldown map[string]time.Time
}

// NewFeed creates a feed; nil clock uses wall time
func NewFeed(clock Clock) *Feed {
	if clock == nil {
		clock = wallClock{}
	}
	return &Feed{
		clock:    clock,
		cooldown: make(map[string]time.Time),
	}
}

func (f *Feed) push(text string, tone Tone, d time.Duration) {
	f.post(Message{Text: text, Tone: tone}, d)
}

func (f *Feed) post(m Message, d time.Duration) {
	if d <= 0 {
		d = parameter.DefaultMessageDuration
	}
	now := f.clock.Now()
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := (f.head + f.n) % parameter.FeedCapacity
	if f.n == parameter.FeedCapacity {
		idx = f.head
		f.head = (f.head + 1) % parameter.FeedCapacity
	} else {
		f.n++
	}
	f.seq++
	m.Seq, m.Posted, m.Expires = f.seq, now, now.Add(d)
	f.ring[idx] = m
}

func (f *Feed) ShowDamageFeedback(weapon string, damage float64, targetName string) {
	f.push(fmt.Sprintf("HIT %s %.1f [%s]", targetName, damage, weapon), ToneDamage, 0)
}

func (f *Feed) ShowWeaponFeedback(kind service.FeedbackKind, text string) {
	tone := ToneMiss
	if kind == service.FeedbackTargetDestroyed {
		tone = ToneDestroyed
	}
	f.push(text, tone, 0)
}

func (f *Feed) ShowOutOfRangeFeedback(weapon string, distanceM, rangeM float64) {
	f.push(fmt.Sprintf("%s: OUT OF RANGE %.1fkm > %.1fkm", weapon,
		distanceM/vmath.MetersPerUnit, rangeM/vmath.MetersPerUnit), ToneWarning, 0)
}

func (f *Feed) ShowInsufficientEnergyFeedback(weapon string, need, have float64) {
	f.push(fmt.Sprintf("%s: LOW ENERGY %.0f/%.0f", weapon, have, need), ToneWarning, 0)
}

func (f *Feed) ShowCooldownMessage(weapon string, secondsRemaining float64) {
	now := f.clock.Now()
	f.mu.Lock()
	last, seen := f.cooldown[weapon]
	if seen && now.Sub(last) < parameter.CooldownMessageThrottle {
		f.mu.Unlock()
		return
	}
	f.cooldown[weapon] = now
	f.mu.Unlock()
	f.push(fmt.Sprintf("%s: COOLING %.1fs", weapon, secondsRemaining), ToneInfo, parameter.CooldownMessageThrottle)
}

func (f *Feed) ShowMessage(text string, d time.Duration) {
	f.push(text, ToneInfo, d)
}

func (f *Feed) ShowUnifiedMessage(text string, d time.Duration, lines int, fg, mid, bg string) {
	f.post(Message{Text: text, Tone: ToneInfo, Lines: max(lines, 1), FG: fg, Mid: mid, BG: bg}, d)
}

// Active returns unexpired messages oldest first, at most limit (0 = all)
func (f *Feed) Active(limit int) []Message {
	now := f.clock.Now()
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Message
	for i := 0; i < f.n; i++ {
		m := f.ring[(f.head+i)%parameter.FeedCapacity]
		if m.Expires.After(now) {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Since returns retained messages with Seq > seq, oldest first
func (f *Feed) Since(seq uint64) []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Message
	for i := 0; i < f.n; i++ {
		if m := f.ring[(f.head+i)%parameter.FeedCapacity]; m.Seq > seq {
			out = append(out, m)
		}
	}
	return out
}

// Len is the number of retained messages
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.n
}

var _ service.HUD = (*Feed)(nil)

func (t Tone) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Tone) UnmarshalText(b []byte) error {
	for c := ToneInfo; c <= ToneWarning; c++ {
		if c.String() == string(b) {
			*t = c
			return nil
		}
	}
	*t = ToneInfo
	return nil
}
