package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/Dicklesworthstone/bottomsheet/pkg/gesture"
	"github.com/Dicklesworthstone/bottomsheet/pkg/model"
	"github.com/Dicklesworthstone/bottomsheet/pkg/snap"
)

// Recorder wraps a snap.Source and journals every gesture that passes
// through it. Record errors are kept and reported by Err; they never break
// the gesture itself.
type Recorder struct {
	db      *DB
	source  snap.Source
	height  func() float64
	inset   float64
	samples []gesture.Sample
	err     error
}

var _ snap.Source = (*Recorder)(nil)

// NewRecorder journals the gestures fed to session
func NewRecorder(db *DB, session *snap.Session) *Recorder {
	return &Recorder{
		db:     db,
		source: session,
		height: session.AvailableHeight,
		inset:  session.Behavior().BottomInset,
	}
}

// Begin implements snap.Source
func (r *Recorder) Begin(s gesture.Sample) {
	r.samples = append(r.samples[:0], s)
	r.source.Begin(s)
}

// Change implements snap.Source
func (r *Recorder) Change(s gesture.Sample) float64 {
	r.samples = append(r.samples, s)
	return r.source.Change(s)
}

// End implements snap.Source
func (r *Recorder) End(s gesture.Sample) snap.Outcome {
	r.samples = append(r.samples, s)
	out := r.source.End(s)
	if !out.Recognized {
		return out
	}

	g := &Gesture{
		AvailableHeight: r.height(),
		BottomInset:     r.inset,
		Translation:     out.Translation,
		Velocity:        out.Velocity,
		From:            out.From,
		To:              out.Target,
		Committed:       out.Committed,
		Flick:           out.Flick,
		Samples:         append([]gesture.Sample(nil), r.samples...),
	}
	if err := r.db.Record(g); err != nil {
		r.err = fmt.Errorf("record gesture: %w", err)
	}
	return out
}

// SetInset updates the bottom inset stored with later gestures
func (r *Recorder) SetInset(inset float64) {
	r.inset = inset
}

// Err returns the last record error, if any
func (r *Recorder) Err() error {
	return r.err
}

// Divergence is a recorded gesture whose target differs under replay
type Divergence struct {
	Gesture  Gesture
	Recorded model.Detent
	Replayed model.Detent
}

// ReplayReport summarizes a replay run
type ReplayReport struct {
	Total       int
	Replayed    int
	Divergences []Divergence
}

// Replay feeds every recorded gesture through a fresh session built from
// behavior and reports those that now land on a different detent. The
// detent set of behavior is not modified. Each gesture starts from its
// recorded detent when behavior contains it.
func Replay(ctx context.Context, db *DB, behavior model.Behavior) (*ReplayReport, error) {
	gestures, err := db.Gestures(0)
	if err != nil {
		return nil, fmt.Errorf("load gestures: %w", err)
	}

	report := &ReplayReport{Total: len(gestures)}
	for _, g := range gestures {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if len(g.Samples) < 2 {
			continue
		}

		b := behavior
		b.Detents = behavior.Detents.Clone()
		b.Detents.Update(g.From)
		b.BottomInset = g.BottomInset

		target := replayOne(b, g)
		report.Replayed++
		if !target.Equal(g.To) {
			report.Divergences = append(report.Divergences, Divergence{
				Gesture:  g,
				Recorded: g.To,
				Replayed: target,
			})
		}
	}
	return report, nil
}

func replayOne(b model.Behavior, g Gesture) model.Detent {
	session := snap.NewSession(b, g.AvailableHeight)
	samples := g.Samples
	session.Begin(samples[0])
	for _, s := range samples[1 : len(samples)-1] {
		session.Change(s)
	}
	return session.End(samples[len(samples)-1]).Target
}

// Span returns how long the gesture lasted
func (g Gesture) Span() time.Duration {
	if len(g.Samples) == 0 {
		return 0
	}
	return g.Samples[len(g.Samples)-1].At.Sub(g.Samples[0].At)
}
