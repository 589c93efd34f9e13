package core

// Event is a typed notification emitted by the simulation.
// Presentation layers animate toward the states these events describe.
type Event interface {
	simEvent()
}

// ItemAdded is emitted when an item is placed into an empty cell.
type ItemAdded struct {
	Item ItemID
	Rank int
	Pos  Pos
}

func (ItemAdded) simEvent() {}

// ItemRemoved is emitted when an occupied cell is cleared.
type ItemRemoved struct {
	Item ItemID
	Rank int
	Pos  Pos
}

func (ItemRemoved) simEvent() {}

// ItemMoved is emitted for every single-cell move, including each gravity step.
type ItemMoved struct {
	Item ItemID
	From Pos
	To   Pos
}

func (ItemMoved) simEvent() {}

// MergeStarted marks the pre-merge state: both items are locked.
type MergeStarted struct {
	Survivor ItemID
	Consumed ItemID
	At       Pos // Survivor position
	From     Pos // Consumed position
	Rank     int // Shared rank before the merge
}

func (MergeStarted) simEvent() {}

// Merged marks the post-merge state: the consumed item is gone
// and the survivor has its new rank.
type Merged struct {
	Survivor     ItemID
	At           Pos
	ConsumedRank int
	NewRank      int
}

func (Merged) simEvent() {}

// Scored reports the totals after a merge was scored.
type Scored struct {
	Points     int
	Total      int
	Rank       int     // Rank of the surviving item after the merge
	Combo      int     // Combo count after this merge
	Multiplier float64 // Combo multiplier applied to this merge
}

func (Scored) simEvent() {}

// ComboEnded is emitted when the combo timer expires.
type ComboEnded struct {
	Count int // Combo length that just ended
}

func (ComboEnded) simEvent() {}

// GridFull is emitted when the last empty cell gets filled.
type GridFull struct{}

func (GridFull) simEvent() {}

// GridBlocked is emitted when the grid is full and no merge remains.
type GridBlocked struct{}

func (GridBlocked) simEvent() {}

// GridCleared is emitted when every item is removed at once.
type GridCleared struct{}

func (GridCleared) simEvent() {}

// LevelCompleted is emitted once per attempt when the score reaches the target.
type LevelCompleted struct {
	Score  int
	Target int
	Stars  int
}

func (LevelCompleted) simEvent() {}

// Listener receives simulation events synchronously.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(Event)

// OnEvent calls f(e).
func (f ListenerFunc) OnEvent(e Event) {
	f(e)
}

// Bus is a listener registry. Events are delivered in subscription order
// on the caller's goroutine; the bus is not safe for concurrent use.
type Bus struct {
	listeners []*subscription
}

type subscription struct {
	l      Listener
	active bool
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a listener and returns a function that removes it.
func (b *Bus) Subscribe(l Listener) (unsubscribe func()) {
	sub := &subscription{l: l, active: true}
	b.listeners = append(b.listeners, sub)
	return func() {
		sub.active = false
		for i, s := range b.listeners {
			if s == sub {
				b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers e to every active listener. A nil bus drops the event.
func (b *Bus) Emit(e Event) {
	if b == nil {
		return
	}
	// Copy so listeners may unsubscribe during delivery.
	subs := make([]*subscription, len(b.listeners))
	copy(subs, b.listeners)
	for _, s := range subs {
		if s.active {
			s.l.OnEvent(e)
		}
	}
}

// Recorder is a Listener that keeps every event it receives.
type Recorder struct {
	Events []Event
}

// OnEvent appends e.
func (r *Recorder) OnEvent(e Event) {
	r.Events = append(r.Events, e)
}

// Reset drops recorded events.
func (r *Recorder) Reset() {
	r.Events = nil
}
