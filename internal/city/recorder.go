package city

import (
	"log/slog"
	"time"
)

const (
	// MaxTransmissions is the capacity of the transmission log.
	MaxTransmissions = 50

	// DefaultTransmitInterval is the Recorder's cadence.
	DefaultTransmitInterval = 3 * time.Second
)

// GlobalStats are the aggregates captured alongside each snapshot.
type GlobalStats struct {
	TotalCredits     int64   `json:"totalCredits"`
	AverageStability float64 `json:"averageStability"`
}

// TransmissionPayload is the body of a log entry.
type TransmissionPayload struct {
	Districts   []District  `json:"districts"`
	GlobalStats GlobalStats `json:"globalStats"`
}

// TransmissionEntry is an immutable snapshot of the store at one instant.
type TransmissionEntry struct {
	Seq       uint64              `json:"seq"`
	Timestamp time.Time           `json:"timestamp"`
	Payload   TransmissionPayload `json:"payload"`
}

// Clone returns a copy that shares no memory with e.
func (e TransmissionEntry) Clone() TransmissionEntry {
	out := e
	out.Payload.Districts = append([]District(nil), e.Payload.Districts...)
	return out
}

// Capture builds an entry from a store. The district slice is a fresh copy.
func Capture(store *Store, seq uint64, at time.Time) TransmissionEntry {
	ds := store.Snapshot()
	return TransmissionEntry{
		Seq:       seq,
		Timestamp: at.UTC(),
		Payload: TransmissionPayload{
			Districts: ds,
			GlobalStats: GlobalStats{
				TotalCredits:     totalCredits(ds),
				AverageStability: 100 - averageLoad(ds),
			},
		},
	}
}

// --- Ring buffer ---

// TransmissionLog is a fixed-capacity FIFO; the oldest entry is dropped first.
type TransmissionLog struct {
	entries []TransmissionEntry
	head    int
	count   int
}

// NewTransmissionLog creates a log holding MaxTransmissions entries.
func NewTransmissionLog() *TransmissionLog {
	return &TransmissionLog{
		entries: make([]TransmissionEntry, MaxTransmissions),
	}
}

// Append adds an entry, evicting the oldest when full.
func (tl *TransmissionLog) Append(e TransmissionEntry) {
	tl.entries[tl.head] = e
	tl.head = (tl.head + 1) % MaxTransmissions
	if tl.count < MaxTransmissions {
		tl.count++
	}
}

// Len returns the number of retained entries.
func (tl *TransmissionLog) Len() int {
	return tl.count
}

// Entries returns retained entries in chronological order (oldest first).
// Each entry is cloned so callers cannot reach into the buffer.
func (tl *TransmissionLog) Entries() []TransmissionEntry {
	result := make([]TransmissionEntry, tl.count)
	for i := 0; i < tl.count; i++ {
		idx := (tl.head - tl.count + i + MaxTransmissions) % MaxTransmissions
		result[i] = tl.entries[idx].Clone()
	}
	return result
}

// Latest returns the newest entry, or false when the log is empty.
func (tl *TransmissionLog) Latest() (TransmissionEntry, bool) {
	if tl.count == 0 {
		return TransmissionEntry{}, false
	}
	idx := (tl.head - 1 + MaxTransmissions) % MaxTransmissions
	return tl.entries[idx].Clone(), true
}

// --- Recorder ---

// TransmissionSink receives every recorded entry. The uplink feed implements it.
type TransmissionSink interface {
	Publish(e TransmissionEntry)
}

// Recorder snapshots the store into the transmission log on its own cadence.
type Recorder struct {
	store   *Store
	control *RunControl
	log     *TransmissionLog
	journal *Journal
	logger  *slog.Logger
	now     func() time.Time
	sink    TransmissionSink
	seq     uint64

	// tick reports the updater tick for journal entries.
	tick func() int
}

// NewRecorder wires a recorder to the store it reads and the shared pause flag.
// now defaults to time.Now.
func NewRecorder(store *Store, control *RunControl, tl *TransmissionLog, journal *Journal, now func() time.Time, logger *slog.Logger) *Recorder {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		store:   store,
		control: control,
		log:     tl,
		journal: journal,
		logger:  logger,
		now:     now,
	}
}

// SetSink attaches an optional downstream consumer.
func (r *Recorder) SetSink(sink TransmissionSink) {
	r.sink = sink
}

// Log returns the backing transmission log.
func (r *Recorder) Log() *TransmissionLog {
	return r.log
}

// Step is the timer callback. It is a no-op while paused.
func (r *Recorder) Step() {
	if r.control.Paused() {
		return
	}
	r.seq++
	entry := Capture(r.store, r.seq, r.now())
	r.log.Append(entry)

	tick := 0
	if r.tick != nil {
		tick = r.tick()
	}
	r.journal.Add(tick, "", "transmit", "capture", "", float64(entry.Payload.GlobalStats.TotalCredits))
	r.logger.Debug("transmission captured",
		"seq", entry.Seq,
		"total_credits", entry.Payload.GlobalStats.TotalCredits,
		"stability", roundTo(entry.Payload.GlobalStats.AverageStability, 2),
		"buffered", r.log.Len(),
	)
	if r.sink != nil {
		r.sink.Publish(entry.Clone())
	}
}
