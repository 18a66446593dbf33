package city

// Command magnitudes.
const (
	CoolantFlush = 15.0 // degrees removed by FlushCoolant
	PowerReroute = 10.0 // percent removed by ReroutePower
)

// Change records the status of one district before and after a mutation.
type Change struct {
	ID     RegionID
	Before Status
	After  Status
}

// Changed reports whether the mutation moved the district to a different status.
func (c Change) Changed() bool {
	return c.Before != c.After
}

// Store holds the session's districts in seed order and derives aggregate stats.
// All writes go through Apply/ApplyAll so status is recomputed in the same step
// as the metric change.
type Store struct {
	districts []District
	index     map[RegionID]int
}

// NewStore copies seed into a new store. Statuses are recomputed from the seed metrics.
func NewStore(seed []District) *Store {
	s := &Store{
		districts: make([]District, len(seed)),
		index:     make(map[RegionID]int, len(seed)),
	}
	copy(s.districts, seed)
	for i := range s.districts {
		s.districts[i].normalize()
		s.index[s.districts[i].ID] = i
	}
	return s
}

// Len returns the number of districts.
func (s *Store) Len() int {
	return len(s.districts)
}

// IDs returns district ids in seed order.
func (s *Store) IDs() []RegionID {
	ids := make([]RegionID, len(s.districts))
	for i, d := range s.districts {
		ids[i] = d.ID
	}
	return ids
}

// Districts returns a copy of the ordered district list.
func (s *Store) Districts() []District {
	out := make([]District, len(s.districts))
	copy(out, s.districts)
	return out
}

// Snapshot is Districts under the name the recorder uses. District has no
// reference fields, so a slice copy is a deep copy.
func (s *Store) Snapshot() []District {
	return s.Districts()
}

// District looks up a single district by id.
func (s *Store) District(id RegionID) (District, bool) {
	i, ok := s.index[id]
	if !ok {
		return District{}, false
	}
	return s.districts[i], true
}

// Apply runs fn against the named district, then clamps and recomputes status.
// Returns false without calling fn when id is unknown.
func (s *Store) Apply(id RegionID, fn func(d *District)) (Change, bool) {
	i, ok := s.index[id]
	if !ok {
		return Change{}, false
	}
	return s.apply(i, fn), true
}

// ApplyAll runs fn against every district in order.
func (s *Store) ApplyAll(fn func(d *District)) []Change {
	changes := make([]Change, len(s.districts))
	for i := range s.districts {
		changes[i] = s.apply(i, fn)
	}
	return changes
}

func (s *Store) apply(i int, fn func(d *District)) Change {
	d := &s.districts[i]
	before := d.Status
	fn(d)
	d.normalize()
	return Change{ID: d.ID, Before: before, After: d.Status}
}

// FlushCoolant lowers the district's temperature by CoolantFlush degrees.
func (s *Store) FlushCoolant(id RegionID) (Change, bool) {
	return s.Apply(id, func(d *District) {
		d.Temperature -= CoolantFlush
	})
}

// ReroutePower lowers the district's power load by PowerReroute percent.
func (s *Store) ReroutePower(id RegionID) (Change, bool) {
	return s.Apply(id, func(d *District) {
		d.PowerLoad -= PowerReroute
	})
}

// --- Aggregates ---

// TotalCredits sums CreditsGenerated across all districts.
func (s *Store) TotalCredits() int64 {
	return totalCredits(s.districts)
}

// AverageLoad is sum(PowerLoad)/count, or 0 for an empty store.
func (s *Store) AverageLoad() float64 {
	return averageLoad(s.districts)
}

// AverageStability is 100 minus the average load.
func (s *Store) AverageStability() float64 {
	return 100 - averageLoad(s.districts)
}

// CriticalCount counts districts currently CRITICAL.
func (s *Store) CriticalCount() int {
	n := 0
	for _, d := range s.districts {
		if d.Status == StatusCritical {
			n++
		}
	}
	return n
}

func totalCredits(ds []District) int64 {
	var total int64
	for _, d := range ds {
		total += d.CreditsGenerated
	}
	return total
}

func averageLoad(ds []District) float64 {
	if len(ds) == 0 {
		return 0
	}
	sum := 0.0
	for _, d := range ds {
		sum += d.PowerLoad
	}
	return sum / float64(len(ds))
}
