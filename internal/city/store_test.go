package city

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

// --- Status ---

func TestStatusFor_Thresholds(t *testing.T) {
	cases := []struct {
		load, temp float64
		want       Status
	}{
		{45, 42, StatusNormal},
		{70, 75, StatusNormal},
		{70.1, 20, StatusWarning},
		{20, 75.5, StatusWarning},
		{85, 20, StatusWarning},
		{85.01, 20, StatusCritical},
		{20, 90.5, StatusCritical},
		{100, 110, StatusCritical},
	}
	for _, c := range cases {
		if got := StatusFor(c.load, c.temp); got != c.want {
			t.Errorf("StatusFor(%.2f, %.2f) = %s, want %s", c.load, c.temp, got, c.want)
		}
	}
}

func TestStatus_TextRoundTrip(t *testing.T) {
	for _, s := range []Status{StatusNormal, StatusWarning, StatusCritical} {
		b, _ := s.MarshalText()
		var back Status
		if err := back.UnmarshalText(b); err != nil {
			t.Fatalf("unmarshal %q: %v", b, err)
		}
		if back != s {
			t.Fatalf("expected %s, got %s", s, back)
		}
	}
	var s Status
	if err := s.UnmarshalText([]byte("MELTDOWN")); err == nil {
		t.Fatal("expected error for unknown status name")
	}
}

func TestRegionID_Kinds(t *testing.T) {
	if HQ.IsDistrict() {
		t.Fatal("HQ must not be a district")
	}
	if !HQ.Valid() || !AmberHaze.Valid() {
		t.Fatal("HQ and D-01 should be valid regions")
	}
	if RegionID("D-05").Valid() {
		t.Fatal("D-05 should not be valid")
	}
}

// --- Seed ---

func TestSeedDistricts_ExactValues(t *testing.T) {
	ds := SeedDistricts()
	if len(ds) != 4 {
		t.Fatalf("expected 4 districts, got %d", len(ds))
	}
	want := []struct {
		id      RegionID
		name    string
		load    float64
		temp    float64
		pop     float64
		credits int64
	}{
		{AmberHaze, "AMBER HAZE", 45, 42, 12.5, 1250},
		{VioletSky, "VIOLET SKY", 65, 55, 45.2, 800},
		{RedLight, "RED LIGHT DISTRICT", 30, 28, 8.9, 2100},
		{EmeraldPark, "EMERALD PARK", 15, 22, 3.4, 4500},
	}
	for i, w := range want {
		d := ds[i]
		if d.ID != w.id || d.Name != w.name || d.PowerLoad != w.load || d.Temperature != w.temp ||
			d.Population != w.pop || d.CreditsGenerated != w.credits {
			t.Fatalf("district %d mismatch: %+v", i, d)
		}
		if d.Status != StatusNormal {
			t.Fatalf("%s should seed NORMAL, got %s", d.ID, d.Status)
		}
	}
}

func TestDistrict_JSONNames(t *testing.T) {
	b, err := json.Marshal(SeedDistricts()[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"id":"D-01"`, `"powerLoad":45`, `"creditsGenerated":1250`, `"status":"NORMAL"`} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %s in %s", want, s)
		}
	}
}

// --- Store ---

func TestStore_OrderAndLookup(t *testing.T) {
	s := NewStore(SeedDistricts())
	ids := s.IDs()
	if ids[0] != AmberHaze || ids[3] != EmeraldPark {
		t.Fatalf("unexpected order: %v", ids)
	}
	if _, ok := s.District(HQ); ok {
		t.Fatal("HQ must not be in the store")
	}
	d, ok := s.District(RedLight)
	if !ok || d.Name != "RED LIGHT DISTRICT" {
		t.Fatalf("lookup failed: %+v", d)
	}
}

func TestStore_DistrictsIsACopy(t *testing.T) {
	s := NewStore(SeedDistricts())
	ds := s.Districts()
	ds[0].PowerLoad = 99
	d, _ := s.District(AmberHaze)
	if d.PowerLoad != 45 {
		t.Fatalf("store mutated through returned slice: load=%.1f", d.PowerLoad)
	}
}

func TestStore_Aggregates(t *testing.T) {
	s := NewStore(SeedDistricts())
	if got := s.TotalCredits(); got != 8650 {
		t.Fatalf("total credits: expected 8650, got %d", got)
	}
	if got := s.AverageLoad(); math.Abs(got-38.75) > 1e-9 {
		t.Fatalf("average load: expected 38.75, got %.4f", got)
	}
	if got := s.AverageStability(); math.Abs(got-61.25) > 1e-9 {
		t.Fatalf("stability: expected 61.25, got %.4f", got)
	}
	if s.CriticalCount() != 0 {
		t.Fatalf("expected no critical districts, got %d", s.CriticalCount())
	}
}

func TestStore_EmptyAggregates(t *testing.T) {
	s := NewStore(nil)
	if s.AverageLoad() != 0 || s.TotalCredits() != 0 {
		t.Fatal("empty store should aggregate to zero")
	}
}

func TestFlushCoolant_LowersTemperature(t *testing.T) {
	s := NewStore(SeedDistricts())
	if _, ok := s.FlushCoolant(AmberHaze); !ok {
		t.Fatal("flush should succeed for D-01")
	}
	d, _ := s.District(AmberHaze)
	if d.Temperature != 27 {
		t.Fatalf("expected 42→27, got %.1f", d.Temperature)
	}
}

func TestReroutePower_LowersLoad(t *testing.T) {
	s := NewStore(SeedDistricts())
	if _, ok := s.ReroutePower(VioletSky); !ok {
		t.Fatal("reroute should succeed for D-02")
	}
	d, _ := s.District(VioletSky)
	if d.PowerLoad != 55 {
		t.Fatalf("expected 65→55, got %.1f", d.PowerLoad)
	}
}

func TestCommands_Clamp(t *testing.T) {
	s := NewStore([]District{{ID: AmberHaze, PowerLoad: 4, Temperature: 18}})
	s.FlushCoolant(AmberHaze)
	s.ReroutePower(AmberHaze)
	d, _ := s.District(AmberHaze)
	if d.Temperature != MinTemperature {
		t.Fatalf("temperature should clamp to %.0f, got %.1f", MinTemperature, d.Temperature)
	}
	if d.PowerLoad != MinPowerLoad {
		t.Fatalf("load should clamp to %.0f, got %.1f", MinPowerLoad, d.PowerLoad)
	}
}

func TestCommands_RecomputeStatus(t *testing.T) {
	s := NewStore([]District{{ID: VioletSky, PowerLoad: 90, Temperature: 40}})
	d, _ := s.District(VioletSky)
	if d.Status != StatusCritical {
		t.Fatalf("seed status should be recomputed to CRITICAL, got %s", d.Status)
	}
	c, _ := s.ReroutePower(VioletSky)
	if c.Before != StatusCritical || c.After != StatusWarning || !c.Changed() {
		t.Fatalf("expected CRITICAL → WARNING, got %+v", c)
	}
	d, _ = s.District(VioletSky)
	if d.Status != StatusWarning {
		t.Fatalf("status must be fresh after command, got %s", d.Status)
	}
}

func TestCommands_UnknownIDIsNoOp(t *testing.T) {
	s := NewStore(SeedDistricts())
	before := s.Districts()
	if _, ok := s.FlushCoolant("D-99"); ok {
		t.Fatal("unknown id should report false")
	}
	if _, ok := s.ReroutePower(HQ); ok {
		t.Fatal("HQ is not a district and should report false")
	}
	after := s.Districts()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("store changed on unknown id: %+v → %+v", before[i], after[i])
		}
	}
}
