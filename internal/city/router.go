package city

import (
	"fmt"
	"log/slog"
)

// CommandKind enumerates the operator commands a district accepts.
type CommandKind int

const (
	CmdFlushCoolant CommandKind = iota
	CmdReroutePower
)

func (k CommandKind) String() string {
	switch k {
	case CmdFlushCoolant:
		return "FLUSH_COOLANT"
	case CmdReroutePower:
		return "REROUTE_POWER"
	default:
		return fmt.Sprintf("CommandKind(%d)", int(k))
	}
}

// Command is an operator action aimed at one district.
type Command struct {
	Kind     CommandKind
	District RegionID
}

// CommandTarget is the slice of the store the router forwards commands to.
type CommandTarget interface {
	FlushCoolant(id RegionID) (Change, bool)
	ReroutePower(id RegionID) (Change, bool)
}

// Preset is a camera focus point: normalised map coordinates plus zoom.
type Preset struct {
	X, Y float64
	Zoom float64
}

var presets = map[RegionID]Preset{
	AmberHaze:   {X: -0.5, Y: -0.5, Zoom: 2.5},
	VioletSky:   {X: 0.5, Y: -0.5, Zoom: 2.5},
	RedLight:    {X: -0.5, Y: 0.5, Zoom: 2.5},
	EmeraldPark: {X: 0.5, Y: 0.5, Zoom: 2.5},
	HQ:          {X: 0, Y: 0, Zoom: 3.5},
}

// PresetFor returns the camera preset used when a region is selected.
func PresetFor(id RegionID) (Preset, bool) {
	p, ok := presets[id]
	return p, ok
}

// --- Router ---

// Router owns the selection and gates commands on it.
type Router struct {
	camera   CameraTarget
	commands CommandTarget
	journal  *Journal
	log      *slog.Logger

	selected RegionID // "" when nothing is selected

	// tick reports the updater tick for journal entries.
	tick func() int
}

// NewRouter wires a router to the camera it moves and the store it commands.
func NewRouter(camera CameraTarget, commands CommandTarget, journal *Journal, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{camera: camera, commands: commands, journal: journal, log: log}
}

func (r *Router) now() int {
	if r.tick == nil {
		return 0
	}
	return r.tick()
}

// Select focuses a district or HQ and moves the camera to its preset. Unknown
// ids are ignored and return false.
func (r *Router) Select(id RegionID) bool {
	p, ok := presets[id]
	if !ok {
		r.log.Debug("select ignored", "region", id)
		return false
	}
	if r.selected != id {
		r.journal.Add(r.now(), id, "select", "focus", string(id), 0)
	}
	r.selected = id
	r.camera.CenterOn(p.X, p.Y, p.Zoom)
	return true
}

// Deselect clears the selection. The camera stays where it is.
func (r *Router) Deselect() {
	if r.selected == "" {
		return
	}
	r.journal.Add(r.now(), r.selected, "select", "clear", "", 0)
	r.selected = ""
}

// Selected returns the current selection.
func (r *Router) Selected() (RegionID, bool) {
	return r.selected, r.selected != ""
}

// CommandsAvailable is true only while a district (not HQ) is selected.
func (r *Router) CommandsAvailable() bool {
	return r.selected.IsDistrict()
}

// Issue forwards cmd to the store when commands are available. The returned
// bool is false when the command was gated or aimed at an unknown district.
func (r *Router) Issue(cmd Command) (Change, bool) {
	if !r.CommandsAvailable() {
		r.log.Debug("command gated", "kind", cmd.Kind, "district", cmd.District, "selected", r.selected)
		return Change{}, false
	}

	var (
		c  Change
		ok bool
	)
	switch cmd.Kind {
	case CmdFlushCoolant:
		c, ok = r.commands.FlushCoolant(cmd.District)
	case CmdReroutePower:
		c, ok = r.commands.ReroutePower(cmd.District)
	default:
		return Change{}, false
	}
	if !ok {
		r.log.Warn("command for unknown district", "kind", cmd.Kind, "district", cmd.District)
		return Change{}, false
	}

	tick := r.now()
	r.journal.Add(tick, cmd.District, "command", cmd.Kind.String(), c.Before.String()+" → "+c.After.String(), 0)
	if c.Changed() {
		r.journal.Add(tick, cmd.District, "status", "change", c.Before.String()+" → "+c.After.String(), 0)
	}
	r.log.Info("command issued", "kind", cmd.Kind, "district", cmd.District, "status", c.After)
	return c, true
}
