package systems

// SystemInfo describes a simulation system for display and perf naming.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this system does
	Category    string // Grouping (e.g., "core", "physics", "lifecycle")
}

// SystemRegistry holds metadata about all systems.
// This centralizes system naming so the HUD and perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known systems.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all known systems to the registry.
// Update this when adding new systems.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: "aging", Name: "Aging", Description: "Advances age, applies attractor, culls the dead", Category: "lifecycle"})
	r.Register(SystemInfo{ID: "integrity", Name: "Integrity", Description: "Clears dangling relational references", Category: "core"})
	r.Register(SystemInfo{ID: "reproduction", Name: "Reproduction", Description: "Advances gestation and delivers offspring", Category: "lifecycle"})
	r.Register(SystemInfo{ID: "spatial_grid", Name: "Spatial Grid", Description: "Updates neighbor lookup grid", Category: "core"})
	r.Register(SystemInfo{ID: "movement", Name: "Movement", Description: "Behavior dispatch and steering", Category: "physics"})
	r.Register(SystemInfo{ID: "collision", Name: "Collision", Description: "Resolves pairwise overlap", Category: "physics"})
	r.Register(SystemInfo{ID: "integration", Name: "Integration", Description: "Integrates positions and bounces off walls", Category: "physics"})
	r.Register(SystemInfo{ID: "telemetry", Name: "Telemetry", Description: "Collects window statistics", Category: "internal"})
}

// Register adds a system to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns system info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a system ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered systems.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// IDs returns all system IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
