package space

import (
	"fmt"
	"strings"
	"time"
)

// Preset kinds accepted by CreateFromPreset.
const (
	PresetMicroservice = "microservice"
	PresetGame         = "game"
	PresetDefault      = "default"
)

// Registry holds the named spaces of a session. Once a space exists, exactly
// one is active.
type Registry struct {
	spaces map[string]*Space
	order  []string
	active string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{spaces: make(map[string]*Space)}
}

// CreateSpace creates a space and makes it active. An existing space with
// the same name is replaced.
func (r *Registry) CreateSpace(name string) (*Space, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty space name", ErrInvalidArgument)
	}
	s := New(name)
	r.put(s)
	r.active = name
	return s, nil
}

// Add inserts an existing space, replacing one with the same name. The
// active space only changes when the registry had none.
func (r *Registry) Add(s *Space) error {
	if s == nil || strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: unnamed space", ErrInvalidArgument)
	}
	r.put(s)
	if r.active == "" {
		r.active = s.Name
	}
	return nil
}

func (r *Registry) put(s *Space) {
	if _, ok := r.spaces[s.Name]; !ok {
		r.order = append(r.order, s.Name)
	}
	r.spaces[s.Name] = s
}

// SetActive makes the named space active.
func (r *Registry) SetActive(name string) error {
	if _, ok := r.spaces[name]; !ok {
		return fmt.Errorf("%w: %s", ErrSpaceNotFound, name)
	}
	r.active = name
	return nil
}

// Active returns the active space, or nil when the registry is empty.
func (r *Registry) Active() *Space {
	return r.spaces[r.active]
}

// Get returns the named space.
func (r *Registry) Get(name string) (*Space, error) {
	s, ok := r.spaces[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSpaceNotFound, name)
	}
	return s, nil
}

// Spaces returns every space in creation order.
func (r *Registry) Spaces() []*Space {
	out := make([]*Space, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.spaces[name])
	}
	return out
}

// CreateFromPreset creates an active space named after the current time and
// seeds it with the preset's documents. Unknown kinds get the default set.
func (r *Registry) CreateFromPreset(kind string) (*Space, error) {
	return r.createFromPreset(kind, time.Now())
}

func (r *Registry) createFromPreset(kind string, now time.Time) (*Space, error) {
	s, err := r.CreateSpace("Project_" + now.Format("20060102_150405"))
	if err != nil {
		return nil, err
	}

	type seed struct {
		name string
		t    DocType
	}
	var seeds []seed
	expand := false
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case PresetMicroservice:
		seeds = []seed{
			{"architecture", TypeArchitecture},
			{"auth-module", TypeModule},
			{"data-module", TypeModule},
			{"api-integration", TypeIntegration},
			{"data-pipeline", TypePipeline},
		}
		expand = true
	case PresetGame:
		seeds = []seed{
			{"game-architecture", TypeArchitecture},
			{"player-module", TypeModule},
			{"inventory-module", TypeModule},
			{"combat-module", TypeModule},
		}
		expand = true
	default:
		seeds = []seed{
			{"architecture", TypeArchitecture},
			{"module1", TypeModule},
		}
	}

	for _, sd := range seeds {
		if _, err := s.AddDocument(sd.name, nil, sd.t); err != nil {
			return nil, err
		}
	}
	if expand {
		s.GenerateReferencedDocuments()
	}
	return s, nil
}
