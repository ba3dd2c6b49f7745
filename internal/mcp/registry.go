package mcp

import (
	"errors"
	"sort"
	"strings"

	"awsmcp/internal/config"
)

type Registry interface {
	Add(spec ToolSpec) error
	List() []ToolInfo
	Get(name string) (ToolSpec, bool)
}

// ToolRegistry is the routing table: tool name to spec. Adding an
// operation is a data change here, not a new dispatch branch.
type ToolRegistry struct {
	cfg      *config.Config
	tools    map[string]ToolSpec
	toolsets map[string]bool
}

func NewRegistry(cfg *config.Config) *ToolRegistry {
	return &ToolRegistry{cfg: cfg, tools: map[string]ToolSpec{}, toolsets: map[string]bool{}}
}

func (r *ToolRegistry) Add(spec ToolSpec) error {
	if spec.Name == "" {
		return errors.New("tool name required")
	}
	if spec.ToolsetID == "" {
		return errors.New("tool toolset id required")
	}
	if !strings.HasPrefix(spec.Name, spec.ToolsetID+"_") {
		return errors.New("tool name must carry its toolset prefix")
	}
	// The prefix is known even when the tool itself is filtered out, so
	// dispatch can still tell an unknown operation from an unknown tool.
	r.toolsets[spec.ToolsetID] = true
	if !r.allowedBySafety(spec) {
		return nil
	}
	r.tools[spec.Name] = spec
	return nil
}

func (r *ToolRegistry) List() []ToolInfo {
	infos := make([]ToolInfo, 0, len(r.tools))
	for _, tool := range r.tools {
		infos = append(infos, ToolInfo{Name: tool.Name, Description: tool.Description, InputSchema: tool.InputSchema})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

func (r *ToolRegistry) Get(name string) (ToolSpec, bool) {
	spec, ok := r.tools[name]
	return spec, ok
}

func (r *ToolRegistry) Specs() []ToolSpec {
	specs := make([]ToolSpec, 0, len(r.tools))
	for _, tool := range r.tools {
		specs = append(specs, tool)
	}
	sort.Slice(specs, func(i, j int) bool {
		return specs[i].Name < specs[j].Name
	})
	return specs
}

func (r *ToolRegistry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KnownToolsetFor reports whether the name carries the prefix of a
// registered toolset.
func (r *ToolRegistry) KnownToolsetFor(name string) bool {
	for id := range r.toolsets {
		if strings.HasPrefix(name, id+"_") {
			return true
		}
	}
	return false
}

func (r *ToolRegistry) allowedBySafety(spec ToolSpec) bool {
	if r.cfg == nil {
		return true
	}
	if r.cfg.ReadOnly {
		return spec.Safety == SafetyReadOnly
	}
	return true
}
