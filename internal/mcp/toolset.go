package mcp

// Toolset is one family of tools sharing a service prefix and client
// cache. Implementations register themselves through MustRegisterToolset
// from an init func and are selected by id in the configuration.
type Toolset interface {
	ID() string
	Version() string
	Init(ctx ToolsetContext) error
	Register(reg Registry) error
}
