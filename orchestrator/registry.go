package orchestrator

import (
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/config"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/types"
)

// DescriptorRegistry maps each agent mode to its deployed descriptor.
// Built once at startup from configuration and read-only afterwards.
type DescriptorRegistry struct {
	descriptors map[types.AgentMode]types.AgentDescriptor
}

// NewDescriptorRegistry builds the registry. All three variants must be
// configured; a missing descriptor is a fatal configuration error.
func NewDescriptorRegistry(cfg config.AgentsConfig) (*DescriptorRegistry, error) {
	r := &DescriptorRegistry{
		descriptors: map[types.AgentMode]types.AgentDescriptor{
			types.ModeNoKnowledgeBase:   {AgentID: cfg.WithoutKnowledgeBase.AgentID, AliasID: cfg.WithoutKnowledgeBase.AliasID},
			types.ModeWithKnowledgeBase: {AgentID: cfg.WithKnowledgeBase.AgentID, AliasID: cfg.WithKnowledgeBase.AliasID},
			types.ModeExternal:          {AgentID: cfg.External.AgentID, AliasID: cfg.External.AliasID},
		},
	}

	for mode, d := range r.descriptors {
		if d.IsZero() {
			return nil, types.NewError(types.ErrConfiguration,
				"agent descriptor not configured for mode "+string(mode))
		}
	}

	return r, nil
}

// Descriptor returns the descriptor for the given mode.
func (r *DescriptorRegistry) Descriptor(mode types.AgentMode) (types.AgentDescriptor, error) {
	d, ok := r.descriptors[mode]
	if !ok || d.IsZero() {
		return types.AgentDescriptor{}, types.NewError(types.ErrConfiguration,
			"no agent descriptor for mode "+string(mode))
	}
	return d, nil
}
