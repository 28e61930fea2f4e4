package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/config"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/tenant"
	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/types"
)

func fullAgentsConfig() config.AgentsConfig {
	return config.AgentsConfig{
		WithoutKnowledgeBase: config.AgentRef{AgentID: "AG-PLAIN", AliasID: "AL-PLAIN"},
		WithKnowledgeBase:    config.AgentRef{AgentID: "AG-KB", AliasID: "AL-KB"},
		External:             config.AgentRef{AgentID: "AG-EXT", AliasID: "AL-EXT"},
	}
}

func TestNewDescriptorRegistry(t *testing.T) {
	t.Run("resolves all modes", func(t *testing.T) {
		r, err := NewDescriptorRegistry(fullAgentsConfig())
		require.NoError(t, err)

		d, err := r.Descriptor(types.ModeWithKnowledgeBase)
		require.NoError(t, err)
		assert.Equal(t, "AG-KB", d.AgentID)

		d, err = r.Descriptor(types.ModeExternal)
		require.NoError(t, err)
		assert.Equal(t, "AL-EXT", d.AliasID)
	})

	t.Run("missing descriptor is fatal", func(t *testing.T) {
		cfg := fullAgentsConfig()
		cfg.External.AliasID = ""

		_, err := NewDescriptorRegistry(cfg)
		require.Error(t, err)
		assert.Equal(t, types.ErrConfiguration, types.GetErrorCode(err))
	})

	t.Run("unknown mode rejected", func(t *testing.T) {
		r, err := NewDescriptorRegistry(fullAgentsConfig())
		require.NoError(t, err)

		_, err = r.Descriptor(types.AgentMode("bogus"))
		assert.Equal(t, types.ErrConfiguration, types.GetErrorCode(err))
	})
}

func TestResolveMode(t *testing.T) {
	plain := &tenant.Course{ID: "c", KnowledgeBaseID: "kb-1"}
	configured := &tenant.Course{ID: "c", KnowledgeBaseID: "kb-1", Settings: &tenant.CourseSettings{}}

	assert.Equal(t, types.ModeNoKnowledgeBase, resolveMode(nil, ""))
	assert.Equal(t, types.ModeWithKnowledgeBase, resolveMode(nil, "kb-1"))
	assert.Equal(t, types.ModeWithKnowledgeBase, resolveMode(plain, "kb-1"))
	assert.Equal(t, types.ModeExternal, resolveMode(configured, "kb-1"))
}
