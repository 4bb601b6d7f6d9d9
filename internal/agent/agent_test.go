package agent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAgentCard(t *testing.T) {
	require.NoError(t, LoadAgentCard())
	require.NotEmpty(t, AgentCardData)

	var card map[string]interface{}
	require.NoError(t, json.Unmarshal(AgentCardData, &card))
	for _, field := range []string{"name", "description", "version", "capabilities", "endpoints"} {
		assert.Contains(t, card, field)
	}

	endpoints := card["endpoints"].(map[string]interface{})
	assert.Equal(t, "/a2a/ideas", endpoints["a2a"])
}
