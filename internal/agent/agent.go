package agent

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed agent.json
var agentCard []byte

// AgentCardData holds the validated agent card once LoadAgentCard succeeds.
var AgentCardData []byte

var (
	loadOnce sync.Once
	loadErr  error
)

// LoadAgentCard validates the embedded card. It is safe to call on every
// request; the work happens once.
func LoadAgentCard() error {
	loadOnce.Do(func() {
		var card struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		}
		if err := json.Unmarshal(agentCard, &card); err != nil {
			loadErr = fmt.Errorf("parse agent card: %w", err)
			return
		}
		if card.Name == "" || card.URL == "" {
			loadErr = fmt.Errorf("agent card is missing name or url")
			return
		}
		AgentCardData = agentCard
	})
	return loadErr
}
