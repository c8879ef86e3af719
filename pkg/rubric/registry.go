package rubric

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Parser builds a Check from its raw JSON configuration.
type Parser func(raw json.RawMessage) (Check, error)

type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser
}

func (r *Registry) Register(checkType string, parser Parser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.parsers[checkType]
	if exists {
		return fmt.Errorf("a parser already exists for type '%s'", checkType)
	}

	r.parsers[checkType] = parser

	return nil
}

func (r *Registry) Parse(cfg CheckConfig) (Check, error) {
	if len(cfg) != 1 {
		return nil, fmt.Errorf("each check must have exactly one type")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for checkType, checkCfg := range cfg {
		parser, ok := r.parsers[checkType]
		if !ok {
			return nil, fmt.Errorf("unknown check type '%s'", checkType)
		}

		check, err := parser(checkCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse check: %w", err)
		}

		return check, nil
	}

	return nil, fmt.Errorf("no check type found")
}

// CheckConfig maps a check type name to its raw configuration.
type CheckConfig map[string]json.RawMessage

var DefaultRegistry = &Registry{
	parsers: make(map[string]Parser),
}

func init() {
	_ = DefaultRegistry.Register(checkTypeAgentLoads, ParseAgentLoadsCheck)
	_ = DefaultRegistry.Register(checkTypeValidDocument, ParseValidDocumentCheck)
	_ = DefaultRegistry.Register(checkTypeHasFunction, ParseHasFunctionCheck)
	_ = DefaultRegistry.Register(checkTypeUsesAction, ParseUsesActionCheck)
	_ = DefaultRegistry.Register(checkTypeFunctionResult, ParseFunctionResultCheck)
}
