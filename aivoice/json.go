package aivoice

import (
	"encoding/json"
	"fmt"
)

// parseJSON decodes a host JSON property into target.
func parseJSON(data string, target any) error {
	err := json.Unmarshal([]byte(data), target)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}

	return nil
}

// encodeJSON encodes a configuration object for a host JSON property.
func encodeJSON(value any) (string, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %T: %w", value, err)
	}

	return string(encoded), nil
}
