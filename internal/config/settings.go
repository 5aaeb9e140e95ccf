package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"adaptik/pkg/adaptive"
)

// EnvMaxItems overrides the advisory item budget used for progress
// reporting. The service still decides when a run ends.
const EnvMaxItems = "ADAPTIK_MAX_ITEMS"

// MaxItems resolves the item budget from the environment, falling back
// to the library default.
func MaxItems() (int, error) {
	raw := strings.TrimSpace(os.Getenv(EnvMaxItems))
	if raw == "" {
		return adaptive.DefaultMaxItems, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", EnvMaxItems, raw)
	}
	return n, nil
}
