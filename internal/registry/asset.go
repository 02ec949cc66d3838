package registry

import (
	"fmt"
	"strings"
)

// AssetNotFoundError reports that no asset exactly matched the expected
// platform-specific name. It carries everything needed for an actionable
// diagnostic: what was looked for and what the release actually offers.
type AssetNotFoundError struct {
	// ExpectedName is the exact asset name that was searched for.
	ExpectedName string
	// Available lists every asset name present on the release.
	Available []string
}

// Error implements the error interface.
func (e *AssetNotFoundError) Error() string {
	return fmt.Sprintf("no asset named %s, available assets: %s",
		e.ExpectedName, strings.Join(e.Available, ", "))
}

// SelectAsset picks the single asset whose name exactly equals
// "<binaryName>-<triple>". Matching is equality only: no fuzzy matching and
// no preference ordering, the first exact hit wins.
func SelectAsset(assets []Asset, binaryName, triple string) (Asset, error) {
	expected := binaryName + "-" + triple

	for _, asset := range assets {
		if asset.Name == expected {
			return asset, nil
		}
	}

	available := make([]string, 0, len(assets))
	for _, asset := range assets {
		available = append(available, asset.Name)
	}

	return Asset{}, &AssetNotFoundError{
		ExpectedName: expected,
		Available:    available,
	}
}
