package application

import (
	"fmt"
	"strings"

	"github.com/bnema/steamrec/internal/domain"
)

type RecommendCommand struct {
	SteamID domain.SteamID
}

func (c RecommendCommand) Validate() error {
	if strings.TrimSpace(string(c.SteamID)) == "" {
		return fmt.Errorf("%w: steam id is required", domain.ErrConfiguration)
	}

	return nil
}

type SetAPIKeyCommand struct {
	APIKey string
}

func (c SetAPIKeyCommand) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: api key is required", domain.ErrConfiguration)
	}

	return nil
}
