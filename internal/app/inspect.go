package app

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Inspect parses and validates a symbol file, reporting entry counts per
// resource type.
func (s Service) Inspect(ctx context.Context, req InspectRequest) (InspectResult, error) {
	table, err := s.Symbols.Load(req.SymbolFile)
	if err != nil {
		return InspectResult{}, err
	}
	byType := map[string]int{}
	for _, sym := range table.All() {
		byType[string(sym.Type)]++
	}
	log.Ctx(ctx).Debug().Int("entries", table.Len()).Msg("symbol file inspected")
	return InspectResult{Entries: table.Len(), ByType: byType}, nil
}
