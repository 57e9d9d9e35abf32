package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	portsrepo "github.com/fxrisk/fx_risk_app/internal/core/ports/repositories"
	portssvc "github.com/fxrisk/fx_risk_app/internal/core/ports/services"
)

// registryService caches the set of allowed currency codes in memory for
// fast membership checks during valuation. Guarded by an RWMutex since
// valuation requests run concurrently.
type registryService struct {
	currencyRepo portsrepo.CurrencyReader

	mu    sync.RWMutex
	codes map[string]struct{}
}

// NewRegistryService creates an empty currency registry. Call Reload to
// populate it from persistence.
func NewRegistryService(currencyRepo portsrepo.CurrencyReader) portssvc.CurrencyRegistrySvc {
	return &registryService{
		currencyRepo: currencyRepo,
		codes:        make(map[string]struct{}),
	}
}

var _ portssvc.CurrencyRegistrySvc = (*registryService)(nil)

// IsAllowed reports whether the given code is registered.
func (s *registryService) IsAllowed(code string) bool {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.codes[normalized]
	return ok
}

// Codes returns a sorted snapshot of all registered codes.
func (s *registryService) Codes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]string, 0, len(s.codes))
	for code := range s.codes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Update merges additional codes into the registry.
func (s *registryService) Update(codes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, code := range codes {
		normalized := strings.ToUpper(strings.TrimSpace(code))
		if normalized != "" {
			s.codes[normalized] = struct{}{}
		}
	}
}

// Reload replaces the registry contents from the currency repository.
func (s *registryService) Reload(ctx context.Context) error {
	codes, err := s.currencyRepo.ListCurrencyCodes(ctx)
	if err != nil {
		return fmt.Errorf("failed to load currency registry: %w", err)
	}

	fresh := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		fresh[strings.ToUpper(strings.TrimSpace(code))] = struct{}{}
	}

	s.mu.Lock()
	s.codes = fresh
	s.mu.Unlock()
	return nil
}
