// Package runtime provides the injected feature-flag source read by payout
// business rules. Flags are addressed by enumerated keys; callers always pass
// an explicit default so a missing key never changes behavior silently.
package runtime

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

type Key string

const (
	// Fraud gating for merchant payouts after a bank-information change.
	FraudEnablePayoutDelayAfterBankChange    Key = "fraud.enable_payout_delay_after_bank_change"
	FraudBusinessWhitelistForPayoutDelay     Key = "fraud.business_whitelist_for_payout_delay"
	FraudMinimumHoursBeforePayoutAfterChange Key = "fraud.minimum_hours_before_payout_after_bank_change"

	// Manually maintained stop-lists of payment accounts excluded from
	// automatic weekly payouts.
	PayoutDasherAccountStopList   Key = "payout.dasher_account_stop_list"
	PayoutMerchantAccountStopList Key = "payout.merchant_account_stop_list"
)

// Provider resolves runtime flags. Implementations must be safe for
// concurrent use.
type Provider interface {
	GetBool(key Key, def bool) bool
	GetInt(key Key, def int) int
	GetIntList(key Key, def []int64) []int64
}

// StaticProvider serves flags from a fixed map. Used in tests and as the
// zero-value "all defaults" provider.
type StaticProvider struct {
	mu     sync.RWMutex
	values map[Key]any
}

func NewStaticProvider(values map[Key]any) *StaticProvider {
	if values == nil {
		values = make(map[Key]any)
	}
	return &StaticProvider{values: values}
}

// Set overrides one flag value.
func (p *StaticProvider) Set(key Key, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = value
}

func (p *StaticProvider) GetBool(key Key, def bool) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key].(bool); ok {
		return v
	}
	return def
}

func (p *StaticProvider) GetInt(key Key, def int) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key].(int); ok {
		return v
	}
	return def
}

func (p *StaticProvider) GetIntList(key Key, def []int64) []int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key].([]int64); ok {
		return v
	}
	return def
}

// LoadFile reads a YAML flag file into a StaticProvider. The file maps flag
// keys to scalar or list values; unknown keys are kept and simply unused.
func LoadFile(path string) (*StaticProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read runtime flag file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse runtime flag file: %w", err)
	}

	values := make(map[Key]any, len(raw))
	for k, v := range raw {
		values[Key(k)] = normalize(v)
	}
	return NewStaticProvider(values), nil
}

// normalize converts YAML list values into []int64 so typed getters match.
func normalize(v any) any {
	list, ok := v.([]any)
	if !ok {
		return v
	}
	ints := make([]int64, 0, len(list))
	for _, item := range list {
		switch n := item.(type) {
		case int:
			ints = append(ints, int64(n))
		case int64:
			ints = append(ints, n)
		default:
			return v
		}
	}
	return ints
}
