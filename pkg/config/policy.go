package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Policy holds the economy rules the service enforces.
type Policy struct {
	BonusMin      int64
	BonusMax      int64
	BonusCooldown time.Duration

	MinWithdrawal int64

	// Defaults applied to redeem codes created without explicit values.
	CodeAmountMin int64
	CodeAmountMax int64
	CodeUses      int64

	ListLimit          int32
	MaxAttempts        int
	StaleWithdrawalAge time.Duration

	// RatePerMinute and RateBurst bound reward and withdrawal requests per user.
	RatePerMinute float64
	RateBurst     int
}

// DefaultPolicy returns the production defaults.
func DefaultPolicy() Policy {
	return Policy{
		BonusMin:           3,
		BonusMax:           5,
		BonusCooldown:      24 * time.Hour,
		MinWithdrawal:      20,
		CodeAmountMin:      1,
		CodeAmountMax:      10,
		CodeUses:           1,
		ListLimit:          50,
		MaxAttempts:        5,
		StaleWithdrawalAge: 72 * time.Hour,
		RatePerMinute:      30,
		RateBurst:          10,
	}
}

// policyFile mirrors the YAML representation of a policy. Zero values keep
// the defaults.
type policyFile struct {
	Bonus struct {
		Min      int64  `yaml:"min"`
		Max      int64  `yaml:"max"`
		Cooldown string `yaml:"cooldown"`
	} `yaml:"bonus"`
	Withdrawal struct {
		Min      int64  `yaml:"min"`
		StaleAge string `yaml:"stale_age"`
	} `yaml:"withdrawal"`
	RedeemCodes struct {
		AmountMin int64 `yaml:"amount_min"`
		AmountMax int64 `yaml:"amount_max"`
		Uses      int64 `yaml:"uses"`
	} `yaml:"redeem_codes"`
	ListLimit   int32 `yaml:"list_limit"`
	MaxAttempts int   `yaml:"max_attempts"`
	RateLimit   struct {
		PerMinute float64 `yaml:"per_minute"`
		Burst     int     `yaml:"burst"`
	} `yaml:"rate_limit"`
}

// LoadPolicy reads a policy from the YAML file at path. An empty path
// returns the defaults.
func LoadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()
	if strings.TrimSpace(path) == "" {
		return policy, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return policy, fmt.Errorf("open policy: %w", err)
	}
	defer file.Close()

	var entry policyFile
	if err := yaml.NewDecoder(file).Decode(&entry); err != nil {
		return policy, fmt.Errorf("decode policy: %w", err)
	}

	setInt(&policy.BonusMin, entry.Bonus.Min)
	setInt(&policy.BonusMax, entry.Bonus.Max)
	if err := setDuration(&policy.BonusCooldown, entry.Bonus.Cooldown); err != nil {
		return policy, fmt.Errorf("bonus.cooldown: %w", err)
	}
	setInt(&policy.MinWithdrawal, entry.Withdrawal.Min)
	if err := setDuration(&policy.StaleWithdrawalAge, entry.Withdrawal.StaleAge); err != nil {
		return policy, fmt.Errorf("withdrawal.stale_age: %w", err)
	}
	setInt(&policy.CodeAmountMin, entry.RedeemCodes.AmountMin)
	setInt(&policy.CodeAmountMax, entry.RedeemCodes.AmountMax)
	setInt(&policy.CodeUses, entry.RedeemCodes.Uses)
	if entry.ListLimit > 0 {
		policy.ListLimit = entry.ListLimit
	}
	if entry.MaxAttempts > 0 {
		policy.MaxAttempts = entry.MaxAttempts
	}
	if entry.RateLimit.PerMinute > 0 {
		policy.RatePerMinute = entry.RateLimit.PerMinute
	}
	if entry.RateLimit.Burst > 0 {
		policy.RateBurst = entry.RateLimit.Burst
	}

	return policy, policy.Validate()
}

// Validate checks the policy is internally consistent.
func (p Policy) Validate() error {
	switch {
	case p.BonusMin < 1 || p.BonusMax < p.BonusMin:
		return fmt.Errorf("bonus range [%d, %d] invalid", p.BonusMin, p.BonusMax)
	case p.BonusCooldown <= 0:
		return fmt.Errorf("bonus cooldown must be positive")
	case p.MinWithdrawal < 1:
		return fmt.Errorf("minimum withdrawal must be positive")
	case p.CodeAmountMin < 1 || p.CodeAmountMax < p.CodeAmountMin:
		return fmt.Errorf("redeem code range [%d, %d] invalid", p.CodeAmountMin, p.CodeAmountMax)
	case p.CodeUses < 1:
		return fmt.Errorf("redeem code uses must be positive")
	case p.ListLimit < 1:
		return fmt.Errorf("list limit must be positive")
	case p.MaxAttempts < 1:
		return fmt.Errorf("max attempts must be positive")
	}
	return nil
}

func setInt(dst *int64, v int64) {
	if v > 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
