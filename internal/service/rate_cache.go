package service

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/apperrors"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/repository"
)

// rateCacheKey is the setting table key for the last observed rate.
const rateCacheKey = "cached_btc_rate"

// RateCache stores the last successfully observed reference rate so the
// feed can fall back to it when a live fetch fails.
type RateCache interface {
	Save(ctx context.Context, rate float64) error
	Load(ctx context.Context) (float64, bool)
}

// SettingRateCache persists the rate in the setting table, durable across
// process restarts.
//
// Known quirk, preserved deliberately: a stored value of exactly 0 loads
// as absent, so a legitimate zero rate is indistinguishable from "never
// cached". Downstream behavior depends on this.
type SettingRateCache struct {
	settings *repository.SettingRepository
}

// NewSettingRateCache creates a rate cache backed by the setting table.
func NewSettingRateCache(settings *repository.SettingRepository) *SettingRateCache {
	return &SettingRateCache{settings: settings}
}

// Save overwrites the cached rate unconditionally.
func (c *SettingRateCache) Save(ctx context.Context, rate float64) error {
	return c.settings.SetSetting(ctx, rateCacheKey, strconv.FormatFloat(rate, 'f', -1, 64))
}

// Load returns the cached rate, or false if never saved or if the
// persisted representation decodes to zero or is invalid.
func (c *SettingRateCache) Load(ctx context.Context) (float64, bool) {
	value, err := c.settings.GetSetting(ctx, rateCacheKey)
	if errors.Is(err, apperrors.ErrSettingNotFound) {
		return 0, false
	}
	if err != nil {
		log.Printf("RateCache: failed to read cached rate: %v", err)
		return 0, false
	}

	rate, err := strconv.ParseFloat(value, 64)
	if err != nil || rate == 0 {
		return 0, false
	}

	return rate, true
}
