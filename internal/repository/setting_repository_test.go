package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/apperrors"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/repository"
	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/testutil"
)

func TestSettingRepository(t *testing.T) {
	t.Run("get on a missing key returns ErrSettingNotFound", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewSettingRepository(db)

		_, err := repo.GetSetting(context.Background(), "missing")

		if !errors.Is(err, apperrors.ErrSettingNotFound) {
			t.Errorf("Expected ErrSettingNotFound, got %v", err)
		}
	})

	t.Run("set then get roundtrips the value", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewSettingRepository(db)

		if err := repo.SetSetting(context.Background(), "cached_btc_rate", "117290.61"); err != nil {
			t.Fatalf("SetSetting() returned unexpected error: %v", err)
		}

		value, err := repo.GetSetting(context.Background(), "cached_btc_rate")
		if err != nil {
			t.Fatalf("GetSetting() returned unexpected error: %v", err)
		}
		if value != "117290.61" {
			t.Errorf("Expected value '117290.61', got %q", value)
		}
	})

	t.Run("set overwrites an existing value without duplicating the row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewSettingRepository(db)

		if err := repo.SetSetting(context.Background(), "cached_btc_rate", "100"); err != nil {
			t.Fatalf("SetSetting() returned unexpected error: %v", err)
		}
		if err := repo.SetSetting(context.Background(), "cached_btc_rate", "200"); err != nil {
			t.Fatalf("SetSetting() returned unexpected error: %v", err)
		}

		value, err := repo.GetSetting(context.Background(), "cached_btc_rate")
		if err != nil {
			t.Fatalf("GetSetting() returned unexpected error: %v", err)
		}
		if value != "200" {
			t.Errorf("Expected value '200', got %q", value)
		}

		testutil.AssertRowCount(t, db, "setting", 1)
	})
}
