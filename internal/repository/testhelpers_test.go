package repository

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bachecalabs/bacheca/internal/db"
	"github.com/bachecalabs/bacheca/internal/model"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// A second pool connection would see a fresh empty in-memory database,
	// so the whole test runs on one connection.
	conn.SetMaxOpenConns(1)

	_, err = conn.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)

	err = db.RunMigrations(conn.DB, "sqlite")
	require.NoError(t, err)

	return conn
}

func seedUser(t *testing.T, conn *sqlx.DB, id, email string) {
	t.Helper()

	_, err := conn.Exec(`INSERT INTO users (id, email, password_hash, name, role, verified, created_at)
	          VALUES ($1, $2, 'hash', 'Test User', 'USER', 0, $3)`, id, email, time.Now())
	require.NoError(t, err)
}

func housingAd(userID string) (*model.Ad, *model.HousingDetail) {
	now := time.Now()
	start := now.AddDate(0, 1, 0)

	ad := &model.Ad{
		UserID:         userID,
		CityID:         1,
		Category:       model.CategoryHousing,
		Status:         model.AdStatusPending,
		Title:          "Bilocale in Bovisa",
		Description:    "Bilocale arredato a due passi dal Politecnico.",
		ExpirationDate: &start,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	detail := &model.HousingDetail{
		RentalKind:            model.RentalPermanent,
		PropertyType:          "apartment",
		PriceAmount:           decimal.NewNullDecimal(decimal.NewFromInt(900)),
		AvailabilityStartDate: &start,
		ContractType:          model.ContractStandard,
		BillsPolicy:           model.BillsExcluded,
	}
	return ad, detail
}

func adMedia(keys ...string) []*model.MediaAsset {
	media := make([]*model.MediaAsset, len(keys))
	for i, key := range keys {
		media[i] = &model.MediaAsset{StorageKey: key, Kind: model.MediaImage}
	}
	return media
}
