package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bachecalabs/bacheca/internal/model"
)

const (
	AdSortCreated = "createdAt"
	AdSortUpdated = "updatedAt"
	AdSortTitle   = "title"
	AdSortViews   = "views"
)

var (
	ErrAdNotFound      = errors.New("ad not found")
	ErrAdDetailMissing = errors.New("ad detail row missing")
	ErrCoverNotInMedia = errors.New("cover storage key not present in media list")
)

// adEffectiveStatusExpr is the SQL twin of model.Ad.EffectiveStatus. Every
// query that filters or groups by status goes through it so an ONLINE row
// with a past expiration date counts as EXPIRED.
const adEffectiveStatusExpr = `CASE WHEN a.expiration_date IS NOT NULL AND a.expiration_date < %s THEN 'EXPIRED' ELSE a.status END`

type AdFilter struct {
	Search   string
	Status   model.AdStatus
	Category model.AdCategory
	CityID   int64
	UserID   string
	DateFrom *time.Time
	DateTo   *time.Time

	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

type CityCount struct {
	CityID   int64  `db:"city_id" json:"cityId"`
	CityName string `db:"city_name" json:"cityName"`
	Count    int    `db:"count" json:"count"`
}

type AdStats struct {
	Total               int                        `json:"total"`
	ByStatus            map[model.AdStatus]int     `json:"byStatus"`
	ByCategory          map[model.AdCategory]int   `json:"byCategory"`
	TopCities           []CityCount                `json:"topCities"`
	SubmittedLast7Days  int                        `json:"submittedLast7Days"`
	SubmittedLast30Days int                        `json:"submittedLast30Days"`
}

type AdRepository interface {
	Create(ad *model.Ad, detail model.AdDetail, media []*model.MediaAsset, coverKey string) error
	Update(ad *model.Ad, detail model.AdDetail, media []*model.MediaAsset, coverKey string) error
	ByID(id int64) (*model.Ad, error)
	ByIDWithOwner(id int64) (*model.AdWithOwner, error)
	List(filter AdFilter, now time.Time) ([]*model.AdWithOwner, int, error)
	Stats(now time.Time) (*AdStats, error)
	UpdateStatus(id int64, status model.AdStatus, now time.Time) error
	IncrementViews(id int64) error
	IncrementContactClicks(id int64) error
	Delete(id int64) error
}

type adRepository struct {
	db *sqlx.DB
}

func NewAdRepository(db *sqlx.DB) AdRepository {
	return &adRepository{db: db}
}

// Create persists the ad root, its category detail row and the ordered media
// list in one transaction, then resolves the cover reference from the freshly
// inserted media rows. Nothing is visible to readers until commit.
func (r *adRepository) Create(ad *model.Ad, detail model.AdDetail, media []*model.MediaAsset, coverKey string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO ads (user_id, city_id, category, status, title, description, expiration_date, views_count, contact_clicks_count, media_count, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, 0, 0, $8, $9, $10)
	          RETURNING id`

	err = tx.QueryRow(query,
		ad.UserID,
		ad.CityID,
		ad.Category,
		ad.Status,
		ad.Title,
		ad.Description,
		ad.ExpirationDate,
		len(media),
		ad.CreatedAt,
		ad.UpdatedAt,
	).Scan(&ad.ID)
	if err != nil {
		return fmt.Errorf("failed to insert ad: %w", err)
	}

	err = insertDetail(tx, ad.ID, detail)
	if err != nil {
		return err
	}

	coverID, err := insertMedia(tx, ad.ID, media, coverKey)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`UPDATE ads SET cover_media_id = $1 WHERE id = $2`, coverID, ad.ID)
	if err != nil {
		return fmt.Errorf("failed to set cover media: %w", err)
	}
	ad.CoverMediaID = &coverID

	return tx.Commit()
}

// Update rewrites the whole aggregate: root row, detail row and the full
// media set (delete-and-reinsert, no diffing). The caller has already done
// ownership and category checks and reset the status to PENDING.
func (r *adRepository) Update(ad *model.Ad, detail model.AdDetail, media []*model.MediaAsset, coverKey string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE ads
	          SET city_id = $1, title = $2, description = $3, status = $4, expiration_date = $5, media_count = $6, cover_media_id = NULL, updated_at = $7
	          WHERE id = $8`

	result, err := tx.Exec(query,
		ad.CityID,
		ad.Title,
		ad.Description,
		ad.Status,
		ad.ExpirationDate,
		len(media),
		ad.UpdatedAt,
		ad.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update ad: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAdNotFound
	}

	_, err = tx.Exec(fmt.Sprintf(`DELETE FROM %s WHERE ad_id = $1`, detailTable(detail.Category())), ad.ID)
	if err != nil {
		return fmt.Errorf("failed to delete detail row: %w", err)
	}

	err = insertDetail(tx, ad.ID, detail)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`DELETE FROM media_assets WHERE ad_id = $1`, ad.ID)
	if err != nil {
		return fmt.Errorf("failed to delete media rows: %w", err)
	}

	coverID, err := insertMedia(tx, ad.ID, media, coverKey)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`UPDATE ads SET cover_media_id = $1 WHERE id = $2`, coverID, ad.ID)
	if err != nil {
		return fmt.Errorf("failed to set cover media: %w", err)
	}
	ad.CoverMediaID = &coverID

	return tx.Commit()
}

func detailTable(category model.AdCategory) string {
	switch category {
	case model.CategoryHousing:
		return "housing_details"
	case model.CategoryTransportation:
		return "transportation_details"
	case model.CategoryMarketplace:
		return "marketplace_details"
	case model.CategoryServices:
		return "service_details"
	}
	return ""
}

func insertDetail(tx *sqlx.Tx, adID int64, detail model.AdDetail) error {
	var err error

	switch d := detail.(type) {
	case *model.HousingDetail:
		d.AdID = adID
		_, err = tx.Exec(`INSERT INTO housing_details (ad_id, rental_kind, property_type, price_amount, price_negotiable, availability_start_date, availability_end_date, contract_type, residenza_available, deposit_amount, agency_fee_amount, bills_policy, bills_monthly_estimate, bills_notes, rooms_count, bathrooms_count, size_sqm, furnished, address)
		               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
			d.AdID, d.RentalKind, d.PropertyType, d.PriceAmount, d.PriceNegotiable,
			d.AvailabilityStartDate, d.AvailabilityEndDate, d.ContractType, d.ResidenzaAvailable,
			d.DepositAmount, d.AgencyFeeAmount, d.BillsPolicy, d.BillsMonthlyEstimate, d.BillsNotes,
			d.RoomsCount, d.BathroomsCount, d.SizeSqm, d.Furnished, d.Address)
	case *model.TransportationDetail:
		d.AdID = adID
		_, err = tx.Exec(`INSERT INTO transportation_details (ad_id, vehicle_kind, brand, model, year, mileage_km, fuel_type, price_amount, price_negotiable)
		               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			d.AdID, d.VehicleKind, d.Brand, d.Model, d.Year, d.MileageKm, d.FuelType,
			d.PriceAmount, d.PriceNegotiable)
	case *model.MarketplaceDetail:
		d.AdID = adID
		_, err = tx.Exec(`INSERT INTO marketplace_details (ad_id, item_condition, brand, price_amount, price_negotiable, delivery_available)
		               VALUES ($1, $2, $3, $4, $5, $6)`,
			d.AdID, d.ItemCondition, d.Brand, d.PriceAmount, d.PriceNegotiable, d.DeliveryAvailable)
	case *model.ServiceDetail:
		d.AdID = adID
		_, err = tx.Exec(`INSERT INTO service_details (ad_id, service_kind, rate_unit, price_amount, price_negotiable, remote_available)
		               VALUES ($1, $2, $3, $4, $5, $6)`,
			d.AdID, d.ServiceKind, d.RateUnit, d.PriceAmount, d.PriceNegotiable, d.RemoteAvailable)
	default:
		return fmt.Errorf("unsupported detail type %T", detail)
	}

	if err != nil {
		return fmt.Errorf("failed to insert detail row: %w", err)
	}
	return nil
}

func insertMedia(tx *sqlx.Tx, adID int64, media []*model.MediaAsset, coverKey string) (int64, error) {
	var coverID int64

	query := `INSERT INTO media_assets (ad_id, storage_key, kind, position, width, height, size_bytes, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`

	now := time.Now()
	for i, m := range media {
		m.AdID = adID
		m.Position = i
		if m.Kind == "" {
			m.Kind = model.MediaImage
		}
		m.CreatedAt = now

		err := tx.QueryRow(query, m.AdID, m.StorageKey, m.Kind, m.Position, m.Width, m.Height, m.SizeBytes, m.CreatedAt).Scan(&m.ID)
		if err != nil {
			return 0, fmt.Errorf("failed to insert media row %d: %w", i, err)
		}

		if m.StorageKey == coverKey {
			coverID = m.ID
		}
	}

	if coverID == 0 {
		return 0, ErrCoverNotInMedia
	}

	return coverID, nil
}

func (r *adRepository) ByID(id int64) (*model.Ad, error) {
	ad := &model.Ad{}
	query := `SELECT * FROM ads WHERE id = $1`

	err := r.db.Get(ad, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrAdNotFound
	}
	if err != nil {
		return nil, err
	}

	err = r.loadDetail(ad)
	if err != nil {
		return nil, err
	}

	err = r.db.Select(&ad.Media, `SELECT * FROM media_assets WHERE ad_id = $1 ORDER BY position ASC`, id)
	if err != nil {
		return nil, err
	}

	return ad, nil
}

func (r *adRepository) ByIDWithOwner(id int64) (*model.AdWithOwner, error) {
	ad := &model.AdWithOwner{}
	query := `SELECT a.*, u.name AS owner_name, u.email AS owner_email
	          FROM ads a JOIN users u ON u.id = a.user_id
	          WHERE a.id = $1`

	err := r.db.Get(ad, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrAdNotFound
	}
	if err != nil {
		return nil, err
	}

	err = r.loadDetail(&ad.Ad)
	if err != nil {
		return nil, err
	}

	err = r.db.Select(&ad.Media, `SELECT * FROM media_assets WHERE ad_id = $1 ORDER BY position ASC`, id)
	if err != nil {
		return nil, err
	}

	return ad, nil
}

func (r *adRepository) loadDetail(ad *model.Ad) error {
	var detail model.AdDetail
	var err error

	switch ad.Category {
	case model.CategoryHousing:
		d := &model.HousingDetail{}
		err = r.db.Get(d, `SELECT * FROM housing_details WHERE ad_id = $1`, ad.ID)
		detail = d
	case model.CategoryTransportation:
		d := &model.TransportationDetail{}
		err = r.db.Get(d, `SELECT * FROM transportation_details WHERE ad_id = $1`, ad.ID)
		detail = d
	case model.CategoryMarketplace:
		d := &model.MarketplaceDetail{}
		err = r.db.Get(d, `SELECT * FROM marketplace_details WHERE ad_id = $1`, ad.ID)
		detail = d
	case model.CategoryServices:
		d := &model.ServiceDetail{}
		err = r.db.Get(d, `SELECT * FROM service_details WHERE ad_id = $1`, ad.ID)
		detail = d
	default:
		return fmt.Errorf("ad %d has unknown category %q", ad.ID, ad.Category)
	}

	if err == sql.ErrNoRows {
		return fmt.Errorf("ad %d: %w", ad.ID, ErrAdDetailMissing)
	}
	if err != nil {
		return err
	}

	ad.Detail = detail
	return nil
}

func (r *adRepository) List(f AdFilter, now time.Time) ([]*model.AdWithOwner, int, error) {
	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		where = append(where, fmt.Sprintf(adEffectiveStatusExpr, arg(now))+" = "+arg(string(f.Status)))
	}
	if f.Category != "" {
		where = append(where, "a.category = "+arg(string(f.Category)))
	}
	if f.CityID != 0 {
		where = append(where, "a.city_id = "+arg(f.CityID))
	}
	if f.UserID != "" {
		where = append(where, "a.user_id = "+arg(f.UserID))
	}
	if f.DateFrom != nil {
		where = append(where, "a.created_at >= "+arg(*f.DateFrom))
	}
	if f.DateTo != nil {
		where = append(where, "a.created_at <= "+arg(*f.DateTo))
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		where = append(where, fmt.Sprintf("(LOWER(a.title) LIKE %s OR LOWER(a.description) LIKE %s OR LOWER(u.name) LIKE %s OR LOWER(u.email) LIKE %s)",
			arg(pattern), arg(pattern), arg(pattern), arg(pattern)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	countQuery := `SELECT COUNT(*) FROM ads a JOIN users u ON u.id = a.user_id ` + whereClause

	var total int
	err := r.db.QueryRow(countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	// Sort columns are whitelisted; anything else falls back to recency
	var orderBy string
	switch f.SortBy {
	case AdSortUpdated:
		orderBy = "a.updated_at"
	case AdSortTitle:
		orderBy = "LOWER(a.title)"
	case AdSortViews:
		orderBy = "a.views_count"
	default:
		orderBy = "a.created_at"
	}
	direction := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		direction = "ASC"
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	listQuery := fmt.Sprintf(`SELECT a.*, u.name AS owner_name, u.email AS owner_email
	          FROM ads a JOIN users u ON u.id = a.user_id
	          %s ORDER BY %s %s LIMIT %s OFFSET %s`,
		whereClause, orderBy, direction, arg(limit), arg(offset))

	var ads []*model.AdWithOwner
	err = r.db.Select(&ads, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}

	return ads, total, nil
}

func (r *adRepository) Stats(now time.Time) (*AdStats, error) {
	stats := &AdStats{
		ByStatus:   make(map[model.AdStatus]int),
		ByCategory: make(map[model.AdCategory]int),
	}

	type bucket struct {
		Key   string `db:"key"`
		Count int    `db:"count"`
	}

	var statusCounts []bucket
	statusQuery := fmt.Sprintf(`SELECT %s AS key, COUNT(*) AS count FROM ads a GROUP BY 1`,
		fmt.Sprintf(adEffectiveStatusExpr, "$1"))
	err := r.db.Select(&statusCounts, statusQuery, now)
	if err != nil {
		return nil, err
	}
	for _, b := range statusCounts {
		stats.ByStatus[model.AdStatus(b.Key)] = b.Count
		stats.Total += b.Count
	}

	var categoryCounts []bucket
	err = r.db.Select(&categoryCounts, `SELECT category AS key, COUNT(*) AS count FROM ads GROUP BY 1`)
	if err != nil {
		return nil, err
	}
	for _, b := range categoryCounts {
		stats.ByCategory[model.AdCategory(b.Key)] = b.Count
	}

	err = r.db.Select(&stats.TopCities, `SELECT c.id AS city_id, c.name AS city_name, COUNT(*) AS count
	          FROM ads a JOIN cities c ON c.id = a.city_id
	          GROUP BY c.id, c.name ORDER BY count DESC LIMIT 5`)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(`SELECT COUNT(*) FROM ads WHERE created_at >= $1`, now.AddDate(0, 0, -7)).Scan(&stats.SubmittedLast7Days)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(`SELECT COUNT(*) FROM ads WHERE created_at >= $1`, now.AddDate(0, 0, -30)).Scan(&stats.SubmittedLast30Days)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *adRepository) UpdateStatus(id int64, status model.AdStatus, now time.Time) error {
	query := `UPDATE ads SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.Exec(query, status, now, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAdNotFound
	}

	return nil
}

func (r *adRepository) IncrementViews(id int64) error {
	_, err := r.db.Exec(`UPDATE ads SET views_count = views_count + 1 WHERE id = $1`, id)
	return err
}

func (r *adRepository) IncrementContactClicks(id int64) error {
	_, err := r.db.Exec(`UPDATE ads SET contact_clicks_count = contact_clicks_count + 1 WHERE id = $1`, id)
	return err
}

func (r *adRepository) Delete(id int64) error {
	// Detail and media rows go with the ad via ON DELETE CASCADE
	result, err := r.db.Exec(`DELETE FROM ads WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAdNotFound
	}

	return nil
}
