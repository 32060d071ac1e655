package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/bachecalabs/bacheca/internal/model"
)

var (
	ErrCityNotFound = errors.New("city not found")
)

type CityRepository interface {
	ByID(id int64) (*model.City, error)
	All() ([]*model.City, error)
}

type cityRepository struct {
	db *sqlx.DB
}

func NewCityRepository(db *sqlx.DB) CityRepository {
	return &cityRepository{db: db}
}

func (r *cityRepository) ByID(id int64) (*model.City, error) {
	city := &model.City{}
	query := `SELECT * FROM cities WHERE id = $1`

	err := r.db.Get(city, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrCityNotFound
	}

	return city, err
}

func (r *cityRepository) All() ([]*model.City, error) {
	var cities []*model.City
	query := `SELECT * FROM cities ORDER BY name ASC`

	err := r.db.Select(&cities, query)
	if err != nil {
		return nil, err
	}

	return cities, nil
}
