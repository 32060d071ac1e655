package model

type City struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Province string `db:"province" json:"province"`
}
