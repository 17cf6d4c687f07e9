package database

import (
	"database/sql"
	"time"
)

type Dataset struct {
	ID                int32
	Name              string
	Type              string
	Scope             string
	Location          string
	Description       string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	MarkedForDeletion bool
}

type ScanJob struct {
	ID              int32
	Status          string
	StartedAt       time.Time
	CompletedAt     sql.NullTime
	DatasetsFound   int32
	DatasetsCreated int32
	DatasetsDeleted int32
	ErrorMessage    sql.NullString
}
