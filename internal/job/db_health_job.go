package job

import (
	"context"
	"database/sql"
	"time"
)

type DBHealthJob struct {
	db *sql.DB
}

func NewDBHealthJob(db *sql.DB) *DBHealthJob {
	return &DBHealthJob{db: db}
}

func (j *DBHealthJob) Name() string {
	return "db_health"
}

func (j *DBHealthJob) Run(ctx context.Context) error {
	if j.db == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return j.db.PingContext(ctx)
}
