// Package trace records the cost trajectory of an optimization run.
package trace

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const (
	tableCost = "cost"
)

// Point is one recorded objective evaluation.
type Point struct {
	Evaluation int
	Cost       float64
}

// Store persists (evaluation, cost) pairs in a sqlite database.
type Store struct {
	Path string

	db *sql.DB
}

// Open creates a store at dbPath, dropping any previous recording there.
func Open(dbPath string) (*Store, error) {
	s := &Store{Path: dbPath}
	var err error
	s.db, err = sql.Open("sqlite3", fmt.Sprintf("file:%s", dbPath))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}

	if err := prepareDB(s.db); err != nil {
		s.db.Close()
		return nil, errors.Wrap(err, "")
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Append records one evaluation of the objective.
func (s *Store) Append(evaluation int, cost float64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sqlStr := fmt.Sprintf(`INSERT OR REPLACE INTO %s (evaluation, cost) VALUES (?, ?)`, tableCost)
	if _, err := s.db.ExecContext(ctx, sqlStr, evaluation, cost); err != nil {
		return errors.Wrap(err, fmt.Sprintf("%d %f", evaluation, cost))
	}
	return nil
}

// Points returns all recorded points ordered by evaluation.
func (s *Store) Points() ([]Point, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sqlStr := fmt.Sprintf(`SELECT evaluation, cost FROM %s ORDER BY evaluation`, tableCost)
	rows, err := s.db.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	defer rows.Close()

	points := make([]Point, 0)
	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.Evaluation, &p.Cost); err != nil {
			return nil, errors.Wrap(err, "")
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return points, nil
}

func prepareDB(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sqlStr := fmt.Sprintf(`DROP TABLE IF EXISTS %s`, tableCost)
	if _, err := db.ExecContext(ctx, sqlStr); err != nil {
		return errors.Wrap(err, "")
	}
	sqlStr = fmt.Sprintf(`CREATE TABLE %s (evaluation INTEGER, cost REAL, PRIMARY KEY (evaluation)) STRICT`, tableCost)
	if _, err := db.ExecContext(ctx, sqlStr); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
