package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/examprep/internal/evaluation"
)

type SQLStore struct {
	db  *sql.DB
	now Clock
}

func NewSQLStore(db *sql.DB, now Clock) *SQLStore {
	if now == nil {
		now = time.Now
	}
	return &SQLStore{db: db, now: now}
}

func (s *SQLStore) Save(ctx context.Context, userID string, res evaluation.Result) (Record, error) {
	rec := newRecord(uuid.NewString(), userID, res, s.now())
	rj, err := json.Marshal(rec.Result)
	if err != nil {
		return Record{}, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO evaluations
		(id,user_id,question_type,total,total_max,weighted_score,grade,short_id,result_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		rec.ID, rec.UserID, rec.QuestionType, rec.Total, rec.TotalMax, rec.WeightedScore,
		rec.Grade, rec.ShortID, string(rj), rec.CreatedAt.Unix())
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

const selectCols = `id,user_id,question_type,total,total_max,weighted_score,grade,short_id,result_json,created_at`

func scanRecord(sc interface{ Scan(...any) error }) (Record, error) {
	var (
		r       Record
		rj      string
		created int64
	)
	if err := sc.Scan(&r.ID, &r.UserID, &r.QuestionType, &r.Total, &r.TotalMax, &r.WeightedScore,
		&r.Grade, &r.ShortID, &rj, &created); err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal([]byte(rj), &r.Result); err != nil {
		return Record{}, err
	}
	r.Percentage = r.Result.Percentage()
	r.CreatedAt = time.Unix(created, 0).UTC()
	return r, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectCols+` FROM evaluations WHERE id=$1`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return r, err
}

func (s *SQLStore) List(ctx context.Context, opts ListOpts) ([]Record, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1))
	}
	if opts.UserID != "" {
		add("user_id=?", opts.UserID)
	}
	if opts.QuestionType != "" {
		add("question_type=?", opts.QuestionType)
	}

	q := `SELECT ` + selectCols + ` FROM evaluations`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, normalizeLimit(opts.Limit), max(opts.Offset, 0))
	q += ` ORDER BY created_at DESC, id DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) Summary(ctx context.Context, userID string) ([]TypeSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT question_type,
		       COUNT(*),
		       AVG(CASE WHEN total_max > 0 THEN total * 100.0 / total_max ELSE 0 END),
		       MAX(CASE WHEN total_max > 0 THEN total * 100.0 / total_max ELSE 0 END),
		       MAX(created_at)
		FROM evaluations
		WHERE user_id=$1
		GROUP BY question_type
		ORDER BY question_type`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TypeSummary{}
	for rows.Next() {
		var (
			ts   TypeSummary
			last int64
		)
		if err := rows.Scan(&ts.QuestionType, &ts.Count, &ts.AveragePercentage, &ts.BestPercentage, &last); err != nil {
			return nil, err
		}
		ts.LastEvaluatedAt = time.Unix(last, 0).UTC()
		out = append(out, ts)
	}
	return out, rows.Err()
}
