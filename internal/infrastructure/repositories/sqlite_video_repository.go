package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"video-svc/internal/domain/entities"
	"video-svc/internal/domain/repositories"

	"github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS videos (
	id INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	duration INTEGER NOT NULL,
	data_url TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_videos_title ON videos(title);
CREATE INDEX IF NOT EXISTS idx_videos_duration ON videos(duration);
CREATE TABLE IF NOT EXISTS video_likers (
	video_id INTEGER NOT NULL REFERENCES videos(id),
	username TEXT NOT NULL,
	PRIMARY KEY (video_id, username)
);
CREATE TABLE IF NOT EXISTS id_counter (
	name TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);`

type SQLiteVideoRepository struct {
	db *sql.DB
}

var _ repositories.VideoRepository = (*SQLiteVideoRepository)(nil)

func NewSQLiteVideoRepository(dbPath string) (*SQLiteVideoRepository, error) {
	dsn := dbPath
	if !strings.Contains(dsn, "?") {
		dsn += "?_busy_timeout=5000&_foreign_keys=on"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// sqlite tek yazıcı kabul eder; tüm erişimi tek bağlantıda sıralıyoruz
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return &SQLiteVideoRepository{db: db}, nil
}

func (r *SQLiteVideoRepository) NextID(ctx context.Context) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO id_counter (name, value) VALUES ('videos', 1)
		 ON CONFLICT(name) DO UPDATE SET value = value + 1
		 RETURNING value`,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("next video id: %w", err)
	}
	return id, nil
}

func (r *SQLiteVideoRepository) Save(ctx context.Context, video *entities.Video) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO videos (id, title, duration, data_url) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET title = excluded.title, duration = excluded.duration, data_url = excluded.data_url`,
		video.ID, video.Title, video.Duration, video.DataURL,
	); err != nil {
		return fmt.Errorf("sqlite upsert failed: %w", err)
	}
	// counter never falls behind an id that is already taken
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO id_counter (name, value) VALUES ('videos', ?)
		 ON CONFLICT(name) DO UPDATE SET value = MAX(value, excluded.value)`,
		video.ID,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteVideoRepository) FindByID(ctx context.Context, id int64) (*entities.Video, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, title, duration, data_url FROM videos WHERE id = ?`, id)
	var v entities.Video
	if err := row.Scan(&v.ID, &v.Title, &v.Duration, &v.DataURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrVideoNotFound
		}
		return nil, err
	}
	likers, err := r.likers(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	v.Likers = likers
	return &v, nil
}

func (r *SQLiteVideoRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, r.db, id)
}

func (r *SQLiteVideoRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos`).Scan(&n)
	return n, err
}

func (r *SQLiteVideoRepository) FindAll(ctx context.Context) ([]entities.Video, error) {
	return r.query(ctx, `SELECT id, title, duration, data_url FROM videos ORDER BY id`)
}

func (r *SQLiteVideoRepository) FindByName(ctx context.Context, title string) ([]entities.Video, error) {
	return r.query(ctx, `SELECT id, title, duration, data_url FROM videos WHERE title = ? ORDER BY id`, title)
}

func (r *SQLiteVideoRepository) FindByDurationLessThan(ctx context.Context, duration int64) ([]entities.Video, error) {
	return r.query(ctx, `SELECT id, title, duration, data_url FROM videos WHERE duration < ? ORDER BY id`, duration)
}

func (r *SQLiteVideoRepository) AddLiker(ctx context.Context, id int64, user string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ok, err := r.exists(ctx, tx, id)
	if err != nil {
		return err
	}
	if !ok {
		return repositories.ErrVideoNotFound
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO video_likers (video_id, username) VALUES (?, ?)`, id, user); err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return repositories.ErrAlreadyLiked
		}
		return fmt.Errorf("sqlite insert failed: %w", err)
	}
	return tx.Commit()
}

func (r *SQLiteVideoRepository) RemoveLiker(ctx context.Context, id int64, user string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ok, err := r.exists(ctx, tx, id)
	if err != nil {
		return err
	}
	if !ok {
		return repositories.ErrVideoNotFound
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM video_likers WHERE video_id = ? AND username = ?`, id, user)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repositories.ErrNotLiked
	}
	return tx.Commit()
}

func (r *SQLiteVideoRepository) Likers(ctx context.Context, id int64) ([]string, error) {
	ok, err := r.exists(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repositories.ErrVideoNotFound
	}
	return r.likers(ctx, r.db, id)
}

func (r *SQLiteVideoRepository) Close() error {
	return r.db.Close()
}

type sqlQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *SQLiteVideoRepository) exists(ctx context.Context, q sqlQuerier, id int64) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM videos WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *SQLiteVideoRepository) likers(ctx context.Context, q sqlQuerier, id int64) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT username FROM video_likers WHERE video_id = ? ORDER BY username`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	likers := make([]string, 0)
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		likers = append(likers, u)
	}
	return likers, rows.Err()
}

func (r *SQLiteVideoRepository) query(ctx context.Context, query string, args ...any) ([]entities.Video, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	videos := make([]entities.Video, 0)
	for rows.Next() {
		var v entities.Video
		if err := rows.Scan(&v.ID, &v.Title, &v.Duration, &v.DataURL); err != nil {
			rows.Close()
			return nil, err
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// single connection: the cursor must be released before the liker lookups
	rows.Close()

	for i := range videos {
		likers, err := r.likers(ctx, r.db, videos[i].ID)
		if err != nil {
			return nil, err
		}
		videos[i].Likers = likers
	}
	return videos, nil
}
