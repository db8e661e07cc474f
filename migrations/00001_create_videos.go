package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateVideos, downCreateVideos)
}

func upCreateVideos(ctx context.Context, tx *sql.Tx) error {
	// id'ler uygulama tarafından nextval ile ayrılır, dataUrl id'ye bağlı olduğu için
	createVideoTable := `
	CREATE SEQUENCE IF NOT EXISTS videos_id_seq START 1;
	CREATE TABLE videos (
		id BIGINT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		duration BIGINT NOT NULL,
		data_url VARCHAR(500) NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	CREATE INDEX idx_videos_title ON videos(title);
	CREATE INDEX idx_videos_duration ON videos(duration);
	`
	if _, err := tx.ExecContext(ctx, createVideoTable); err != nil {
		return fmt.Errorf("could not create videos table: %w", err)
	}

	createLikersTable := `
	CREATE TABLE video_likers (
		video_id BIGINT NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
		username VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		PRIMARY KEY (video_id, username)
	);
	`
	if _, err := tx.ExecContext(ctx, createLikersTable); err != nil {
		return fmt.Errorf("could not create video_likers table: %w", err)
	}
	return nil
}

func downCreateVideos(ctx context.Context, tx *sql.Tx) error {
	// ters sırada sil
	for _, stmt := range []string{
		"DROP TABLE IF EXISTS video_likers;",
		"DROP TABLE IF EXISTS videos;",
		"DROP SEQUENCE IF EXISTS videos_id_seq;",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("could not run %q: %w", stmt, err)
		}
	}
	return nil
}
