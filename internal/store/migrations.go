package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Photos table - composed polaroids, JPEG encoded
		`CREATE TABLE IF NOT EXISTS photos (
			id TEXT PRIMARY KEY,
			caption TEXT NOT NULL,
			jpeg BLOB NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_photos_created_at ON photos(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
