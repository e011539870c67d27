package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Photo is one captured polaroid.
type Photo struct {
	ID        string
	Caption   string
	JPEG      []byte
	Width     int
	Height    int
	CreatedAt time.Time
}

// PhotoRepository provides access to session photos.
type PhotoRepository struct {
	db *sql.DB
}

// Photos returns the photo repository for this store.
func (s *Store) Photos() *PhotoRepository {
	return &PhotoRepository{db: s.db}
}

// Create inserts a photo. A missing ID is filled with a new UUID and
// CreatedAt is set to now.
func (r *PhotoRepository) Create(p *Photo) error {
	if len(p.JPEG) == 0 {
		return errors.New("photo has no image data")
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO photos (id, caption, jpeg, width, height, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Caption, p.JPEG, p.Width, p.Height, p.CreatedAt,
	)
	return err
}

// GetByID retrieves a photo, including its image data.
func (r *PhotoRepository) GetByID(id string) (*Photo, error) {
	p := &Photo{}
	err := r.db.QueryRow(
		`SELECT id, caption, jpeg, width, height, created_at
		 FROM photos WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.Caption, &p.JPEG, &p.Width, &p.Height, &p.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return p, nil
}

// List returns every photo in capture order, without image data.
func (r *PhotoRepository) List() ([]*Photo, error) {
	rows, err := r.db.Query(
		`SELECT id, caption, width, height, created_at
		 FROM photos ORDER BY created_at, rowid`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []*Photo
	for rows.Next() {
		p := &Photo{}
		if err := rows.Scan(&p.ID, &p.Caption, &p.Width, &p.Height, &p.CreatedAt); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}

	return photos, rows.Err()
}

// Count returns the number of stored photos.
func (r *PhotoRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM photos`).Scan(&n)
	return n, err
}
