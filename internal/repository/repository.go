package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/Jamolkhon5/negotiator/internal/session"
)

// Repository - Postgres-реализация session.Store. Позволяет пережить
// рестарт сервиса, in-memory вариант остается дефолтом.
type Repository struct {
	db *sqlx.DB

	// Мьютексы сессий остаются внутрипроцессными: нам нужна
	// сериализация записей в историю, а не распределенная блокировка
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		db:    db,
		locks: make(map[string]*sync.Mutex),
	}
}

func (r *Repository) Get(id string) (*session.Session, error) {
	query := `
        SELECT data
        FROM negotiation_sessions
        WHERE id = $1`

	var data []byte
	if err := r.db.Get(&data, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("error loading session: %w", err)
	}

	var s session.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("error unmarshaling session: %w", err)
	}
	return &s, nil
}

func (r *Repository) Put(s *session.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("error marshaling session: %w", err)
	}

	query := `
        INSERT INTO negotiation_sessions (id, created_at, state, data)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id) DO UPDATE SET state = $3, data = $4`

	_, err = r.db.Exec(query, s.ID, s.CreatedAt, string(s.State), data)
	return err
}

func (r *Repository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM negotiation_sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return session.ErrNotFound
	}

	r.locksMu.Lock()
	delete(r.locks, id)
	r.locksMu.Unlock()
	return nil
}

func (r *Repository) List() ([]string, error) {
	query := `
        SELECT id
        FROM negotiation_sessions
        ORDER BY created_at`

	var ids []string
	if err := r.db.Select(&ids, query); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Repository) Lock(id string) func() {
	r.locksMu.Lock()
	lock, ok := r.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[id] = lock
	}
	r.locksMu.Unlock()

	lock.Lock()
	return lock.Unlock
}
