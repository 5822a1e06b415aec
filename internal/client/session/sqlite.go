package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/residentportal/internal/client/repositories/storage"
	"github.com/dmitrijs2005/residentportal/internal/common"
	"github.com/dmitrijs2005/residentportal/internal/dbx"
)

// SQLiteStore persists the record in the session_storage table under the
// "token" and "userData" keys. Every operation runs in one transaction.
type SQLiteStore struct {
	db *sql.DB
	listeners
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load returns the zero Record when nothing is stored. A half-written record
// is removed and reported as absent. Undecodable user data is removed and
// reported as ErrCorruptRecord.
func (s *SQLiteStore) Load(ctx context.Context) (Record, error) {
	var rec Record
	var corrupt error

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := storage.NewSQLiteRepository(tx)

		token, hasToken, err := repo.Get(ctx, common.SessionTokenKey)
		if err != nil {
			return err
		}
		raw, hasData, err := repo.Get(ctx, common.SessionUserDataKey)
		if err != nil {
			return err
		}

		switch {
		case !hasToken && !hasData:
			return nil
		case !hasToken || !hasData || token == "":
			return repo.Delete(ctx, common.SessionTokenKey, common.SessionUserDataKey)
		}

		var data UserData
		if err := json.Unmarshal([]byte(raw), &data); err != nil || data == nil {
			corrupt = fmt.Errorf("%w: user data: %v", ErrCorruptRecord, err)
			return repo.Delete(ctx, common.SessionTokenKey, common.SessionUserDataKey)
		}

		rec = Record{Token: token, UserData: data}
		return nil
	})
	if err != nil {
		return Record{}, fmt.Errorf("failed to load session: %w", err)
	}
	if corrupt != nil {
		return Record{}, corrupt
	}
	return rec, nil
}

func (s *SQLiteStore) Save(ctx context.Context, rec Record) error {
	if err := validate(rec); err != nil {
		return err
	}

	data, err := json.Marshal(rec.UserData)
	if err != nil {
		return fmt.Errorf("failed to encode user data: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := storage.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.SessionTokenKey, rec.Token); err != nil {
			return err
		}
		return repo.Set(ctx, common.SessionUserDataKey, string(data))
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.notify(rec)
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return storage.NewSQLiteRepository(tx).Delete(ctx, common.SessionTokenKey, common.SessionUserDataKey)
	})
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.notify(Record{})
	return nil
}

func (s *SQLiteStore) Subscribe(fn Listener) func() {
	return s.subscribe(fn)
}
