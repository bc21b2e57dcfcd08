package repo

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
	// ErrInvalidReference is returned when a foreign key points at a
	// missing row, e.g. an invoice for an unknown member.
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// translate maps driver errors onto the package sentinels and leaves
// everything else untouched.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return ErrConflict
		case pgerrcode.ForeignKeyViolation:
			return ErrInvalidReference
		case pgerrcode.InvalidTextRepresentation:
			// a key that cannot be cast to the column type matches no row
			return ErrNotFound
		}
	}
	return err
}
