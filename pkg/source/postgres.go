package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/y10n/pkg/db"
	"github.com/dmitrymomot/y10n/pkg/l10n"
)

const selectTranslations = `SELECT lang, format, body FROM translations ORDER BY lang`

type postgresSource struct {
	db db.Beginner
}

// Postgres loads one document per row of the translations table created by
// db.Migrate. Rows are read in a single read-only transaction.
func Postgres(conn db.Beginner) Source {
	return &postgresSource{db: conn}
}

func (s *postgresSource) Name() string { return "postgres:translations" }

func (s *postgresSource) Load(ctx context.Context) ([]l10n.Document, error) {
	var docs []l10n.Document

	err := db.ReadOnly(ctx, s.db, func(q db.Querier) error {
		rows, err := q.Query(ctx, selectTranslations)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrQueryFailed, err)
		}

		docs, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (l10n.Document, error) {
			var lang, format, body string
			if err := row.Scan(&lang, &format, &body); err != nil {
				return l10n.Document{}, fmt.Errorf("%w: %v", ErrQueryFailed, err)
			}
			return DecodeRow(lang, format, body)
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return docs, nil
}

// DecodeRow decodes one translations row. format is "yaml", "yml" or "json".
func DecodeRow(lang, format, body string) (l10n.Document, error) {
	tag, err := l10n.ParseTag(lang)
	if err != nil || tag.IsWildcard() {
		return l10n.Document{}, fmt.Errorf("%w: lang %q is not a language tag", ErrInvalidRow, lang)
	}

	dec, ok := l10n.DecoderFor("." + format)
	if !ok {
		return l10n.Document{}, fmt.Errorf("%w: %q: unsupported format %q", ErrInvalidRow, lang, format)
	}

	tree, err := dec([]byte(body))
	if err != nil {
		return l10n.Document{}, fmt.Errorf("%w: %q: %v", ErrInvalidRow, lang, err)
	}

	return l10n.Document{Tag: tag, Tree: tree}, nil
}
