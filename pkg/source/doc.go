// Package source loads translation documents from where they are kept:
// a file system tree, an S3 bucket or a PostgreSQL table.
//
// Every source returns the full document set on each Load, so a reload is
// a plain Load followed by Store.Replace:
//
//	src := source.Multi(
//		source.Dir("./l10n", "**/*.yml"),
//		source.Postgres(pool),
//	)
//	docs, err := src.Load(ctx)
//	if err != nil {
//		return err
//	}
//	store.Replace(docs)
//
// Documents are returned in a deterministic order; when two documents
// share a tag the later one wins once they reach a Store. Multi keeps the
// order of its sources, so later sources override earlier ones.
package source
