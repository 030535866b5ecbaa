// Package db connects to the PostgreSQL database that can hold
// translation documents and keeps its schema up to date.
//
// [Open] builds a pgx pool with startup retries, [Migrate] applies the
// embedded goose migrations that create the translations table, and
// [ReadOnly] runs a function inside a read-only repeatable-read
// transaction so a reload sees one consistent set of rows.
//
//	pool, err := db.Open(ctx, cfg.Database)
//	if err != nil {
//		return err
//	}
//	if err := db.Migrate(ctx, pool, log); err != nil {
//		return err
//	}
//	src := source.Postgres(pool)
package db
