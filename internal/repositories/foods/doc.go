// Package foods provides the persistence layer for the Foods table.
//
// # Overview
//
// The package defines a Repository interface for CRUD and search operations
// on Food models (see internal/models). A SQLite-backed implementation
// (SQLiteRepository) persists data using a dbx.DBTX (either *sql.DB or
// *sql.Tx), so the same code runs inside and outside a transaction.
//
// Every food stores its description (with kind markers), the derived kind,
// free-text notes and the 23 nutrient columns, per 100 g or per 100 mL.
//
// Typical Usage
//
//	repo := foods.NewSQLiteRepository(db)
//	id, _ := repo.Insert(ctx, food)
//	f, _ := repo.GetByID(ctx, id)
//	list, _ := repo.List(ctx, "milk")
//	_ = repo.DeleteByID(ctx, id)
package foods
