// Package database provides the data access layer for the library.
//
// # Architecture
//
// The database layer is organized into collection-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── errors.go        # Typed store errors shared by every repository
//	├── userbooks/       # Library rows, one per (book, category) membership
//	├── recommended/     # Catalog suggestions, de-duplicated by ISBN
//	└── categories/      # Category names, pinning and ordering
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./tabby.db")
//
//	booksRepo := userbooks.NewRepository(db.DB)
//	categoriesRepo := categories.NewRepository(db.DB)
//
//	books, err := booksRepo.ListByCategory("To Read")
//
// # Error Handling
//
// Repositories never hand raw gorm or driver errors to their callers. Storage
// failures are logged where they happen and returned as *StorageError;
// by-id misses are ErrNotFound; loops over several rows that stop part way
// return *PartialBatchError. Reads that match nothing return an empty slice
// and a nil error.
//
// # Connection
//
// The application opens a single connection (see NewDatabase) and every
// repository shares it, so statements are serialized by SQLite itself.
package database
