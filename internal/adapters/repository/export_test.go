package repository

import "database/sql"

// DB exposes the handle behind a SQLStore to tests.
func DB(s *SQLStore) *sql.DB { return s.db.DB }
