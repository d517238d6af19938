// Package database connects to the backend holding object metadata and the
// icon directory.
//
// # Supported Backends
//
//   - postgres: pgx connection pool, for shared deployments
//   - sqlite: modernc.org/sqlite, for single node deployments
//   - memory: maps, lost on exit, for tests and throwaway servers
//
// # Usage
//
//	cfg := database.Config{
//	    Type:   "sqlite",
//	    DSN:    "iconbox.db",
//	    Tables: iconbox.Tables{Objects: "iconbox_objects", Icons: "iconbox_icons"},
//	}
//
//	db, err := database.Open(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	objects := iconbox.NewBlobStore(db.Objects(), storage, iconbox.BlobStoreConfig{})
//	service := iconbox.NewIconService(objects, db.Directory())
//
// Connect only opens the backend. Open also pings, creates missing tables and
// validates their columns.
package database
