// Package iconbox provides a small icon registry: named PNG icons stored as
// blobs, a directory mapping icon names to stored filenames, and a public JSON
// manifest of every icon.
//
// # Key Components
//
//   - IconService: upload, list, open and reindex over the two stores
//   - ObjectStore: blob storage keyed by filename with content type and etag
//   - DirectoryStore: icon name to stored filename mapping
//   - BlobStore: ObjectStore built from a MetaDataRepo and a FileStorage
//
// # Naming
//
// Icon names are one or more ASCII letters. The stored filename, which is also
// the object key, is "<name>.png". Both rules are enforced server side even
// when a client already validated them.
//
// # Example Usage
//
//	objects := iconbox.NewBlobStore(db.Objects(), storage, iconbox.BlobStoreConfig{})
//	service := iconbox.NewIconService(objects, db.Directory())
//
//	icon, err := service.Upload(ctx, "apple", pngReader)
//	icons, err := service.List(ctx)
//	manifest := iconbox.NewManifest("https://icons.example.com", icons)
//
// See the http package for the HTTP surface and the database packages for the
// SQL metadata and directory backends.
package iconbox
