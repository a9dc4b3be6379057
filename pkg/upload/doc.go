// Package upload is the storage and transport side of the dropzone widget.
//
// # Server
//
// Handler accepts multipart POSTs with one or more "file" parts, sniffs each
// part's type with http.DetectContentType (client headers are not trusted),
// and streams it into a Store:
//
//	store, _ := upload.NewDiskStore("/var/tmp/uploads", 50<<20)
//	r.Post("/upload", upload.Handler(store))
//
// Stored files are temporary. The application finalizes one with Claim and
// a Janitor removes whatever is never claimed:
//
//	go upload.NewJanitor(store, 5*time.Minute, time.Hour, logger).Run(ctx)
//
//	file, err := store.Claim(ctx, tempID)
//	if err != nil {
//	    return err
//	}
//	defer file.Close() // removes the temp file
//
// DiskStore keeps files on the local filesystem; S3Store keeps them in S3
// or any S3-compatible service.
//
// # Client
//
// Client implements dropzone.Uploader against Handler, reporting progress
// as the request body is streamed. StoreUploader implements it against a
// Store directly, for files that are already on the server.
package upload
