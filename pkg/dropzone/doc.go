// Package dropzone implements a server-rendered drag-and-drop upload widget.
//
// A Dropzone owns the pending file set, the upload progress and the
// drop-to-upload state machine:
//
//	Idle --drop--> Selected --Upload--> Uploading --done--> Idle
//	                   ^                    |
//	                   +-------error--------+
//
// Drag detection and admission are delegated to a DropSurface, the transfer
// itself to an Uploader. Both are interfaces so the state machine can run
// without a browser or a network:
//
//	dz := dropzone.New(
//	    dropzone.WithUploader(upload.NewClient(dropzone.StaticTarget("/upload"))),
//	    dropzone.WithAccept(dropzone.Accept{"image/*": {".png", ".jpg"}}),
//	    dropzone.WithMultiple(true),
//	    dropzone.WithOnUploadComplete(func(ctx context.Context, res []dropzone.Result) error {
//	        return saveAttachments(ctx, res)
//	    }),
//	)
//	err := dz.Drop(ctx, files)
//	html, _ := render.RenderToString(dz.Render())
//
// Surfaced progress is always a multiple of 10 and is nil while no upload is
// in flight.
package dropzone
