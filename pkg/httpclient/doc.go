// Package httpclient uploads files to the media backend.
//
// Create a client with:
//
//	client, err := httpclient.New("https://api.example.com")
//	if err != nil {
//	   panic(err)
//	}
//
// Then upload one or more sources:
//
//	// Upload a file, choosing the transport by size
//	result, err := client.Upload(ctx, src, upload.WithToken(token), upload.WithChunkedLargeFiles())
//
//	// Upload a batch in order, with aggregate progress
//	results, err := client.UploadFiles(ctx, srcs, upload.WithProgress(func(p schema.Progress) {
//	   fmt.Println(p.Percent)
//	}))
//
// Every failure is a *schema.Error; use errors.Is with the schema.Err codes
// to tell a timeout from a cancellation or a server rejection.
package httpclient
