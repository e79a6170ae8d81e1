// Package appmgr lists applications on removable storage, programs a
// selected binary into flash and hands execution over to it.
//
// # Overview
//
// A Manager owns three collaborators:
//   - storage.Storage: the removable medium, mounted per operation
//   - flash.Driver: block erase and page program with busy polling
//   - Handoff: the final, non-returning jump into the loaded image
//
// # Listing
//
// Scan walks the applications directory in a stable order and yields one
// catalog.Description per entry. The callback can stop early, which is how
// a launcher reads a single page of a large catalog:
//
//	err := mgr.Scan(ctx, start, func(i int, d catalog.Description) bool {
//	    page.Set(i-start, d)
//	    return !page.Full()
//	})
//
// # Loading
//
// Load copies app.bin into the flash window page by page, erasing each
// block before its first page is written:
//
//	err := mgr.Load(ctx, d, 0x4000, func(written, total int) bool {
//	    fmt.Printf("%d/%d\n", written, total)
//	    return true
//	})
//	if err == nil {
//	    mgr.Run(0x4000) // does not return
//	}
//
// # Error Handling
//
// Every failure is an *Error whose Code names the outcome:
//   - FailedToMount: storage missing or not mountable
//   - NoAppsDir: the applications directory does not exist
//   - FailedToOpen: app.bin or an icon could not be opened or read
//   - InvalidOffset: load address below the window or not page aligned
//   - BinaryTooLarge: the binary does not fit below the upper limit
//   - UserCancelled: the progress callback or context stopped the load
//   - TooFewBuffer, NoIcon: icon path lookups
//   - FlashFailed: driver error, busy timeout, or a returning handoff
//
// Compare with errors.Is against the Err* sentinels or read the code with
// CodeOf.
package appmgr
