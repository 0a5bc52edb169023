// Package storage provides file management for downloaded images.
//
// Every post gets its own folder under the output root, named after the
// decoded second-to-last segment of the post URL. Images keep the final
// segment of their URL as file name.
//
// Usage:
//
//	manager := storage.NewManager("gravure")
//
//	folder, _ := manager.EnsureFolder(post)
//	if err := manager.WriteImage(folder, "0001.jpg", body); err != nil {
//	    log.Printf("failed to save image: %v", err)
//	}
//
// Writes go through a temporary file in the destination folder followed by
// a rename, so an existing file is replaced in one step. Concurrent writes
// of distinct names into the same folder are safe.
package storage
