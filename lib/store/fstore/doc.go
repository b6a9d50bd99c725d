// Package fstore implements store.IConfigStore on top of a volume.IVolume and a
// document.ICodec. The whole configuration lives in a single document file.
//
// Every key operation runs the same cycle: check the lifecycle state, read
// the file, parse it into a fresh document.Document, read or modify it and,
// for writes, serialize it, check the size bound and write the file again.
// Nothing is cached between calls, so the file is the only state besides the
// lifecycle flag, the size bound and the last-error register.
//
// Durability:
//
//	Writes truncate the document in place unless the volume was created with
//	volume.Options{AtomicWrites: true}. Without atomic writes a power loss in
//	the middle of a write can leave a corrupt document behind; the next load
//	then fails with store.KindParseFailed and Reset restores an empty document.
//
// Thread Safety:
//
//	A store is not safe for concurrent use. Callers that share a store between
//	goroutines must guard all calls with one mutex (see rpc/server).
//
// Usage Example:
//
//	s := fstore.NewConfigStore(volume.NewOsVolume("/data", volume.Options{}), document.NewJSONCodec())
//	if !s.Start() {
//		log.Fatal(s.Err())
//	}
//	defer s.Stop()
//
//	boots := s.GetInt("boot_count", 0)
//	if !s.SetInt("boot_count", boots+1) {
//		log.Printf("saving boot count: %s", s.LastErrorMessage())
//	}
package fstore
