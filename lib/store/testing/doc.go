// Package testing provides a conformance test suite for store.IConfigStore
// implementations. Run it from a _test.go file with a factory that returns a
// fresh, stopped store per call:
//
//	storetesting.RunConfigStoreTests(t, "MemVolume", func() store.IConfigStore {
//		return fstore.NewConfigStore(volume.NewMemVolume(volume.Options{}), document.NewJSONCodec())
//	})
package testing
