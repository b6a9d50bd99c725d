package testing

import (
	"strings"
	"testing"

	"github.com/ValentinKolb/tinycfg/lib/document"
	"github.com/ValentinKolb/tinycfg/lib/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// StoreFactory is a function that creates a new, stopped store on a fresh volume
type StoreFactory func() store.IConfigStore

// RunConfigStoreTests runs the conformance test suite for an IConfigStore implementation.
func RunConfigStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Lifecycle", func(t *testing.T) {
			testLifecycle(t, factory())
		})

		t.Run("RoundTrip", func(t *testing.T) {
			testRoundTrip(t, started(t, factory()))
		})

		t.Run("Fallback", func(t *testing.T) {
			testFallback(t, started(t, factory()))
		})

		t.Run("NotRunning", func(t *testing.T) {
			testNotRunning(t, factory)
		})

		t.Run("Reset", func(t *testing.T) {
			testReset(t, started(t, factory()))
		})

		t.Run("GetAll", func(t *testing.T) {
			testGetAll(t, started(t, factory()))
		})

		t.Run("DeleteKey", func(t *testing.T) {
			testDeleteKey(t, started(t, factory()))
		})

		t.Run("DeleteKeys", func(t *testing.T) {
			testDeleteKeys(t, started(t, factory()))
		})

		t.Run("MaxDocumentBytes", func(t *testing.T) {
			testMaxDocumentBytes(t, started(t, factory()))
		})

		t.Run("SizeBound", func(t *testing.T) {
			testSizeBound(t, started(t, factory()))
		})

		t.Run("Coercion", func(t *testing.T) {
			testCoercion(t, started(t, factory()))
		})

		t.Run("Persistence", func(t *testing.T) {
			testPersistence(t, started(t, factory()))
		})

		t.Run("RealisticUsage", func(t *testing.T) {
			testRealisticUsage(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// started starts s and registers a cleanup that stops it again
func started(t *testing.T, s store.IConfigStore) store.IConfigStore {
	t.Helper()
	require.True(t, s.Start(), "start failed: %v", s.Err())
	t.Cleanup(func() {
		s.Stop()
	})
	return s
}

// requireKind fails the test if the last error of s is not kind
func requireKind(t *testing.T, s store.IConfigStore, kind store.ErrorKind) {
	t.Helper()
	require.Equal(t, kind, s.LastError(), "unexpected last error: %v", s.Err())
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testLifecycle(t *testing.T, s store.IConfigStore) {
	requireKind(t, s, store.KindNone)

	require.True(t, s.Start())
	requireKind(t, s, store.KindNone)
	assert.Nil(t, s.Err())

	assert.False(t, s.Start(), "second start must be rejected")
	requireKind(t, s, store.KindAlreadyRunning)
	assert.ErrorIs(t, s.Err(), store.ErrAlreadyRunning)
	assert.Equal(t, "Store already running", s.LastErrorMessage())

	require.True(t, s.Stop())
	requireKind(t, s, store.KindNone)

	assert.False(t, s.Stop(), "second stop must be rejected")
	requireKind(t, s, store.KindNotRunning)

	// a stopped store can be started again
	require.True(t, s.Start())
	require.True(t, s.Stop())
}

func testRoundTrip(t *testing.T, s store.IConfigStore) {
	require.True(t, s.SetInt("int_key", 42))
	requireKind(t, s, store.KindNone)
	require.True(t, s.SetFloat("float_key", 3.14))
	require.True(t, s.SetString("str_key", "hello"))
	require.True(t, s.Set("value_key", document.Int(-7)))
	require.True(t, store.Set(s, "generic_float", float32(0.1)))
	require.True(t, store.Set(s, "generic_int", 12))

	assert.Equal(t, int64(42), s.GetInt("int_key", -1))
	requireKind(t, s, store.KindNone)
	assert.Equal(t, 3.14, s.GetFloat("float_key", -1))
	assert.Equal(t, "hello", s.GetString("str_key", "fail"))
	assert.Equal(t, int64(-7), s.GetInt("value_key", 0))
	assert.Equal(t, 0.1, s.GetFloat("generic_float", -1))
	assert.Equal(t, int64(12), s.GetInt("generic_int", -1))

	// overwriting changes value and kind
	require.True(t, s.SetString("int_key", "now a string"))
	assert.Equal(t, "now a string", s.GetString("int_key", ""))

	// integral floats stay floats
	require.True(t, s.SetFloat("whole", 2))
	doc := s.GetAllDocument()
	assert.Equal(t, document.Float(2), doc["whole"])
}

func testFallback(t *testing.T, s store.IConfigStore) {
	assert.Equal(t, int64(123), s.GetInt("notfound", 123))
	requireKind(t, s, store.KindNone)
	assert.Equal(t, 1.23, s.GetFloat("notfound", 1.23))
	requireKind(t, s, store.KindNone)
	assert.Equal(t, "fallback", s.GetString("notfound", "fallback"))
	requireKind(t, s, store.KindNone)
}

// testNotRunning checks that a store that was never started behaves exactly
// like a store that was started and stopped again.
func testNotRunning(t *testing.T, factory StoreFactory) {
	never := factory()

	stopped := factory()
	require.True(t, stopped.Start())
	require.True(t, stopped.SetInt("x", 1))
	require.True(t, stopped.Stop())

	for name, s := range map[string]store.IConfigStore{"never started": never, "stopped": stopped} {
		t.Run(name, func(t *testing.T) {
			assert.False(t, s.SetInt("x", 1))
			requireKind(t, s, store.KindNotRunning)
			assert.ErrorIs(t, s.Err(), store.ErrNotRunning)

			assert.False(t, s.SetString("x", "y"))
			requireKind(t, s, store.KindNotRunning)

			assert.Equal(t, int64(42), s.GetInt("x", 42))
			requireKind(t, s, store.KindNotRunning)
			assert.Equal(t, 4.2, s.GetFloat("x", 4.2))
			requireKind(t, s, store.KindNotRunning)
			assert.Equal(t, "fb", s.GetString("x", "fb"))
			requireKind(t, s, store.KindNotRunning)

			assert.Equal(t, "{}", s.GetAll("{}"))
			requireKind(t, s, store.KindNotRunning)

			doc := s.GetAllDocument()
			assert.NotNil(t, doc)
			assert.Equal(t, 0, doc.Len())
			requireKind(t, s, store.KindNotRunning)

			assert.False(t, s.DeleteKey("x"))
			requireKind(t, s, store.KindNotRunning)
			assert.False(t, s.DeleteKeys("x", "y"))
			requireKind(t, s, store.KindNotRunning)

			assert.False(t, s.Stop())
			requireKind(t, s, store.KindNotRunning)

			// the volume is unmounted, so the empty document cannot be written
			assert.False(t, s.Reset())
			requireKind(t, s, store.KindCreateFailed)

			// the size bound is not tied to the lifecycle
			assert.True(t, s.SetMaxDocumentBytes(100))
			requireKind(t, s, store.KindNone)
		})
	}
}

func testReset(t *testing.T, s store.IConfigStore) {
	require.True(t, s.SetInt("test_key", 123))
	require.Equal(t, int64(123), s.GetInt("test_key", 0))

	require.True(t, s.Reset())
	requireKind(t, s, store.KindNone)

	assert.Equal(t, int64(0), s.GetInt("test_key", 0))
	assert.Equal(t, "{}", s.GetAll("fallback"))
	assert.Equal(t, 0, s.GetAllDocument().Len())
}

func testGetAll(t *testing.T, s store.IConfigStore) {
	require.True(t, s.SetInt("key1", 1))
	require.True(t, s.SetFloat("key2", 2.5))
	require.True(t, s.SetString("key3", "test"))
	require.True(t, s.SetString("name", "bob"))

	all := s.GetAll("{}")
	requireKind(t, s, store.KindNone)
	assert.True(t, strings.HasPrefix(all, "{"))
	assert.True(t, strings.HasSuffix(all, "}"))
	assert.Contains(t, all, `"key1":1`)
	assert.Contains(t, all, `"key2":2.5`)
	assert.Contains(t, all, `"key3":"test"`)
	assert.Contains(t, all, `"name":"bob"`)

	doc := s.GetAllDocument()
	requireKind(t, s, store.KindNone)
	assert.Equal(t, document.Document{
		"key1": document.Int(1),
		"key2": document.Float(2.5),
		"key3": document.Text("test"),
		"name": document.Text("bob"),
	}, doc)

	// the returned document is a copy, changing it does not touch the store
	doc.Set("key1", document.Int(99))
	assert.Equal(t, int64(1), s.GetInt("key1", 0))
}

func testDeleteKey(t *testing.T, s store.IConfigStore) {
	require.True(t, s.SetInt("delete_me", 99))
	require.True(t, s.SetInt("keep_me", 1))
	require.Equal(t, int64(99), s.GetInt("delete_me", 0))

	assert.True(t, s.DeleteKey("delete_me"))
	requireKind(t, s, store.KindNone)
	assert.Equal(t, int64(0), s.GetInt("delete_me", 0))
	assert.Equal(t, int64(1), s.GetInt("keep_me", 0))

	assert.False(t, s.DeleteKey("delete_me"))
	requireKind(t, s, store.KindNone)
	assert.False(t, s.DeleteKey("non_existent"))
	requireKind(t, s, store.KindNone)
}

func testDeleteKeys(t *testing.T, s store.IConfigStore) {
	require.True(t, s.SetInt("a", 1))
	require.True(t, s.SetInt("b", 2))
	require.True(t, s.SetInt("c", 3))

	assert.True(t, s.DeleteKeys("a", "missing", "c"))
	requireKind(t, s, store.KindNone)
	assert.Equal(t, document.Document{"b": document.Int(2)}, s.GetAllDocument())

	assert.False(t, s.DeleteKeys("a", "missing"))
	requireKind(t, s, store.KindNone)
	assert.False(t, s.DeleteKeys())
	requireKind(t, s, store.KindNone)

	assert.True(t, s.DeleteKeys([]string{"b"}...))
	assert.Equal(t, "{}", s.GetAll(""))
}

func testMaxDocumentBytes(t *testing.T, s store.IConfigStore) {
	initial := s.MaxDocumentBytes()

	assert.False(t, s.SetMaxDocumentBytes(store.MinDocumentBytes-1))
	requireKind(t, s, store.KindSizeTooSmall)
	assert.Equal(t, initial, s.MaxDocumentBytes())

	assert.False(t, s.SetMaxDocumentBytes(store.MaxDocumentBytesLimit+1))
	requireKind(t, s, store.KindSizeTooLarge)
	assert.Equal(t, initial, s.MaxDocumentBytes())

	assert.False(t, s.SetMaxDocumentBytes(-5))
	requireKind(t, s, store.KindSizeTooSmall)

	require.True(t, s.SetMaxDocumentBytes(store.MinDocumentBytes))
	requireKind(t, s, store.KindNone)
	assert.Equal(t, store.MinDocumentBytes, s.MaxDocumentBytes())

	require.True(t, s.SetMaxDocumentBytes(store.MaxDocumentBytesLimit))
	assert.Equal(t, store.MaxDocumentBytesLimit, s.MaxDocumentBytes())
}

func testSizeBound(t *testing.T, s store.IConfigStore) {
	require.True(t, s.SetString("k", "v"))
	before := s.GetAll("")

	require.True(t, s.SetMaxDocumentBytes(20))
	big := strings.Repeat("A", 100)
	assert.False(t, s.SetString("big", big))
	requireKind(t, s, store.KindSizeTooLarge)
	assert.ErrorIs(t, s.Err(), store.ErrSizeTooLarge)

	// the rejected write left the document untouched
	require.True(t, s.SetMaxDocumentBytes(store.MaxDocumentBytesLimit))
	assert.Equal(t, before, s.GetAll(""))
	assert.Equal(t, "missing", s.GetString("big", "missing"))

	// the bound is inclusive: {"k":"v"} is exactly 9 bytes
	require.True(t, s.Reset())
	require.True(t, s.SetMaxDocumentBytes(9))
	assert.True(t, s.SetString("k", "v"))
	assert.False(t, s.SetString("k", "vv"))
	requireKind(t, s, store.KindSizeTooLarge)
	assert.Equal(t, "v", s.GetString("k", ""))

	// lowering the bound never truncates, and deleting from an oversized document works
	require.True(t, s.SetMaxDocumentBytes(store.MaxDocumentBytesLimit))
	require.True(t, s.SetString("long", strings.Repeat("x", 50)))
	require.True(t, s.SetMaxDocumentBytes(9))
	assert.Equal(t, strings.Repeat("x", 50), s.GetString("long", ""))
	assert.True(t, s.DeleteKey("long"))
	requireKind(t, s, store.KindNone)
}

func testCoercion(t *testing.T, s store.IConfigStore) {
	require.True(t, s.SetFloat("fraction", 2.5))
	require.True(t, s.SetFloat("integral", 4))
	require.True(t, s.SetString("numeric", "12"))
	require.True(t, s.SetString("word", "abc"))
	require.True(t, s.SetInt("int", 7))

	assert.Equal(t, int64(-1), s.GetInt("fraction", -1))
	assert.Equal(t, int64(4), s.GetInt("integral", -1))
	assert.Equal(t, int64(12), s.GetInt("numeric", -1))
	assert.Equal(t, int64(-1), s.GetInt("word", -1))
	assert.Equal(t, 7.0, s.GetFloat("int", -1))
	assert.Equal(t, 12.0, s.GetFloat("numeric", -1))
	assert.Equal(t, "7", s.GetString("int", ""))
	assert.Equal(t, "2.5", s.GetString("fraction", ""))
	requireKind(t, s, store.KindNone)

	// text is read as a decimal number, prefixes and separators are not meaningful
	require.True(t, s.SetString("zeros", "010"))
	require.True(t, s.SetString("hex", "0x10"))
	require.True(t, s.SetString("under", "1_000"))
	assert.Equal(t, int64(10), s.GetInt("zeros", -1))
	assert.Equal(t, 10.0, s.GetFloat("zeros", -1))
	assert.Equal(t, int64(-1), s.GetInt("hex", -1))
	assert.Equal(t, -1.0, s.GetFloat("hex", -1))
	assert.Equal(t, int64(-1), s.GetInt("under", -1))
	assert.Equal(t, -1.0, s.GetFloat("under", -1))
	requireKind(t, s, store.KindNone)
}

func testPersistence(t *testing.T, s store.IConfigStore) {
	require.True(t, s.SetInt("boot_count", 1))
	require.True(t, s.SetString("name", "bob"))

	require.True(t, s.Stop())
	require.True(t, s.Start())

	assert.Equal(t, int64(1), s.GetInt("boot_count", -1))
	assert.Equal(t, "bob", s.GetString("name", ""))
}

// testRealisticUsage simulates a device that counts its boots
func testRealisticUsage(t *testing.T, s store.IConfigStore) {
	for boot := int64(1); boot <= 5; boot++ {
		require.True(t, s.Start())
		count := s.GetInt("boot_count", 0)
		require.Equal(t, boot-1, count)
		require.True(t, s.SetInt("boot_count", count+1))
		require.True(t, s.SetString("last_boot", "ok"))
		require.True(t, s.Stop())
	}

	require.True(t, s.Start())
	defer s.Stop()
	assert.Equal(t, int64(5), s.GetInt("boot_count", -1))

	// stop -> set fails, get falls back
	require.True(t, s.Stop())
	assert.False(t, s.SetInt("x", 1))
	requireKind(t, s, store.KindNotRunning)
	assert.Equal(t, int64(42), s.GetInt("x", 42))
	require.True(t, s.Start())
}
