package fstore

import (
	"fmt"
	"github.com/ValentinKolb/tinycfg/lib/document"
	"github.com/ValentinKolb/tinycfg/lib/stats"
	"github.com/ValentinKolb/tinycfg/lib/store"
	"github.com/ValentinKolb/tinycfg/lib/volume"
	"github.com/lni/dragonboat/v4/logger"
	"go.uber.org/multierr"
	"io"
)

var Logger = logger.GetLogger("store")

const (
	// DefaultPath is the location of the document inside the volume
	DefaultPath = "/config.json"
	// DefaultMaxDocumentBytes is the size bound of a new store
	DefaultMaxDocumentBytes = 2048
)

// emptyDocument is written by Reset and when Start finds no document
var emptyDocument = []byte("{}")

// Option configures a store created by NewConfigStore
type Option func(*configStore)

// WithPath sets the location of the document inside the volume
func WithPath(path string) Option {
	return func(s *configStore) {
		s.path = path
	}
}

// WithStats makes the store report every operation to r
func WithStats(r stats.IRecorder) Option {
	return func(s *configStore) {
		if r != nil {
			s.stats = r
		}
	}
}

type configStore struct {
	volume           volume.IVolume
	codec            document.ICodec
	stats            stats.IRecorder
	path             string
	maxDocumentBytes int
	initialized      bool
	lastErr          *store.Error
	written          int // bytes written by the running operation, reported to stats
}

// NewConfigStore creates a new configuration store for a single document on vol.
// The store starts in the stopped state, call Start before reading or writing keys.
func NewConfigStore(vol volume.IVolume, codec document.ICodec, opts ...Option) store.IConfigStore {
	s := &configStore{
		volume:           vol,
		codec:            codec,
		stats:            stats.Nop(),
		path:             DefaultPath,
		maxDocumentBytes: DefaultMaxDocumentBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store.IConfigStore)
// --------------------------------------------------------------------------

func (s *configStore) Start() bool {
	const op = "start"
	defer s.observe(op)

	if s.initialized {
		return s.fail(store.KindAlreadyRunning, op, nil)
	}
	if err := s.volume.Mount(); err != nil {
		return s.fail(store.KindMountFailed, op, err)
	}
	exists, err := s.volume.Exists(s.path)
	if err != nil {
		_ = s.volume.Unmount()
		return s.fail(store.KindOpenFailed, op, err)
	}
	if !exists {
		if !s.write(op, emptyDocument, store.KindCreateFailed, store.KindCreateFailed) {
			_ = s.volume.Unmount()
			return false
		}
		Logger.Infof("created empty document %s", s.path)
	}

	s.initialized = true
	s.clear()
	Logger.Infof("started (document=%s, max size=%d bytes)", s.path, s.maxDocumentBytes)
	return true
}

func (s *configStore) Stop() bool {
	const op = "stop"
	defer s.observe(op)

	if !s.initialized {
		return s.fail(store.KindNotRunning, op, nil)
	}
	if err := s.volume.Unmount(); err != nil {
		Logger.Warningf("unmount failed: %v", err)
	}

	s.initialized = false
	s.clear()
	Logger.Infof("stopped")
	return true
}

func (s *configStore) Reset() bool {
	const op = "reset"
	defer s.observe(op)

	if !s.write(op, emptyDocument, store.KindCreateFailed, store.KindCreateFailed) {
		return false
	}
	s.clear()
	return true
}

func (s *configStore) SetMaxDocumentBytes(n int) bool {
	const op = "set_max_document_bytes"
	defer s.observe(op)

	if n < store.MinDocumentBytes {
		return s.fail(store.KindSizeTooSmall, op, fmt.Errorf("%d bytes is below the minimum of %d", n, store.MinDocumentBytes))
	}
	if n > store.MaxDocumentBytesLimit {
		return s.fail(store.KindSizeTooLarge, op, fmt.Errorf("%d bytes is above the maximum of %d", n, store.MaxDocumentBytesLimit))
	}
	s.maxDocumentBytes = n
	s.clear()
	return true
}

func (s *configStore) MaxDocumentBytes() int {
	return s.maxDocumentBytes
}

func (s *configStore) Set(key string, value document.Value) bool {
	const op = "set"
	defer s.observe(op)

	doc, ok := s.load(op)
	if !ok {
		return false
	}
	if !value.IsValid() {
		return s.fail(store.KindSerializeFailed, op, fmt.Errorf("key %q: %w", key, document.ErrUnsupportedValue))
	}
	doc.Set(key, value)
	if !s.save(op, doc, true) {
		return false
	}
	s.clear()
	return true
}

func (s *configStore) SetInt(key string, value int64) bool {
	return s.Set(key, document.Int(value))
}

func (s *configStore) SetFloat(key string, value float64) bool {
	return s.Set(key, document.Float(value))
}

func (s *configStore) SetString(key string, value string) bool {
	return s.Set(key, document.Text(value))
}

func (s *configStore) GetInt(key string, fallback int64) int64 {
	const op = "get_int"
	defer s.observe(op)

	doc, ok := s.load(op)
	if !ok {
		return fallback
	}
	s.clear()
	return doc.IntOr(key, fallback)
}

func (s *configStore) GetFloat(key string, fallback float64) float64 {
	const op = "get_float"
	defer s.observe(op)

	doc, ok := s.load(op)
	if !ok {
		return fallback
	}
	s.clear()
	return doc.FloatOr(key, fallback)
}

func (s *configStore) GetString(key string, fallback string) string {
	const op = "get_string"
	defer s.observe(op)

	doc, ok := s.load(op)
	if !ok {
		return fallback
	}
	s.clear()
	return doc.TextOr(key, fallback)
}

func (s *configStore) GetAll(fallback string) string {
	const op = "get_all"
	defer s.observe(op)

	doc, ok := s.load(op)
	if !ok {
		return fallback
	}
	b, err := s.codec.Serialize(doc)
	if err != nil {
		s.fail(store.KindSerializeFailed, op, err)
		return fallback
	}
	s.clear()
	return string(b)
}

func (s *configStore) GetAllDocument() document.Document {
	const op = "get_all_document"
	defer s.observe(op)

	doc, ok := s.load(op)
	if !ok {
		return document.New()
	}
	s.clear()
	return doc
}

func (s *configStore) DeleteKey(key string) bool {
	const op = "delete_key"
	defer s.observe(op)

	doc, ok := s.load(op)
	if !ok {
		return false
	}
	if !doc.Remove(key) {
		s.clear()
		return false
	}
	if !s.save(op, doc, false) {
		return false
	}
	s.clear()
	return true
}

func (s *configStore) DeleteKeys(keys ...string) bool {
	const op = "delete_keys"
	defer s.observe(op)

	doc, ok := s.load(op)
	if !ok {
		return false
	}
	deleted := false
	for _, key := range keys {
		if doc.Remove(key) {
			deleted = true
		}
	}
	if deleted && !s.save(op, doc, false) {
		return false
	}
	s.clear()
	return deleted
}

func (s *configStore) LastError() store.ErrorKind {
	if s.lastErr == nil {
		return store.KindNone
	}
	return s.lastErr.Kind
}

func (s *configStore) LastErrorMessage() string {
	return s.LastError().Message()
}

func (s *configStore) Err() error {
	if s.lastErr == nil {
		return nil
	}
	return s.lastErr
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// clear resets the last-error register
func (s *configStore) clear() {
	s.lastErr = nil
}

// fail records an error in the last-error register and always returns false
func (s *configStore) fail(kind store.ErrorKind, op string, cause error) bool {
	s.lastErr = store.NewError(kind, op, cause)
	Logger.Debugf("%v", s.lastErr)
	return false
}

// observe reports the finished operation to the stats recorder
func (s *configStore) observe(op string) {
	s.stats.Observe(op, s.LastError().String(), s.written)
	s.written = 0
}

// load reads and parses the document. The file is closed before load returns.
func (s *configStore) load(op string) (document.Document, bool) {
	if !s.initialized {
		return nil, s.fail(store.KindNotRunning, op, nil)
	}

	f, err := s.volume.Open(s.path, volume.ModeRead)
	if err != nil {
		return nil, s.fail(store.KindOpenFailed, op, err)
	}
	b, err := io.ReadAll(f)
	if closeErr := f.Close(); closeErr != nil {
		Logger.Debugf("closing %s after read: %v", s.path, closeErr)
	}
	if err != nil {
		return nil, s.fail(store.KindOpenFailed, op, err)
	}

	doc, err := s.codec.Parse(b)
	if err != nil {
		return nil, s.fail(store.KindParseFailed, op, err)
	}
	return doc, true
}

// save serializes doc and writes it. With checkSize, a document larger than
// the configured bound is rejected before the file is touched.
func (s *configStore) save(op string, doc document.Document, checkSize bool) bool {
	b, err := s.codec.Serialize(doc)
	if err != nil {
		return s.fail(store.KindSerializeFailed, op, err)
	}
	if checkSize && len(b) > s.maxDocumentBytes {
		return s.fail(store.KindSizeTooLarge, op, fmt.Errorf("document would be %d bytes, limit is %d", len(b), s.maxDocumentBytes))
	}
	return s.write(op, b, store.KindOpenFailed, store.KindWriteFailed)
}

// write replaces the content of the document file with b. openKind and
// writeKind are the error kinds reported if opening resp. writing fails.
func (s *configStore) write(op string, b []byte, openKind, writeKind store.ErrorKind) bool {
	f, err := s.volume.Open(s.path, volume.ModeWrite)
	if err != nil {
		return s.fail(openKind, op, err)
	}

	n, err := f.Write(b)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return s.fail(writeKind, op, multierr.Append(err, f.Close()))
	}
	if err := f.Close(); err != nil {
		return s.fail(writeKind, op, err)
	}

	s.written = n
	return true
}
