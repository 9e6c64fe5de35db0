package cache

import (
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// SchemaVersion tags the serialized Entry layout. Decoding an entry written
// with an unknown version is treated as a decode failure, which the read
// path downgrades to a miss.
const SchemaVersion = "1"

// Entry is the serialized representation of one entity in the store. It is
// created whole on every write and replaced whole on the next one; there is
// no partial update. Attributes and Original hold the msgpack encoding of the
// entity itself, Relations holds individually encoded relation values when
// relationship caching is enabled.
type Entry struct {
	Attributes    msgpack.RawMessage            `msgpack:"attributes"`
	Original      msgpack.RawMessage            `msgpack:"original,omitempty"`
	Relations     map[string]msgpack.RawMessage `msgpack:"relations,omitempty"`
	CachedAt      time.Time                     `msgpack:"cached_at"`
	SchemaVersion string                        `msgpack:"schema_version"`
}

// EncodeEntry serializes an Entry for storage.
func EncodeEntry(e *Entry) ([]byte, error) {
	data, err := msgpack.Marshal(e)
	if err != nil {
		return nil, &SerializationError{Op: "encode", Err: err}
	}
	return data, nil
}

// DecodeEntry deserializes a stored Entry, rejecting unknown schema versions.
func DecodeEntry(data []byte) (*Entry, error) {
	var e Entry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return nil, &SerializationError{Op: "decode", Err: err}
	}
	if e.SchemaVersion != SchemaVersion {
		return nil, &SerializationError{Op: "decode", Err: errUnknownSchema(e.SchemaVersion)}
	}
	return &e, nil
}

type errUnknownSchema string

func (e errUnknownSchema) Error() string {
	return "unknown schema version " + string(e)
}
