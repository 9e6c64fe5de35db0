package cache

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// KeySeparator delimits cache key segments.
const KeySeparator = "::"

// statsSegment namespaces performance stats away from entity entries so a
// prefix delete of an entity namespace never touches its counters.
const statsSegment = "stats"

// TypeFingerprint hashes a fully qualified type name into a fixed-width hex
// token. Keys carry the fingerprint instead of the raw name so that type
// names containing the separator cannot forge foreign key namespaces, and so
// key length stays bounded for deeply nested package paths.
func TypeFingerprint(typeName string) string {
	return strconv.FormatUint(xxhash.Sum64String(typeName), 16)
}

// EntityKey builds the store key for one entity:
// {prefix}::{type-fingerprint}::{id}. The prefix is normalized to snake_case
// before use; see toSnake.
func EntityKey(prefix, typeName, id string) string {
	return TypePrefix(prefix, typeName) + id
}

// TypePrefix returns the shared key prefix for every entity of a type,
// including the trailing separator. DeleteByPrefix with this value clears the
// whole type namespace.
func TypePrefix(prefix, typeName string) string {
	return toSnake(prefix) + KeySeparator + TypeFingerprint(typeName) + KeySeparator
}

// StatsKey builds the key for a type's performance stats record.
func StatsKey(prefix, typeName string) string {
	return toSnake(prefix) + KeySeparator + statsSegment + KeySeparator + TypeFingerprint(typeName)
}

// StatsIndexKey builds the key for the set of type names the tracker has
// seen. The index exists so All can enumerate stats from a store that cannot
// list keys by itself.
func StatsIndexKey(prefix string) string {
	return toSnake(prefix) + KeySeparator + statsSegment + KeySeparator + "index"
}
