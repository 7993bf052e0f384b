// Package filter decides which candidates take part in scoring.
//
// A filter spec is a comma separated list of field:type:value:op tuples,
// for example
//
//	category:int:5:eq,lang:string:en:ne
//
// The type column is informational. A string field is compared with the
// value text lexicographically and an integer field with the value's leading
// integer. A candidate is kept only if every condition whose field it carries
// as a string or integer holds. Other conditions are ignored, so an empty
// spec keeps everything.
package filter
