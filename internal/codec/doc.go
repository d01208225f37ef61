// Package codec reads and writes the tracker's persisted formats.
//
// # Line format
//
// Item batches and queue snapshots share one newline-delimited text format.
// Empty lines and lines starting with CommentMarker are ignored; every other
// line is split on Delimiter into the item's ordered values. There is no
// escaping, so values must never contain the delimiter.
//
//	# books batch 3
//	978-0131103627,The C Programming Language
//	978-0201633610,Design Patterns
//
// # Leaderboard format
//
// The leaderboard snapshot is a JSON object keyed by username:
//
//	{"alice": {"items": 12, "data": 40960}}
package codec
