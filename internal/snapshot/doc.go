// Package snapshot persists project snapshots.
//
// A snapshot has two parts written together: the queue (pending and leased
// item values in the batch line format) and the leaderboard (JSON). Two
// stores are provided:
//
//   - FileStore keeps the classic layout next to the project files:
//     <projectsDir>/<name>-leaderboard.json and
//     <projectsDir>/<items-folder>/.queue-save.txt
//   - PebbleStore keeps both parts under proj/{name}/snap/ in a Pebble
//     database and commits them in one batch.
package snapshot
