// Package client provides the `tracker` command-line client.
//
// The CLI talks to the tracker HTTP endpoints so workers' requests can be
// reproduced from a terminal and operators can inspect or pause projects.
//
// # Address configuration
//
// The HTTP base URL is discovered by the application that embeds the
// commands via a BaseURLFunc. The standalone binary reads TRACKER_HTTP and
// defaults to http://127.0.0.1:8080. Admin commands read TRACKER_ADMIN_TOKEN
// unless --token is given.
//
// Usage
//
//	tracker item get --project books --username alice
//	tracker item heartbeat --project books --id 0
//	tracker item done --project books --id 0 --size 4096
//	tracker item leaderboard --project books
//	tracker item user-stats --project books --username alice
//
//	tracker project list
//	tracker project ranking books --limit 10
//	tracker project pause books --token s3cret
//	tracker project resume books
//
// Notes
//
//   - Non-2xx responses exit with an error carrying the server's body, for
//     example "http error: 404 Not Found: NoItemsLeft".
//   - The source address a lease is bound to is the caller's IP, so heartbeat
//     and done must come from the machine that ran get.
package client
