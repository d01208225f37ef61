// Package httpserver exposes projects over HTTP.
//
// Workers use GET routes under /{project}/ (item/get, item/heartbeat,
// item/done, api/leaderboard, api/user_stats) and receive bare wire strings
// such as "Success" or "NoItemsLeft". Operators use /v1/healthz, /metrics and
// /v1/projects, plus token protected pause and resume.
//
// Example:
//
//	s := httpserver.New(rt, projects, logger)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":8080")
package httpserver
