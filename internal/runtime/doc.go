// Package runtime holds the resources a tracker process shares across
// projects and hands each project its snapshot store.
//
// Example:
//
//	cfg := config.Default()
//	rt, _ := runtime.Open(runtime.Options{Config: cfg})
//	defer rt.Close()
//	_ = rt.CheckHealth(context.Background())
//	store := rt.SnapshotStore(projectFile)
package runtime
