// Package task implements the task lifecycle on top of a whole-collection store.
//
// Every operation is a single load-mutate-save cycle over the full collection:
//
//	collection := store.Load()
//	mutate(collection)
//	store.Save(collection)
//
// Nothing is persisted incrementally. If Save fails, the in-memory mutation is
// discarded and the previously saved state is left as it was.
//
// # Task Status Values
//
//   - "todo": Task is pending (the status of every new task)
//   - "in-progress": Task is being worked on
//   - "done": Task is complete
//
// # Id Assignment
//
// New ids are 1 + the highest id currently in the collection (1 for an empty
// collection). Deleting the task with the highest id and adding a new one
// therefore reuses that id.
//
// # Concurrency
//
// There is no locking. Two processes working on the same store race, and the
// later Save wins.
package task
