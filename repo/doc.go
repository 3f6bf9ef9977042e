// Package repo executes the statements built by the relic package against
// an embedded SQLite database and reconstructs entities from the results.
//
// A Repository is generic over its entity type and parameterized with a
// factory function, so row reconstruction needs neither reflection nor
// name-based type lookup:
//
//	people := repo.New(func() *Person { return &Person{} })
//	if err := people.Open("app.db"); err != nil {
//		log.Fatal(err)
//	}
//	defer people.Close()
//
//	if _, err := people.Insert(ctx, &Person{Name: "John", Age: 35}); err != nil {
//		log.Fatal(err)
//	}
//	all, err := people.SelectAll(ctx)
//
// Every operation executes exactly one statement and commits before
// returning unless NoCommit is given; Commit and Rollback end a deferred
// transaction explicitly. Do provides scoped acquisition: open, run,
// guaranteed close.
package repo
