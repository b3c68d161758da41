// Package errors provides coded, actionable errors for datedmemo.
//
// Every error carries a short code (e.g. "E201") that maps to a registered
// template with a category, a one-line message and a longer detail. Call
// sites add a suggestion or wrap the underlying cause:
//
//	err := errors.New("E201").
//	    Wrap(cause).
//	    WithSuggestion("Check that the database user may create tables")
//
//	fmt.Print(err.Format())
//	// ERROR E201: Database migration failed
//	//
//	//   The embedded schema migrations could not be applied.
//	//
//	//   Hint: Check that the database user may create tables
//
// # Categories
//
//   - config: configuration file, environment and flag problems
//   - storage: memo store and migration failures
//   - input: unparseable request data (dates, offsets, ids)
//   - binder: misconfigured form widgets (validators, picker formats)
//   - backup: snapshot export and restore
//   - protocol: malformed binder session messages
package errors
