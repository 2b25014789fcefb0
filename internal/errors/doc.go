// Package errors provides structured, actionable errors for floatkit's
// configuration files, scenarios and tools.
//
// Every error carries a code (e.g. "F104") that maps to a category, a short
// message and a longer explanation. Errors raised while reading a YAML file
// can carry the file location of the offending node, and Format then shows
// the surrounding lines:
//
//	err := errors.New("F104").
//	    WithLocation("scenarios/menu.yaml", 7, 16).
//	    WithSuggestion("use one of top, right, bottom, left with an optional -start or -end")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR F104: Invalid placement
//	//
//	//   scenarios/menu.yaml:7:16
//	//
//	//        5 │ widgets:
//	//        6 │   - kind: popover
//	//   →    7 │     placement: upward
//	//          │                ^
//	//        8 │     preventScroll: true
//	//
//	//   Hint: use one of top, right, bottom, left with an optional -start or -end
//
// # Code ranges
//
//   - F1xx: configuration (file, YAML, widget options)
//   - F2xx: scenarios (steps, element references, assertions)
//   - F3xx: dev server and CLI
package errors
