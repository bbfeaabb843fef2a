// Package hierarchy turns a form's page graph into a print hierarchy.
//
// It works in two passes over the graph:
//
//   - Level assigns every reachable page a nesting depth. Branching pages push
//     their successors one level deeper; a page where branches rejoin is
//     lifted back to the level of the page that branched.
//   - Numberer walks the graph again and assigns dotted heading numbers
//     ("1.2", "1.2.1", ...) consistent with those depths. A rejoin page is
//     numbered only after every branch leading to it has been numbered.
//
// Both passes are pure functions of the graph. All traversal state lives in
// values created per call, so forms can be processed concurrently.
package hierarchy
