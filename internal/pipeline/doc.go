// Package pipeline provides a framework for executing print stages in sequence.
//
// The pipeline pattern is used to take a form definition through multiple
// stages: loading, page graph construction, reachability analysis, depth
// leveling, heading numbering and document assembly. Each stage is
// implemented as a Step that receives the current Job and fills in its part.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It provides consistent error handling and logging across stages
// 2. It records which stages ran, which the print archive stores
// 3. It supports cancellation via context between stages
//
// The pipeline supports both single forms and batch processing with
// concurrency control using errgroup.
package pipeline
