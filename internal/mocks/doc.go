// Package mocks provides centralized mock implementations for testing.
//
// Each mock exposes function fields (CreateFn, FindOneFn, ...) that override
// its behavior. When a function field is nil the mock falls back to a simple
// default, which for the stores is an in-memory implementation:
//
//	taskStore := mocks.NewMockTaskStore()
//	taskStore.SaveFn = func(ctx context.Context, task *domain.Task) error {
//	    return errors.New("disk full")
//	}
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Document any helper methods or special functionality
package mocks
