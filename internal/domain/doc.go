// Package domain contains the core business entities and the rules that
// govern them: users, their tasks, the task status set and the scheduled
// time format. It is independent of any storage or delivery mechanism.
package domain
