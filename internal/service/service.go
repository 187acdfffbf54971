// Package service holds the business rules that sit between HTTP handlers and repositories.
//
// Reads go straight to the repositories. Writes are staged on a Stager (normally a
// *repository.UnitOfWork) and reach the database only when the caller commits, so
// constraint violations such as a duplicate username surface at commit time.
package service

import (
	"warbler/internal/repository"
)

// Stager queues a write for a later commit.
type Stager interface {
	Stage(op repository.Operation)
}

// DefaultTimelineLimit caps the home timeline when the caller passes no limit.
const DefaultTimelineLimit = 100

// DefaultProfileMessages is how many messages GetProfile returns.
const DefaultProfileMessages = 100
