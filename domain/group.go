// Package domain contains core concepts of the chat system.
// This file defines the Group entity and its membership invariants.
// No runtime, network, or storage logic should be added here.
package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Group is a mutable conversation entity. Invariants:
//   - the creator is always a member
//   - the group is never left without an admin while active
//   - IsActive=false is terminal (soft delete), no further mutation
type Group struct {
	ID          uuid.UUID
	Name        string
	Description string
	Picture     string
	CreatedBy   string
	Admins      []string
	Members     []string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (g Group) IsMember(userID string) bool {
	return lo.Contains(g.Members, userID)
}

func (g Group) IsAdmin(userID string) bool {
	return lo.Contains(g.Admins, userID)
}

// OtherAdmins returns the admins besides userID, sorted so that callers
// relying on "first remaining admin" get a deterministic answer.
func (g Group) OtherAdmins(userID string) []string {
	others := lo.Filter(g.Admins, func(id string, _ int) bool {
		return id != userID
	})
	sort.Strings(others)
	return others
}

// OtherMembers returns the members besides userID, sorted. Used as the
// ownership fallback when the departing creator was the only admin.
func (g Group) OtherMembers(userID string) []string {
	others := lo.Filter(g.Members, func(id string, _ int) bool {
		return id != userID
	})
	sort.Strings(others)
	return others
}
