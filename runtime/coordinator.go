package runtime

import (
	"chat-engine/contract"
	"chat-engine/domain"
	"chat-engine/domain/event"
	apperrors "chat-engine/errors"
	"chat-engine/repositories"
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Coordinator owns every transition of a group's members, admins and
// active flag. Transitions on one group are serialized through a per-group
// mutex; different groups never contend. Callers are pre-authenticated but
// not pre-authorized: admin and member preconditions are checked here
// against the stored group.
//
// A deleted group accepts no further transitions and is reported as
// ErrGroupNotFound, exactly like a group that never existed.
type Coordinator struct {
	log           *slog.Logger
	registry      contract.IRegistry
	groups        repositories.IGroupRepository
	groupMessages repositories.IGroupMessageRepository

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex

	now func() time.Time
}

func NewCoordinator(
	log *slog.Logger,
	registry contract.IRegistry,
	groups repositories.IGroupRepository,
	groupMessages repositories.IGroupMessageRepository,
) *Coordinator {
	return &Coordinator{
		log:           log,
		registry:      registry,
		groups:        groups,
		groupMessages: groupMessages,
		locks:         make(map[uuid.UUID]*sync.Mutex),
		now:           time.Now,
	}
}

// groupLock returns the mutex serializing transitions for one group id.
// Lock entries are never removed; a stale entry costs one mutex.
func (c *Coordinator) groupLock(id uuid.UUID) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[id]
	if !ok {
		l = &sync.Mutex{}
		c.locks[id] = l
	}
	return l
}

// Create builds a new active group. The creator is its sole admin and is
// added to the member set if the caller omitted them.
func (c *Coordinator) Create(_ context.Context, cmd domain.CreateGroupCommand) (domain.Group, error) {
	if err := cmd.Validate(); err != nil {
		return domain.Group{}, err
	}
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return domain.Group{}, apperrors.ErrEmptyGroupName
	}
	members := lo.Uniq(append(append([]string{}, cmd.MemberIDs...), cmd.CreatedBy))
	if len(members) < 2 {
		return domain.Group{}, apperrors.ErrNoMembers
	}

	now := c.now()
	group := domain.Group{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(cmd.Description),
		Picture:     cmd.Picture,
		CreatedBy:   cmd.CreatedBy,
		Admins:      []string{cmd.CreatedBy},
		Members:     members,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.groups.Create(group); err != nil {
		return domain.Group{}, err
	}

	c.notify(group.Members, event.GroupUpdated{Group: group})
	return group, nil
}

// AddMembers unions the new ids into the member set. Duplicates are
// ignored, so the operation is idempotent.
func (c *Coordinator) AddMembers(_ context.Context, cmd domain.AddMembersCommand) (domain.Group, error) {
	if err := cmd.Validate(); err != nil {
		return domain.Group{}, err
	}
	l := c.groupLock(cmd.GroupID)
	l.Lock()

	group, err := c.groups.Get(cmd.GroupID)
	if err != nil {
		l.Unlock()
		return domain.Group{}, err
	}
	if !group.IsAdmin(cmd.ActorID) {
		l.Unlock()
		return domain.Group{}, apperrors.ErrNotAdmin
	}

	group.Members = lo.Uniq(append(group.Members, cmd.MemberIDs...))
	group.UpdatedAt = c.now()
	if err := c.groups.Update(group); err != nil {
		l.Unlock()
		return domain.Group{}, err
	}
	l.Unlock()

	c.notify(group.Members, event.GroupUpdated{Group: group})
	return group, nil
}

// RemoveMember drops the target from members and admins. The creator can
// never be removed; ownership only moves through Leave.
func (c *Coordinator) RemoveMember(_ context.Context, cmd domain.RemoveMemberCommand) (domain.Group, error) {
	if err := cmd.Validate(); err != nil {
		return domain.Group{}, err
	}
	l := c.groupLock(cmd.GroupID)
	l.Lock()

	group, err := c.groups.Get(cmd.GroupID)
	if err != nil {
		l.Unlock()
		return domain.Group{}, err
	}
	if !group.IsAdmin(cmd.ActorID) {
		l.Unlock()
		return domain.Group{}, apperrors.ErrNotAdmin
	}
	if cmd.MemberID == group.CreatedBy {
		l.Unlock()
		return domain.Group{}, apperrors.ErrRemoveCreator
	}

	group.Members = without(group.Members, cmd.MemberID)
	group.Admins = without(group.Admins, cmd.MemberID)
	group.UpdatedAt = c.now()
	if err := c.groups.Update(group); err != nil {
		l.Unlock()
		return domain.Group{}, err
	}
	l.Unlock()

	c.notify(group.Members, event.GroupUpdated{Group: group})
	c.notify([]string{cmd.MemberID}, event.MemberRemoved{GroupID: group.ID, UserID: cmd.MemberID})
	return group, nil
}

// Leave removes the caller from the group. Three arms:
//   - creator leaving with other people: ownership transfers to the
//     lexically smallest remaining admin, falling back to the lexically
//     smallest remaining member, and the creator drops out entirely
//   - creator leaving as the last member: the group is soft-deleted and
//     its messages are purged in bulk
//   - anyone else: plain removal from members and admins
func (c *Coordinator) Leave(_ context.Context, cmd domain.LeaveGroupCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}
	l := c.groupLock(cmd.GroupID)
	l.Lock()

	group, err := c.groups.Get(cmd.GroupID)
	if err != nil {
		l.Unlock()
		return false, err
	}
	if !group.IsMember(cmd.ActorID) {
		l.Unlock()
		return false, apperrors.ErrNotMember
	}

	if cmd.ActorID == group.CreatedBy {
		successor := ""
		if admins := group.OtherAdmins(cmd.ActorID); len(admins) > 0 {
			successor = admins[0]
		} else if members := group.OtherMembers(cmd.ActorID); len(members) > 0 {
			successor = members[0]
		}
		if successor == "" {
			formerMembers := append([]string{}, group.Members...)
			group.IsActive = false
			group.UpdatedAt = c.now()
			if err := c.groups.Update(group); err != nil {
				l.Unlock()
				return false, err
			}
			if err := c.groupMessages.PurgeGroup(group.ID); err != nil {
				l.Unlock()
				return false, err
			}
			l.Unlock()

			c.log.Info("group deleted by creator leave", "group", group.ID)
			c.notify(formerMembers, event.GroupDeleted{GroupID: group.ID})
			return true, nil
		}

		group.CreatedBy = successor
		group.Admins = without(group.Admins, cmd.ActorID)
		if !group.IsAdmin(successor) {
			group.Admins = append(group.Admins, successor)
		}
		group.Members = without(group.Members, cmd.ActorID)
		group.UpdatedAt = c.now()
		if err := c.groups.Update(group); err != nil {
			l.Unlock()
			return false, err
		}
		l.Unlock()

		c.log.Info("group ownership transferred", "group", group.ID, "to", group.CreatedBy)
		c.notify(group.Members, event.GroupUpdated{Group: group})
		return false, nil
	}

	group.Members = without(group.Members, cmd.ActorID)
	group.Admins = without(group.Admins, cmd.ActorID)
	group.UpdatedAt = c.now()
	if err := c.groups.Update(group); err != nil {
		l.Unlock()
		return false, err
	}
	l.Unlock()

	c.notify(group.Members, event.GroupUpdated{Group: group})
	return false, nil
}

// Update changes name, description or picture. A name is rejected when it
// trims to empty; nil fields keep their stored value.
func (c *Coordinator) Update(_ context.Context, cmd domain.UpdateGroupCommand) (domain.Group, error) {
	if err := cmd.Validate(); err != nil {
		return domain.Group{}, err
	}
	l := c.groupLock(cmd.GroupID)
	l.Lock()

	group, err := c.groups.Get(cmd.GroupID)
	if err != nil {
		l.Unlock()
		return domain.Group{}, err
	}
	if !group.IsAdmin(cmd.ActorID) {
		l.Unlock()
		return domain.Group{}, apperrors.ErrNotAdmin
	}

	if cmd.Name != nil {
		name := strings.TrimSpace(*cmd.Name)
		if name == "" {
			l.Unlock()
			return domain.Group{}, apperrors.ErrEmptyGroupName
		}
		group.Name = name
	}
	if cmd.Description != nil {
		group.Description = strings.TrimSpace(*cmd.Description)
	}
	if cmd.Picture != nil {
		group.Picture = *cmd.Picture
	}
	group.UpdatedAt = c.now()
	if err := c.groups.Update(group); err != nil {
		l.Unlock()
		return domain.Group{}, err
	}
	l.Unlock()

	c.notify(group.Members, event.GroupUpdated{Group: group})
	return group, nil
}

// notify pushes e to every listed user currently online. Offline users are
// skipped, push failures absorbed; the triggering mutation has already
// been persisted.
func (c *Coordinator) notify(userIDs []string, e event.Outbound) {
	for _, id := range userIDs {
		sink, ok := c.registry.Lookup(id)
		if !ok {
			continue
		}
		if err := sink.Consume(e); err != nil {
			c.log.Debug("group notification dropped", "user", id, "event", e.Name(), "error", err)
		}
	}
}

func without(ids []string, id string) []string {
	return lo.Filter(ids, func(v string, _ int) bool { return v != id })
}
