package services

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
)

// allGroups is the fixed lock order used when one request spans several
// field groups.
var allGroups = []models.FieldGroup{
	models.GroupContent,
	models.GroupFavorite,
	models.GroupFolder,
	models.GroupTags,
	models.GroupTitle,
}

type laneKey struct {
	entry ids.ID
	group models.FieldGroup
}

// lane orders the writes of one field group of one entry. Sequence numbers
// are handed out at issue time and turns are taken strictly in that order.
type lane struct {
	issued    uint64
	served    uint64
	abandoned map[uint64]struct{}
	wake      chan struct{}
	refs      int
}

// ticket is one request's place in one lane.
type ticket struct {
	key  laneKey
	lane *lane
	seq  uint64
	held bool
	done bool
}

// coordinator hands out tickets and tracks which request of each lane is the
// latest.
type coordinator struct {
	mu    sync.Mutex
	lanes map[laneKey]*lane
}

func newCoordinator() *coordinator {
	return &coordinator{lanes: make(map[laneKey]*lane)}
}

// issue registers a request touching groups of entry. All of its sequence
// numbers are assigned atomically, so two requests sharing several lanes
// are ordered the same way in each of them.
func (c *coordinator) issue(entry ids.ID, groups []models.FieldGroup) []*ticket {
	sorted := slices.Clone(groups)
	slices.SortFunc(sorted, func(a, b models.FieldGroup) int {
		return slices.Index(allGroups, a) - slices.Index(allGroups, b)
	})
	sorted = slices.Compact(sorted)

	c.mu.Lock()
	defer c.mu.Unlock()

	tickets := make([]*ticket, 0, len(sorted))
	for _, g := range sorted {
		k := laneKey{entry: entry, group: g}
		l, ok := c.lanes[k]
		if !ok {
			l = &lane{abandoned: make(map[uint64]struct{}), wake: make(chan struct{})}
			c.lanes[k] = l
		}
		l.issued++
		l.refs++
		tickets = append(tickets, &ticket{key: k, lane: l, seq: l.issued})
	}
	return tickets
}

// acquire waits for the turn of every ticket, in lock order. On context
// cancellation all tickets are given up and the error returned.
func (c *coordinator) acquire(ctx context.Context, tickets []*ticket) error {
	for _, t := range tickets {
		if err := c.wait(ctx, t); err != nil {
			c.finish(tickets)
			return err
		}
	}
	return nil
}

func (c *coordinator) wait(ctx context.Context, t *ticket) error {
	for {
		c.mu.Lock()
		if t.lane.served == t.seq-1 {
			t.held = true
			c.mu.Unlock()
			return nil
		}
		wake := t.lane.wake
		c.mu.Unlock()

		select {
		case <-wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// latest reports whether t is the newest request issued in its lane.
func (c *coordinator) latest(t *ticket) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return t.lane.issued == t.seq
}

// liveGroups returns the groups whose tickets are still the latest.
func (c *coordinator) liveGroups(tickets []*ticket) []models.FieldGroup {
	c.mu.Lock()
	defer c.mu.Unlock()

	var live []models.FieldGroup
	for _, t := range tickets {
		if t.lane.issued == t.seq {
			live = append(live, t.key.group)
		}
	}
	return live
}

// finish ends the turn of held tickets and gives up the others. It is safe
// to call more than once.
func (c *coordinator) finish(tickets []*ticket) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range tickets {
		if t.done {
			continue
		}
		t.done = true
		l := t.lane
		if t.held {
			l.served = t.seq
		} else {
			l.abandoned[t.seq] = struct{}{}
		}
		for {
			if _, ok := l.abandoned[l.served+1]; !ok {
				break
			}
			delete(l.abandoned, l.served+1)
			l.served++
		}
		close(l.wake)
		l.wake = make(chan struct{})

		l.refs--
		if l.refs == 0 && l.served == l.issued {
			delete(c.lanes, t.key)
		}
	}
}

// pending reports how many lanes are tracked; used by tests.
func (c *coordinator) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lanes)
}
