// Package events delivers group change notifications to interested parties.
package events

import (
	"context"
	"errors"
	"time"
)

// Kind identifies what changed.
type Kind string

const (
	GroupCreated     Kind = "group.created"
	ParticipantAdded Kind = "participant.added"
	ExpenseCreated   Kind = "expense.created"
	ExpenseUpdated   Kind = "expense.updated"
	ExpenseDeleted   Kind = "expense.deleted"
	CategoryCreated  Kind = "category.created"
	CategoryDeleted  Kind = "category.deleted"

	// WatchStarted is sent only to a new watcher, once it is subscribed.
	// It is never published.
	WatchStarted Kind = "watch.started"
)

// Event is a single change to a group.
type Event struct {
	GroupID  string    `json:"group_id"`
	Kind     Kind      `json:"kind"`
	EntityID string    `json:"entity_id"`
	At       time.Time `json:"at"`
}

// New returns an event stamped with the current time.
func New(groupID string, kind Kind, entityID string) Event {
	return Event{GroupID: groupID, Kind: kind, EntityID: entityID, At: time.Now().UTC()}
}

// Publisher delivers events somewhere.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type multi []Publisher

// Multi returns a Publisher that publishes to every pub in order.
// All publishers are attempted; their errors are joined.
func Multi(pubs ...Publisher) Publisher {
	return multi(pubs)
}

func (m multi) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
