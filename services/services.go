// Package services holds the business operations behind the HTTP handlers.
// Services talk to persistence only through the store interfaces and push
// realtime events through a Notifier.
package services

import (
	"fmt"
	"time"

	"github.com/UmangSachdeva/MessMate/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notifier delivers realtime events. realtime.Hub satisfies it.
type Notifier interface {
	EmitToUser(userID string, event string, data interface{})
	EmitToRole(role models.Role, event string, data interface{})
	Broadcast(event string, data interface{})
}

type nopNotifier struct{}

func (nopNotifier) EmitToUser(string, string, interface{})      {}
func (nopNotifier) EmitToRole(models.Role, string, interface{}) {}
func (nopNotifier) Broadcast(string, interface{})               {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

// Clock returns the current time; tests replace it.
type Clock func() time.Time

func clockOrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return id, fmt.Errorf("%w: invalid id %q", models.ErrValidation, hex)
	}
	return id, nil
}

const dateLayout = "2006-01-02"

// ParseDay reads a YYYY-MM-DD date as local midnight.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return t, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", models.ErrValidation, s)
	}
	return t, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
