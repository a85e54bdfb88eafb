package services

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/snooker-app/models"
	"github.com/yeremiapane/snooker-app/utils"
)

// SessionListener is called after every successful session mutation.
type SessionListener func(models.TableSession)

type subscription struct {
	id       uint64
	listener SessionListener
	active   atomic.Bool
}

// Notifier fans session changes out to subscribers, synchronously and in
// subscription order.
type Notifier struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []*subscription
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers listener and returns a func removing it. Calling the
// returned func more than once is harmless.
func (n *Notifier) Subscribe(listener SessionListener) (unsubscribe func()) {
	n.mu.Lock()
	n.nextID++
	sub := &subscription{id: n.nextID, listener: listener}
	sub.active.Store(true)
	n.subs = append(n.subs, sub)
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { n.remove(sub) })
	}
}

func (n *Notifier) remove(sub *subscription) {
	sub.active.Store(false)

	n.mu.Lock()
	defer n.mu.Unlock()
	for i, s := range n.subs {
		if s.id == sub.id {
			n.subs = append(n.subs[:i:i], n.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers session to every active subscriber. A panicking listener
// is logged and skipped.
func (n *Notifier) Publish(session models.TableSession) {
	n.mu.RLock()
	subs := make([]*subscription, len(n.subs))
	copy(subs, n.subs)
	n.mu.RUnlock()

	for _, sub := range subs {
		if !sub.active.Load() {
			continue
		}
		n.deliver(sub, session.Clone())
	}
}

func (n *Notifier) deliver(sub *subscription, session models.TableSession) {
	defer func() {
		if r := recover(); r != nil {
			utils.ErrorLogger.WithFields(logrus.Fields{
				"subscriber": sub.id,
				"table":      session.TableNumber,
			}).Errorf("session listener panicked: %v", r)
		}
	}()
	sub.listener(session)
}

// Len reports the number of registered subscribers.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs)
}
