package event

import (
	"sort"
	"sync"

	"github.com/dleon/timemachine/internal/event/topic"
)

// Registry manages subscriptions organized by topic.
// It is thread-safe for concurrent access.
//
// The appliance publishes to a small, closed set of topics, so lookup is
// an exact match on the topic name; there is no pattern matching.
type Registry struct {
	mu   sync.RWMutex
	subs map[topic.Topic][]*subscription
	byID map[string]*subscription
}

// NewRegistry creates a new subscription registry.
func NewRegistry() *Registry {
	return &Registry{
		subs: make(map[topic.Topic][]*subscription),
		byID: make(map[string]*subscription),
	}
}

// Add adds a subscription for a topic.
// Subscriptions are kept in priority order; equal priorities keep
// registration order, which is what delivery order is defined over.
func (r *Registry) Add(sub *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs := append(r.subs[sub.Topic()], sub)
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].Config().Priority < subs[j].Config().Priority
	})
	r.subs[sub.Topic()] = subs
	r.byID[sub.ID()] = sub
}

// Remove removes a subscription by ID.
func (r *Registry) Remove(subID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, exists := r.byID[subID]
	if !exists {
		return false
	}

	t := sub.Topic()
	subs := r.subs[t]
	for i, s := range subs {
		if s.ID() == subID {
			r.subs[t] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(r.subs[t]) == 0 {
		delete(r.subs, t)
	}
	delete(r.byID, subID)
	return true
}

// Get returns a subscription by ID.
func (r *Registry) Get(subID string) (*subscription, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, exists := r.byID[subID]
	return sub, exists
}

// MatchActive returns all active subscriptions for the given topic,
// in delivery order. Returns a copy so handlers may subscribe or
// unsubscribe during dispatch without corrupting iteration.
func (r *Registry) MatchActive(t topic.Topic) []*subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := r.subs[t]
	if len(subs) == 0 {
		return nil
	}

	result := make([]*subscription, 0, len(subs))
	for _, sub := range subs {
		if sub.IsActive() {
			result = append(result, sub)
		}
	}
	return result
}

// Count returns the total number of subscriptions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID)
}

// CountActive returns the number of active subscriptions.
func (r *Registry) CountActive() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, sub := range r.byID {
		if sub.IsActive() {
			count++
		}
	}
	return count
}

// Topics returns all topics with registered subscriptions.
func (r *Registry) Topics() []topic.Topic {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.subs) == 0 {
		return nil
	}
	topics := make([]topic.Topic, 0, len(r.subs))
	for t := range r.subs {
		topics = append(topics, t)
	}
	return topics
}

// Clear removes all subscriptions.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subs = make(map[topic.Topic][]*subscription)
	r.byID = make(map[string]*subscription)
}
