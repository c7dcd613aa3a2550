package router

// OnRouteChange subscribes to committed transitions. Listeners run
// synchronously in subscription order, after the transition's single-flight
// lock is released, so a listener may navigate. The returned Cleanup
// unsubscribes; it is safe to call more than once.
func (r *Router) OnRouteChange(fn func(RouteChange)) Cleanup {
	r.subMu.Lock()
	id := r.nextID
	r.nextID++
	r.subs = append(r.subs, subscriber{id: id, fn: fn})
	r.subMu.Unlock()

	return func() {
		r.subMu.Lock()
		defer r.subMu.Unlock()
		for i, s := range r.subs {
			if s.id == id {
				r.subs = append(r.subs[:i], r.subs[i+1:]...)
				return
			}
		}
	}
}

// emit dispatches a RouteChange to all subscribers in subscription order.
func (r *Router) emit(ev RouteChange) {
	r.subMu.Lock()
	subs := make([]subscriber, len(r.subs))
	copy(subs, r.subs)
	r.subMu.Unlock()

	for _, s := range subs {
		s.fn(ev)
	}
}
