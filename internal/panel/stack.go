package panel

// GroupStack orders the instances contending for one group's slot.
// The last element is the front: the group's authoritative panel.
type GroupStack struct {
	name  string
	items []*Instance
}

func newGroupStack(name string) *GroupStack {
	return &GroupStack{name: name}
}

func (s *GroupStack) Name() string { return s.name }

// PushFront makes p the authoritative member.
func (s *GroupStack) PushFront(p *Instance) {
	if p == nil {
		return
	}
	s.items = append(s.items, p)
}

// PushBack queues p behind every current member.
func (s *GroupStack) PushBack(p *Instance) {
	if p == nil {
		return
	}
	s.items = append([]*Instance{p}, s.items...)
}

// Front returns the authoritative member, or nil when empty.
func (s *GroupStack) Front() *Instance {
	if s == nil || len(s.items) == 0 {
		return nil
	}
	return s.items[len(s.items)-1]
}

// Remove drops p from wherever it sits and reports whether it was the front.
func (s *GroupStack) Remove(p *Instance) (wasFront, ok bool) {
	for i, it := range s.items {
		if it != p {
			continue
		}
		wasFront = i == len(s.items)-1
		s.items = append(s.items[:i], s.items[i+1:]...)
		return wasFront, true
	}
	return false, false
}

func (s *GroupStack) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items returns the members back to front.
func (s *GroupStack) Items() []*Instance {
	if s == nil {
		return nil
	}
	out := make([]*Instance, len(s.items))
	copy(out, s.items)
	return out
}
