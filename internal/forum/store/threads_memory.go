package store

import (
	"context"
	"time"
)

func (s *MemoryStore) CreateThread(_ context.Context, forumSlug string, t Thread) (Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	forum, ok := s.forums[lower(forumSlug)]
	if !ok {
		return Thread{}, ErrNotFound
	}
	author, ok := s.users[lower(t.Author)]
	if !ok {
		return Thread{}, ErrNotFound
	}

	if t.Slug != "" {
		if tid, dup := s.threadSlugs[lower(t.Slug)]; dup {
			return *s.threads[tid], ErrConflict
		}
	}

	s.nextThread++
	t.ID = s.nextThread
	t.Forum = forum.Slug
	t.Author = author.Nickname
	t.Votes = 0
	if t.Created.IsZero() {
		t.Created = time.Now()
	}

	s.threads[t.ID] = &t
	if t.Slug != "" {
		s.threadSlugs[lower(t.Slug)] = t.ID
	}
	// Thread insert and counter increment are one critical section: a thread
	// is never observable without its forum count reflecting it.
	forum.Threads++

	return t, nil
}

func (s *MemoryStore) GetThread(_ context.Context, slugOrID string) (Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.threadByRef(slugOrID)
	if !ok {
		return Thread{}, ErrNotFound
	}
	return *t, nil
}

func (s *MemoryStore) UpdateThread(_ context.Context, slugOrID string, upd ThreadUpdate) (Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.threadByRef(slugOrID)
	if !ok {
		return Thread{}, ErrNotFound
	}
	if upd.Title != "" {
		t.Title = upd.Title
	}
	if upd.Message != "" {
		t.Message = upd.Message
	}
	return *t, nil
}

func (s *MemoryStore) Vote(_ context.Context, slugOrID, nickname string, voice int) (Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	voter, ok := s.users[lower(nickname)]
	if !ok {
		return Thread{}, ErrNotFound
	}
	t, ok := s.threadByRef(slugOrID)
	if !ok {
		return Thread{}, ErrNotFound
	}

	byUser := s.votes[t.ID]
	if byUser == nil {
		byUser = make(map[string]int)
		s.votes[t.ID] = byUser
	}

	prev, voted := byUser[lower(voter.Nickname)]
	switch {
	case !voted:
		byUser[lower(voter.Nickname)] = voice
		t.Votes += voice
	case prev == voice:
		// Same voice resubmitted: no state change.
	default:
		byUser[lower(voter.Nickname)] = voice
		t.Votes += 2 * voice
	}

	return *t, nil
}
