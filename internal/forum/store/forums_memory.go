package store

import (
	"context"
	"sort"
)

func (s *MemoryStore) CreateForum(_ context.Context, f Forum) (Forum, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creator, ok := s.users[lower(f.User)]
	if !ok {
		return Forum{}, ErrNotFound
	}

	slugL := lower(f.Slug)
	if existing, dup := s.forums[slugL]; dup {
		out := *existing
		out.Posts = s.countForumPosts(slugL)
		return out, ErrConflict
	}

	f.User = creator.Nickname
	f.Threads = 0
	f.Posts = 0
	s.forums[slugL] = &f
	return f, nil
}

func (s *MemoryStore) GetForum(_ context.Context, slug string) (Forum, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.forums[lower(slug)]
	if !ok {
		return Forum{}, ErrNotFound
	}
	out := *f
	out.Posts = s.countForumPosts(lower(slug))
	return out, nil
}

func (s *MemoryStore) ListForumThreads(_ context.Context, slug string, p ForumThreadsParams) ([]Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slugL := lower(slug)
	if _, ok := s.forums[slugL]; !ok {
		return nil, ErrNotFound
	}

	var threads []Thread
	for _, t := range s.threads {
		if lower(t.Forum) != slugL {
			continue
		}
		if p.Since != nil {
			if !p.Desc && t.Created.Before(*p.Since) {
				continue
			}
			if p.Desc && t.Created.After(*p.Since) {
				continue
			}
		}
		threads = append(threads, *t)
	}

	sort.Slice(threads, func(i, j int) bool {
		a, b := threads[i], threads[j]
		if !a.Created.Equal(b.Created) {
			if p.Desc {
				return a.Created.After(b.Created)
			}
			return a.Created.Before(b.Created)
		}
		if p.Desc {
			return a.ID > b.ID
		}
		return a.ID < b.ID
	})

	if p.Limit > 0 && len(threads) > p.Limit {
		threads = threads[:p.Limit]
	}
	if threads == nil {
		threads = []Thread{}
	}
	return threads, nil
}
