package store

import (
	"context"
	"sort"
)

func (s *MemoryStore) CreateUser(_ context.Context, u User) ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nick := lower(u.Nickname)
	mail := lower(u.Email)

	var clashing []User
	if existing, ok := s.users[nick]; ok {
		clashing = append(clashing, existing)
	}
	if owner, ok := s.usersByMail[mail]; ok && owner != nick {
		clashing = append(clashing, s.users[owner])
	}
	if len(clashing) > 0 {
		return clashing, ErrConflict
	}

	s.users[nick] = u
	s.usersByMail[mail] = nick
	return []User{u}, nil
}

func (s *MemoryStore) GetUser(_ context.Context, nickname string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[lower(nickname)]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, nickname string, upd UserUpdate) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nick := lower(nickname)
	u, ok := s.users[nick]
	if !ok {
		return User{}, ErrNotFound
	}

	if upd.Email != nil {
		newMail := lower(*upd.Email)
		if owner, taken := s.usersByMail[newMail]; taken && owner != nick {
			return User{}, ErrConflict
		}
		delete(s.usersByMail, lower(u.Email))
		u.Email = *upd.Email
		s.usersByMail[newMail] = nick
	}
	if upd.Fullname != nil {
		u.Fullname = *upd.Fullname
	}
	if upd.About != nil {
		u.About = *upd.About
	}

	s.users[nick] = u
	return u, nil
}

func (s *MemoryStore) ListForumUsers(_ context.Context, forumSlug string, p ForumUsersParams) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slugL := lower(forumSlug)
	if _, ok := s.forums[slugL]; !ok {
		return nil, ErrNotFound
	}

	seen := make(map[string]struct{})
	var nicks []string
	collect := func(nickname string) {
		if _, dup := seen[lower(nickname)]; !dup {
			seen[lower(nickname)] = struct{}{}
			nicks = append(nicks, nickname)
		}
	}
	for _, t := range s.threads {
		if lower(t.Forum) != slugL {
			continue
		}
		collect(t.Author)
		for _, pid := range s.threadPosts[t.ID] {
			collect(s.posts[pid].Author)
		}
	}

	// Raw byte order stands in for collation "C".
	sort.Strings(nicks)
	if p.Desc {
		for i, j := 0, len(nicks)-1; i < j; i, j = i+1, j-1 {
			nicks[i], nicks[j] = nicks[j], nicks[i]
		}
	}

	out := []User{}
	for _, n := range nicks {
		if p.Since != "" {
			if !p.Desc && n <= p.Since {
				continue
			}
			if p.Desc && n >= p.Since {
				continue
			}
		}
		out = append(out, s.users[lower(n)])
		if p.Limit > 0 && len(out) == p.Limit {
			break
		}
	}
	return out, nil
}
