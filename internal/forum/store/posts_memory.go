package store

import (
	"context"
	"sort"
	"time"
)

func (s *MemoryStore) CreatePosts(_ context.Context, threadSlugOrID string, drafts []PostDraft) ([]Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.threadByRef(threadSlugOrID)
	if !ok {
		return nil, ErrNotFound
	}
	if len(drafts) == 0 {
		return []Post{}, nil
	}

	// Validate the whole batch before anything is written: authors must
	// exist, and every declared parent must already be a post of this
	// thread. Batch siblings cannot parent each other.
	authors := make([]string, len(drafts))
	parents := make([][]int64, len(drafts))
	for i, d := range drafts {
		author, ok := s.users[lower(d.Author)]
		if !ok {
			return nil, ErrNotFound
		}
		authors[i] = author.Nickname

		if d.Parent != nil && *d.Parent != 0 {
			parent, ok := s.posts[*d.Parent]
			if !ok || parent.Thread != t.ID {
				return nil, ErrConflict
			}
			parents[i] = parent.Path
		}
	}

	// One shared default timestamp keeps the batch's flat order reproducible.
	now := time.Now()
	created := make([]Post, len(drafts))
	for i, d := range drafts {
		s.nextPost++
		p := Post{
			ID:      s.nextPost,
			Author:  authors[i],
			Message: d.Message,
			Forum:   t.Forum,
			Thread:  t.ID,
			Created: now,
		}
		if d.Created != nil {
			p.Created = *d.Created
		}
		if d.Parent != nil {
			p.Parent = *d.Parent
		}
		// The path is derived only after the own id is known.
		p.Path = append(append([]int64{}, parents[i]...), p.ID)

		s.posts[p.ID] = &p
		s.threadPosts[t.ID] = append(s.threadPosts[t.ID], p.ID)
		created[i] = p
	}
	return created, nil
}

func (s *MemoryStore) ListPosts(_ context.Context, threadSlugOrID string, p ListPostsParams) ([]Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.threadByRef(threadSlugOrID)
	if !ok {
		return nil, ErrNotFound
	}

	switch p.Sort {
	case SortTree:
		return s.listTree(t, p), nil
	case SortParentTree:
		return s.listParentTree(t, p), nil
	default:
		return s.listFlat(t, p), nil
	}
}

// listFlat pages in (created, id) order. Once a cursor is in play only ids
// are compared, so pagination stays stable across timestamp ties.
func (s *MemoryStore) listFlat(t *Thread, p ListPostsParams) []Post {
	out := []Post{}
	for _, pid := range s.threadPosts[t.ID] {
		post := s.posts[pid]
		if p.Since != 0 {
			if !p.Desc && post.ID <= p.Since {
				continue
			}
			if p.Desc && post.ID >= p.Since {
				continue
			}
		}
		out = append(out, *post)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
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

	if p.Limit > 0 && len(out) > p.Limit {
		out = out[:p.Limit]
	}
	return out
}

// listTree pages a depth-first pre-order traversal: lexicographic order over
// materialized paths.
func (s *MemoryStore) listTree(t *Thread, p ListPostsParams) []Post {
	var sincePath []int64
	if p.Since != 0 {
		since, ok := s.posts[p.Since]
		if !ok {
			return []Post{}
		}
		sincePath = since.Path
	}

	out := []Post{}
	for _, pid := range s.threadPosts[t.ID] {
		post := s.posts[pid]
		if sincePath != nil {
			cmp := comparePaths(post.Path, sincePath)
			if !p.Desc && cmp <= 0 {
				continue
			}
			if p.Desc && cmp >= 0 {
				continue
			}
		}
		out = append(out, *post)
	}

	sort.Slice(out, func(i, j int) bool {
		cmp := comparePaths(out[i].Path, out[j].Path)
		if p.Desc {
			return cmp > 0
		}
		return cmp < 0
	})

	if p.Limit > 0 && len(out) > p.Limit {
		out = out[:p.Limit]
	}
	return out
}

// listParentTree pages over root posts: Limit bounds the number of roots,
// and each selected root contributes its entire subtree. The cursor compares
// root ancestors (path[1]). With Desc the roots run backwards while every
// subtree stays in ascending path order.
func (s *MemoryStore) listParentTree(t *Thread, p ListPostsParams) []Post {
	var sinceRoot int64
	if p.Since != 0 {
		since, ok := s.posts[p.Since]
		if !ok {
			return []Post{}
		}
		sinceRoot = since.Path[0]
	}

	var roots []int64
	for _, pid := range s.threadPosts[t.ID] {
		post := s.posts[pid]
		if post.Parent != 0 {
			continue
		}
		if sinceRoot != 0 {
			if !p.Desc && post.ID <= sinceRoot {
				continue
			}
			if p.Desc && post.ID >= sinceRoot {
				continue
			}
		}
		roots = append(roots, post.ID)
	}
	sort.Slice(roots, func(i, j int) bool {
		if p.Desc {
			return roots[i] > roots[j]
		}
		return roots[i] < roots[j]
	})
	if p.Limit > 0 && len(roots) > p.Limit {
		roots = roots[:p.Limit]
	}

	rootRank := make(map[int64]int, len(roots))
	for i, r := range roots {
		rootRank[r] = i
	}

	out := []Post{}
	for _, pid := range s.threadPosts[t.ID] {
		post := s.posts[pid]
		if _, ok := rootRank[post.Path[0]]; ok {
			out = append(out, *post)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := rootRank[out[i].Path[0]], rootRank[out[j].Path[0]]
		if ri != rj {
			return ri < rj
		}
		return comparePaths(out[i].Path, out[j].Path) < 0
	})
	return out
}

func (s *MemoryStore) GetPost(_ context.Context, id int64, rel Related) (PostDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return PostDetails{}, ErrNotFound
	}
	p := *post
	details := PostDetails{Post: &p}

	if rel.User {
		author := s.users[lower(post.Author)]
		details.Author = &author
	}
	if rel.Thread {
		thread := *s.threads[post.Thread]
		details.Thread = &thread
	}
	if rel.Forum {
		forum := *s.forums[lower(post.Forum)]
		forum.Posts = s.countForumPosts(lower(post.Forum))
		details.Forum = &forum
	}
	return details, nil
}

func (s *MemoryStore) UpdatePost(_ context.Context, id int64, message string) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return Post{}, ErrNotFound
	}
	if message == "" {
		return *post, nil
	}

	// Edited means "differs from the immediately-prior value", so writing
	// the same text back clears the flag.
	post.IsEdited = post.Message != message
	post.Message = message
	return *post, nil
}
