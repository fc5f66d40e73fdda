package store

import (
	"strings"
	"sync"
)

// MemoryStore is a development-only in-memory implementation of every store
// interface. The entities share one lock because they reference each other
// (votes need users and threads, posts need threads, counters need forums).
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string]User   // lower(nickname) -> user
	usersByMail map[string]string // lower(email) -> lower(nickname)
	forums      map[string]*Forum // lower(slug) -> forum
	threads     map[int64]*Thread
	threadSlugs map[string]int64 // lower(slug) -> thread id
	posts       map[int64]*Post
	threadPosts map[int64][]int64        // thread id -> post ids, ascending
	votes       map[int64]map[string]int // thread id -> lower(nickname) -> voice
	nextThread  int64
	nextPost    int64
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	s.reset()
	return s
}

// reset reinitialises all state. Callers hold the write lock (or own the
// store exclusively, as in NewMemoryStore).
func (s *MemoryStore) reset() {
	s.users = make(map[string]User)
	s.usersByMail = make(map[string]string)
	s.forums = make(map[string]*Forum)
	s.threads = make(map[int64]*Thread)
	s.threadSlugs = make(map[string]int64)
	s.posts = make(map[int64]*Post)
	s.threadPosts = make(map[int64][]int64)
	s.votes = make(map[int64]map[string]int)
	s.nextThread = 0
	s.nextPost = 0
}

func lower(s string) string { return strings.ToLower(s) }

// threadByRef resolves a slug-or-id reference. Callers hold at least the
// read lock.
func (s *MemoryStore) threadByRef(ref string) (*Thread, bool) {
	if id, slug := ParseSlugOrID(ref); slug == "" {
		t, ok := s.threads[id]
		return t, ok
	} else if tid, ok := s.threadSlugs[lower(slug)]; ok {
		return s.threads[tid], true
	}
	return nil, false
}

// countForumPosts aggregates the forum's post count on demand.
func (s *MemoryStore) countForumPosts(slugLower string) int64 {
	var n int64
	for _, t := range s.threads {
		if lower(t.Forum) == slugLower {
			n += int64(len(s.threadPosts[t.ID]))
		}
	}
	return n
}

// comparePaths orders materialized paths lexicographically as id sequences.
func comparePaths(a, b []int64) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
