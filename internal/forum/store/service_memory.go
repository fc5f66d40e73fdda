package store

import "context"

func (s *MemoryStore) Status(_ context.Context) (Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		User:   int64(len(s.users)),
		Forum:  int64(len(s.forums)),
		Thread: int64(len(s.threads)),
		Post:   int64(len(s.posts)),
	}, nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	return nil
}
