package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    nickname TEXT PRIMARY KEY,
    fullname TEXT NOT NULL DEFAULT '',
    about    TEXT NOT NULL DEFAULT '',
    email    TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS users_nickname_ci ON users (LOWER(nickname));
CREATE UNIQUE INDEX IF NOT EXISTS users_email_ci ON users (LOWER(email));

CREATE TABLE IF NOT EXISTS forums (
    slug    TEXT PRIMARY KEY,
    title   TEXT NOT NULL,
    owner   TEXT NOT NULL REFERENCES users (nickname),
    threads INT  NOT NULL DEFAULT 0
);
CREATE UNIQUE INDEX IF NOT EXISTS forums_slug_ci ON forums (LOWER(slug));

CREATE TABLE IF NOT EXISTS threads (
    id         BIGSERIAL PRIMARY KEY,
    slug       TEXT,
    forum_slug TEXT NOT NULL REFERENCES forums (slug),
    author     TEXT NOT NULL REFERENCES users (nickname),
    title      TEXT NOT NULL,
    message    TEXT NOT NULL,
    votes      INT  NOT NULL DEFAULT 0,
    created    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS threads_slug_ci ON threads (LOWER(slug)) WHERE slug IS NOT NULL;
CREATE INDEX IF NOT EXISTS threads_forum_created ON threads (LOWER(forum_slug), created);

CREATE TABLE IF NOT EXISTS posts (
    id         BIGSERIAL PRIMARY KEY,
    thread_id  BIGINT NOT NULL REFERENCES threads (id),
    forum_slug TEXT   NOT NULL,
    author     TEXT   NOT NULL REFERENCES users (nickname),
    message    TEXT   NOT NULL,
    is_edited  BOOLEAN NOT NULL DEFAULT FALSE,
    parent_id  BIGINT REFERENCES posts (id),
    created    TIMESTAMPTZ NOT NULL DEFAULT now(),
    path       BIGINT[] NOT NULL
);
CREATE INDEX IF NOT EXISTS posts_thread_id ON posts (thread_id, id);
CREATE INDEX IF NOT EXISTS posts_thread_path ON posts (thread_id, path);
CREATE INDEX IF NOT EXISTS posts_thread_root ON posts (thread_id, (path[1]), path);
CREATE INDEX IF NOT EXISTS posts_forum_author ON posts (LOWER(forum_slug), author);

CREATE TABLE IF NOT EXISTS votes (
    nickname  TEXT   NOT NULL REFERENCES users (nickname),
    thread_id BIGINT NOT NULL REFERENCES threads (id),
    voice     SMALLINT NOT NULL,
    PRIMARY KEY (nickname, thread_id)
);
`

// Migrate applies the schema. Every statement is idempotent, so running it
// on every startup is safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
