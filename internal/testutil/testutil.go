// Package testutil provides shared test helpers for building sessions and
// journal databases.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/danielfarrell/gatsby/internal/actions"
	"github.com/danielfarrell/gatsby/internal/journal"
	"github.com/danielfarrell/gatsby/internal/session"
)

// Quiet returns a logger that discards everything, keeping test output
// readable.
func Quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestJournal creates a temporary SQLite journal that is automatically
// cleaned up.
func TestJournal(t *testing.T) *journal.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "gatsby-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := journal.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestSession creates an in-memory build session with no journal or
// stream attached.
func TestSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := session.New(session.Config{
		Program: actions.Program{Directory: t.TempDir()},
		Logger:  Quiet(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// TestSessionWithJournal creates a session backed by a temporary journal
// database.
func TestSessionWithJournal(t *testing.T) (*session.Session, *journal.DB) {
	t.Helper()
	db := TestJournal(t)
	s, err := session.New(session.Config{
		Program: actions.Program{Directory: t.TempDir()},
		Journal: db,
		Logger:  Quiet(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return s, db
}
