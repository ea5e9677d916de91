package journal

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/danielfarrell/gatsby/internal/event"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "gatsby-journal-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndListEvents(t *testing.T) {
	db := testDB(t)

	if err := db.RecordEvent(event.New(event.CreateNode, "source-fs", "t1", map[string]any{"id": "n1"})); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordEvent(event.New(event.TouchNode, "source-fs", "", "n1")); err != nil {
		t.Fatal(err)
	}

	entries, err := db.Events(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	// Newest first.
	if entries[0].Kind != string(event.TouchNode) {
		t.Errorf("first kind = %q, want TouchNode", entries[0].Kind)
	}
	if entries[1].Plugin != "source-fs" || entries[1].TraceID != "t1" {
		t.Errorf("tagging = %q/%q", entries[1].Plugin, entries[1].TraceID)
	}

	var payload map[string]any
	if err := json.Unmarshal(entries[1].Payload, &payload); err != nil {
		t.Fatal(err)
	}
	if payload["id"] != "n1" {
		t.Errorf("payload = %v", payload)
	}
}

func TestEvents_Limit(t *testing.T) {
	db := testDB(t)
	for i := 0; i < 5; i++ {
		if err := db.RecordEvent(event.New(event.TouchNode, "p", "", "n")); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := db.Events(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("entries = %d, want 3", len(entries))
	}
}

func TestDigests_UpsertAndDelete(t *testing.T) {
	db := testDB(t)

	if err := db.SaveDigest("n1", "d1"); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveDigest("n1", "d2"); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveDigest("n2", "d3"); err != nil {
		t.Fatal(err)
	}

	all, err := db.AllDigests()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("digests = %v, want 2 entries", all)
	}
	if all["n1"] != "d2" {
		t.Errorf("n1 digest = %q, want upserted d2", all["n1"])
	}

	if err := db.DeleteDigest("n1"); err != nil {
		t.Fatal(err)
	}
	all, err = db.AllDigests()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := all["n1"]; ok {
		t.Error("n1 digest should be gone")
	}
}

func TestOpen_CreatesSchemaIdempotently(t *testing.T) {
	dbFile, err := os.CreateTemp("", "gatsby-journal-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	defer os.Remove(dbFile.Name())

	db1, err := Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	if err := db1.SaveDigest("n1", "d1"); err != nil {
		t.Fatal(err)
	}
	db1.Close()

	db2, err := Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	defer db2.Close()
	all, err := db2.AllDigests()
	if err != nil {
		t.Fatal(err)
	}
	if all["n1"] != "d1" {
		t.Errorf("digest lost across reopen: %v", all)
	}
}
