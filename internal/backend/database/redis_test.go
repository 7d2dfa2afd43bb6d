package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedis(t *testing.T) (DatabaseService, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	ds, err := NewDatabase(TypeRedis, "redis://"+server.Addr())
	if err != nil {
		t.Fatalf("NewDatabase(redis) error: %v", err)
	}
	t.Cleanup(func() { _ = ds.Close() })
	return ds, server
}

func TestRedis_StudentHashLayout(t *testing.T) {
	ds, server := newTestRedis(t)

	id, err := ds.InsertStudent(context.Background(), StudentRecord{
		FirstName: "Ana", LastName: "Pérez", Age: 15, Grade: 8.25, Subject: "Historia",
	})
	if err != nil {
		t.Fatalf("InsertStudent error: %v", err)
	}
	if got := server.HGet(studentKey(id), "notas"); got != "8.25" {
		t.Errorf("expected notas field 8.25, got %q", got)
	}
	if got := server.HGet(studentKey(id), "edad"); got != "15" {
		t.Errorf("expected edad field 15, got %q", got)
	}
}

func TestRedis_UpdateMissingIDDoesNotCreateHash(t *testing.T) {
	ds, server := newTestRedis(t)

	if err := ds.UpdateStudent(context.Background(), StudentRecord{ID: 42, FirstName: "Ghost"}); err != nil {
		t.Fatalf("UpdateStudent on missing id returned error: %v", err)
	}
	if server.Exists(studentKey(42)) {
		t.Fatal("UpdateStudent on missing id must not create a record")
	}
}

func TestRedis_UpdateAfterDeleteLeavesNoOrphanHash(t *testing.T) {
	ds, server := newTestRedis(t)
	ctx := context.Background()

	id, err := ds.InsertStudent(ctx, StudentRecord{FirstName: "Ana", Age: 15, Grade: 7, Subject: "Arte"})
	if err != nil {
		t.Fatalf("InsertStudent error: %v", err)
	}
	if err := ds.UpdateStudent(ctx, StudentRecord{ID: id, FirstName: "Ana", Age: 16, Grade: 9, Subject: "Arte"}); err != nil {
		t.Fatalf("UpdateStudent error: %v", err)
	}
	if got := server.HGet(studentKey(id), "edad"); got != "16" {
		t.Errorf("expected edad 16 after update, got %q", got)
	}

	if err := ds.DeleteStudent(ctx, id); err != nil {
		t.Fatalf("DeleteStudent error: %v", err)
	}
	if err := ds.UpdateStudent(ctx, StudentRecord{ID: id, FirstName: "Ghost"}); err != nil {
		t.Fatalf("UpdateStudent after delete error: %v", err)
	}
	if server.Exists(studentKey(id)) {
		t.Fatal("update after delete must not recreate the student hash")
	}
}

func TestRedis_InvalidConnectionString(t *testing.T) {
	if _, err := NewRedisDatabase("not-a-url://"); err == nil {
		t.Fatal("expected error for invalid redis url, got nil")
	}
}
