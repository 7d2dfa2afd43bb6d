package database

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// backends runs each test against every DatabaseService implementation.
var backends = map[string]func(t *testing.T) DatabaseService{
	TypeSQLite: newTestDB,
	TypeRedis: func(t *testing.T) DatabaseService {
		ds, _ := newTestRedis(t)
		return ds
	},
}

func forEachBackend(t *testing.T, test func(t *testing.T, ds DatabaseService)) {
	for name, newBackend := range backends {
		t.Run(name, func(t *testing.T) {
			test(t, newBackend(t))
		})
	}
}

func TestInsertThenListRoundTrip(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ds DatabaseService) {
		ctx := context.Background()
		want := StudentRecord{FirstName: "María", LastName: "Gómez", Age: 16, Grade: 9.5, Subject: "Matemáticas"}

		id, err := ds.InsertStudent(ctx, want)
		if err != nil {
			t.Fatalf("InsertStudent error: %v", err)
		}
		if id < 1 {
			t.Fatalf("expected positive id, got %d", id)
		}
		want.ID = id

		students, err := ds.ListStudents(ctx)
		if err != nil {
			t.Fatalf("ListStudents error: %v", err)
		}
		if diff := cmp.Diff([]StudentRecord{want}, students); diff != "" {
			t.Fatalf("ListStudents mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestIDsIncreaseInInsertionOrder(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ds DatabaseService) {
		ctx := context.Background()
		names := []string{"a", "b", "c"}
		var ids []int64
		for _, name := range names {
			id, err := ds.InsertStudent(ctx, StudentRecord{FirstName: name})
			if err != nil {
				t.Fatalf("InsertStudent(%s) error: %v", name, err)
			}
			ids = append(ids, id)
		}

		students, err := ds.ListStudents(ctx)
		if err != nil {
			t.Fatalf("ListStudents error: %v", err)
		}
		if len(students) != len(names) {
			t.Fatalf("expected %d students, got %d", len(names), len(students))
		}
		for i, student := range students {
			if student.ID != ids[i] || student.FirstName != names[i] {
				t.Errorf("row %d: expected id=%d name=%s, got %+v", i, ids[i], names[i], student)
			}
			if i > 0 && students[i-1].ID >= student.ID {
				t.Errorf("ids not ascending at row %d: %d then %d", i, students[i-1].ID, student.ID)
			}
		}
	})
}

func TestUpdateThenRead(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ds DatabaseService) {
		ctx := context.Background()
		keepID, err := ds.InsertStudent(ctx, StudentRecord{FirstName: "Keep", Age: 20, Grade: 5, Subject: "Arte"})
		if err != nil {
			t.Fatalf("InsertStudent error: %v", err)
		}
		targetID, err := ds.InsertStudent(ctx, StudentRecord{FirstName: "Old", Age: 18, Grade: 4, Subject: "Química"})
		if err != nil {
			t.Fatalf("InsertStudent error: %v", err)
		}

		updated := StudentRecord{ID: targetID, FirstName: "New", LastName: "Name", Age: 19, Grade: 7.75, Subject: "Biología"}
		if err := ds.UpdateStudent(ctx, updated); err != nil {
			t.Fatalf("UpdateStudent error: %v", err)
		}

		students, err := ds.ListStudents(ctx)
		if err != nil {
			t.Fatalf("ListStudents error: %v", err)
		}
		want := []StudentRecord{
			{ID: keepID, FirstName: "Keep", Age: 20, Grade: 5, Subject: "Arte"},
			updated,
		}
		if diff := cmp.Diff(want, students); diff != "" {
			t.Fatalf("ListStudents after update mismatch (-want +got):\n%s", diff)
		}
	})
}

// Updating or deleting an id that does not exist affects zero rows and is
// deliberately not reported as an error.
func TestMissingIDMutationsAreNoOps(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ds DatabaseService) {
		ctx := context.Background()
		id, err := ds.InsertStudent(ctx, StudentRecord{FirstName: "Only"})
		if err != nil {
			t.Fatalf("InsertStudent error: %v", err)
		}
		before, err := ds.ListStudents(ctx)
		if err != nil {
			t.Fatalf("ListStudents error: %v", err)
		}

		if err := ds.UpdateStudent(ctx, StudentRecord{ID: id + 100, FirstName: "Nobody"}); err != nil {
			t.Fatalf("UpdateStudent on missing id returned error: %v", err)
		}
		if err := ds.DeleteStudent(ctx, id+100); err != nil {
			t.Fatalf("DeleteStudent on missing id returned error: %v", err)
		}

		after, err := ds.ListStudents(ctx)
		if err != nil {
			t.Fatalf("ListStudents error: %v", err)
		}
		if diff := cmp.Diff(before, after); diff != "" {
			t.Fatalf("table changed after no-op mutations (-before +after):\n%s", diff)
		}
	})
}

func TestDeleteThenRead(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ds DatabaseService) {
		ctx := context.Background()
		firstID, err := ds.InsertStudent(ctx, StudentRecord{FirstName: "First"})
		if err != nil {
			t.Fatalf("InsertStudent error: %v", err)
		}
		secondID, err := ds.InsertStudent(ctx, StudentRecord{FirstName: "Second"})
		if err != nil {
			t.Fatalf("InsertStudent error: %v", err)
		}

		if err := ds.DeleteStudent(ctx, firstID); err != nil {
			t.Fatalf("DeleteStudent error: %v", err)
		}
		students, err := ds.ListStudents(ctx)
		if err != nil {
			t.Fatalf("ListStudents error: %v", err)
		}
		if len(students) != 1 || students[0].ID != secondID {
			t.Fatalf("expected only id %d to remain, got %+v", secondID, students)
		}

		// A second delete of the same id must not fail and must not change the table.
		if err := ds.DeleteStudent(ctx, firstID); err != nil {
			t.Fatalf("second DeleteStudent error: %v", err)
		}
		again, err := ds.ListStudents(ctx)
		if err != nil {
			t.Fatalf("ListStudents error: %v", err)
		}
		if diff := cmp.Diff(students, again); diff != "" {
			t.Fatalf("second delete changed the table (-want +got):\n%s", diff)
		}
	})
}

func TestVectorSamplesAppendOnly(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ds DatabaseService) {
		ctx := context.Background()
		values := []float64{1.5, -2, 42}
		for _, v := range values {
			if err := ds.InsertVectorSample(ctx, v); err != nil {
				t.Fatalf("InsertVectorSample(%v) error: %v", v, err)
			}
		}

		samples, err := ds.ListVectorSamples(ctx)
		if err != nil {
			t.Fatalf("ListVectorSamples error: %v", err)
		}
		if len(samples) != len(values) {
			t.Fatalf("expected %d samples, got %d", len(values), len(samples))
		}
		for i, sample := range samples {
			if sample.Value != values[i] {
				t.Errorf("sample %d: expected %v, got %v", i, values[i], sample.Value)
			}
			if i > 0 && samples[i-1].ID >= sample.ID {
				t.Errorf("sample ids not ascending at %d", i)
			}
		}
	})
}

func TestEmptyStoreListsNothing(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ds DatabaseService) {
		ctx := context.Background()
		students, err := ds.ListStudents(ctx)
		if err != nil {
			t.Fatalf("ListStudents error: %v", err)
		}
		if len(students) != 0 {
			t.Fatalf("expected no students, got %d", len(students))
		}
		samples, err := ds.ListVectorSamples(ctx)
		if err != nil {
			t.Fatalf("ListVectorSamples error: %v", err)
		}
		if len(samples) != 0 {
			t.Fatalf("expected no samples, got %d", len(samples))
		}
	})
}
