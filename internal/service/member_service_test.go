package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"staffportal/internal/model"
)

type fakeMemberStore struct {
	terms   []string
	listed  int
	members []model.Member
}

func (f *fakeMemberStore) Search(ctx context.Context, term string) ([]model.Member, error) {
	f.terms = append(f.terms, term)
	return f.members, nil
}

func (f *fakeMemberStore) List(ctx context.Context) ([]model.Member, error) {
	f.listed++
	return f.members, nil
}

func TestSearch_EmptyTermSkipsLookup(t *testing.T) {
	store := &fakeMemberStore{}
	svc := NewMemberService(store, nil, zap.NewNop())

	for _, term := range []string{"", "   ", "\t"} {
		views, err := svc.Search(context.Background(), term)
		if err != nil {
			t.Fatal(err)
		}
		if views == nil || len(views) != 0 {
			t.Fatalf("term %q: want empty list, got %v", term, views)
		}
	}
	if len(store.terms) != 0 {
		t.Fatalf("empty terms must not hit the store, got %v", store.terms)
	}
}

func TestSearch_PassesTermThrough(t *testing.T) {
	store := &fakeMemberStore{}
	svc := NewMemberService(store, nil, zap.NewNop())

	if _, err := svc.Search(context.Background(), "  smith "); err != nil {
		t.Fatal(err)
	}
	if len(store.terms) != 1 || store.terms[0] != "smith" {
		t.Fatalf("want trimmed term, got %v", store.terms)
	}
}

func TestSearch_SerializesDates(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	store := &fakeMemberStore{members: []model.Member{{
		ID:            4,
		CreatedAt:     created,
		UpdatedAt:     created,
		Birthdate:     time.Date(1990, 7, 14, 0, 0, 0, 0, time.UTC),
		FirstName:     "Jane",
		LastName:      "Smith",
		TNumber:       "T-0004",
		ContactNumber: "+15550004",
		Email:         "jane@x.io",
	}}}
	svc := NewMemberService(store, nil, zap.NewNop())

	views, err := svc.Search(context.Background(), "smith")
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 1 {
		t.Fatalf("want 1 view, got %d", len(views))
	}
	if views[0].Created != "2024-03-01T09:30:00Z" {
		t.Fatalf("created should serialize to RFC 3339, got %s", views[0].Created)
	}
	if views[0].Birthdate != "1990-07-14T00:00:00Z" {
		t.Fatalf("birthdate should serialize to RFC 3339, got %s", views[0].Birthdate)
	}
}

func TestList_ReturnsWholeDirectory(t *testing.T) {
	store := &fakeMemberStore{members: []model.Member{{ID: 1}, {ID: 2}}}
	svc := NewMemberService(store, nil, zap.NewNop())

	views, err := svc.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 2 || store.listed != 1 {
		t.Fatalf("want 2 views from one store call, got %d views, %d calls", len(views), store.listed)
	}
}
