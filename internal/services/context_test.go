package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"trackscribe/internal/services"
)

func TestContextHelpers(t *testing.T) {
	trackID := uuid.MustParse("40c818b9-0cf0-52a9-bb2f-39bbedbb4829")

	ctx := context.Background()
	ctx = services.WithTrackID(ctx, trackID)
	ctx = services.WithStage(ctx, "transcribe")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.TrackIDFromContext(ctx); !ok || id != trackID {
		t.Fatalf("unexpected track id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "transcribe" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestStageBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
}

func TestNilTrackIDPreservesContext(t *testing.T) {
	ctx := services.WithTrackID(context.Background(), uuid.Nil)
	if _, ok := services.TrackIDFromContext(ctx); ok {
		t.Fatal("expected no track id value")
	}
}
