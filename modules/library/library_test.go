package library

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePoses() []Item {
	return []Item{
		{ID: "p1", Kind: KindPose, Gender: "female", Tags: []string{"casual"}, CustomPrompt: "Walking forward."},
		{ID: "p2", Kind: KindPose, Gender: "female", Tags: []string{"YAN_ACI"}, CustomPrompt: "  Body turned 45 degrees.  "},
		{ID: "p3", Kind: KindPose, Gender: "male", Tags: []string{"yan_aci"}, CustomPrompt: "Shoulder to camera."},
		{ID: "p4", Kind: KindPose, Gender: "female", Tags: []string{"yan_aci"}},
	}
}

func TestMemoryCatalog(t *testing.T) {
	c := NewMemoryCatalog(append(samplePoses(), Item{ID: "p1", Kind: KindPose, CustomPrompt: "Replaced."})...)

	all := c.All()
	require.Len(t, all, 4)
	assert.Equal(t, "p1", all[0].ID)
	assert.Equal(t, "Replaced.", all[0].CustomPrompt)

	it, ok := c.Get("p3")
	require.True(t, ok)
	assert.Equal(t, "male", it.Gender)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	all[1].ID = "mutated"
	_, ok = c.Get("p2")
	assert.True(t, ok)
}

func TestPromptFor(t *testing.T) {
	c := NewMemoryCatalog(samplePoses()...)

	assert.Equal(t, "Body turned 45 degrees.", PromptFor(c, "p2"))
	assert.Empty(t, PromptFor(c, "p4"))
	assert.Empty(t, PromptFor(c, "missing"))
	assert.Empty(t, PromptFor(nil, "p1"))
}

func TestAngledPoses(t *testing.T) {
	c := NewMemoryCatalog(samplePoses()...)

	female := AngledPoses(c, "female")
	require.Len(t, female, 1)
	assert.Equal(t, "p2", female[0].ID)

	male := AngledPoses(c, "male")
	require.Len(t, male, 1)
	assert.Equal(t, "p3", male[0].ID)

	assert.Empty(t, AngledPoses(nil, "female"))
}

func TestLibraryCachesPerOwnerAndKind(t *testing.T) {
	var calls atomic.Int32
	loader := LoaderFunc(func(_ context.Context, ownerID string, kind Kind) ([]Item, error) {
		calls.Add(1)
		return []Item{{ID: ownerID + "-" + string(kind), Kind: kind}}, nil
	})
	lib := New(loader, 16, time.Minute)
	ctx := context.Background()

	c, err := lib.Catalog(ctx, "u1", KindPose)
	require.NoError(t, err)
	_, ok := c.Get("u1-pose")
	assert.True(t, ok)

	_, err = lib.Catalog(ctx, "u1", KindPose)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	_, err = lib.Catalog(ctx, "u1", KindFit)
	require.NoError(t, err)
	_, err = lib.Catalog(ctx, "u2", KindPose)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())

	lib.Invalidate("u1", KindPose)
	_, err = lib.Catalog(ctx, "u1", KindPose)
	require.NoError(t, err)
	assert.Equal(t, int32(4), calls.Load())

	// 종류를 지정하지 않으면 소유자의 전체 캐시 제거
	lib.Invalidate("u1")
	_, err = lib.Catalog(ctx, "u1", KindFit)
	require.NoError(t, err)
	_, err = lib.Catalog(ctx, "u2", KindPose)
	require.NoError(t, err)
	assert.Equal(t, int32(5), calls.Load())
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind(" Pose ")
	assert.True(t, ok)
	assert.Equal(t, KindPose, k)

	_, ok = ParseKind("hat")
	assert.False(t, ok)
}

func TestLibraryLoaderErrorIsNotCached(t *testing.T) {
	fail := true
	loader := LoaderFunc(func(context.Context, string, Kind) ([]Item, error) {
		if fail {
			return nil, errors.New("db down")
		}
		return []Item{{ID: "x"}}, nil
	})
	lib := New(loader, 0, time.Minute)

	_, err := lib.Catalog(context.Background(), "u1", KindShoe)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shoe")

	fail = false
	c, err := lib.Catalog(context.Background(), "u1", KindShoe)
	require.NoError(t, err)
	assert.Len(t, c.All(), 1)
}
