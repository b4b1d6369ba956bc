package fx

import "testing"

func TestHarness_LogsPointerTransitions(t *testing.T) {
	path := func(frame int) (float64, float64, bool) {
		return 100, 100, frame < 10
	}
	hs, err := NewHarness(WithEffect(EffectPoints), WithCanvasSize(200, 200), WithSeed(9), WithPointerPath(path))
	if err != nil {
		t.Fatal(err)
	}
	hs.RunFrames(20)

	entries := hs.FrameLog.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected init, enter and leave only, got:\n%s", hs.FrameLog.Format())
	}
	if entries[0].Category != "surface" || entries[0].Key != "init" {
		t.Fatalf("first entry should be the surface init, got %s", entries[0])
	}
	enter, ok := hs.FrameLog.LastOf("pointer", "enter")
	if !ok || enter.Frame != 0 {
		t.Fatalf("expected pointer enter at frame 0, got %+v (found=%v)", enter, ok)
	}
	leave, ok := hs.FrameLog.LastOf("pointer", "leave")
	if !ok || leave.Frame != 10 {
		t.Fatalf("expected pointer leave at frame 10, got %+v (found=%v)", leave, ok)
	}
	if _, ok := hs.FrameLog.LastOf("invariant", ""); ok {
		t.Fatal("no invariant entries expected")
	}
}

func TestHarness_VerboseRecordsStats(t *testing.T) {
	hs, err := NewHarness(WithEffect(EffectNetwork), WithCanvasSize(200, 200), WithVerbose(true))
	if err != nil {
		t.Fatal(err)
	}
	hs.RunFrames(5)
	if n := hs.FrameLog.CountCategory("stats", "visible"); n != 5 {
		t.Fatalf("expected 5 stats entries, got %d", n)
	}
	last, ok := hs.FrameLog.LastOf("stats", "visible")
	if !ok || last.Frame != 4 {
		t.Fatalf("expected last stats at frame 4, got %+v", last)
	}
}
