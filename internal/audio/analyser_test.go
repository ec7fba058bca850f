package audio

import "testing"

func TestAnalyserStartsSilent(t *testing.T) {
	t.Parallel()

	a := NewAnalyser(8, 1)
	for i, v := range a.Snapshot() {
		if v != Centre {
			t.Fatalf("sample %d: expected silence, got %d", i, v)
		}
	}
}

func TestAnalyserConvertsToUnsignedBytes(t *testing.T) {
	t.Parallel()

	a := NewAnalyser(4, 1)
	a.Write(int16ToBytes([]int16{0, 32767, -32768, 256}))

	got := a.Snapshot()
	want := []byte{128, 255, 0, 129}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: want %d got %d (all %v)", i, want[i], got[i], got)
		}
	}
}

func TestAnalyserKeepsMostRecentWindow(t *testing.T) {
	t.Parallel()

	a := NewAnalyser(3, 1)
	a.Write(int16ToBytes([]int16{256, 512, 768, 1024, 1280}))

	got := a.Snapshot()
	want := []byte{131, 132, 133}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected oldest-first %v, got %v", want, got)
		}
	}
}

func TestAnalyserUsesFirstChannel(t *testing.T) {
	t.Parallel()

	a := NewAnalyser(2, 2)
	a.Write(int16ToBytes([]int16{256, -32768, 512, -32768}))

	got := a.Snapshot()
	if got[0] != 129 || got[1] != 130 {
		t.Fatalf("expected left channel only, got %v", got)
	}
}
