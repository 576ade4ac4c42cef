package bufpool

import "testing"

func TestGet_SizeBuckets(t *testing.T) {
	tests := []struct {
		name        string
		requestSize int
		expectCap   int
	}{
		{"chunk bucket - exact", 0x800, 0x800},
		{"chunk bucket - smaller", 100, 0x800},
		{"sector bucket - exact", 0x10000, 0x10000},
		{"sector bucket - smaller", 0x9000, 0x10000},
		{"quarter bucket - exact", 0x100000, 0x100000},
		{"full bucket - exact", 0x400000, 0x400000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := Get(tt.requestSize)
			if len(buf) != tt.requestSize {
				t.Errorf("Get(%d) returned len=%d, want %d", tt.requestSize, len(buf), tt.requestSize)
			}
			if cap(buf) != tt.expectCap {
				t.Errorf("Get(%d) returned cap=%d, want %d", tt.requestSize, cap(buf), tt.expectCap)
			}
			Put(buf)
		})
	}
}

func TestGet_Reuse(t *testing.T) {
	buf1 := Get(sizeChunk)
	ptr1 := &buf1[0]
	Put(buf1)

	buf2 := Get(sizeChunk)
	ptr2 := &buf2[0]
	Put(buf2)

	if ptr1 == ptr2 {
		t.Log("buffer was reused from pool")
	} else {
		t.Log("buffer was not reused (sync.Pool GC behavior)")
	}
}

func TestPut_NonStandardCap(t *testing.T) {
	buf := make([]byte, 123)
	Put(buf) // must not panic
}

func TestGet_OversizeFallsBackToAlloc(t *testing.T) {
	buf := Get(sizeFull + 1)
	if len(buf) != sizeFull+1 {
		t.Fatalf("len=%d, want %d", len(buf), sizeFull+1)
	}
}
