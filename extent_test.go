package fat32report

import (
	"reflect"
	"testing"
	"testing/quick"
)

func TestEncodeExtents_Empty(t *testing.T) {
	if got := EncodeExtents(nil); got != nil {
		t.Errorf("EncodeExtents(nil) = %v, want nil", got)
	}
}

func TestEncodeExtents_SingleRun(t *testing.T) {
	got := EncodeExtents([]uint32{5, 6, 7, 8})
	want := []Extent{{StartCluster: 5, Length: 4}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EncodeExtents() = %v, want %v", got, want)
	}
}

func TestEncodeExtents_Fragmented(t *testing.T) {
	got := EncodeExtents([]uint32{5, 6, 20, 21, 22, 9})
	want := []Extent{
		{StartCluster: 5, Length: 2},
		{StartCluster: 20, Length: 3},
		{StartCluster: 9, Length: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EncodeExtents() = %v, want %v", got, want)
	}
}

func expandExtents(extents []Extent) []uint32 {
	var chain []uint32
	for _, e := range extents {
		for i := uint32(0); i < e.Length; i++ {
			chain = append(chain, e.StartCluster+i)
		}
	}
	return chain
}

// TestEncodeExtents_RoundTrip checks that expanding the encoded extents
// always reproduces the original chain, for arbitrary non-empty chains.
func TestEncodeExtents_RoundTrip(t *testing.T) {
	f := func(seed []uint32) bool {
		chain := make([]uint32, len(seed))
		for i, v := range seed {
			chain[i] = (v % 1000) + 2
		}
		if len(chain) == 0 {
			return true
		}
		extents := EncodeExtents(chain)
		return reflect.DeepEqual(expandExtents(extents), chain)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestEncodeExtents_NoAdjacentExtentsMerge(t *testing.T) {
	extents := EncodeExtents([]uint32{2, 3, 4, 10, 11})
	for i := 1; i < len(extents); i++ {
		prevEnd := extents[i-1].StartCluster + extents[i-1].Length
		if extents[i].StartCluster == prevEnd {
			t.Errorf("extents %v and %v should have been merged into one run", extents[i-1], extents[i])
		}
	}
}
