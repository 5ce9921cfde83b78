package fat32report

import (
	bitmap "github.com/boljen/go-bitmap"
)

// AllocationAnalyzer derives the volume's in-use/free cluster map and
// fragmentation statistics from a set of walked FileRecords.
type AllocationAnalyzer struct {
	geom *BootSector
}

// NewAllocationAnalyzer builds an AllocationAnalyzer for the given geometry.
func NewAllocationAnalyzer(bs *BootSector) *AllocationAnalyzer {
	return &AllocationAnalyzer{geom: bs}
}

// BuildBitmap sets bit i for every cluster i+2 referenced by any record's
// Clusters. Cluster references outside [2, total_clusters+2) are ignored;
// ChainFollower already reports those as warnings.
func (a *AllocationAnalyzer) BuildBitmap(records []FileRecord) bitmap.Bitmap {
	bm := bitmap.New(int(a.geom.TotalClusters))
	for _, rec := range records {
		for _, c := range rec.Clusters {
			idx := int(c) - 2
			if idx >= 0 && idx < int(a.geom.TotalClusters) {
				bm.Set(idx, true)
			}
		}
	}
	return bm
}

// FreeRuns scans bm for maximal runs of unallocated clusters.
func (a *AllocationAnalyzer) FreeRuns(bm bitmap.Bitmap) []FreeRun {
	var runs []FreeRun
	total := int(a.geom.TotalClusters)

	i := 0
	for i < total {
		if bm.Get(i) {
			i++
			continue
		}
		j := i
		for j < total && !bm.Get(j) {
			j++
		}
		runs = append(runs, FreeRun{StartCluster: uint32(i + 2), Length: uint32(j - i)})
		i = j
	}

	return runs
}

// Stats computes fragmentation and free-space summary statistics from the
// walked records and their derived free runs.
func (a *AllocationAnalyzer) Stats(records []FileRecord, freeRuns []FreeRun) Statistics {
	var filesTotal, filesFragmented, maxFragments int
	var totalSize uint64
	var fragmentsSum, overFragmentSum int

	for _, rec := range records {
		if rec.IsDirectory {
			continue
		}
		filesTotal++
		if rec.Fragments > 1 {
			filesFragmented++
		}
		if rec.Fragments > maxFragments {
			maxFragments = rec.Fragments
		}
		totalSize += rec.SizeBytes
		fragmentsSum += rec.Fragments
		if rec.Fragments > 1 {
			overFragmentSum += rec.Fragments - 1
		}
	}

	var filesFragmentedPct, avgFragments float64
	if filesTotal > 0 {
		filesFragmentedPct = float64(filesFragmented) * 100 / float64(filesTotal)
		avgFragments = float64(fragmentsSum) / float64(filesTotal)
	}

	var largestFreeRun uint32
	for _, run := range freeRuns {
		if run.Length > largestFreeRun {
			largestFreeRun = run.Length
		}
	}

	denominator := fragmentsSum
	if denominator < 1 {
		denominator = 1
	}

	return Statistics{
		FilesTotal:               filesTotal,
		FilesFragmented:          filesFragmented,
		FilesFragmentedPct:       filesFragmentedPct,
		AvgFragmentsPerFile:      avgFragments,
		MaxFragments:             maxFragments,
		TotalSizeBytes:           totalSize,
		ClusterSizeBytes:         a.geom.ClusterSizeBytes,
		TotalClusters:            a.geom.TotalClusters,
		FreeRunsCount:            len(freeRuns),
		LargestFreeRunClusters:   largestFreeRun,
		LargestFreeRunBytes:      uint64(largestFreeRun) * uint64(a.geom.ClusterSizeBytes),
		VolumeFragmentationIndex: float64(overFragmentSum) / float64(denominator),
	}
}
